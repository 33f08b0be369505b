package assistant

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fitlife/nutrio/internal/calculator"
	"github.com/fitlife/nutrio/internal/models"
	"github.com/fitlife/nutrio/internal/recommend"
)

// noProfileResponse is returned for every personalized intent until a
// profile is set.
const noProfileResponse = `Profile not configured.

For personalized recommendations, please set up your profile with:
- Weight, height, age
- Goal (weight loss / maintenance / muscle gain)
- Activity level

Once configured, I can give you tailored advice.`

// Assistant answers nutrition questions from intent patterns, the food
// table, and the user's computed needs.
type Assistant struct {
	foods  []*models.FoodItem
	engine *recommend.Engine
	logger *zap.Logger

	mu      sync.RWMutex
	profile *models.UserProfile
	needs   *models.NutritionalNeeds
}

// New creates an assistant over the engine's dataset snapshot.
func New(engine *recommend.Engine, logger *zap.Logger) *Assistant {
	return &Assistant{
		foods:  engine.Items(),
		engine: engine,
		logger: logger,
	}
}

// SetContext installs the profile and needs used to personalize answers.
func (a *Assistant) SetContext(profile *models.UserProfile, needs *models.NutritionalNeeds) {
	a.mu.Lock()
	a.profile = profile
	a.needs = needs
	a.mu.Unlock()
}

// Answer is a routed reply: the detected intent, its confidence, and the
// rendered response.
type Answer struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Response   string  `json:"response"`
}

// AnswerQuery routes the query against the stored context. See AnswerFor for
// per-request contexts.
func (a *Assistant) AnswerQuery(query string) *Answer {
	a.mu.RLock()
	profile, needs := a.profile, a.needs
	a.mu.RUnlock()
	return a.AnswerFor(query, profile, needs)
}

// AnswerFor routes the query to an intent and renders the matching template
// using the given profile and needs. Without a profile every intent gets the
// setup notice.
func (a *Assistant) AnswerFor(query string, profile *models.UserProfile, needs *models.NutritionalNeeds) *Answer {
	intent, confidence := RouteIntent(query)
	if a.logger != nil {
		a.logger.Debug("query routed",
			zap.String("intent", intent), zap.Float64("confidence", confidence))
	}

	if profile == nil || needs == nil {
		return &Answer{Intent: intent, Confidence: confidence, Response: noProfileResponse}
	}

	var response string
	switch intent {
	case IntentBreakfast:
		response = a.breakfastResponse(profile, needs)
	case IntentPostWorkout:
		response = a.postWorkoutResponse(profile)
	case IntentFoodAnalysis:
		response = a.foodAnalysisResponse(query, profile)
	case IntentHydration:
		response = a.hydrationResponse(profile)
	default:
		response = a.generalResponse(query, profile, needs)
	}
	return &Answer{Intent: intent, Confidence: confidence, Response: response}
}

// breakfastResponse suggests a breakfast sized to 25% of the daily target.
func (a *Assistant) breakfastResponse(profile *models.UserProfile, needs *models.NutritionalNeeds) string {
	const mealRatio = 0.25
	calories := needs.TargetCalories * mealRatio
	protein := needs.Macros.ProteinG * mealRatio

	var b strings.Builder
	switch profile.Goal {
	case models.GoalWeightLoss:
		fmt.Fprintf(&b, "Breakfast for weight loss\n\nTarget: %.0f kcal | %.0fg protein\n\n", calories, protein)
		b.WriteString(`Suggestions:
1. Classic protein option:
   - 3 egg whites + 1 whole egg, scrambled
   - 40g rolled oats
   - 1 apple
   - Coffee or tea, unsweetened

2. Yogurt option:
   - 200g nonfat Greek yogurt
   - 30g homemade granola
   - 100g berries
   - 10 almonds

3. Smoothie option:
   - 30g whey protein
   - 1 banana
   - 100g spinach
   - 200ml almond milk
   - 1 tbsp almond butter

Key principles:
- High protein for lasting satiety
- Fiber to steady blood sugar
- Low added sugar
- Stay hydrated`)
	case models.GoalMuscleGain:
		fmt.Fprintf(&b, "Breakfast for muscle gain\n\nTarget: %.0f kcal | %.0fg protein\n\n", calories, protein)
		b.WriteString(`Suggestions:
1. Full plate:
   - 4 whole eggs
   - 80g rolled oats with honey
   - 2 slices whole grain bread with peanut butter
   - 1 banana
   - Orange juice

2. Pancake option:
   - 100g protein pancakes (oats + eggs + whey)
   - Maple syrup
   - 30g almonds
   - 200ml whole milk

Timing: within an hour of waking to kick-start the day.`)
	default:
		fmt.Fprintf(&b, "Balanced breakfast\n\nTarget: %.0f kcal | %.0fg protein\n\n", calories, protein)
		b.WriteString(`Balanced option:
- 2 eggs + 50g ham
- 2 slices whole grain bread
- 1 serving of fruit
- 1 dairy serving
- Hot drink`)
	}
	return b.String()
}

func (a *Assistant) postWorkoutResponse(profile *models.UserProfile) string {
	w := profile.WeightKg
	return fmt.Sprintf(`Post-workout nutrition

Anabolic window (0-30 min), after intense sessions over 60 min:
- 20-40g fast protein (whey, chicken breast)
- 0.5-1g/kg carbs depending on goal:
  * Weight loss: 0.5g/kg (%.0fkg -> %.0fg)
  * Muscle gain: 1g/kg (%.0fkg -> %.0fg)

Quick shake option:
- 30g whey protein
- 1-2 bananas
- 300ml water or milk

Solid meal option (30-60 min):
- 150g chicken or fish
- 100-200g rice or sweet potato
- Vegetables as desired

Hydration:
- At least 500ml water with electrolytes
- Keep drinking regularly through the day`,
		w, w*0.5, w, w*1.0)
}

func (a *Assistant) foodAnalysisResponse(query string, profile *models.UserProfile) string {
	food := a.extractFood(query)
	if food == nil {
		return `Food not recognized.

I could not identify a food in your question.

Try: "Analyze the benefits of chicken for my goal"

Available foods include chicken, salmon, rice, oats, eggs, and more.`
	}

	timing := "Any time of day"
	if food.Protein > 20 {
		timing = "Ideal post-workout"
	}

	altNames := "N/A"
	if alts := a.engine.FindAlternatives(food.Name, 3, profile.Goal); len(alts) > 0 {
		names := make([]string, len(alts))
		for i, alt := range alts {
			names[i] = alt.Food.Name
		}
		altNames = strings.Join(names, ", ")
	}

	return fmt.Sprintf(`Nutritional analysis of %s

Per 100g:
- Calories: %.0f kcal
- Protein: %.1fg (%s)
- Carbs: %.1fg
- Fat: %.1fg
- Fiber: %.1fg (%s)

Fit for your goal (%s):
%s

When to eat it: %s

Similar alternatives: %s`,
		food.Name,
		food.Calories,
		food.Protein, rateProtein(food.Protein),
		food.Carbohydrates,
		food.Fat,
		food.Fiber, rateFiber(food.Fiber),
		profile.Goal,
		analyzeForGoal(food, profile.Goal),
		timing,
		altNames)
}

func (a *Assistant) hydrationResponse(profile *models.UserProfile) string {
	water := calculator.WaterLiters(profile.WeightKg, profile.ActivityLevel)
	return fmt.Sprintf(`Daily hydration

Estimated need: %.1f liters/day
(Based on %.0fkg body weight and %s activity)

Suggested spread:
- On waking: 300-500ml
- Before meals: 200ml
- During training: 150-200ml every 15 min
- After training: 150%% of sweat losses
- Between meals: sip regularly

Signs of dehydration: dark urine, fatigue, headaches, performance drop.

Increase intake in hot weather, during intense training, or with heavy sweating.`,
		water, profile.WeightKg, profile.ActivityLevel)
}

func (a *Assistant) generalResponse(query string, profile *models.UserProfile, needs *models.NutritionalNeeds) string {
	var goalLine string
	switch profile.Goal {
	case models.GoalWeightLoss:
		goalLine = "- Keep a moderate calorie deficit (about 15%)\n"
	case models.GoalMuscleGain:
		goalLine = "- Keep a controlled calorie surplus (about +15%)\n"
	}
	return fmt.Sprintf(`I understand your question about: %s

General advice for your goal (%s):

%s- Protein: at least %.0fg/day
- Hydration: %.1fL/day
- Sleep: 7-9 hours a night

Suggested questions:
- "Suggest a breakfast"
- "What should I eat after training?"
- "Analyze salmon for my goal"`,
		query, profile.Goal, goalLine, needs.Macros.ProteinG, profile.WeightKg*0.033)
}

// foodKeywords maps common query words to dataset lookups when no full food
// name appears in the query.
var foodKeywords = []string{
	"chicken", "salmon", "rice", "oat", "egg", "banana",
	"broccoli", "quinoa", "almond", "yogurt", "tuna", "tofu",
	"lentil", "spinach", "avocado", "potato",
}

// extractFood finds a dataset food mentioned in the query: full-name
// substring first, then common keyword lookup.
func (a *Assistant) extractFood(query string) *models.FoodItem {
	q := strings.ToLower(query)
	for _, f := range a.foods {
		if strings.Contains(q, strings.ToLower(f.Name)) {
			return f
		}
	}
	for _, kw := range foodKeywords {
		if !strings.Contains(q, kw) {
			continue
		}
		for _, f := range a.foods {
			if strings.Contains(strings.ToLower(f.Name), kw) {
				return f
			}
		}
	}
	return nil
}

func rateProtein(v float64) string {
	switch {
	case v >= 20:
		return "excellent source"
	case v >= 10:
		return "good source"
	default:
		return "moderate source"
	}
}

func rateFiber(v float64) string {
	switch {
	case v >= 5:
		return "rich in fiber"
	case v >= 2:
		return "contains fiber"
	default:
		return "low in fiber"
	}
}

func analyzeForGoal(f *models.FoodItem, goal models.Goal) string {
	switch goal {
	case models.GoalWeightLoss:
		verdict := "LIMIT"
		density := "high"
		if f.Calories < 150 {
			verdict = "EXCELLENT"
			density = "low"
		} else if f.Calories < 300 {
			verdict = "MODERATE"
			density = "moderate"
		}
		satiety := "average"
		if f.Protein > 15 || f.Fiber > 5 {
			satiety = "high"
		}
		advice := "Controlled portions"
		if f.Calories < 150 {
			advice = "Eat regularly"
		}
		return fmt.Sprintf("%s for weight loss\n- Calorie density: %s\n- Satiety: %s\n- Recommendation: %s",
			verdict, density, satiety, advice)
	case models.GoalMuscleGain:
		verdict := "SUPPLEMENT"
		if f.Calories > 200 && f.Protein > 15 {
			verdict = "EXCELLENT"
		} else if f.Calories > 100 {
			verdict = "GOOD"
		}
		density := "moderate (fine)"
		if f.Calories > 200 {
			density = "high (ideal)"
		}
		proteinNote := "moderate"
		advice := "Pair with a protein source"
		if f.Protein > 20 {
			proteinNote = "high (anabolic)"
			advice = "A staple for your diet"
		}
		return fmt.Sprintf("%s for muscle gain\n- Calorie density: %s\n- Protein: %s\n- Recommendation: %s",
			verdict, density, proteinNote, advice)
	default:
		balance := "good"
		if f.NutritionDensity > 7 {
			balance = "excellent"
		}
		return fmt.Sprintf("Compatible with maintenance\n- Nutritional balance: %s\n- Recommendation: include in a varied diet",
			balance)
	}
}
