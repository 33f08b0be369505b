package mealplan

import (
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/fitlife/nutrio/internal/models"
	"github.com/fitlife/nutrio/internal/recommend"
)

var weekDays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Planner assembles meal plans from templates, filling each slot through the
// recommendation engine. The rand source is injected so generation can be
// made deterministic in tests.
type Planner struct {
	engine     *recommend.Engine
	foods      map[string]*models.FoodItem
	categories map[string][]string
	rng        *rand.Rand
	logger     *zap.Logger
}

// NewPlanner builds a planner over the engine's dataset snapshot. Foods are
// bucketed into slot categories once here.
func NewPlanner(engine *recommend.Engine, rng *rand.Rand, logger *zap.Logger) *Planner {
	items := engine.Items()
	foods := make(map[string]*models.FoodItem, len(items))
	for _, it := range items {
		foods[it.Name] = it
	}
	return &Planner{
		engine:     engine,
		foods:      foods,
		categories: categorize(items),
		rng:        rng,
		logger:     logger,
	}
}

// selectForSlot picks one food for a template slot: top-20 recommendations
// minus foods already used today, narrowed to the slot's category when that
// leaves anything, then a random pick among the best 5. Returns nil when the
// pool is empty. Portion is capped at 250 g; calorie-free foods get 100 g.
func (p *Planner) selectForSlot(category string, slotCalories float64, target *models.NutritionalTarget, usedToday []string) (*models.FoodItem, float64) {
	recs := p.engine.Recommend(target, 20, recommend.Options{ExcludeNames: usedToday})
	if len(recs) == 0 {
		return nil, 0
	}

	if catNames := p.categories[category]; len(catNames) > 0 {
		inCat := make(map[string]bool, len(catNames))
		for _, n := range catNames {
			inCat[n] = true
		}
		filtered := recs[:0:0]
		for _, r := range recs {
			if inCat[r.Food.Name] {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) > 0 {
			recs = filtered
		}
	}

	top := recs
	if len(top) > 5 {
		top = top[:5]
	}
	selected := top[p.rng.Intn(len(top))].Food

	portion := 100.0
	if selected.Calories > 0 {
		portion = slotCalories / selected.Calories * 100
		if portion > 250 {
			portion = 250
		}
	}
	return selected, portion
}

// GenerateMeal fills one meal from its template. usedToday is extended with
// every food placed, so later meals of the same day avoid repeats. Slots the
// engine cannot fill are skipped.
func (p *Planner) GenerateMeal(mealName string, calorieTarget float64, target *models.NutritionalTarget, usedToday *[]string) *models.Meal {
	tmpl := templateFor(mealName)
	meal := &models.Meal{Name: mealName}

	for i, category := range tmpl.structure {
		ratio := tmpl.portions[i]
		slotTarget := &models.NutritionalTarget{
			Calories: calorieTarget * ratio,
			Protein:  target.Protein * ratio,
			Carbs:    target.Carbs * ratio,
			Fat:      target.Fat * ratio,
			Goal:     target.Goal,
		}
		food, portion := p.selectForSlot(category, slotTarget.Calories, slotTarget, *usedToday)
		if food == nil {
			continue
		}

		factor := portion / 100
		meal.Components = append(meal.Components, models.MealComponent{Food: food, PortionG: portion})
		meal.Calories += food.Calories * factor
		meal.Protein += food.Protein * factor
		meal.Carbs += food.Carbohydrates * factor
		meal.Fat += food.Fat * factor
		*usedToday = append(*usedToday, food.Name)
	}
	return meal
}

// GenerateDayPlan builds one day from the needs and preferences: the first
// MealsPerDay meal names, each meal scaled by its calorie ratio. Repeats are
// avoided within a day only; across days variety comes from randomization.
func (p *Planner) GenerateDayPlan(dayName string, needs *models.NutritionalNeeds, prefs models.PlanPreferences) *models.DayPlan {
	n := prefs.MealsPerDay
	if n <= 0 || n > len(mealNames) {
		n = len(mealNames)
	}

	day := &models.DayPlan{Day: dayName}
	var usedToday []string
	for _, mealName := range mealNames[:n] {
		ratio, ok := mealCalorieRatios[mealName]
		if !ok {
			ratio = 0.25
		}
		target := &models.NutritionalTarget{
			Calories: needs.TargetCalories * ratio,
			Protein:  needs.Macros.ProteinG * ratio,
			Carbs:    needs.Macros.CarbsG * ratio,
			Fat:      needs.Macros.FatG * ratio,
			Goal:     needs.Goal,
		}
		meal := p.GenerateMeal(mealName, target.Calories, target, &usedToday)
		day.Meals = append(day.Meals, meal)
	}
	return day
}

// GenerateWeekPlan builds VarietyDays consecutive day plans, Monday first.
func (p *Planner) GenerateWeekPlan(needs *models.NutritionalNeeds, prefs models.PlanPreferences) *models.WeekPlan {
	n := prefs.VarietyDays
	if n <= 0 || n > len(weekDays) {
		n = len(weekDays)
	}

	week := &models.WeekPlan{}
	for i := 0; i < n; i++ {
		day := p.GenerateDayPlan(weekDays[i], needs, prefs)
		week.Days = append(week.Days, day)
	}
	if p.logger != nil {
		p.logger.Info("week plan generated",
			zap.Int("days", len(week.Days)),
			zap.Float64("target_calories", needs.TargetCalories))
	}
	return week
}

// Stats aggregates a week plan into daily averages and a variety score.
// The variety denominator assumes four meals a day, matching the default
// preference.
func Stats(week *models.WeekPlan) *models.PlanStats {
	stats := &models.PlanStats{}
	if week == nil || len(week.Days) == 0 {
		return stats
	}

	unique := make(map[string]bool)
	for _, day := range week.Days {
		for _, meal := range day.Meals {
			stats.AvgDailyCalories += meal.Calories
			stats.AvgDailyProtein += meal.Protein
			stats.AvgDailyCarbs += meal.Carbs
			stats.AvgDailyFat += meal.Fat
			for _, c := range meal.Components {
				unique[c.Food.Name] = true
			}
		}
	}

	days := float64(len(week.Days))
	stats.AvgDailyCalories /= days
	stats.AvgDailyProtein /= days
	stats.AvgDailyCarbs /= days
	stats.AvgDailyFat /= days
	stats.UniqueFoods = len(unique)
	stats.VarietyScore = float64(len(unique)) / (days * 4) * 100
	return stats
}

// FormatForDisplay flattens a week plan into display rows: "Food (120g)"
// strings and integer-truncated macro totals.
func FormatForDisplay(week *models.WeekPlan) []models.DisplayDay {
	out := make([]models.DisplayDay, 0, len(week.Days))
	for _, day := range week.Days {
		d := models.DisplayDay{Day: day.Day}
		for _, meal := range day.Meals {
			dm := models.DisplayMeal{
				Name:     meal.Name,
				Calories: int(meal.Calories),
				Protein:  int(meal.Protein),
				Carbs:    int(meal.Carbs),
				Fat:      int(meal.Fat),
			}
			for _, c := range meal.Components {
				dm.Foods = append(dm.Foods, fmt.Sprintf("%s (%.0fg)", c.Food.Name, c.PortionG))
			}
			d.Meals = append(d.Meals, dm)
		}
		out = append(out, d)
	}
	return out
}

// RenderText renders a formatted plan as plain text for CLI output.
func RenderText(days []models.DisplayDay) string {
	var b strings.Builder
	for _, day := range days {
		fmt.Fprintf(&b, "=== %s ===\n", day.Day)
		for _, meal := range day.Meals {
			fmt.Fprintf(&b, "%s (%d kcal, %dg protein, %dg carbs, %dg fat)\n",
				meal.Name, meal.Calories, meal.Protein, meal.Carbs, meal.Fat)
			for _, f := range meal.Foods {
				fmt.Fprintf(&b, "  - %s\n", f)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
