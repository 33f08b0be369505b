// Package assistant answers conversational nutrition questions with rule
// based intent detection and templated responses personalized from the
// user's profile and computed needs.
package assistant

import "regexp"

// Intent names returned by RouteIntent.
const (
	IntentBreakfast    = "breakfast"
	IntentPostWorkout  = "post_workout"
	IntentCalories     = "calories"
	IntentProtein      = "protein"
	IntentWeightLoss   = "weight_loss"
	IntentMuscleGain   = "muscle_gain"
	IntentFoodAnalysis = "food_analysis"
	IntentAlternatives = "alternatives"
	IntentHydration    = "hydration"
	IntentVitamins     = "vitamins"
	IntentRecipe       = "recipe"
	IntentPortion      = "portion"
	IntentTiming       = "timing"
	IntentGeneral      = "general"
)

type intentPattern struct {
	intent  string
	pattern *regexp.Regexp
}

// Patterns are checked in order; the first match wins, so more specific
// intents come before broader ones.
var intentPatterns = []intentPattern{
	{IntentBreakfast, regexp.MustCompile(`(?i)(breakfast|morning meal)`)},
	{IntentPostWorkout, regexp.MustCompile(`(?i)(post[- ]workout|after (training|exercise|workout|the gym))`)},
	{IntentCalories, regexp.MustCompile(`(?i)(calorie|kcal|energy)`)},
	{IntentProtein, regexp.MustCompile(`(?i)protein`)},
	{IntentWeightLoss, regexp.MustCompile(`(?i)(lose weight|weight loss|slim|get lean)`)},
	{IntentMuscleGain, regexp.MustCompile(`(?i)(gain (muscle|mass)|muscle|bulk|hypertrophy)`)},
	{IntentFoodAnalysis, regexp.MustCompile(`(?i)(analy[sz]e|benefit|propert)`)},
	{IntentAlternatives, regexp.MustCompile(`(?i)(alternat|replac|substitut)`)},
	{IntentHydration, regexp.MustCompile(`(?i)(water|hydrat|drink)`)},
	{IntentVitamins, regexp.MustCompile(`(?i)(vitamin|nutrient|mineral)`)},
	{IntentRecipe, regexp.MustCompile(`(?i)(recipe|prepar|cook)`)},
	{IntentPortion, regexp.MustCompile(`(?i)(portion|quantity|how (much|many))`)},
	{IntentTiming, regexp.MustCompile(`(?i)(when|what time|timing)`)},
}

// RouteIntent classifies a query. Pattern matches carry high confidence;
// anything else falls through to the general intent at low confidence.
func RouteIntent(query string) (string, float64) {
	for _, p := range intentPatterns {
		if p.pattern.MatchString(query) {
			return p.intent, 0.9
		}
	}
	return IntentGeneral, 0.5
}
