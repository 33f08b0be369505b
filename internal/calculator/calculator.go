// Package calculator derives calorie and macronutrient targets from a user profile.
// All functions are pure; ComputeNeeds is the entry point external callers use.
package calculator

import (
	"math"
	"strings"

	"github.com/fitlife/nutrio/internal/models"
	"github.com/fitlife/nutrio/pkg/utils"
)

// activityFactors are the Harris-Benedict multipliers applied to BMR.
var activityFactors = map[string]float64{
	models.ActivitySedentary:        1.2,
	models.ActivityLightlyActive:    1.375,
	models.ActivityModeratelyActive: 1.55,
	models.ActivityVeryActive:       1.725,
	models.ActivityExtremelyActive:  1.9,
}

// goalAdjustments scale TDEE into a target: -15% for loss, +15% for gain.
var goalAdjustments = map[models.Goal]float64{
	models.GoalWeightLoss:  0.85,
	models.GoalMaintenance: 1.0,
	models.GoalMuscleGain:  1.15,
}

// BMR computes basal metabolic rate (Mifflin-St Jeor) in kcal/day.
func BMR(weightKg, heightCm float64, age int, sex string) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if strings.EqualFold(sex, "male") {
		bmr += 5
	} else {
		bmr -= 161
	}
	return utils.Round2(bmr)
}

// TDEE computes total daily energy expenditure from BMR and activity level.
// Unknown activity levels default to sedentary (1.2).
func TDEE(bmr float64, activityLevel string) float64 {
	factor, ok := activityFactors[activityLevel]
	if !ok {
		factor = 1.2
	}
	return utils.Round2(bmr * factor)
}

// TargetCalories adjusts TDEE for the goal. Unknown goals default to 1.0.
func TargetCalories(tdee float64, goal models.Goal) float64 {
	adjustment, ok := goalAdjustments[goal]
	if !ok {
		adjustment = 1.0
	}
	return utils.Round2(tdee * adjustment)
}

// Macros splits target calories into protein/carbs/fat.
// Protein is weight-based (2.0 g/kg for gain and loss, 1.8 otherwise), fat is
// 27% of calories, carbs take the remainder. When protein+fat calories exceed
// the target, carbs clamp to 0 and the over-allocation is not redistributed.
func Macros(calories, weightKg float64, goal models.Goal) models.MacroBreakdown {
	proteinG := weightKg * 1.8
	if goal == models.GoalMuscleGain || goal == models.GoalWeightLoss {
		proteinG = weightKg * 2.0
	}
	proteinCal := proteinG * 4

	fatCal := calories * 0.27
	fatG := fatCal / 9

	carbsCal := calories - proteinCal - fatCal
	carbsG := carbsCal / 4

	if calories <= 0 {
		calories = 1 // percentage denominator guard for degenerate profiles
	}
	return models.MacroBreakdown{
		ProteinG:   utils.Round1(proteinG),
		CarbsG:     utils.Round1(math.Max(0, carbsG)),
		FatG:       utils.Round1(fatG),
		ProteinCal: utils.Round1(proteinCal),
		CarbsCal:   utils.Round1(math.Max(0, carbsCal)),
		FatCal:     utils.Round1(fatCal),
		ProteinPct: utils.Round1(proteinCal / calories * 100),
		CarbsPct:   utils.Round1(math.Max(0, carbsCal) / calories * 100),
		FatPct:     utils.Round1(fatCal / calories * 100),
	}
}

// EstimateDuration returns the weeks needed to reach the target weight at a
// healthy rate (0.75 kg/wk loss, 0.375 kg/wk gain) plus an explanatory message.
// Differences under 0.5 kg, and the maintenance goal, return 0 weeks.
func EstimateDuration(currentWeight, targetWeight float64, goal models.Goal) (float64, string) {
	diff := math.Abs(currentWeight - targetWeight)
	if diff < 0.5 {
		return 0, "You are already at your target weight"
	}
	switch goal {
	case models.GoalWeightLoss:
		return utils.Round1(diff / 0.75), "Recommended loss: 0.75 kg/week (sustainable)"
	case models.GoalMuscleGain:
		return utils.Round1(diff / 0.375), "Recommended gain: 0.375 kg/week (lean growth)"
	default:
		return 0, "Maintenance goal - no duration to estimate"
	}
}

// WaterLiters computes the daily water target: 33 ml/kg, scaled 1.2x for
// active levels and a further 1.3x for very/extremely active levels.
func WaterLiters(weightKg float64, activityLevel string) float64 {
	water := weightKg * 0.033
	level := strings.ToLower(activityLevel)
	if strings.Contains(level, "active") {
		water *= 1.2
	}
	if strings.Contains(level, "very") || strings.Contains(level, "extremely") {
		water *= 1.3
	}
	return utils.Round1(water)
}

// ComputeNeeds derives the full NutritionalNeeds for a profile.
func ComputeNeeds(profile *models.UserProfile) *models.NutritionalNeeds {
	bmr := BMR(profile.WeightKg, profile.HeightCm, profile.Age, profile.Sex)
	tdee := TDEE(bmr, profile.ActivityLevel)
	target := TargetCalories(tdee, profile.Goal)
	macros := Macros(target, profile.WeightKg, profile.Goal)
	weeks, msg := EstimateDuration(profile.WeightKg, profile.TargetWeightKg, profile.Goal)
	water := WaterLiters(profile.WeightKg, profile.ActivityLevel)

	return &models.NutritionalNeeds{
		BMR:             bmr,
		TDEE:            tdee,
		TargetCalories:  target,
		Macros:          macros,
		DurationWeeks:   weeks,
		DurationMessage: msg,
		WaterLiters:     water,
		DeficitSurplus:  utils.Round2(target - tdee),
		Goal:            profile.Goal,
	}
}

// BMIFor computes the body mass index report for a profile.
func BMIFor(profile *models.UserProfile) *models.BMIReport {
	heightM := profile.HeightCm / 100
	if heightM <= 0 {
		return &models.BMIReport{}
	}
	bmi := profile.WeightKg / (heightM * heightM)

	var category, recommendation string
	switch {
	case bmi < 18.5:
		category, recommendation = "Underweight", "Consult a nutritionist"
	case bmi < 25:
		category, recommendation = "Normal weight", "Keep up your current habits"
	case bmi < 30:
		category, recommendation = "Overweight", "Increase physical activity"
	default:
		category, recommendation = "Obese", "Consult a health professional"
	}

	return &models.BMIReport{
		BMI:              utils.Round1(bmi),
		Category:         category,
		Recommendation:   recommendation,
		HealthyWeightMin: utils.Round1(18.5 * heightM * heightM),
		HealthyWeightMax: utils.Round1(25 * heightM * heightM),
	}
}
