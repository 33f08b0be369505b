package models

import "fmt"

// Goal is a user's training/diet objective.
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMaintenance Goal = "maintenance"
	GoalMuscleGain  Goal = "muscle_gain"
)

// Activity levels, from least to most active.
const (
	ActivitySedentary        = "sedentary"
	ActivityLightlyActive    = "lightly_active"
	ActivityModeratelyActive = "moderately_active"
	ActivityVeryActive       = "very_active"
	ActivityExtremelyActive  = "extremely_active"
)

// UserProfile holds the inputs for nutritional needs calculation.
// The core never mutates it; it is owned by the caller.
type UserProfile struct {
	WeightKg       float64 `json:"weight_kg"`
	HeightCm       float64 `json:"height_cm"`
	Age            int     `json:"age"`
	Sex            string  `json:"sex"` // "male" or "female"
	ActivityLevel  string  `json:"activity_level"`
	Goal           Goal    `json:"goal"`
	TargetWeightKg float64 `json:"target_weight_kg"`
}

// Validate checks the profile inputs. Goal and activity level fall back to
// maintenance and sedentary elsewhere, so only hard requirements fail here.
func (p *UserProfile) Validate() error {
	if p.WeightKg <= 0 {
		return fmt.Errorf("weight_kg must be positive, got %v", p.WeightKg)
	}
	if p.HeightCm <= 0 {
		return fmt.Errorf("height_cm must be positive, got %v", p.HeightCm)
	}
	if p.Age <= 0 {
		return fmt.Errorf("age must be positive, got %d", p.Age)
	}
	if p.Sex != "male" && p.Sex != "female" {
		return fmt.Errorf("sex must be %q or %q, got %q", "male", "female", p.Sex)
	}
	return nil
}

// MacroBreakdown is the per-macro split of a calorie target.
// Grams × kcal/g sums back to the target calories, except the documented case
// where protein+fat over-allocate and carbs clamp to 0.
type MacroBreakdown struct {
	ProteinG    float64 `json:"protein_g"`
	CarbsG      float64 `json:"carbs_g"`
	FatG        float64 `json:"fat_g"`
	ProteinCal  float64 `json:"protein_cal"`
	CarbsCal    float64 `json:"carbs_cal"`
	FatCal      float64 `json:"fat_cal"`
	ProteinPct  float64 `json:"protein_pct"`
	CarbsPct    float64 `json:"carbs_pct"`
	FatPct      float64 `json:"fat_pct"`
}

// NutritionalNeeds is the calculator's derived output for one profile.
// Recomputed whole whenever the profile changes.
type NutritionalNeeds struct {
	BMR             float64        `json:"bmr"`
	TDEE            float64        `json:"tdee"`
	TargetCalories  float64        `json:"target_calories"`
	Macros          MacroBreakdown `json:"macros"`
	DurationWeeks   float64        `json:"duration_weeks"`
	DurationMessage string         `json:"duration_message"`
	WaterLiters     float64        `json:"water_liters"`
	DeficitSurplus  float64        `json:"deficit_surplus"`
	Goal            Goal           `json:"goal"`
}

// Target converts daily needs into a full-day ranking target.
func (n *NutritionalNeeds) Target() *NutritionalTarget {
	return &NutritionalTarget{
		Calories: n.TargetCalories,
		Protein:  n.Macros.ProteinG,
		Carbs:    n.Macros.CarbsG,
		Fat:      n.Macros.FatG,
		Goal:     n.Goal,
	}
}

// BMIReport is the body mass index summary for a profile.
type BMIReport struct {
	BMI              float64 `json:"bmi"`
	Category         string  `json:"category"`
	Recommendation   string  `json:"recommendation"`
	HealthyWeightMin float64 `json:"healthy_weight_min"`
	HealthyWeightMax float64 `json:"healthy_weight_max"`
}

// NutritionalTarget is a calorie/macro target for one ranking call: a whole
// day, or a fraction of it for a single meal or slot. Never persisted.
type NutritionalTarget struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Goal     Goal    `json:"goal"`
}
