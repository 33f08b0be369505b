package models

// MealComponent is one filled slot: a food item and its portion in grams.
type MealComponent struct {
	Food     *FoodItem `json:"food"`
	PortionG float64   `json:"portion_g"`
}

// Meal is a named collection of components with aggregated nutrients.
// Aggregates always equal the sum of the component contributions; a slot that
// cannot be filled is omitted and the meal continues with fewer components.
type Meal struct {
	Name       string          `json:"name"`
	Components []MealComponent `json:"components"`
	Calories   float64         `json:"calories"`
	Protein    float64         `json:"protein"`
	Carbs      float64         `json:"carbs"`
	Fat        float64         `json:"fat"`
}

// DayPlan maps meal name to meal for one day, keeping meal order.
type DayPlan struct {
	Day   string  `json:"day"`
	Meals []*Meal `json:"meals"`
}

// WeekPlan is an ordered list of day plans for one generation request.
// Immutable once returned.
type WeekPlan struct {
	Days []*DayPlan `json:"days"`
}

// PlanPreferences controls meal plan generation.
type PlanPreferences struct {
	MealsPerDay int `json:"meals_per_day"`
	VarietyDays int `json:"variety_days"`
}

// PlanStats aggregates a generated week plan.
type PlanStats struct {
	AvgDailyCalories float64 `json:"avg_daily_calories"`
	AvgDailyProtein  float64 `json:"avg_daily_protein"`
	AvgDailyCarbs    float64 `json:"avg_daily_carbs"`
	AvgDailyFat      float64 `json:"avg_daily_fat"`
	UniqueFoods      int     `json:"unique_foods"`
	VarietyScore     float64 `json:"variety_score"`
}

// DisplayMeal is a meal formatted for display: portion strings and
// integer-rounded totals.
type DisplayMeal struct {
	Name     string   `json:"name"`
	Foods    []string `json:"foods"`
	Calories int      `json:"calories"`
	Protein  int      `json:"protein"`
	Carbs    int      `json:"carbs"`
	Fat      int      `json:"fat"`
}

// DisplayDay is one day of a formatted plan.
type DisplayDay struct {
	Day   string        `json:"day"`
	Meals []DisplayMeal `json:"meals"`
}
