package mealplan

import "github.com/fitlife/nutrio/internal/models"

// Slot categories used by meal templates. Foods are bucketed by macro
// thresholds at planner construction; one food can live in several buckets.
const (
	catProtein    = "protein"
	catCarb       = "carb"
	catVegetable  = "vegetable"
	catFruit      = "fruit"
	catStarch     = "starch"
	catFat        = "fat"
	catBeverage   = "beverage"
	catFruitsNuts = "fruit/nuts"
)

// mealNames in day order. A day plan takes the first MealsPerDay of them.
var mealNames = []string{
	"Breakfast",
	"Morning Snack",
	"Lunch",
	"Afternoon Snack",
	"Dinner",
	"Evening Snack",
}

// mealCalorieRatios splits the daily calorie target across meals.
var mealCalorieRatios = map[string]float64{
	"Breakfast":       0.25,
	"Morning Snack":   0.10,
	"Lunch":           0.30,
	"Afternoon Snack": 0.10,
	"Dinner":          0.25,
	"Evening Snack":   0.10,
}

// mealTemplate describes the slot structure of one meal: which food category
// each slot wants and what share of the meal's calories it gets.
type mealTemplate struct {
	structure []string
	portions  []float64
}

var mealTemplates = map[string]mealTemplate{
	"Breakfast": {
		structure: []string{catProtein, catCarb, catFruit, catBeverage},
		portions:  []float64{0.40, 0.40, 0.15, 0.05},
	},
	"Lunch": {
		structure: []string{catProtein, catStarch, catVegetable, catFat},
		portions:  []float64{0.40, 0.30, 0.25, 0.05},
	},
	"Dinner": {
		structure: []string{catProtein, catVegetable, catStarch, catFat},
		portions:  []float64{0.35, 0.35, 0.25, 0.05},
	},
	"Snack": {
		structure: []string{catProtein, catFruitsNuts},
		portions:  []float64{0.60, 0.40},
	},
}

var snackNames = map[string]bool{
	"Morning Snack":   true,
	"Afternoon Snack": true,
	"Evening Snack":   true,
}

// templateFor resolves a meal name to its template. Snacks share one
// template; anything unrecognized gets the Lunch structure.
func templateFor(mealName string) mealTemplate {
	if snackNames[mealName] {
		return mealTemplates["Snack"]
	}
	if t, ok := mealTemplates[mealName]; ok {
		return t
	}
	return mealTemplates["Lunch"]
}

// categorize buckets foods by macro profile per 100 g. Thresholds:
// protein-rich above 15 g protein, starches above 50 g carbs with real fiber,
// vegetables under 50 kcal and 10 g carbs, fruits sugary and fibrous, fats
// above 40 g lipids, general carbs above 20 g.
func categorize(items []*models.FoodItem) map[string][]string {
	cats := map[string][]string{
		catProtein:    nil,
		catCarb:       nil,
		catVegetable:  nil,
		catFruit:      nil,
		catStarch:     nil,
		catFat:        nil,
		catBeverage:   nil,
		catFruitsNuts: nil,
	}
	for _, it := range items {
		if it.Protein > 15 {
			cats[catProtein] = append(cats[catProtein], it.Name)
		}
		if it.Carbohydrates > 50 && it.Fiber > 2 {
			cats[catStarch] = append(cats[catStarch], it.Name)
			cats[catCarb] = append(cats[catCarb], it.Name)
		}
		if it.Calories < 50 && it.Carbohydrates < 10 {
			cats[catVegetable] = append(cats[catVegetable], it.Name)
		}
		if it.Sugars > 8 && it.Fiber > 1.5 {
			cats[catFruit] = append(cats[catFruit], it.Name)
			cats[catFruitsNuts] = append(cats[catFruitsNuts], it.Name)
		}
		if it.Fat > 40 {
			cats[catFat] = append(cats[catFat], it.Name)
			cats[catFruitsNuts] = append(cats[catFruitsNuts], it.Name)
		}
		if it.Carbohydrates > 20 {
			cats[catCarb] = append(cats[catCarb], it.Name)
		}
	}
	return cats
}
