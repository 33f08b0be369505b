package recommend

import "github.com/fitlife/nutrio/internal/models"

// datasetMaxima caches the per-nutrient maxima used for min-max boost scaling.
// The epsilon guard keeps boosts finite when a column is all zeros.
type datasetMaxima struct {
	protein  float64
	calories float64
	fiber    float64
}

const maxGuard = 1e-6

func computeMaxima(items []*models.FoodItem) datasetMaxima {
	var m datasetMaxima
	for _, it := range items {
		if it.Protein > m.protein {
			m.protein = it.Protein
		}
		if it.Calories > m.calories {
			m.calories = it.Calories
		}
		if it.Fiber > m.fiber {
			m.fiber = it.Fiber
		}
	}
	return m
}

// goalWeight returns the multiplicative boost applied to a raw cosine
// similarity for the given item and goal. Each boost term is the item's raw
// value min-max scaled against the dataset maximum, so terms stay in [0,1].
func (e *Engine) goalWeight(item *models.FoodItem, goal models.Goal) float64 {
	m := e.maxima
	switch goal {
	case models.GoalMuscleGain:
		proteinBoost := item.Protein / (m.protein + maxGuard)
		calorieBoost := item.Calories / (m.calories + maxGuard)
		return 1 + 0.5*proteinBoost + 0.3*calorieBoost
	case models.GoalWeightLoss:
		caloriePenalty := 1 - item.Calories/(m.calories+maxGuard)
		fiberBoost := item.Fiber / (m.fiber + maxGuard)
		proteinBoost := item.Protein / (m.protein + maxGuard)
		return 1 + 0.4*caloriePenalty + 0.3*fiberBoost + 0.2*proteinBoost
	default:
		density := item.NutritionDensity
		if density == 0 {
			density = 5
		}
		return 1 + 0.3*density/10
	}
}
