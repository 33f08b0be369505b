package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/fitlife/nutrio/internal/models"
	"github.com/fitlife/nutrio/pkg/utils"
)

// Engine ranks foods against a nutritional target. It is fitted once at
// construction over an immutable dataset snapshot: the feature matrix,
// normalization statistics, and boost maxima are computed then and are
// read-only afterwards, so concurrent queries are safe.
type Engine struct {
	items  []*models.FoodItem
	scaled [][]float64
	scaler *StandardScaler
	maxima datasetMaxima
}

// Options filters one recommendation call. Zero values mean no restriction.
type Options struct {
	ExcludeNames []string
	MinProtein   float64
	MaxCalories  float64
}

// NewEngine builds the feature matrix from the fixed nutrient columns, fits
// the standard scaler, and fills in nutrition density scores when the dataset
// does not carry any.
func NewEngine(items []*models.FoodItem) *Engine {
	matrix := make([][]float64, len(items))
	for i, it := range items {
		matrix[i] = it.FeatureVector()
	}
	scaler := FitScaler(matrix, models.NumFeatures)
	scaled := make([][]float64, len(items))
	for i, row := range matrix {
		scaled[i] = scaler.Transform(row)
	}

	e := &Engine{
		items:  items,
		scaled: scaled,
		scaler: scaler,
		maxima: computeMaxima(items),
	}
	if !hasDensity(items) {
		for _, it := range items {
			it.NutritionDensity = nutritionDensity(it)
		}
	}
	return e
}

// Size returns the number of foods in the fitted snapshot.
func (e *Engine) Size() int {
	return len(e.items)
}

// Items returns the dataset snapshot the engine was fitted on.
func (e *Engine) Items() []*models.FoodItem {
	return e.items
}

func hasDensity(items []*models.FoodItem) bool {
	for _, it := range items {
		if it.NutritionDensity != 0 {
			return true
		}
	}
	return false
}

// nutritionDensity scores an item 0-10 from beneficial nutrients (protein,
// fiber) versus ones to limit (saturated fat, sugars), each per calorie.
// All per-calorie terms are 0 when calories is 0.
func nutritionDensity(it *models.FoodItem) float64 {
	if it.Calories <= 0 {
		return 0
	}
	score := (it.Protein/it.Calories)*100 +
		(it.Fiber/it.Calories)*50 -
		(it.SaturatedFat/it.Calories)*30 -
		(it.Sugars/it.Calories)*20
	return utils.Clamp(score*2, 0, 10)
}

// targetVector converts a day- or meal-level target into per-100g feature
// space. Saturated fat defaults to 30% of fat, sugars to 15% of carbs; fiber
// and sodium use fixed recommended values (25 g, 2000 mg).
func targetVector(target *models.NutritionalTarget) []float64 {
	return []float64{
		target.Calories / 100,
		target.Fat / 100,
		target.Fat * 0.3 / 100,
		target.Carbs / 100,
		target.Carbs * 0.15 / 100,
		target.Protein / 100,
		25.0 / 100,
		2000.0 / 100,
	}
}

// Recommend returns the top-n foods for the target, after goal re-weighting
// and filtering. Ties keep dataset order; results carry MatchPercentage
// normalized to the best item of the returned set. An empty dataset or an
// all-filtered pool yields an empty slice, never an error.
func (e *Engine) Recommend(target *models.NutritionalTarget, n int, opts Options) []*models.RankedFood {
	if len(e.items) == 0 || n <= 0 {
		return nil
	}

	profile := e.scaler.Transform(targetVector(target))

	excluded := make(map[string]bool, len(opts.ExcludeNames))
	for _, name := range opts.ExcludeNames {
		excluded[name] = true
	}
	maxCalories := opts.MaxCalories
	if maxCalories <= 0 {
		maxCalories = math.Inf(1)
	}

	candidates := make([]*models.RankedFood, 0, len(e.items))
	for i, it := range e.items {
		if excluded[it.Name] || it.Protein < opts.MinProtein || it.Calories > maxCalories {
			continue
		}
		sim := CosineSimilarity(profile, e.scaled[i])
		candidates = append(candidates, &models.RankedFood{
			Food:            it,
			SimilarityScore: sim * e.goalWeight(it, target.Goal),
		})
	}
	return rank(candidates, n)
}

// FindAlternatives returns the top-n foods most similar to the first dataset
// item whose name contains foodName (case-insensitive). The source item is
// excluded; goal re-weighting applies when goal is non-empty. An unknown food
// yields an empty slice, not an error.
func (e *Engine) FindAlternatives(foodName string, n int, goal models.Goal) []*models.RankedFood {
	srcIdx := -1
	needle := strings.ToLower(foodName)
	for i, it := range e.items {
		if strings.Contains(strings.ToLower(it.Name), needle) {
			srcIdx = i
			break
		}
	}
	if srcIdx < 0 || n <= 0 {
		return nil
	}

	source := e.scaled[srcIdx]
	candidates := make([]*models.RankedFood, 0, len(e.items)-1)
	for i, it := range e.items {
		if i == srcIdx {
			continue
		}
		sim := CosineSimilarity(source, e.scaled[i])
		if goal != "" {
			sim *= e.goalWeight(it, goal)
		}
		candidates = append(candidates, &models.RankedFood{
			Food:            it,
			SimilarityScore: sim,
		})
	}
	return rank(candidates, n)
}

// rank sorts candidates by weighted similarity descending (stable, so ties
// keep dataset order), truncates to n, and attaches match percentages
// relative to the set's best score.
func rank(candidates []*models.RankedFood, n int) []*models.RankedFood {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].SimilarityScore > candidates[j].SimilarityScore
	})
	if n < len(candidates) {
		candidates = candidates[:n]
	}
	if len(candidates) == 0 {
		return candidates
	}
	best := candidates[0].SimilarityScore
	for _, c := range candidates {
		if best > 0 {
			c.MatchPercentage = utils.Round1(c.SimilarityScore / best * 100)
		} else {
			c.MatchPercentage = 0
		}
	}
	return candidates
}
