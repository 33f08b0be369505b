// Package models defines core data structures for foods, profiles, plans, and queries.
package models

// FoodItem is one row of the nutrition dataset, per 100g of the food.
// Items are immutable once loaded; missing nutrient fields default to 0 at ingestion.
type FoodItem struct {
	Name          string  `json:"name"`
	Calories      float64 `json:"calories"`
	Fat           float64 `json:"fat"`
	SaturatedFat  float64 `json:"saturated_fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	Sugars        float64 `json:"sugars"`
	Protein       float64 `json:"protein"`
	Fiber         float64 `json:"fiber"`
	Sodium        float64 `json:"sodium"`
	// Category and HealthScore are optional dataset columns ("" / 0 when absent).
	Category    string  `json:"category,omitempty"`
	HealthScore float64 `json:"health_score,omitempty"`
	// NutritionDensity is a 0-10 score; computed by the ranking engine when the
	// dataset does not provide one.
	NutritionDensity float64 `json:"nutrition_density,omitempty"`
	// Description is the prose rendering used for text embedding.
	Description string `json:"description,omitempty"`
}

// FeatureVector returns the item's ranking features in the fixed column order:
// calories, fat, saturated fat, carbohydrates, sugars, protein, fiber, sodium.
func (f *FoodItem) FeatureVector() []float64 {
	return []float64{
		f.Calories, f.Fat, f.SaturatedFat, f.Carbohydrates,
		f.Sugars, f.Protein, f.Fiber, f.Sodium,
	}
}

// NumFeatures is the number of ranking feature columns.
const NumFeatures = 8

// RankedFood is a FoodItem with its similarity score for one ranking call.
// MatchPercentage is normalized to the top result of the ranked set (0-100).
type RankedFood struct {
	Food            *FoodItem `json:"food"`
	SimilarityScore float64   `json:"similarity_score"`
	MatchPercentage float64   `json:"match_percentage"`
}
