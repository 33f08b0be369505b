package e2e

import (
	"fmt"
	"strings"
)

// QueryCase pairs a natural language query with food names that a correct
// retrieval run must surface.
type QueryCase struct {
	Description   string
	Query         string
	ExpectedFoods []string
}

// Corpus is a fixed food table with query test cases over it. The table is
// rendered as CSV and loaded through the dataset loader so the indexed text
// is exactly what production indexing would see.
type Corpus struct {
	TestCases []QueryCase
}

type corpusRow struct {
	name     string
	category string
	calories float64
	fat      float64
	carbs    float64
	sugars   float64
	protein  float64
	fiber    float64
	sodium   float64
}

var corpusRows = []corpusRow{
	{"Grilled Chicken Breast", "protein", 165, 3.6, 0, 0, 31, 0, 74},
	{"Salmon Fillet", "protein", 208, 13, 0, 0, 20, 0, 59},
	{"Tuna Steak", "protein", 132, 1.3, 0, 0, 28, 0, 47},
	{"Tofu", "protein", 76, 4.8, 1.9, 0.6, 8, 0.3, 7},
	{"Lentils", "legume", 116, 0.4, 20, 1.8, 9, 7.9, 2},
	{"Greek Yogurt", "dairy", 59, 0.4, 3.6, 3.2, 10, 0, 36},
	{"Eggs", "protein", 155, 11, 1.1, 1.1, 13, 0, 124},
	{"Brown Rice", "grain", 112, 0.9, 24, 0.4, 2.6, 1.8, 5},
	{"Quinoa", "grain", 120, 1.9, 21, 0.9, 4.4, 2.8, 7},
	{"Oatmeal", "grain", 68, 1.4, 12, 0.5, 2.4, 1.7, 49},
	{"Sweet Potato", "vegetable", 86, 0.1, 20, 4.2, 1.6, 3, 55},
	{"Broccoli", "vegetable", 34, 0.4, 7, 1.7, 2.8, 2.6, 33},
	{"Spinach", "vegetable", 23, 0.4, 3.6, 0.4, 2.9, 2.2, 79},
	{"Banana", "fruit", 89, 0.3, 23, 12, 1.1, 2.6, 1},
	{"Blueberries", "fruit", 57, 0.3, 14, 10, 0.7, 2.4, 1},
	{"Almonds", "nuts", 579, 50, 22, 4.4, 21, 12.5, 1},
	{"Avocado", "fruit", 160, 15, 9, 0.7, 2, 6.7, 7},
	{"Cottage Cheese", "dairy", 98, 4.3, 3.4, 2.7, 11, 0, 364},
}

// BuildCorpus constructs the query test cases over the fixed food table.
// Queries are written against tokens that actually occur in food names,
// categories, and generated descriptions.
func BuildCorpus() *Corpus {
	return &Corpus{
		TestCases: []QueryCase{
			{
				Description:   "exact name token",
				Query:         "salmon",
				ExpectedFoods: []string{"Salmon Fillet"},
			},
			{
				Description:   "multi token name",
				Query:         "chicken breast",
				ExpectedFoods: []string{"Grilled Chicken Breast"},
			},
			{
				Description:   "dairy category",
				Query:         "dairy",
				ExpectedFoods: []string{"Greek Yogurt", "Cottage Cheese"},
			},
			{
				Description:   "grain category",
				Query:         "grain",
				ExpectedFoods: []string{"Brown Rice", "Quinoa", "Oatmeal"},
			},
			{
				Description:   "vegetable category",
				Query:         "vegetable",
				ExpectedFoods: []string{"Sweet Potato", "Broccoli", "Spinach"},
			},
			{
				Description:   "protein rich foods",
				Query:         "protein rich foods",
				ExpectedFoods: []string{"Grilled Chicken Breast", "Tuna Steak", "Salmon Fillet", "Almonds"},
			},
		},
	}
}

// CSV renders the corpus in the dataset loader's column layout.
func (c *Corpus) CSV() string {
	var b strings.Builder
	b.WriteString("food,category,Caloric Value,Fat,Carbohydrates,Sugars,Protein,Dietary Fiber,Sodium\n")
	for _, r := range corpusRows {
		fmt.Fprintf(&b, "%s,%s,%g,%g,%g,%g,%g,%g,%g\n",
			r.name, r.category, r.calories, r.fat, r.carbs, r.sugars, r.protein, r.fiber, r.sodium)
	}
	return b.String()
}
