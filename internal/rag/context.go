package rag

import (
	"fmt"
	"strings"

	"github.com/fitlife/nutrio/internal/models"
)

// Query types drive both the context layout and the prompt style.
const (
	QueryTypeComparison     = "comparison"
	QueryTypeRecommendation = "recommendation"
	QueryTypeAnalysis       = "analysis"
	QueryTypeSimple         = "simple"
)

var (
	comparisonWords     = []string{"compare", "comparison", "difference", "vs", "versus"}
	recommendationWords = []string{"recommend", "suggest", "advice", "best"}
	analysisWords       = []string{"analyze", "analysis", "detailed", "complete", "expert"}
)

// DetectQueryType classifies a query by keyword, first match wins.
func DetectQueryType(query string) string {
	q := strings.ToLower(query)
	switch {
	case containsAny(q, comparisonWords):
		return QueryTypeComparison
	case containsAny(q, recommendationWords):
		return QueryTypeRecommendation
	case containsAny(q, analysisWords):
		return QueryTypeAnalysis
	default:
		return QueryTypeSimple
	}
}

// BuildContext renders the retrieved foods into the layout matching the query
// type, ready to be embedded in a generation prompt.
func BuildContext(query string, foods []*models.RetrievedFood, queryType string) string {
	switch queryType {
	case QueryTypeComparison:
		return comparisonContext(query, foods)
	case QueryTypeRecommendation:
		return recommendationContext(query, foods)
	case QueryTypeAnalysis:
		return analysisContext(query, foods)
	default:
		return simpleContext(query, foods)
	}
}

func simpleContext(query string, foods []*models.RetrievedFood) string {
	var b strings.Builder
	fmt.Fprintf(&b, "QUESTION: %s\n\n", query)
	b.WriteString("AVAILABLE NUTRITION FACTS:\n\n")
	for i, f := range foods {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f.Food.Name)
		fmt.Fprintf(&b, "   Category: %s\n", orNA(f.Food.Category))
		fmt.Fprintf(&b, "   Calories: %.0f kcal\n", f.Food.Calories)
		fmt.Fprintf(&b, "   Protein: %.1fg\n", f.Food.Protein)
		fmt.Fprintf(&b, "   Carbs: %.1fg\n", f.Food.Carbohydrates)
		fmt.Fprintf(&b, "   Fat: %.1fg\n", f.Food.Fat)
		if f.Food.HealthScore > 0 {
			fmt.Fprintf(&b, "   Health score: %.1f\n", f.Food.HealthScore)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func comparisonContext(query string, foods []*models.RetrievedFood) string {
	var b strings.Builder
	fmt.Fprintf(&b, "COMPARISON QUESTION: %s\n\n", query)
	b.WriteString("FOODS TO COMPARE:\n\n")
	b.WriteString("Food | Calories | Protein | Carbs | Fat | Health Score\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, f := range foods {
		name := f.Food.Name
		if len(name) > 20 {
			name = name[:20]
		}
		health := "N/A"
		if f.Food.HealthScore > 0 {
			health = fmt.Sprintf("%.1f", f.Food.HealthScore)
		}
		fmt.Fprintf(&b, "%s | %.0f | %.1fg | %.1fg | %.1fg | %s\n",
			name, f.Food.Calories, f.Food.Protein, f.Food.Carbohydrates, f.Food.Fat, health)
	}

	if len(foods) >= 2 {
		mostProtein, leastCalories := foods[0], foods[0]
		for _, f := range foods[1:] {
			if f.Food.Protein > mostProtein.Food.Protein {
				mostProtein = f
			}
			if f.Food.Calories < leastCalories.Food.Calories {
				leastCalories = f
			}
		}
		b.WriteString("\nADDITIONAL CONTEXT:\n")
		fmt.Fprintf(&b, "- Highest in protein: %s (%.1fg)\n", mostProtein.Food.Name, mostProtein.Food.Protein)
		fmt.Fprintf(&b, "- Lowest in calories: %s (%.0f kcal)\n", leastCalories.Food.Name, leastCalories.Food.Calories)
	}
	return strings.TrimRight(b.String(), "\n")
}

func recommendationContext(query string, foods []*models.RetrievedFood) string {
	var b strings.Builder
	fmt.Fprintf(&b, "RECOMMENDATION REQUEST: %s\n\n", query)
	b.WriteString("AVAILABLE OPTIONS (sorted by relevance):\n\n")
	for i, f := range foods {
		stars := strings.Repeat("*", min5(5-i*5/maxInt(1, len(foods))))
		fmt.Fprintf(&b, "%s %s\n", stars, f.Food.Name)
		fmt.Fprintf(&b, "   Calories: %.0f kcal\n", f.Food.Calories)
		fmt.Fprintf(&b, "   Profile: %s\n", nutritionSummary(f.Food))
		if f.Food.HealthScore > 70 {
			b.WriteString("   Excellent healthy choice\n")
		} else if f.Food.HealthScore > 50 {
			b.WriteString("   Good moderate choice\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func analysisContext(query string, foods []*models.RetrievedFood) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DETAILED ANALYSIS REQUEST: %s\n\n", query)
	b.WriteString("NUTRITION FACTS FOR ANALYSIS:\n\n")
	for i, f := range foods {
		fmt.Fprintf(&b, "--- Food %d: %s ---\n", i+1, f.Food.Name)
		fmt.Fprintf(&b, "  Category: %s\n", orNA(f.Food.Category))
		fmt.Fprintf(&b, "  Description: %s\n", f.Food.Description)
		if f.Food.HealthScore > 0 {
			fmt.Fprintf(&b, "  Health score: %.1f/100\n", f.Food.HealthScore)
		}
		if f.Food.NutritionDensity > 0 {
			fmt.Fprintf(&b, "  Nutrition density: %.2f\n", f.Food.NutritionDensity)
		}
		b.WriteString("\n")
	}
	b.WriteString("ANALYSIS INSTRUCTIONS:\n")
	b.WriteString("Analyze the foods above in depth, highlighting key nutritional aspects, benefits and drawbacks, and relating them to the user's question.")
	return b.String()
}

func nutritionSummary(food *models.FoodItem) string {
	var protein string
	switch {
	case food.Protein > 20:
		protein = "high in protein"
	case food.Protein > 10:
		protein = "good protein source"
	default:
		protein = "low in protein"
	}
	var carbs string
	switch {
	case food.Carbohydrates < 5:
		carbs = "low in carbs"
	case food.Carbohydrates > 30:
		carbs = "high in carbs"
	default:
		carbs = "moderate carbs"
	}
	return protein + ", " + carbs
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func min5(n int) int {
	if n > 5 {
		return 5
	}
	if n < 1 {
		return 1
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
