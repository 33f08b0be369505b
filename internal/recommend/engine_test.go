package recommend

import (
	"testing"

	"github.com/fitlife/nutrio/internal/models"
)

func testFoods() []*models.FoodItem {
	return []*models.FoodItem{
		{Name: "Grilled Chicken Breast", Calories: 165, Fat: 3.6, SaturatedFat: 1.0, Carbohydrates: 0, Sugars: 0, Protein: 31, Fiber: 0, Sodium: 74, Category: "protein"},
		{Name: "Brown Rice", Calories: 112, Fat: 0.9, SaturatedFat: 0.2, Carbohydrates: 23.5, Sugars: 0.4, Protein: 2.6, Fiber: 1.8, Sodium: 5, Category: "grain"},
		{Name: "Broccoli", Calories: 34, Fat: 0.4, SaturatedFat: 0.1, Carbohydrates: 6.6, Sugars: 1.7, Protein: 2.8, Fiber: 2.6, Sodium: 33, Category: "vegetable"},
		{Name: "Salmon", Calories: 208, Fat: 13, SaturatedFat: 3.1, Carbohydrates: 0, Sugars: 0, Protein: 20, Fiber: 0, Sodium: 59, Category: "protein"},
		{Name: "Eggs", Calories: 155, Fat: 11, SaturatedFat: 3.3, Carbohydrates: 1.1, Sugars: 1.1, Protein: 13, Fiber: 0, Sodium: 124, Category: "protein"},
		{Name: "Quinoa", Calories: 120, Fat: 1.9, SaturatedFat: 0.2, Carbohydrates: 21.3, Sugars: 0.9, Protein: 4.4, Fiber: 2.8, Sodium: 7, Category: "grain"},
		{Name: "Avocado", Calories: 160, Fat: 14.7, SaturatedFat: 2.1, Carbohydrates: 8.5, Sugars: 0.7, Protein: 2, Fiber: 6.7, Sodium: 7, Category: "fat"},
		{Name: "Almonds", Calories: 579, Fat: 49.9, SaturatedFat: 3.8, Carbohydrates: 21.6, Sugars: 4.4, Protein: 21.2, Fiber: 12.5, Sodium: 1, Category: "nuts"},
		{Name: "Greek Yogurt", Calories: 59, Fat: 0.4, SaturatedFat: 0.1, Carbohydrates: 3.6, Sugars: 3.2, Protein: 10, Fiber: 0, Sodium: 36, Category: "dairy"},
		{Name: "Banana", Calories: 89, Fat: 0.3, SaturatedFat: 0.1, Carbohydrates: 22.8, Sugars: 12.2, Protein: 1.1, Fiber: 2.6, Sodium: 1, Category: "fruit"},
	}
}

func testTarget(goal models.Goal) *models.NutritionalTarget {
	return &models.NutritionalTarget{
		Calories: 2000,
		Protein:  150,
		Carbs:    200,
		Fat:      60,
		Goal:     goal,
	}
}

func TestNewEngineFillsDensities(t *testing.T) {
	foods := testFoods()
	NewEngine(foods)
	nonzero := 0
	for _, f := range foods {
		if f.NutritionDensity < 0 || f.NutritionDensity > 10 {
			t.Errorf("%s: density %v out of [0,10]", f.Name, f.NutritionDensity)
		}
		if f.NutritionDensity > 0 {
			nonzero++
		}
	}
	if nonzero == 0 {
		t.Error("expected some foods to receive a nonzero density")
	}
}

func TestNewEngineKeepsDatasetDensities(t *testing.T) {
	foods := testFoods()
	foods[0].NutritionDensity = 7.5
	NewEngine(foods)
	if foods[0].NutritionDensity != 7.5 {
		t.Errorf("density overwritten: got %v, want 7.5", foods[0].NutritionDensity)
	}
	// other densities stay as loaded, even if zero
	if foods[1].NutritionDensity != 0 {
		t.Errorf("density[1] = %v, want 0", foods[1].NutritionDensity)
	}
}

func TestRecommendBasics(t *testing.T) {
	e := NewEngine(testFoods())
	got := e.Recommend(testTarget(models.GoalMaintenance), 5, Options{})
	if len(got) != 5 {
		t.Fatalf("got %d results, want 5", len(got))
	}
	if got[0].MatchPercentage != 100 {
		t.Errorf("top match percentage = %v, want 100", got[0].MatchPercentage)
	}
	for i := 1; i < len(got); i++ {
		if got[i].SimilarityScore > got[i-1].SimilarityScore {
			t.Errorf("results not sorted at %d", i)
		}
		if got[i].MatchPercentage > 100 {
			t.Errorf("%s: match percentage %v > 100", got[i].Food.Name, got[i].MatchPercentage)
		}
	}
}

func TestRecommendDeterministic(t *testing.T) {
	e := NewEngine(testFoods())
	a := e.Recommend(testTarget(models.GoalMuscleGain), 10, Options{})
	b := e.Recommend(testTarget(models.GoalMuscleGain), 10, Options{})
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Food.Name != b[i].Food.Name {
			t.Errorf("order differs at %d: %s vs %s", i, a[i].Food.Name, b[i].Food.Name)
		}
	}
}

func TestRecommendFilters(t *testing.T) {
	e := NewEngine(testFoods())

	t.Run("exclude names", func(t *testing.T) {
		got := e.Recommend(testTarget(models.GoalMaintenance), 10, Options{
			ExcludeNames: []string{"Salmon", "Banana"},
		})
		for _, r := range got {
			if r.Food.Name == "Salmon" || r.Food.Name == "Banana" {
				t.Errorf("excluded food %s returned", r.Food.Name)
			}
		}
	})

	t.Run("min protein", func(t *testing.T) {
		got := e.Recommend(testTarget(models.GoalMuscleGain), 10, Options{MinProtein: 10})
		if len(got) == 0 {
			t.Fatal("no results")
		}
		for _, r := range got {
			if r.Food.Protein < 10 {
				t.Errorf("%s has protein %v < 10", r.Food.Name, r.Food.Protein)
			}
		}
	})

	t.Run("max calories", func(t *testing.T) {
		got := e.Recommend(testTarget(models.GoalWeightLoss), 10, Options{MaxCalories: 150})
		for _, r := range got {
			if r.Food.Calories > 150 {
				t.Errorf("%s has calories %v > 150", r.Food.Name, r.Food.Calories)
			}
		}
	})

	t.Run("all filtered out", func(t *testing.T) {
		got := e.Recommend(testTarget(models.GoalMaintenance), 10, Options{MinProtein: 1000})
		if len(got) != 0 {
			t.Errorf("got %d results, want 0", len(got))
		}
	})
}

func TestRecommendMuscleGainBoostsProtein(t *testing.T) {
	foods := testFoods()
	e := NewEngine(foods)

	chicken := foods[0]  // 31g protein, dataset maximum
	broccoli := foods[2] // 2.8g protein

	// The goal boost multiplies cosine similarity, so a very similar
	// low-protein food can still take the top slot. Assert the weighting
	// itself: muscle gain favors a protein-dense food over maintenance,
	// and over a low-protein food under the same goal.
	gain := e.goalWeight(chicken, models.GoalMuscleGain)
	if maint := e.goalWeight(chicken, models.GoalMaintenance); gain <= maint {
		t.Errorf("muscle gain weight %v not above maintenance weight %v for protein-dense food", gain, maint)
	}
	if low := e.goalWeight(broccoli, models.GoalMuscleGain); gain <= low {
		t.Errorf("protein-dense weight %v not above low-protein weight %v under muscle gain", gain, low)
	}
}

func TestRecommendEmptyDataset(t *testing.T) {
	e := NewEngine(nil)
	got := e.Recommend(testTarget(models.GoalMaintenance), 5, Options{})
	if len(got) != 0 {
		t.Errorf("got %d results from empty dataset, want 0", len(got))
	}
}

func TestFindAlternatives(t *testing.T) {
	e := NewEngine(testFoods())

	t.Run("substring match excludes source", func(t *testing.T) {
		got := e.FindAlternatives("chicken", 3, "")
		if len(got) != 3 {
			t.Fatalf("got %d alternatives, want 3", len(got))
		}
		for _, r := range got {
			if r.Food.Name == "Grilled Chicken Breast" {
				t.Error("source food returned as its own alternative")
			}
		}
	})

	t.Run("unknown food", func(t *testing.T) {
		got := e.FindAlternatives("dragonfruit", 3, "")
		if len(got) != 0 {
			t.Errorf("got %d alternatives for unknown food, want 0", len(got))
		}
	})

	t.Run("goal reweighting changes order", func(t *testing.T) {
		plain := e.FindAlternatives("rice", 9, "")
		gain := e.FindAlternatives("rice", 9, models.GoalMuscleGain)
		if len(plain) != len(gain) {
			t.Fatalf("lengths differ: %d vs %d", len(plain), len(gain))
		}
	})
}
