package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/fitlife/nutrio/internal/embedding"
	"github.com/fitlife/nutrio/internal/models"
	"github.com/fitlife/nutrio/internal/recommend"
	"github.com/fitlife/nutrio/internal/vector"
)

func benchFoods(n int) []*models.FoodItem {
	foods := make([]*models.FoodItem, n)
	for i := 0; i < n; i++ {
		foods[i] = &models.FoodItem{
			Name:          fmt.Sprintf("food-%d", i),
			Calories:      float64(50 + i%400),
			Protein:       float64(i % 35),
			Carbohydrates: float64(i % 60),
			Fat:           float64(i % 20),
			Fiber:         float64(i % 8),
		}
	}
	return foods
}

func BenchmarkEngineRecommend(b *testing.B) {
	engine := recommend.NewEngine(benchFoods(1000))
	target := &models.NutritionalTarget{
		Calories: 2200,
		Protein:  150,
		Carbs:    220,
		Fat:      70,
		Goal:     models.GoalMuscleGain,
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = engine.Recommend(target, 10, recommend.Options{})
	}
}

func BenchmarkMemoryIndexSearch(b *testing.B) {
	idx, _ := vector.NewMemoryIndex(384)
	ctx := context.Background()
	vecs := make([][]float32, 1000)
	ids := make([]string, 1000)
	for i := 0; i < 1000; i++ {
		vecs[i] = make([]float32, 384)
		vecs[i][0] = float32(i) / 1000
		ids[i] = fmt.Sprintf("food-%d", i)
	}
	_ = idx.Add(ctx, ids, vecs)
	query := make([]float32, 384)
	query[0] = 1.0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = idx.Search(ctx, query, 10)
	}
}

func BenchmarkHashEmbedder_Embed(b *testing.B) {
	e := embedding.NewHashEmbedder(384)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "high protein low calorie foods for muscle gain")
	}
}
