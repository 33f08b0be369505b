// Package rag implements retrieval-augmented answering over the food table:
// semantic retrieval with keyword fallback, context building, and response
// generation through local LLM backends.
package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fitlife/nutrio/internal/keyword"
	"github.com/fitlife/nutrio/internal/models"
	"github.com/fitlife/nutrio/internal/vector"
)

// overfetchFactor controls how many candidates the vector index returns
// before filters narrow them to k.
const overfetchFactor = 3

// QueryEmbedder is the slice of the embedding API the retriever needs.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever finds foods relevant to a free-text query. Semantic search is
// primary; the keyword index takes over when embedding fails, so a broken
// model never takes retrieval down entirely.
type Retriever struct {
	foods    map[string]*models.FoodItem
	embedder QueryEmbedder
	index    vector.Index
	keywords *keyword.Index
	logger   *zap.Logger

	mu    sync.RWMutex
	cache map[string][]*models.RetrievedFood
}

// NewRetriever builds a retriever over the dataset snapshot. keywords may be
// nil, in which case embedding failures surface as errors.
func NewRetriever(items []*models.FoodItem, embedder QueryEmbedder, index vector.Index, keywords *keyword.Index, logger *zap.Logger) *Retriever {
	foods := make(map[string]*models.FoodItem, len(items))
	for _, it := range items {
		foods[it.Name] = it
	}
	return &Retriever{
		foods:    foods,
		embedder: embedder,
		index:    index,
		keywords: keywords,
		logger:   logger,
		cache:    make(map[string][]*models.RetrievedFood),
	}
}

// Retrieve returns up to k foods for the query, filtered and re-scored by
// query intent. Results are cached per (query, k, filters).
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, filters models.RetrievalFilters) ([]*models.RetrievedFood, error) {
	cacheKey := fmt.Sprintf("%s_%d_%s", query, k, filters.Key())
	r.mu.RLock()
	if cached, ok := r.cache[cacheKey]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	hits, err := r.semanticSearch(ctx, query, k*overfetchFactor)
	if err != nil {
		if r.keywords == nil {
			return nil, err
		}
		if r.logger != nil {
			r.logger.Warn("semantic retrieval failed, falling back to keyword search",
				zap.String("query", query), zap.Error(err))
		}
		hits, err = r.keywordSearch(ctx, query, k*overfetchFactor)
		if err != nil {
			return nil, err
		}
	}

	results := make([]*models.RetrievedFood, 0, len(hits))
	for _, h := range hits {
		food, ok := r.foods[h.ID]
		if !ok {
			continue
		}
		if !matchesFilters(food, filters) {
			continue
		}
		results = append(results, &models.RetrievedFood{Food: food, SimilarityScore: h.Score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})
	if len(results) > k {
		results = results[:k]
	}
	blendScores(results, query)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	r.mu.Lock()
	r.cache[cacheKey] = results
	r.mu.Unlock()
	return results, nil
}

func (r *Retriever) semanticSearch(ctx context.Context, query string, k int) ([]*vector.Result, error) {
	if r.embedder == nil || r.index == nil {
		return nil, fmt.Errorf("semantic retrieval not configured")
	}
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return r.index.Search(ctx, vec, k)
}

func (r *Retriever) keywordSearch(ctx context.Context, query string, k int) ([]*vector.Result, error) {
	hits, err := r.keywords.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("keyword fallback: %w", err)
	}
	out := make([]*vector.Result, len(hits))
	for i, h := range hits {
		out[i] = &vector.Result{ID: h.ID, Score: h.Score}
	}
	return out, nil
}

// InvalidateCache drops cached retrievals, e.g. after a dataset reload.
func (r *Retriever) InvalidateCache() {
	r.mu.Lock()
	r.cache = make(map[string][]*models.RetrievedFood)
	r.mu.Unlock()
}

func matchesFilters(food *models.FoodItem, f models.RetrievalFilters) bool {
	if f.Category != "" && !strings.EqualFold(food.Category, f.Category) {
		return false
	}
	if f.MinProtein > 0 && food.Protein < f.MinProtein {
		return false
	}
	if f.MaxCalories > 0 && food.Calories > f.MaxCalories {
		return false
	}
	return true
}

var (
	proteinKeywords = []string{"protein", "muscle"}
	lightKeywords   = []string{"calorie", "light", "low", "lean"}
	healthKeywords  = []string{"health", "healthy", "nutritious"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// blendScores sets FinalScore from the similarity score plus a query-intent
// component: protein density for protein queries, inverse sqrt calories for
// light queries, health score for health queries. Calories clamp to at least
// 1 so calorie-free foods don't blow the ratios up.
func blendScores(results []*models.RetrievedFood, query string) {
	q := strings.ToLower(query)
	switch {
	case containsAny(q, proteinKeywords):
		for _, r := range results {
			cal := math.Max(1, r.Food.Calories)
			r.FinalScore = 0.7*r.SimilarityScore + 0.3*(r.Food.Protein/cal)
		}
	case containsAny(q, lightKeywords):
		for _, r := range results {
			cal := math.Max(1, r.Food.Calories)
			r.FinalScore = 0.6*r.SimilarityScore + 0.4*(1/math.Sqrt(cal))
		}
	case containsAny(q, healthKeywords):
		for _, r := range results {
			r.FinalScore = 0.5*r.SimilarityScore + 0.5*(r.Food.HealthScore/100)
		}
	default:
		for _, r := range results {
			r.FinalScore = r.SimilarityScore
		}
	}
}

// TopCategories returns the n most frequent categories among the results,
// most frequent first. Ties keep first-seen order.
func TopCategories(results []*models.RetrievedFood, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, r := range results {
		cat := r.Food.Category
		if cat == "" {
			continue
		}
		if counts[cat] == 0 {
			order = append(order, cat)
		}
		counts[cat]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if n < len(order) {
		order = order[:n]
	}
	return order
}
