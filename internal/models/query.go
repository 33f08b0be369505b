package models

import "fmt"

// RetrievalFilters restricts a RAG retrieval to matching foods.
// Zero values mean "no restriction".
type RetrievalFilters struct {
	Category    string  `json:"category,omitempty"`
	MinProtein  float64 `json:"min_protein,omitempty"`
	MaxCalories float64 `json:"max_calories,omitempty"`
}

// Key returns a stable cache-key fragment for the filters.
func (f RetrievalFilters) Key() string {
	return fmt.Sprintf("%s|%g|%g", f.Category, f.MinProtein, f.MaxCalories)
}

// RAGQuery is one retrieval-augmented generation request.
type RAGQuery struct {
	Query   string           `json:"query"`
	K       int              `json:"k,omitempty"`
	Filters RetrievalFilters `json:"filters,omitempty"`
}

// Validate ensures the query has valid fields and sets defaults.
func (q *RAGQuery) Validate() error {
	if q.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if q.K <= 0 {
		q.K = 10
	}
	if q.K > 50 {
		q.K = 50
	}
	return nil
}

// RetrievedFood is one retrieval hit with its raw and blended scores.
type RetrievedFood struct {
	Food            *FoodItem `json:"food"`
	SimilarityScore float64   `json:"similarity_score"`
	FinalScore      float64   `json:"final_score"`
}

// RAGResult is the response for one RAG query.
// Foods is capped to 5 for transport; MatchCount is the full retrieval size.
type RAGResult struct {
	Response       string           `json:"response"`
	Foods          []*RetrievedFood `json:"foods"`
	UsedGeneration bool             `json:"used_generation"`
	Query          string           `json:"query"`
	MatchCount     int              `json:"match_count"`
	TopCategories  []string         `json:"top_categories"`
	QueryType      string           `json:"query_type"`
}
