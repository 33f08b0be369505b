// Package keyword provides Bleve-backed keyword search over the food table.
// It serves as the retrieval fallback when the semantic index is unavailable
// and as a complement for exact-name queries.
package keyword

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/fitlife/nutrio/internal/models"
)

// Result is a single keyword search hit. ID is the food name.
type Result struct {
	ID    string
	Score float64
}

// indexedFood is the document shape stored in Bleve.
type indexedFood struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
}

// Index wraps a Bleve index over food names and descriptions.
type Index struct {
	index bleve.Index
}

// NewIndex creates or opens a Bleve index at path. An empty path builds a
// memory-only index, which is the default since the food table is small and
// rebuilt from the dataset on startup anyway.
func NewIndex(path string) (*Index, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textMapping := bleve.NewTextFieldMapping()
	// standard analyzer: lowercase + tokenize without stemming, so "oats"
	// matches "oats" and not a stemmed variant
	textMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("name", textMapping)
	docMapping.AddFieldMappingsAt("description", textMapping)
	docMapping.AddFieldMappingsAt("category", textMapping)
	im.AddDocumentMapping("food", docMapping)
	im.DefaultType = "food"
	im.DefaultMapping = docMapping

	if path == "" {
		index, err := bleve.NewMemOnly(im)
		if err != nil {
			return nil, fmt.Errorf("create keyword index: %w", err)
		}
		return &Index{index: index}, nil
	}

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("open keyword index: %w", openErr)
		}
		return &Index{index: index}, nil
	}
	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("create keyword index: %w", err)
	}
	return &Index{index: index}, nil
}

// IndexFoods indexes the whole food table in one batch, keyed by name.
func (x *Index) IndexFoods(ctx context.Context, items []*models.FoodItem) error {
	batch := x.index.NewBatch()
	for _, it := range items {
		doc := indexedFood{
			Name:        it.Name,
			Description: it.Description,
			Category:    it.Category,
			Calories:    it.Calories,
			Protein:     it.Protein,
		}
		if err := batch.Index(it.Name, doc); err != nil {
			return fmt.Errorf("index food %q: %w", it.Name, err)
		}
	}
	if err := x.index.Batch(batch); err != nil {
		return fmt.Errorf("commit keyword batch: %w", err)
	}
	return nil
}

// Search runs a match query and returns up to k food names by score.
func (x *Index) Search(ctx context.Context, query string, k int) ([]*Result, error) {
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = k
	hits, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}
	out := make([]*Result, len(hits.Hits))
	for i, hit := range hits.Hits {
		out[i] = &Result{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// Count returns the number of indexed foods.
func (x *Index) Count() (uint64, error) {
	return x.index.DocCount()
}

// Close releases the underlying index.
func (x *Index) Close() error {
	return x.index.Close()
}
