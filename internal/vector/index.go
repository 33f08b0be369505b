// Package vector provides vector storage and similarity search over food
// description embeddings.
package vector

import "context"

// Index defines vector storage and top-k similarity search. IDs are food
// names; vectors are expected to be L2-normalized so inner product equals
// cosine similarity.
type Index interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*Result, error)
	Remove(ctx context.Context, ids []string) error
	Save(path string) error
	Load(path string) error
	Size() int
	Close() error
}

// Result is a single search hit.
type Result struct {
	ID    string
	Score float64
}
