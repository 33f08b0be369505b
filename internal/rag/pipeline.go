package rag

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fitlife/nutrio/internal/models"
	"github.com/fitlife/nutrio/pkg/utils"
)

// maxResultFoods caps the foods carried on a result for transport.
const maxResultFoods = 5

// Pipeline runs the full retrieval-augmented answering flow: retrieve,
// build context, generate, fall back.
type Pipeline struct {
	retriever  *Retriever
	generators []Generator
	logger     *zap.Logger
}

// NewPipeline assembles a pipeline. generators are tried in order; an empty
// list means every answer uses the data-only summary.
func NewPipeline(retriever *Retriever, generators []Generator, logger *zap.Logger) *Pipeline {
	return &Pipeline{retriever: retriever, generators: generators, logger: logger}
}

// Query answers one question. Validation errors are returned; retrieval and
// generation failures degrade to keyword fallback and summary fallback
// instead of erroring, so the endpoint always has something to say.
func (p *Pipeline) Query(ctx context.Context, q models.RAGQuery) (*models.RAGResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	foods, err := p.retriever.Retrieve(ctx, q.Query, q.K, q.Filters)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	if len(foods) == 0 {
		return &models.RAGResult{
			Response:  "No matching foods found.",
			Query:     q.Query,
			QueryType: DetectQueryType(q.Query),
		}, nil
	}

	queryType := DetectQueryType(q.Query)
	contextText := BuildContext(q.Query, foods, queryType)
	style := StyleForQueryType(queryType)
	prompt := BuildPrompt(style, contextText, q.Query)

	response, generated := p.tryGenerate(ctx, prompt)
	if !generated {
		response = summaryResponse(q.Query, foods)
	}

	resultFoods := foods
	if len(resultFoods) > maxResultFoods {
		resultFoods = resultFoods[:maxResultFoods]
	}
	return &models.RAGResult{
		Response:       response,
		Foods:          resultFoods,
		UsedGeneration: generated,
		Query:          q.Query,
		MatchCount:     len(foods),
		TopCategories:  TopCategories(foods, 3),
		QueryType:      queryType,
	}, nil
}

// tryGenerate walks the generator chain; the first success wins.
func (p *Pipeline) tryGenerate(ctx context.Context, prompt string) (string, bool) {
	for _, g := range p.generators {
		response, err := g.Generate(ctx, prompt)
		if err != nil {
			if p.logger != nil {
				p.logger.Warn("generation backend failed",
					zap.String("backend", g.Name()), zap.Error(err))
			}
			continue
		}
		if strings.TrimSpace(response) == "" {
			continue
		}
		return response, true
	}
	return "", false
}

// summaryResponse renders the top results directly when no backend answered.
func summaryResponse(query string, foods []*models.RetrievedFood) string {
	top := foods
	if len(top) > 3 {
		top = top[:3]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Results for %q:\n\n", query)
	for i, f := range top {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f.Food.Name)
		fmt.Fprintf(&b, "   - Category: %s\n", orNA(f.Food.Category))
		fmt.Fprintf(&b, "   - Calories: %.0f kcal\n", f.Food.Calories)
		fmt.Fprintf(&b, "   - Protein: %.1fg\n", f.Food.Protein)
		// Keyword-fallback scores are unbounded bleve relevance, not cosine.
		fmt.Fprintf(&b, "   - Match: %.1f%%\n", utils.Clamp(f.SimilarityScore*100, 0, 100))
		b.WriteString("\n")
	}
	b.WriteString("For a deeper analysis, enable a generation backend.")
	return b.String()
}
