package query

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/search/filter"
	"github.com/lodestone-ai/lodestone/internal/domain/search/result"
)

// Index is the document index contract the planner dispatches to.
type Index interface {
	SearchVector(
		ctx context.Context, vector []float32, k int,
		filters filter.Expression, docType string,
	) ([]result.Result, error)
	SearchKeyword(
		ctx context.Context, terms []string, k int,
		filters filter.Expression, docType string,
	) ([]result.Result, error)
	ValidateFilters(filters filter.Expression, docType string) error
}

// TypeChecker reports whether a document-type tag is registered.
type TypeChecker interface {
	Supports(docType string) bool
}

// Embedder vectorizes query text (external collaborator).
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Analyzer extracts keyword terms from query text.
type Analyzer interface {
	Terms(text string) []string
}
