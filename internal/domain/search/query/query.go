package query

import (
	"fmt"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/search/filter"
)

// Query parameter limits.
const (
	MaxTextLength = 4096
	DefaultTopK   = 10
	MaxTopK       = 500
)

// Query is a validated hybrid search request (ephemeral).
type Query struct {
	text    string
	filters filter.Expression
	docType string
	topK    int
}

// New validates and normalizes query parameters.
// Empty text with empty filters is rejected: there is nothing to rank
// against. Default topK=10, clamped to 500.
func New(text string, filters filter.Expression, docType string, topK int) (Query, error) {
	if text == "" && filters.IsEmpty() {
		return Query{}, domain.ErrEmptyQuery
	}
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("query text too long (max %d chars)", MaxTextLength)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	return Query{text: text, filters: filters, docType: docType, topK: topK}, nil
}

// Text returns the free-text component.
func (q *Query) Text() string { return q.text }

// Filters returns the structured filter conjunction.
func (q *Query) Filters() filter.Expression { return q.filters }

// DocType returns the optional document-type restriction ("" = all types).
func (q *Query) DocType() string { return q.docType }

// TopK returns the result-count bound.
func (q *Query) TopK() int { return q.topK }
