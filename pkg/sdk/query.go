package lodestone

import (
	"context"
	"fmt"
	"time"

	domquery "github.com/lodestone-ai/lodestone/internal/domain/search/query"
)

// QueryService executes hybrid vector + keyword searches.
type QueryService struct {
	svc queryUseCase
	obs *observer
}

// Search runs a hybrid query. text may be empty when filters are set
// (filter-only search, no embedding call); text and filters both empty
// fail with ErrEmptyQuery. Filters referencing paths outside the
// document type's schema fail with ErrInvalidFilter.
func (s *QueryService) Search(
	ctx context.Context, text string, opts QueryOptions,
) (_ QueryResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("query.search", start, err) }()

	filters, err := toInternalFilters(opts.Filters)
	if err != nil {
		return QueryResult{}, fmt.Errorf("search: %w", err)
	}
	q, err := domquery.New(text, filters, opts.DocType, opts.TopK)
	if err != nil {
		return QueryResult{}, fmt.Errorf("search: %w", err)
	}
	resp, err := s.svc.Query(ctx, q)
	if err != nil {
		return QueryResult{}, fmt.Errorf("search: %w", err)
	}
	return fromQueryResponse(resp), nil
}
