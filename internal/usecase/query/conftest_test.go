package query

import (
	"context"
	"testing"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/search/filter"
	domquery "github.com/lodestone-ai/lodestone/internal/domain/search/query"
	"github.com/lodestone-ai/lodestone/internal/domain/search/result"
	"github.com/lodestone-ai/lodestone/internal/index"
)

type mockIndex struct {
	searchVectorFn  func(ctx context.Context, vector []float32, k int, filters filter.Expression, docType string) ([]result.Result, error)
	searchKeywordFn func(ctx context.Context, terms []string, k int, filters filter.Expression, docType string) ([]result.Result, error)
	validateFn      func(filters filter.Expression, docType string) error
}

func (m *mockIndex) SearchVector(
	ctx context.Context, vector []float32, k int, filters filter.Expression, docType string,
) ([]result.Result, error) {
	if m.searchVectorFn == nil {
		return nil, nil
	}
	return m.searchVectorFn(ctx, vector, k, filters, docType)
}

func (m *mockIndex) SearchKeyword(
	ctx context.Context, terms []string, k int, filters filter.Expression, docType string,
) ([]result.Result, error) {
	if m.searchKeywordFn == nil {
		return nil, nil
	}
	return m.searchKeywordFn(ctx, terms, k, filters, docType)
}

func (m *mockIndex) ValidateFilters(filters filter.Expression, docType string) error {
	if m.validateFn == nil {
		return nil
	}
	return m.validateFn(filters, docType)
}

type mockTypes struct {
	supportsFn func(docType string) bool
}

func (m *mockTypes) Supports(docType string) bool {
	if m.supportsFn == nil {
		return true
	}
	return m.supportsFn(docType)
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn == nil {
		return domain.EmbeddingResult{Embedding: []float32{1, 0, 0}}, nil
	}
	return m.embedFn(ctx, text)
}

func newPlanner(idx *mockIndex, emb *mockEmbedder, cfg FusionConfig) *Service {
	return New(idx, &mockTypes{}, emb, index.Analyzer{}, cfg, nil)
}

func textQuery(t *testing.T, text, docType string, topK int) domquery.Query {
	t.Helper()
	expr, err := filter.NewExpression(nil)
	if err != nil {
		t.Fatalf("NewExpression: %v", err)
	}
	q, err := domquery.New(text, expr, docType, topK)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func hit(id, docType string, score float64) result.Result {
	return result.New(id, docType, score, "", nil)
}
