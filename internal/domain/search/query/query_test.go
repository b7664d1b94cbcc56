package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/search/filter"
)

func matchExpr(t *testing.T) filter.Expression {
	t.Helper()
	cond, err := filter.NewMatch("model_id", "m1")
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	expr, err := filter.NewExpression([]filter.Condition{cond})
	if err != nil {
		t.Fatalf("NewExpression: %v", err)
	}
	return expr
}

func TestNewQueryEmpty(t *testing.T) {
	_, err := New("", filter.Expression{}, "model_chunk", 10)
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Errorf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestNewQueryFilterOnly(t *testing.T) {
	q, err := New("", matchExpr(t), "model_chunk", 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if q.Text() != "" || q.Filters().IsEmpty() {
		t.Error("filter-only query lost its filters")
	}
}

func TestNewQueryDefaults(t *testing.T) {
	q, err := New("attention", filter.Expression{}, "", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if q.TopK() != DefaultTopK {
		t.Errorf("TopK = %d, want %d", q.TopK(), DefaultTopK)
	}
}

func TestNewQueryClampsTopK(t *testing.T) {
	q, err := New("attention", filter.Expression{}, "", 100000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if q.TopK() != MaxTopK {
		t.Errorf("TopK = %d, want %d", q.TopK(), MaxTopK)
	}
}

func TestNewQueryTextTooLong(t *testing.T) {
	_, err := New(strings.Repeat("x", MaxTextLength+1), filter.Expression{}, "", 10)
	if err == nil {
		t.Error("expected error for oversized text")
	}
}
