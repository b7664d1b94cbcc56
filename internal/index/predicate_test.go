package index

import (
	"testing"

	"github.com/lodestone-ai/lodestone/internal/domain/search/filter"
)

func expr(t *testing.T, conds ...filter.Condition) filter.Expression {
	t.Helper()
	e, err := filter.NewExpression(conds)
	if err != nil {
		t.Fatalf("NewExpression: %v", err)
	}
	return e
}

func mustMatch(t *testing.T, path, value string) filter.Condition {
	t.Helper()
	c, err := filter.NewMatch(path, value)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return c
}

func mustContains(t *testing.T, path, value string) filter.Condition {
	t.Helper()
	c, err := filter.NewContains(path, value)
	if err != nil {
		t.Fatalf("NewContains: %v", err)
	}
	return c
}

func mustRange(t *testing.T, path string, gte, lt float64) filter.Condition {
	t.Helper()
	r, err := filter.NewRangeBounds(nil, &gte, &lt, nil)
	if err != nil {
		t.Fatalf("NewRangeBounds: %v", err)
	}
	c, err := filter.NewRange(path, r)
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	return c
}

func TestPredicateEmptyExpression(t *testing.T) {
	if Predicate(filter.Expression{}) != nil {
		t.Error("empty expression should compile to nil (match everything)")
	}
}

func TestPredicateMatch(t *testing.T) {
	e := &Entry{Metadata: map[string]any{"model_id": "m1", "chunk_id": float64(3)}}

	if !Predicate(expr(t, mustMatch(t, "model_id", "m1")))(e) {
		t.Error("string match failed")
	}
	if Predicate(expr(t, mustMatch(t, "model_id", "m2")))(e) {
		t.Error("mismatched value matched")
	}
	// Numbers compare through their rendered form.
	if !Predicate(expr(t, mustMatch(t, "chunk_id", "3")))(e) {
		t.Error("numeric match failed")
	}
}

func TestPredicateNestedPath(t *testing.T) {
	e := &Entry{Metadata: map[string]any{
		"image_content": map[string]any{"tags": []any{"cat", "photorealistic"}},
	}}

	if !Predicate(expr(t, mustContains(t, "image_content.tags", "photorealistic")))(e) {
		t.Error("nested contains failed")
	}
	if Predicate(expr(t, mustContains(t, "image_content.tags", "diagram")))(e) {
		t.Error("absent tag matched")
	}
}

func TestPredicateRange(t *testing.T) {
	e := &Entry{Metadata: map[string]any{"chunk_id": float64(5)}}

	if !Predicate(expr(t, mustRange(t, "chunk_id", 0, 10)))(e) {
		t.Error("in-range value rejected")
	}
	if Predicate(expr(t, mustRange(t, "chunk_id", 6, 10)))(e) {
		t.Error("out-of-range value matched")
	}
	// Range over a non-numeric value never matches.
	s := &Entry{Metadata: map[string]any{"chunk_id": "five"}}
	if Predicate(expr(t, mustRange(t, "chunk_id", 0, 10)))(s) {
		t.Error("range matched a string value")
	}
}

func TestPredicateConjunction(t *testing.T) {
	e := &Entry{Metadata: map[string]any{"model_id": "m1", "chunk_id": float64(5)}}

	both := Predicate(expr(t, mustMatch(t, "model_id", "m1"), mustRange(t, "chunk_id", 0, 10)))
	if !both(e) {
		t.Error("conjunction of satisfied predicates rejected")
	}
	one := Predicate(expr(t, mustMatch(t, "model_id", "m1"), mustRange(t, "chunk_id", 6, 10)))
	if one(e) {
		t.Error("conjunction with one failing predicate matched")
	}
}

func TestPredicateMissingPath(t *testing.T) {
	e := &Entry{Metadata: map[string]any{"model_id": "m1"}}
	if Predicate(expr(t, mustMatch(t, "absent.path", "x")))(e) {
		t.Error("missing path matched")
	}
}
