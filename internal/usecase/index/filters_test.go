package index

import (
	"errors"
	"testing"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/schema"
	"github.com/lodestone-ai/lodestone/internal/domain/search/filter"
)

func conditions(t *testing.T, cs ...filter.Condition) filter.Expression {
	t.Helper()
	expr, err := filter.NewExpression(cs)
	if err != nil {
		t.Fatalf("NewExpression: %v", err)
	}
	return expr
}

func rangeCond(t *testing.T, path string, gte, lte *float64) filter.Condition {
	t.Helper()
	r, err := filter.NewRangeBounds(nil, gte, nil, lte)
	if err != nil {
		t.Fatalf("NewRangeBounds: %v", err)
	}
	c, err := filter.NewRange(path, r)
	if err != nil {
		t.Fatalf("NewRange: %v", err)
	}
	return c
}

func containsCond(t *testing.T, path, value string) filter.Condition {
	t.Helper()
	c, err := filter.NewContains(path, value)
	if err != nil {
		t.Fatalf("NewContains: %v", err)
	}
	return c
}

func TestValidateFiltersAccepted(t *testing.T) {
	svc := New(&mockRepo{}, chunkSource(t), nil)
	one, ten := 1.0, 10.0

	cases := []struct {
		name string
		expr filter.Expression
	}{
		{"empty", emptyExpr(t)},
		{"match string", matchExpr(t, "model_id", "resnet-50")},
		{"range integer", conditions(t, rangeCond(t, "chunk_id", &one, &ten))},
		{"range number", conditions(t, rangeCond(t, "score", &one, nil))},
		{"contains array", conditions(t, containsCond(t, "tags", "vision"))},
	}
	for _, tc := range cases {
		if err := svc.ValidateFilters(tc.expr, "model_chunk"); err != nil {
			t.Errorf("%s: %v", tc.name, err)
		}
	}
}

func TestValidateFiltersUndeclaredPath(t *testing.T) {
	svc := New(&mockRepo{}, chunkSource(t), nil)

	err := svc.ValidateFilters(matchExpr(t, "nonexistent", "x"), "model_chunk")
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("err = %v, want ErrInvalidFilter", err)
	}
}

func TestValidateFiltersShapeMismatch(t *testing.T) {
	svc := New(&mockRepo{}, chunkSource(t), nil)
	one := 1.0

	cases := []struct {
		name string
		expr filter.Expression
	}{
		{"range on string", conditions(t, rangeCond(t, "model_id", &one, nil))},
		{"contains on scalar", conditions(t, containsCond(t, "chunk_id", "1"))},
		{"match on array", matchExpr(t, "tags", "vision")},
	}
	for _, tc := range cases {
		if err := svc.ValidateFilters(tc.expr, "model_chunk"); !errors.Is(err, domain.ErrInvalidFilter) {
			t.Errorf("%s: err = %v, want ErrInvalidFilter", tc.name, err)
		}
	}
}

func TestValidateFiltersUnrestrictedSpansSchemas(t *testing.T) {
	chunk := chunkSchema(t)

	frameworkDef := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{"type": "string"},
			"metadata": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"framework_name": map[string]any{"type": "string"},
				},
				"required": []any{"framework_name"},
			},
		},
		"required": []any{"id", "metadata"},
	}
	node, _, err := schema.DecodeDefinition(frameworkDef)
	if err != nil {
		t.Fatalf("DecodeDefinition: %v", err)
	}
	framework, err := schema.New("framework_schema", "1.0.0", node, "", "")
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}

	source := &mockSchemaSource{
		resolveFn: func(docType, _ string) (schema.Schema, error) {
			if docType == "framework" {
				return framework, nil
			}
			return chunk, nil
		},
		typesFn: func() []string { return []string{"framework", "model_chunk"} },
	}
	svc := New(&mockRepo{}, source, nil)

	// Declared by exactly one of the schemas: valid for an unrestricted query.
	if err := svc.ValidateFilters(matchExpr(t, "framework_name", "pytorch"), ""); err != nil {
		t.Errorf("framework_name unrestricted: %v", err)
	}
	if err := svc.ValidateFilters(matchExpr(t, "model_id", "resnet-50"), ""); err != nil {
		t.Errorf("model_id unrestricted: %v", err)
	}
	if err := svc.ValidateFilters(matchExpr(t, "nowhere", "x"), ""); !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("undeclared unrestricted: err = %v, want ErrInvalidFilter", err)
	}
}

func TestValidateFiltersUnresolvableType(t *testing.T) {
	source := &mockSchemaSource{
		resolveFn: func(docType, _ string) (schema.Schema, error) {
			return schema.Schema{}, domain.ErrUnsupportedDocumentType
		},
	}
	svc := New(&mockRepo{}, source, nil)

	err := svc.ValidateFilters(matchExpr(t, "model_id", "x"), "spreadsheet")
	if !errors.Is(err, domain.ErrUnsupportedDocumentType) {
		t.Errorf("err = %v, want ErrUnsupportedDocumentType", err)
	}
}
