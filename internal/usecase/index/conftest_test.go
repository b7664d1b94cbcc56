package index

import (
	"context"
	"testing"

	"github.com/lodestone-ai/lodestone/internal/domain/document"
	"github.com/lodestone-ai/lodestone/internal/domain/schema"
	"github.com/lodestone-ai/lodestone/internal/domain/search/filter"
	"github.com/lodestone-ai/lodestone/internal/domain/validation"
	"github.com/lodestone-ai/lodestone/internal/index"
)

type mockRepo struct {
	saveFn   func(ctx context.Context, e *index.Entry) error
	deleteFn func(ctx context.Context, docType, id string) error
	listFn   func(ctx context.Context) ([]*index.Entry, error)
}

func (m *mockRepo) Save(ctx context.Context, e *index.Entry) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, e)
}

func (m *mockRepo) Delete(ctx context.Context, docType, id string) error {
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, docType, id)
}

func (m *mockRepo) List(ctx context.Context) ([]*index.Entry, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}

type mockSchemaSource struct {
	resolveFn  func(docType, requestedVersion string) (schema.Schema, error)
	supportsFn func(docType string) bool
	typesFn    func() []string
}

func (m *mockSchemaSource) Resolve(docType, requestedVersion string) (schema.Schema, error) {
	return m.resolveFn(docType, requestedVersion)
}

func (m *mockSchemaSource) Supports(docType string) bool {
	if m.supportsFn == nil {
		return true
	}
	return m.supportsFn(docType)
}

func (m *mockSchemaSource) DocumentTypes() []string {
	if m.typesFn == nil {
		return nil
	}
	return m.typesFn()
}

// chunkSchema declares metadata{model_id string, chunk_id integer,
// score number|null, tags []string}.
func chunkSchema(t *testing.T) schema.Schema {
	t.Helper()
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":      map[string]any{"type": "string"},
			"content": map[string]any{"type": "string"},
			"metadata": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"model_id": map[string]any{"type": "string"},
					"chunk_id": map[string]any{"type": "integer"},
					"score":    map[string]any{"type": []any{"number", "null"}},
					"tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required": []any{"model_id", "chunk_id"},
			},
		},
		"required": []any{"id", "metadata"},
	}
	node, _, err := schema.DecodeDefinition(def)
	if err != nil {
		t.Fatalf("DecodeDefinition: %v", err)
	}
	sc, err := schema.New("model_chunk_schema", "1.0.0", node, "", "")
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	return sc
}

func chunkSource(t *testing.T) *mockSchemaSource {
	t.Helper()
	sc := chunkSchema(t)
	return &mockSchemaSource{
		resolveFn: func(_, _ string) (schema.Schema, error) {
			return sc, nil
		},
		typesFn: func() []string { return []string{"model_chunk"} },
	}
}

func emptyExpr(t *testing.T) filter.Expression {
	t.Helper()
	expr, err := filter.NewExpression(nil)
	if err != nil {
		t.Fatalf("NewExpression: %v", err)
	}
	return expr
}

func matchExpr(t *testing.T, path, value string) filter.Expression {
	t.Helper()
	c, err := filter.NewMatch(path, value)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	expr, err := filter.NewExpression([]filter.Condition{c})
	if err != nil {
		t.Fatalf("NewExpression: %v", err)
	}
	return expr
}

// receipt builds a passing validation result the way the validator would,
// with the fingerprint bound to the exact payload.
func receipt(t *testing.T, id, content string, metadata map[string]any) validation.Result {
	t.Helper()
	doc, err := document.New(id, "model_chunk", content, metadata, nil)
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return validation.NewValid(doc, "model_chunk_schema", "1.0.0")
}
