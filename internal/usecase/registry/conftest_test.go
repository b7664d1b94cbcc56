package registry

import (
	"context"
	"testing"

	"github.com/lodestone-ai/lodestone/internal/domain/schema"
)

type mockRepo struct {
	saveFn func(ctx context.Context, s schema.Schema) error
	listFn func(ctx context.Context) ([]schema.Schema, error)
}

func (m *mockRepo) Save(ctx context.Context, s schema.Schema) error {
	if m.saveFn == nil {
		return nil
	}
	return m.saveFn(ctx, s)
}

func (m *mockRepo) List(ctx context.Context) ([]schema.Schema, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx)
}

func newSchema(t *testing.T, id, version string) schema.Schema {
	t.Helper()
	node, _, err := schema.DecodeDefinition(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"metadata": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"model_id": map[string]any{"type": "string"},
					"chunk_id": map[string]any{"type": "integer"},
					"tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required": []any{"model_id"},
			},
		},
		"required": []any{"metadata"},
	})
	if err != nil {
		t.Fatalf("decode definition: %v", err)
	}
	sc, err := schema.New(id, version, node, "", "")
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	return sc
}
