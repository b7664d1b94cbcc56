package validate

import (
	"testing"

	"github.com/lodestone-ai/lodestone/internal/domain/document"
	"github.com/lodestone-ai/lodestone/internal/domain/schema"
)

type mockResolver struct {
	resolveFn func(docType, requestedVersion string) (schema.Schema, error)
}

func (m *mockResolver) Resolve(docType, requestedVersion string) (schema.Schema, error) {
	return m.resolveFn(docType, requestedVersion)
}

// chunkSchema mirrors the model_chunk_schema envelope: a required id and
// metadata object, optional content, nullable score, bounded tags array.
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
						"type":     "array",
						"items":    map[string]any{"type": "string"},
						"minItems": float64(1),
						"maxItems": float64(3),
					},
				},
				"required":             []any{"model_id", "chunk_id"},
				"additionalProperties": false,
			},
		},
		"required": []any{"id", "metadata"},
	}
	node, warnings, err := schema.DecodeDefinition(def)
	if err != nil {
		t.Fatalf("DecodeDefinition: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	sc, err := schema.New("model_chunk_schema", "1.0.0", node, "chunks", "2026-01-01")
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	return sc
}

func fixedResolver(t *testing.T) *mockResolver {
	t.Helper()
	sc := chunkSchema(t)
	return &mockResolver{
		resolveFn: func(_, _ string) (schema.Schema, error) {
			return sc, nil
		},
	}
}

func chunkDoc(t *testing.T, metadata map[string]any) document.Document {
	t.Helper()
	doc, err := document.New("chunk-1", "model_chunk", "layer weights", metadata, nil)
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	return doc
}
