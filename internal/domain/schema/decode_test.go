package schema

import (
	"reflect"
	"strings"
	"testing"
)

func TestDecodeDefinitionObject(t *testing.T) {
	raw := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"model_id": map[string]any{"type": "string"},
			"chunk_id": map[string]any{"type": "integer"},
		},
		"required":             []any{"model_id"},
		"additionalProperties": false,
	}

	node, warnings, err := DecodeDefinition(raw)
	if err != nil {
		t.Fatalf("DecodeDefinition: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if node.Kind() != KindObject {
		t.Fatalf("Kind = %s, want object", node.Kind())
	}
	if node.AdditionalAllowed() {
		t.Error("additionalProperties:false not honored")
	}
	if !node.IsRequired("model_id") || node.IsRequired("chunk_id") {
		t.Errorf("required = %v", node.Required())
	}
	child, ok := node.Property("chunk_id")
	if !ok || !child.Allows(Integer) {
		t.Errorf("chunk_id property: %v, %v", child, ok)
	}
}

func TestDecodeDefinitionUnionNullable(t *testing.T) {
	node, _, err := DecodeDefinition(map[string]any{"type": []any{"string", "integer", "null"}})
	if err != nil {
		t.Fatalf("DecodeDefinition: %v", err)
	}
	if !node.Nullable() {
		t.Error("null union member should set the nullable flag")
	}
	if !node.Allows(String) || !node.Allows(Integer) || node.Allows(Boolean) {
		t.Errorf("types = %v", node.Types())
	}
}

func TestDecodeDefinitionPathNormalized(t *testing.T) {
	raw := map[string]any{
		"type": "path",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
		"required": []any{"name"},
	}

	node, warnings, err := DecodeDefinition(raw)
	if err != nil {
		t.Fatalf("DecodeDefinition: %v", err)
	}
	if node.Kind() != KindObject {
		t.Errorf("path node decoded as %s, want object", node.Kind())
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "path") {
		t.Errorf("warnings = %v, want one path normalization warning", warnings)
	}
}

func TestDecodeDefinitionArrayBounds(t *testing.T) {
	raw := map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "integer"},
		"minItems": float64(2),
		"maxItems": float64(2),
	}

	node, _, err := DecodeDefinition(raw)
	if err != nil {
		t.Fatalf("DecodeDefinition: %v", err)
	}
	if node.Kind() != KindArray {
		t.Fatalf("Kind = %s, want array", node.Kind())
	}
	if node.MinItems() == nil || *node.MinItems() != 2 || node.MaxItems() == nil || *node.MaxItems() != 2 {
		t.Errorf("bounds = %v/%v, want 2/2", node.MinItems(), node.MaxItems())
	}
}

func TestDecodeDefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{name: "not an object", raw: "string"},
		{name: "unknown type", raw: map[string]any{"type": "wormhole"}},
		{name: "array without items", raw: map[string]any{"type": "array"}},
		{name: "object union member", raw: map[string]any{"type": []any{"object", "string"}}},
		{name: "only null", raw: map[string]any{"type": []any{"null"}}},
		{name: "bad required", raw: map[string]any{"type": "object", "required": "model_id"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DecodeDefinition(tt.raw); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestEncodeDefinitionRoundTrip(t *testing.T) {
	raw := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"model_id": map[string]any{"type": "string"},
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"note": map[string]any{"type": []any{"string", "null"}},
		},
		"required": []any{"model_id"},
	}

	node, _, err := DecodeDefinition(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	encoded := EncodeDefinition(node)

	// Decoding the encoded form must yield the same tree shape.
	again, warnings, err := DecodeDefinition(encoded)
	if err != nil {
		t.Fatalf("decode encoded form: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("re-decode warnings = %v", warnings)
	}
	if !reflect.DeepEqual(EncodeDefinition(again), encoded) {
		t.Error("encode/decode/encode is not stable")
	}

	note, _ := again.Property("note")
	if note == nil || !note.Nullable() {
		t.Error("nullability lost in round trip")
	}
}
