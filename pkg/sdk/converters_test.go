package lodestone

import (
	"testing"
)

func TestToInternalFiltersMatch(t *testing.T) {
	expr, err := toInternalFilters([]Filter{Match("model_id", "m-7")})
	if err != nil {
		t.Fatalf("toInternalFilters: %v", err)
	}
	conds := expr.Conditions()
	if len(conds) != 1 {
		t.Fatalf("len = %d, want 1", len(conds))
	}
	if !conds[0].IsMatch() || *conds[0].Match() != "m-7" {
		t.Errorf("unexpected condition: %+v", conds[0])
	}
}

func TestToInternalFiltersContains(t *testing.T) {
	expr, err := toInternalFilters([]Filter{Contains("image_content.tags", "diagram")})
	if err != nil {
		t.Fatalf("toInternalFilters: %v", err)
	}
	conds := expr.Conditions()
	if len(conds) != 1 || !conds[0].IsContains() || conds[0].Contains() != "diagram" {
		t.Errorf("unexpected condition: %+v", conds)
	}
}

func TestToInternalFiltersRange(t *testing.T) {
	low, high := 1.0, 10.0
	expr, err := toInternalFilters([]Filter{NumRange("chunk_id", Range{GTE: &low, LT: &high})})
	if err != nil {
		t.Fatalf("toInternalFilters: %v", err)
	}
	conds := expr.Conditions()
	if len(conds) != 1 || !conds[0].IsRange() {
		t.Fatalf("unexpected conditions: %+v", conds)
	}
	r := conds[0].Range()
	if r.GTE() == nil || *r.GTE() != 1.0 || r.LT() == nil || *r.LT() != 10.0 {
		t.Errorf("unexpected range bounds: %+v", r)
	}
}

func TestToInternalFiltersEmpty(t *testing.T) {
	expr, err := toInternalFilters(nil)
	if err != nil {
		t.Fatalf("toInternalFilters: %v", err)
	}
	if !expr.IsEmpty() {
		t.Error("expected empty expression")
	}
}

func TestToInternalConditionAmbiguous(t *testing.T) {
	m := "x"
	_, err := toInternalCondition(Filter{Path: "p", Match: &m, Contains: "y"})
	if err == nil {
		t.Fatal("expected error for ambiguous filter, got nil")
	}
}

func TestToInternalConditionUnset(t *testing.T) {
	_, err := toInternalCondition(Filter{Path: "p"})
	if err == nil {
		t.Fatal("expected error for empty filter, got nil")
	}
}

func TestToInternalConditionEmptyRange(t *testing.T) {
	_, err := toInternalCondition(NumRange("p", Range{}))
	if err == nil {
		t.Fatal("expected error for range without boundaries, got nil")
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	original := Schema{
		ID:          "model_chunk_schema",
		Version:     "1.0.0",
		Description: "chunk contract",
		Definition:  chunkSchemaDef(),
	}

	internal, err := toInternalSchema(original)
	if err != nil {
		t.Fatalf("toInternalSchema: %v", err)
	}
	back := fromInternalSchema(internal)

	if back.ID != original.ID || back.Version != original.Version {
		t.Errorf("identity changed: %s:%s", back.ID, back.Version)
	}
	if back.Description != "chunk contract" {
		t.Errorf("Description = %q", back.Description)
	}
	props, ok := back.Definition["properties"].(map[string]any)
	if !ok {
		t.Fatalf("definition lost properties: %v", back.Definition)
	}
	meta, ok := props["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("definition lost metadata node: %v", props)
	}
	req, ok := meta["required"].([]any)
	if !ok || len(req) != 2 {
		t.Errorf("metadata required = %v", meta["required"])
	}
}

func TestToInternalDocumentDefaults(t *testing.T) {
	doc, err := toInternalDocument(Document{ID: "d1", Type: "model_file"})
	if err != nil {
		t.Fatalf("toInternalDocument: %v", err)
	}
	if doc.Metadata() == nil {
		t.Error("metadata not defaulted to empty map")
	}
}
