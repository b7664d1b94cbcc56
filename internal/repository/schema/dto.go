package schema

import (
	"encoding/json"
	"fmt"

	domschema "github.com/lodestone-ai/lodestone/internal/domain/schema"
)

// jsonSchema is the storage shape of a registered schema version.
type jsonSchema struct {
	SchemaID    string         `json:"schema_id"`
	Version     string         `json:"schema_version"`
	Definition  map[string]any `json:"schema_definition"`
	Description string         `json:"description,omitempty"`
	UpdatedDate string         `json:"updated_date,omitempty"`
}

func buildJSONSchema(s domschema.Schema) jsonSchema {
	return jsonSchema{
		SchemaID:    s.ID(),
		Version:     s.Version().String(),
		Definition:  domschema.EncodeDefinition(s.Definition()),
		Description: s.Description(),
		UpdatedDate: s.UpdatedDate(),
	}
}

// parseJSONGetResult unwraps the JSONPath array envelope from JSON.GET $
// and reconstructs the domain schema.
func parseJSONGetResult(raw []byte) (domschema.Schema, error) {
	var docs []jsonSchema
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domschema.Schema{}, fmt.Errorf("unmarshal: %w", err)
	}
	if len(docs) == 0 {
		return domschema.Schema{}, fmt.Errorf("empty JSON.GET result")
	}
	return parseJSONSchema(docs[0])
}

func parseJSONSchema(doc jsonSchema) (domschema.Schema, error) {
	version, err := domschema.ParseVersion(doc.Version)
	if err != nil {
		return domschema.Schema{}, fmt.Errorf("schema %s: %w", doc.SchemaID, err)
	}
	// Stored definitions were normalized at registration time, so any
	// decode warnings here are stale and dropped.
	node, _, err := domschema.DecodeDefinition(map[string]any(doc.Definition))
	if err != nil {
		return domschema.Schema{}, fmt.Errorf("schema %s: %w", doc.SchemaID, err)
	}
	return domschema.Reconstruct(doc.SchemaID, version, node, doc.Description, doc.UpdatedDate), nil
}
