package schema

import (
	"encoding/json"
	"fmt"
	"os"

	domschema "github.com/lodestone-ai/lodestone/internal/domain/schema"
)

// Catalog is a parsed schema catalog file.
type Catalog struct {
	Name     string
	Schemas  []domschema.Schema
	Warnings []string
}

type jsonCatalog struct {
	RegistryName string       `json:"registry_name"`
	Schemas      []jsonSchema `json:"schemas"`
}

// LoadCatalog reads and validates a catalog file. Malformed entries and
// duplicate schema_id+version pairs fail the whole load; a partially
// applied catalog is worse than no catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses catalog bytes.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw jsonCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(raw.Schemas) == 0 {
		return nil, fmt.Errorf("catalog has no schemas")
	}

	cat := &Catalog{Name: raw.RegistryName}
	seen := make(map[string]bool, len(raw.Schemas))

	for i, doc := range raw.Schemas {
		version, err := domschema.ParseVersion(doc.Version)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d (%s): %w", i, doc.SchemaID, err)
		}
		pair := doc.SchemaID + ":" + version.String()
		if seen[pair] {
			return nil, fmt.Errorf("catalog entry %d: duplicate schema %s", i, pair)
		}
		seen[pair] = true

		node, warnings, err := domschema.DecodeDefinition(map[string]any(doc.Definition))
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d (%s): %w", i, doc.SchemaID, err)
		}
		for _, w := range warnings {
			cat.Warnings = append(cat.Warnings, fmt.Sprintf("schema %s: %s", pair, w))
		}

		s, err := domschema.New(doc.SchemaID, doc.Version, node, doc.Description, doc.UpdatedDate)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		cat.Schemas = append(cat.Schemas, s)
	}

	return cat, nil
}
