package registry

import (
	"fmt"
	"sort"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/schema"
)

// DefaultTypeTable maps document-type tags to schema ids, mirroring the
// registry catalog. Static configuration: the table is fixed at
// construction, never mutated at runtime.
func DefaultTypeTable() map[string]string {
	return map[string]string{
		"model_file":         "model_file_schema",
		"model_chunk":        "model_chunk_schema",
		"model_descriptions": "model_descriptions_schema",
		"git_commits":        "git_commits_schema",
		"framework":          "framework_schema",
		"dataset":            "dataset_schema",
		"training_config":    "training_config_schema",
		"architecture":       "architecture_schema",
		"generated_images":   "generated_images_schema",
		"model_images":       "model_images_schema",
		"images_folder":      "images_folder_schema",
		"diagram_path":       "diagram_path_schema",
		"code_function":      "code_function_schema",
	}
}

// Resolver maps document-type tags to schemas via the store.
type Resolver struct {
	store *Service
	table map[string]string
}

// NewResolver creates a resolver over a fixed type table.
func NewResolver(store *Service, table map[string]string) *Resolver {
	if table == nil {
		table = DefaultTypeTable()
	}
	copied := make(map[string]string, len(table))
	for k, v := range table {
		copied[k] = v
	}
	return &Resolver{store: store, table: copied}
}

// Resolve picks the schema a document of the given type must satisfy:
// the pinned version when requestedVersion is non-empty, otherwise the
// active (maximum) version.
func (r *Resolver) Resolve(docType, requestedVersion string) (schema.Schema, error) {
	schemaID, ok := r.table[docType]
	if !ok {
		return schema.Schema{}, fmt.Errorf("%q: %w", docType, domain.ErrUnsupportedDocumentType)
	}
	return r.store.Get(schemaID, requestedVersion)
}

// Supports reports whether the document-type tag is registered.
func (r *Resolver) Supports(docType string) bool {
	_, ok := r.table[docType]
	return ok
}

// DocumentTypes returns the registered type tags, sorted.
func (r *Resolver) DocumentTypes() []string {
	types := make([]string, 0, len(r.table))
	for t := range r.table {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
