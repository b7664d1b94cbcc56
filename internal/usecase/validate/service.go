package validate

import (
	"fmt"

	"github.com/lodestone-ai/lodestone/internal/domain/document"
	"github.com/lodestone-ai/lodestone/internal/domain/validation"
)

// Service validates documents against their resolved schemas. Stateless and
// CPU-bound: any number of validations may run concurrently against the
// same immutable schema snapshot.
type Service struct {
	resolver Resolver
}

// New creates a validator.
func New(resolver Resolver) *Service {
	return &Service{resolver: resolver}
}

// Validate checks a document against the schema its type resolves to.
// Resolution failures (unknown type, unknown version) are returned as
// errors; structural mismatches are collected into an Invalid result with
// the complete violation list — callers fix a document in one pass.
//
// A passing result carries a normalized copy: absent nullable fields are
// set to explicit nulls, so "field absent" and "field null" collapse to
// one indexed state. Re-validating the normalized copy yields an identical
// normalized form.
func (s *Service) Validate(doc document.Document, requestedVersion string) (validation.Result, error) {
	sc, err := s.resolver.Resolve(doc.Type(), requestedVersion)
	if err != nil {
		return validation.Result{}, fmt.Errorf("resolve schema for %q: %w", doc.Type(), err)
	}

	w := &walker{}
	envelope := map[string]any{
		"id":       doc.ID(),
		"metadata": doc.Metadata(),
	}
	// Content is optional for pure-metadata documents; an empty payload is
	// treated as absent so the schema's required set decides.
	if doc.Content() != "" {
		envelope["content"] = doc.Content()
	}

	normalized := w.value(sc.Definition(), envelope, "")
	if len(w.violations) > 0 {
		return validation.NewInvalid(w.violations), nil
	}

	normEnvelope, _ := normalized.(map[string]any)
	meta, _ := normEnvelope["metadata"].(map[string]any)
	return validation.NewValid(doc.WithMetadata(meta), sc.ID(), sc.Version().String()), nil
}
