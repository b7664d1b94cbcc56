package validate

import "github.com/lodestone-ai/lodestone/internal/domain/schema"

// Resolver picks the schema a document type must satisfy.
type Resolver interface {
	Resolve(docType, requestedVersion string) (schema.Schema, error)
}
