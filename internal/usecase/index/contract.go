package index

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/domain/schema"
	"github.com/lodestone-ai/lodestone/internal/index"
)

// Repository is the durable storage contract for index entries. Committed
// upserts and deletes must survive restart; a restart never resurrects a
// deleted or superseded entry.
type Repository interface {
	Save(ctx context.Context, e *index.Entry) error
	Delete(ctx context.Context, docType, id string) error
	List(ctx context.Context) ([]*index.Entry, error)
}

// SchemaSource resolves document types to schemas for filter validation.
type SchemaSource interface {
	Resolve(docType, requestedVersion string) (schema.Schema, error)
	Supports(docType string) bool
	DocumentTypes() []string
}
