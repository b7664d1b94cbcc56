package registry

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/domain/schema"
)

// Repository persists registered schemas so a restart keeps registrations
// made after the catalog was loaded.
type Repository interface {
	Save(ctx context.Context, s schema.Schema) error
	List(ctx context.Context) ([]schema.Schema, error)
}
