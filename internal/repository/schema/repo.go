package schema

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lodestone-ai/lodestone/internal/domain"
	domschema "github.com/lodestone-ai/lodestone/internal/domain/schema"
)

// store is the consumer interface for schema persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/registry.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a schema repository. Keys are namespaced under prefix; empty
// selects domain.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Save persists a registered schema version.
func (r *Repo) Save(ctx context.Context, s domschema.Schema) error {
	key := r.schemaKey(s.ID(), s.Version().String())
	data, err := json.Marshal(buildJSONSchema(s))
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// List returns every persisted schema version.
func (r *Repo) List(ctx context.Context) ([]domschema.Schema, error) {
	keys, err := r.store.Scan(ctx, r.schemaKey("*", "*"))
	if err != nil {
		return nil, fmt.Errorf("scan schemas: %w", err)
	}

	schemas := make([]domschema.Schema, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			return nil, fmt.Errorf("json.get %s: %w", key, err)
		}
		s, err := parseJSONGetResult(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

func (r *Repo) schemaKey(id, version string) string {
	return fmt.Sprintf("%sschema:%s:%s", r.prefix, id, version)
}
