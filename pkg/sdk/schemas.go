package lodestone

import (
	"context"
	"fmt"
	"time"
)

// SchemaService manages the append-only schema registry.
type SchemaService struct {
	svc registryUseCase
	obs *observer
}

// Register publishes a new schema version. Registration is append-only:
// re-registering an existing (id, version) fails with ErrDuplicateVersion.
func (s *SchemaService) Register(ctx context.Context, sc Schema) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("schema.register", start, err) }()

	internal, err := toInternalSchema(sc)
	if err != nil {
		return fmt.Errorf("register schema: %w", err)
	}
	if err = s.svc.Register(ctx, internal); err != nil {
		return fmt.Errorf("register schema: %w", err)
	}
	return nil
}

// Get retrieves a schema by id. Empty version selects the active
// (maximum) version.
func (s *SchemaService) Get(id, version string) (_ Schema, err error) {
	start := time.Now()
	defer func() { s.obs.observe("schema.get", start, err) }()

	sc, err := s.svc.Get(id, version)
	if err != nil {
		return Schema{}, fmt.Errorf("get schema: %w", err)
	}
	return fromInternalSchema(sc), nil
}

// List returns every registered schema id with its version history,
// sorted by id.
func (s *SchemaService) List() (_ []SchemaVersions, err error) {
	start := time.Now()
	defer func() { s.obs.observe("schema.list", start, err) }()

	ids := s.svc.SchemaIDs()
	out := make([]SchemaVersions, 0, len(ids))
	for _, id := range ids {
		versions, err := s.svc.Versions(id)
		if err != nil {
			return nil, fmt.Errorf("list schemas: %w", err)
		}
		sv := SchemaVersions{ID: id}
		for _, v := range versions {
			sv.Versions = append(sv.Versions, v.String())
		}
		out = append(out, sv)
	}
	return out, nil
}

// SchemaVersions is one schema id with its ascending version history.
type SchemaVersions struct {
	ID       string
	Versions []string
}
