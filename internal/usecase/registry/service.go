package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/schema"
)

// Service is the schema store: immutable, versioned schema definitions
// keyed by (schema_id, version). Registration is append-only and serialized
// per schema_id; reads never block each other since published schemas are
// immutable.
type Service struct {
	repo   Repository
	logger *zap.Logger

	mu      sync.RWMutex
	schemas map[string]map[string]schema.Schema
	latest  map[string]schema.Version

	lockMu  sync.Mutex
	idLocks map[string]*sync.Mutex
}

// New creates a schema store. repo may be nil for catalog-only operation
// (tests); registrations are then memory-only.
func New(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		logger:  logger,
		schemas: map[string]map[string]schema.Schema{},
		latest:  map[string]schema.Version{},
		idLocks: map[string]*sync.Mutex{},
	}
}

// Register appends a new schema version. Fails with ErrDuplicateVersion if
// (schema_id, version) already exists. The write is persisted before it
// becomes visible to readers.
func (s *Service) Register(ctx context.Context, sc schema.Schema) error {
	// Compare-and-append under the per-schema_id lock: concurrent
	// registrations of the same id serialize, different ids proceed in
	// parallel.
	idLock := s.lockFor(sc.ID())
	idLock.Lock()
	defer idLock.Unlock()

	if s.exists(sc.ID(), sc.Version().String()) {
		return fmt.Errorf("%s@%s: %w", sc.ID(), sc.Version(), domain.ErrDuplicateVersion)
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, sc); err != nil {
			return fmt.Errorf("persist schema %s@%s: %w", sc.ID(), sc.Version(), err)
		}
	}

	s.insert(sc)
	s.logger.Info("schema registered",
		zap.String("schema_id", sc.ID()),
		zap.String("version", sc.Version().String()),
	)
	return nil
}

// Get returns the schema at the requested version, or the maximum version
// when version is empty.
func (s *Service) Get(schemaID, version string) (schema.Schema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, ok := s.schemas[schemaID]
	if !ok {
		return schema.Schema{}, fmt.Errorf("%s: %w", schemaID, domain.ErrUnknownSchema)
	}
	if version == "" {
		return versions[s.latest[schemaID].String()], nil
	}
	sc, ok := versions[version]
	if !ok {
		return schema.Schema{}, fmt.Errorf("%s@%s: %w", schemaID, version, domain.ErrUnknownVersion)
	}
	return sc, nil
}

// Versions returns the registered versions of a schema in ascending order.
func (s *Service) Versions(schemaID string) ([]schema.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, ok := s.schemas[schemaID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", schemaID, domain.ErrUnknownSchema)
	}
	out := make([]schema.Version, 0, len(versions))
	for _, sc := range versions {
		out = append(out, sc.Version())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out, nil
}

// SchemaIDs returns all registered schema ids, sorted.
func (s *Service) SchemaIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.schemas))
	for id := range s.schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadCatalog bulk-loads the startup catalog into memory. Duplicate
// (schema_id, version) pairs within the catalog are rejected.
func (s *Service) LoadCatalog(schemas []schema.Schema) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sc := range schemas {
		if versions, ok := s.schemas[sc.ID()]; ok {
			if _, dup := versions[sc.Version().String()]; dup {
				return fmt.Errorf("catalog: %s@%s: %w", sc.ID(), sc.Version(), domain.ErrDuplicateVersion)
			}
		}
		s.insertLocked(sc)
	}
	return nil
}

// LoadPersisted hydrates schemas registered in previous runs. Pairs already
// present from the catalog are skipped: the persisted copy of a published
// version is by construction identical.
func (s *Service) LoadPersisted(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	persisted, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list persisted schemas: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restored := 0
	for _, sc := range persisted {
		if versions, ok := s.schemas[sc.ID()]; ok {
			if _, dup := versions[sc.Version().String()]; dup {
				continue
			}
		}
		s.insertLocked(sc)
		restored++
	}
	if restored > 0 {
		s.logger.Info("restored persisted schemas", zap.Int("count", restored))
	}
	return nil
}

func (s *Service) exists(schemaID, version string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	versions, ok := s.schemas[schemaID]
	if !ok {
		return false
	}
	_, ok = versions[version]
	return ok
}

func (s *Service) insert(sc schema.Schema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(sc)
}

func (s *Service) insertLocked(sc schema.Schema) {
	versions, ok := s.schemas[sc.ID()]
	if !ok {
		versions = map[string]schema.Schema{}
		s.schemas[sc.ID()] = versions
	}
	versions[sc.Version().String()] = sc
	if cur, ok := s.latest[sc.ID()]; !ok || sc.Version().Compare(cur) > 0 {
		s.latest[sc.ID()] = sc.Version()
	}
}

func (s *Service) lockFor(schemaID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.idLocks[schemaID]
	if !ok {
		l = &sync.Mutex{}
		s.idLocks[schemaID] = l
	}
	return l
}
