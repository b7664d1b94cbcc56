package lodestone

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lodestone-ai/lodestone/internal/db"
	dbRedis "github.com/lodestone-ai/lodestone/internal/db/redis"
	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/document"
	"github.com/lodestone-ai/lodestone/internal/domain/schema"
	domquery "github.com/lodestone-ai/lodestone/internal/domain/search/query"
	"github.com/lodestone-ai/lodestone/internal/domain/search/result"
	"github.com/lodestone-ai/lodestone/internal/domain/validation"
	"github.com/lodestone-ai/lodestone/internal/index"
	entryrepo "github.com/lodestone-ai/lodestone/internal/repository/entry"
	schemarepo "github.com/lodestone-ai/lodestone/internal/repository/schema"
	healthuc "github.com/lodestone-ai/lodestone/internal/usecase/health"
	indexuc "github.com/lodestone-ai/lodestone/internal/usecase/index"
	ingestuc "github.com/lodestone-ai/lodestone/internal/usecase/ingest"
	queryuc "github.com/lodestone-ai/lodestone/internal/usecase/query"
	registryuc "github.com/lodestone-ai/lodestone/internal/usecase/registry"
	validateuc "github.com/lodestone-ai/lodestone/internal/usecase/validate"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so services can be swapped in tests.
type registryUseCase interface {
	Register(ctx context.Context, sc schema.Schema) error
	Get(schemaID, version string) (schema.Schema, error)
	SchemaIDs() []string
	Versions(schemaID string) ([]schema.Version, error)
}

type ingestUseCase interface {
	Upsert(ctx context.Context, doc document.Document, requestedVersion string) (validation.Result, bool, error)
	Validate(doc document.Document, requestedVersion string) (validation.Result, error)
	Delete(ctx context.Context, docType, id string) error
}

type indexUseCase interface {
	Get(docType, id string) (result.Result, error)
	Count(docType string) int
}

type queryUseCase interface {
	Query(ctx context.Context, q domquery.Query) (queryuc.Response, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the lodestone SDK entry point.
type Client struct {
	store     db.Store
	registry  registryUseCase
	ingest    ingestUseCase
	index     indexUseCase
	query     queryUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a lodestone Client and connects to Redis.
// The provided context bounds the initial readiness check and the
// index rebuild from storage.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("lodestone: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.redisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("lodestone: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("lodestone: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	regSvc := registryuc.New(schemarepo.New(store, cfg.keyPrefix), cfg.logger)
	if err := regSvc.LoadPersisted(ctx); err != nil {
		return nil, fmt.Errorf("lodestone: load schemas: %w", err)
	}

	resolver := registryuc.NewResolver(regSvc, cfg.typeTable)
	validateSvc := validateuc.New(resolver)

	indexSvc := indexuc.New(entryrepo.New(store, cfg.keyPrefix), resolver, cfg.logger)
	if cfg.vectorDimensions > 0 {
		indexSvc = indexSvc.WithVectorDim(cfg.vectorDimensions)
	}
	if err := indexSvc.Load(ctx); err != nil {
		return nil, fmt.Errorf("lodestone: load index: %w", err)
	}

	var emb domain.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		emb = &embedderAdapter{inner: cfg.embedder}
	}

	ingestSvc := ingestuc.New(validateSvc, indexSvc, emb, cfg.logger)
	querySvc := queryuc.New(indexSvc, resolver, emb, index.Analyzer{}, queryuc.FusionConfig{
		VectorWeight:  cfg.vectorWeight,
		KeywordWeight: cfg.keywordWeight,
		Oversampling:  cfg.oversampling,
	}, cfg.logger)
	healthSvc := healthuc.New(store, nil, regSvc)

	return &Client{
		store:     store,
		registry:  regSvc,
		ingest:    ingestSvc,
		index:     indexSvc,
		query:     querySvc,
		healthSvc: healthSvc,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Schemas returns the schema registry service.
func (c *Client) Schemas() *SchemaService {
	return &SchemaService{svc: c.registry, obs: c.obs}
}

// Documents returns the document ingestion service.
func (c *Client) Documents() *DocumentService {
	return &DocumentService{ingest: c.ingest, index: c.index, obs: c.obs}
}

// Query returns the hybrid query service.
func (c *Client) Query() *QueryService {
	return &QueryService{svc: c.query, obs: c.obs}
}
