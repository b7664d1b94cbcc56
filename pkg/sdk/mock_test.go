package lodestone

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/domain/document"
	"github.com/lodestone-ai/lodestone/internal/domain/schema"
	domquery "github.com/lodestone-ai/lodestone/internal/domain/search/query"
	"github.com/lodestone-ai/lodestone/internal/domain/search/result"
	"github.com/lodestone-ai/lodestone/internal/domain/validation"
	healthuc "github.com/lodestone-ai/lodestone/internal/usecase/health"
	queryuc "github.com/lodestone-ai/lodestone/internal/usecase/query"
)

// --- registryUseCase mock ---

type mockRegistryUC struct {
	registerFn func(ctx context.Context, sc schema.Schema) error
	getFn      func(schemaID, version string) (schema.Schema, error)
	idsFn      func() []string
	versionsFn func(schemaID string) ([]schema.Version, error)
}

func (m *mockRegistryUC) Register(ctx context.Context, sc schema.Schema) error {
	return m.registerFn(ctx, sc)
}

func (m *mockRegistryUC) Get(schemaID, version string) (schema.Schema, error) {
	return m.getFn(schemaID, version)
}

func (m *mockRegistryUC) SchemaIDs() []string {
	return m.idsFn()
}

func (m *mockRegistryUC) Versions(schemaID string) ([]schema.Version, error) {
	return m.versionsFn(schemaID)
}

// --- ingestUseCase mock ---

type mockIngestUC struct {
	upsertFn   func(ctx context.Context, doc document.Document, version string) (validation.Result, bool, error)
	validateFn func(doc document.Document, version string) (validation.Result, error)
	deleteFn   func(ctx context.Context, docType, id string) error
}

func (m *mockIngestUC) Upsert(
	ctx context.Context, doc document.Document, version string,
) (validation.Result, bool, error) {
	return m.upsertFn(ctx, doc, version)
}

func (m *mockIngestUC) Validate(doc document.Document, version string) (validation.Result, error) {
	return m.validateFn(doc, version)
}

func (m *mockIngestUC) Delete(ctx context.Context, docType, id string) error {
	return m.deleteFn(ctx, docType, id)
}

// --- indexUseCase mock ---

type mockIndexUC struct {
	getFn   func(docType, id string) (result.Result, error)
	countFn func(docType string) int
}

func (m *mockIndexUC) Get(docType, id string) (result.Result, error) {
	return m.getFn(docType, id)
}

func (m *mockIndexUC) Count(docType string) int {
	return m.countFn(docType)
}

// --- queryUseCase mock ---

type mockQueryUC struct {
	queryFn func(ctx context.Context, q domquery.Query) (queryuc.Response, error)
}

func (m *mockQueryUC) Query(ctx context.Context, q domquery.Query) (queryuc.Response, error) {
	return m.queryFn(ctx, q)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

// --- helpers ---

func testClient(
	registry registryUseCase,
	ingest ingestUseCase,
	index indexUseCase,
	query queryUseCase,
	health healthUseCase,
) *Client {
	return &Client{
		registry:  registry,
		ingest:    ingest,
		index:     index,
		query:     query,
		healthSvc: health,
	}
}
