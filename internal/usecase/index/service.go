package index

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/search/filter"
	"github.com/lodestone-ai/lodestone/internal/domain/search/result"
	"github.com/lodestone-ai/lodestone/internal/domain/validation"
	"github.com/lodestone-ai/lodestone/internal/index"
)

// Service is the document index: it owns index entries exclusively, stores
// embeddings and tokenized content partitioned by document type, and serves
// the vector and keyword sub-searches. Only validated documents may enter.
type Service struct {
	engine    *index.Engine
	repo      Repository
	schemas   SchemaSource
	logger    *zap.Logger
	vectorDim int
}

// New creates a document index service.
func New(repo Repository, schemas SchemaSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:  index.NewEngine(),
		repo:    repo,
		schemas: schemas,
		logger:  logger,
	}
}

// WithVectorDim fixes the expected embedding length. Zero disables the check.
func (s *Service) WithVectorDim(dim int) *Service {
	s.vectorDim = dim
	return s
}

// Load rebuilds the in-memory engine from durable storage.
func (s *Service) Load(ctx context.Context) error {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load index entries: %w", err)
	}
	for _, e := range entries {
		s.engine.Upsert(e)
	}
	if len(entries) > 0 {
		s.logger.Info("index rebuilt from storage", zap.Int("entries", len(entries)))
	}
	return nil
}

// Upsert stores or replaces the index entry for a validated document.
// The receipt must come from a successful Validator pass over this exact
// payload; anything else is a call-sequencing defect and fails with
// ErrNotValidated. Returns true if the entry was created.
func (s *Service) Upsert(ctx context.Context, receipt validation.Result, embedding []float32) (bool, error) {
	if !receipt.IsValid() {
		s.logger.Error("index write without passing validation",
			zap.String("violations", receipt.Error()),
		)
		return false, domain.ErrNotValidated
	}
	doc := receipt.Normalized()
	if validation.Fingerprint(doc) != receipt.Fingerprint() {
		// The payload mutated between validation and indexing.
		s.logger.Error("index write with stale validation receipt",
			zap.String("doc_id", doc.ID()),
			zap.String("doc_type", doc.Type()),
		)
		return false, domain.ErrNotValidated
	}
	if s.vectorDim > 0 && len(embedding) > 0 && len(embedding) != s.vectorDim {
		return false, fmt.Errorf("got %d, want %d: %w", len(embedding), s.vectorDim, domain.ErrVectorDimMismatch)
	}

	entry := &index.Entry{
		ID:            doc.ID(),
		DocType:       doc.Type(),
		SchemaID:      receipt.SchemaID(),
		SchemaVersion: receipt.SchemaVersion(),
		Content:       doc.Content(),
		Metadata:      doc.Metadata(),
		AccessControl: doc.AccessControl(),
		Vector:        embedding,
		Terms:         index.BuildTerms(doc.Content(), doc.Metadata()),
		Fingerprint:   receipt.Fingerprint(),
	}
	for _, n := range entry.Terms {
		entry.TermTotal += n
	}

	// Persist first: an entry becomes visible to queries only once durable.
	if err := s.repo.Save(ctx, entry); err != nil {
		return false, fmt.Errorf("persist index entry %s/%s: %w", entry.DocType, entry.ID, err)
	}
	return s.engine.Upsert(entry), nil
}

// Delete removes an entry. No-op if absent.
func (s *Service) Delete(ctx context.Context, docType, id string) error {
	if err := s.repo.Delete(ctx, docType, id); err != nil {
		return fmt.Errorf("delete index entry %s/%s: %w", docType, id, err)
	}
	s.engine.Delete(docType, id)
	return nil
}

// Get returns the current snapshot of an indexed document.
func (s *Service) Get(docType, id string) (result.Result, error) {
	entry, ok := s.engine.Get(docType, id)
	if !ok {
		return result.Result{}, fmt.Errorf("%s/%s: %w", docType, id, domain.ErrDocumentNotFound)
	}
	return result.New(entry.ID, entry.DocType, 0, entry.Content, entry.Metadata), nil
}

// Count returns the number of entries in a document-type partition ("" = all).
func (s *Service) Count(docType string) int {
	return s.engine.Count(docType)
}

// SearchVector returns up to k entries ranked by descending cosine
// similarity, restricted to entries matching the filter conjunction.
func (s *Service) SearchVector(
	_ context.Context, vector []float32, k int, filters filter.Expression, docType string,
) ([]result.Result, error) {
	if err := s.ValidateFilters(filters, docType); err != nil {
		return nil, err
	}
	hits := s.engine.SearchVector(vector, k, docType, index.Predicate(filters))
	return toResults(hits), nil
}

// SearchKeyword returns up to k entries ranked by term-frequency relevance,
// same filter semantics as SearchVector.
func (s *Service) SearchKeyword(
	_ context.Context, terms []string, k int, filters filter.Expression, docType string,
) ([]result.Result, error) {
	if err := s.ValidateFilters(filters, docType); err != nil {
		return nil, err
	}
	hits := s.engine.SearchKeyword(terms, k, docType, index.Predicate(filters))
	return toResults(hits), nil
}

func toResults(hits []index.Hit) []result.Result {
	results := make([]result.Result, len(hits))
	for i, h := range hits {
		results[i] = result.New(h.Entry.ID, h.Entry.DocType, h.Score, h.Entry.Content, h.Entry.Metadata)
	}
	return results
}
