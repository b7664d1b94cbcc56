package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lodestone-ai/lodestone/internal/domain/document"
	"github.com/lodestone-ai/lodestone/internal/domain/validation"
)

// Service is the ingestion path: validate, embed, index. It is the only
// writer of the document index, which guarantees every indexed entry
// passed validation first.
type Service struct {
	validator Validator
	indexer   Indexer
	embedder  Embedder
	logger    *zap.Logger
}

// New creates an ingest service.
func New(validator Validator, indexer Indexer, embedder Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{validator: validator, indexer: indexer, embedder: embedder, logger: logger}
}

// Upsert validates the document and, on success, embeds its content and
// hands the entry to the index (replace, not merge). An Invalid result is
// returned to the caller with the complete violation list; no index write
// happens. Embedding failures propagate untouched — retry policy belongs
// to the caller's pipeline.
// Returns the validation result and whether a new entry was created.
func (s *Service) Upsert(
	ctx context.Context, doc document.Document, requestedVersion string,
) (validation.Result, bool, error) {
	receipt, err := s.validator.Validate(doc, requestedVersion)
	if err != nil {
		return validation.Result{}, false, err
	}
	if !receipt.IsValid() {
		s.logger.Debug("document rejected",
			zap.String("doc_id", doc.ID()),
			zap.String("doc_type", doc.Type()),
			zap.Int("violations", len(receipt.Violations())),
		)
		return receipt, false, nil
	}

	// Pure-metadata documents carry no embeddable text; they remain
	// reachable through the keyword/filter side.
	var embedding []float32
	normalized := receipt.Normalized()
	if content := normalized.Content(); content != "" {
		emb, err := s.embedder.Embed(ctx, content)
		if err != nil {
			return validation.Result{}, false, fmt.Errorf("embed document %s: %w", doc.ID(), err)
		}
		embedding = emb.Embedding
	}

	created, err := s.indexer.Upsert(ctx, receipt, embedding)
	if err != nil {
		return validation.Result{}, false, fmt.Errorf("index document %s: %w", doc.ID(), err)
	}
	return receipt, created, nil
}

// Validate runs validation only, without touching the index.
func (s *Service) Validate(doc document.Document, requestedVersion string) (validation.Result, error) {
	return s.validator.Validate(doc, requestedVersion)
}

// Delete removes a document from the index. No-op if absent.
func (s *Service) Delete(ctx context.Context, docType, id string) error {
	return s.indexer.Delete(ctx, docType, id)
}
