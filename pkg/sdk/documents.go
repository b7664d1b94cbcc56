package lodestone

import (
	"context"
	"fmt"
	"time"
)

// DocumentService manages validated document ingestion.
type DocumentService struct {
	ingest ingestUseCase
	index  indexUseCase
	obs    *observer
}

// Upsert validates the document and, on success, embeds and indexes it
// (replace, not merge). An invalid document is NOT an error: the receipt
// carries the complete violation list and no index write happens.
// requestedVersion pins a schema version; empty selects the active one.
// The created flag reports whether a new entry was created (vs replaced).
func (s *DocumentService) Upsert(
	ctx context.Context, doc Document, requestedVersion string,
) (_ Receipt, created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.upsert", start, err) }()

	d, err := toInternalDocument(doc)
	if err != nil {
		return Receipt{}, false, fmt.Errorf("upsert: %w", err)
	}
	receipt, created, err := s.ingest.Upsert(ctx, d, requestedVersion)
	if err != nil {
		return Receipt{}, false, fmt.Errorf("upsert: %w", err)
	}
	return fromReceipt(receipt), created, nil
}

// Validate runs validation only, without touching the index.
func (s *DocumentService) Validate(doc Document, requestedVersion string) (_ Receipt, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.validate", start, err) }()

	d, err := toInternalDocument(doc)
	if err != nil {
		return Receipt{}, fmt.Errorf("validate: %w", err)
	}
	receipt, err := s.ingest.Validate(d, requestedVersion)
	if err != nil {
		return Receipt{}, fmt.Errorf("validate: %w", err)
	}
	return fromReceipt(receipt), nil
}

// Get retrieves an indexed document by type and id.
func (s *DocumentService) Get(docType, id string) (_ Hit, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.get", start, err) }()

	r, err := s.index.Get(docType, id)
	if err != nil {
		return Hit{}, fmt.Errorf("get document: %w", err)
	}
	return Hit{
		ID:       r.ID(),
		DocType:  r.DocType(),
		Content:  r.Content(),
		Metadata: r.Metadata(),
	}, nil
}

// Delete removes a document from the index. No-op if absent.
func (s *DocumentService) Delete(ctx context.Context, docType, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.delete", start, err) }()

	if err = s.ingest.Delete(ctx, docType, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Count returns the number of indexed documents of the given type.
// Empty docType counts all partitions.
func (s *DocumentService) Count(docType string) int {
	return s.index.Count(docType)
}
