package ingest

import (
	"context"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/document"
	"github.com/lodestone-ai/lodestone/internal/domain/validation"
)

// Validator checks documents against their resolved schemas.
type Validator interface {
	Validate(doc document.Document, requestedVersion string) (validation.Result, error)
}

// Indexer accepts validated documents for storage and retrieval.
type Indexer interface {
	Upsert(ctx context.Context, receipt validation.Result, embedding []float32) (bool, error)
	Delete(ctx context.Context, docType, id string) error
}

// Embedder vectorizes document content (external collaborator).
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
