package lodestone

import "github.com/lodestone-ai/lodestone/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDuplicateVersion        = domain.ErrDuplicateVersion
	ErrUnknownSchema           = domain.ErrUnknownSchema
	ErrUnknownVersion          = domain.ErrUnknownVersion
	ErrUnsupportedDocumentType = domain.ErrUnsupportedDocumentType
	ErrDocumentNotFound        = domain.ErrDocumentNotFound
	ErrVectorDimMismatch       = domain.ErrVectorDimMismatch
	ErrInvalidFilter           = domain.ErrInvalidFilter
	ErrEmptyQuery              = domain.ErrEmptyQuery
	ErrEmbeddingUnavailable    = domain.ErrEmbeddingUnavailable
)
