package domain

import "errors"

var (
	// ErrDuplicateVersion signals an attempt to re-register an existing (schema_id, version).
	ErrDuplicateVersion = errors.New("duplicate schema version")
	// ErrUnknownSchema signals a schema_id with no registered versions.
	ErrUnknownSchema = errors.New("unknown schema")
	// ErrUnknownVersion signals a missing version of an otherwise known schema.
	ErrUnknownVersion = errors.New("unknown schema version")
	// ErrUnsupportedDocumentType signals a document-type tag with no schema mapping.
	ErrUnsupportedDocumentType = errors.New("unsupported document type")

	// ErrNotValidated signals an index write whose payload never passed validation.
	// This is a call-sequencing defect, not a caller input error.
	ErrNotValidated = errors.New("document not validated")
	// ErrDocumentNotFound signals a missing index entry.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrVectorDimMismatch signals an embedding whose length differs from the index dimension.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidFilter signals a filter referencing a path absent from the document type's schema.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrEmptyQuery signals a query with neither text nor filters.
	ErrEmptyQuery = errors.New("empty query")

	// ErrEmbeddingUnavailable signals a transient embedding provider failure.
	// Retry policy belongs to the ingestion pipeline, not this core.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
)
