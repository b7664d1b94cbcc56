package document

import (
	"fmt"
	"regexp"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// MaxContentSize is the maximum document content size in bytes.
const MaxContentSize = 163840 // 160KB

// Document is a candidate metadata document (immutable value object).
// Content may be empty for pure-metadata documents. The access_control bag
// is opaque: it belongs to the external auth collaborator and is stored and
// returned untouched.
type Document struct {
	id            string
	docType       string
	content       string
	metadata      map[string]any
	accessControl map[string]any
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_.-]+$, 1-256 chars, unique within its document-type
// partition. Metadata shape validation happens in the validator, not here.
func New(id, docType, content string, metadata, accessControl map[string]any) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with underscores, dots and hyphens")
	}
	if docType == "" {
		return Document{}, fmt.Errorf("document type is required")
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	return Document{
		id:            id,
		docType:       docType,
		content:       content,
		metadata:      metadata,
		accessControl: accessControl,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id, docType, content string, metadata, accessControl map[string]any) Document {
	return Document{id: id, docType: docType, content: content, metadata: metadata, accessControl: accessControl}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Type returns the document-type tag selecting the schema.
func (d *Document) Type() string { return d.docType }

// Content returns the text payload (may be empty).
func (d *Document) Content() string { return d.content }

// Metadata returns the typed metadata object.
func (d *Document) Metadata() map[string]any { return d.metadata }

// AccessControl returns the opaque access-control bag.
func (d *Document) AccessControl() map[string]any { return d.accessControl }

// WithMetadata returns a copy carrying the given metadata in place of the
// original. Used by the validator to attach the normalized form.
func (d *Document) WithMetadata(metadata map[string]any) Document {
	return Document{
		id:            d.id,
		docType:       d.docType,
		content:       d.content,
		metadata:      metadata,
		accessControl: d.accessControl,
	}
}
