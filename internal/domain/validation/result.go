package validation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lodestone-ai/lodestone/internal/domain/document"
)

// Violation is a single structural mismatch, localized to a field path.
type Violation struct {
	path     string
	expected string
	actual   string
}

// NewViolation creates a violation.
// Path is JSON-pointer-like with dot separators (e.g. "metadata.chunk_id").
func NewViolation(path, expected, actual string) Violation {
	return Violation{path: path, expected: expected, actual: actual}
}

// Path returns the location of the offending field.
func (v Violation) Path() string { return v.path }

// Expected returns the expected type or shape.
func (v Violation) Expected() string { return v.expected }

// Actual returns the observed value's type.
func (v Violation) Actual() string { return v.actual }

func (v Violation) String() string {
	return fmt.Sprintf("%s: expected %s, got %s", v.path, v.expected, v.actual)
}

// Result is the outcome of one validation call: either Valid carrying the
// normalized document, or Invalid carrying every violation found.
// Ephemeral; never persisted.
type Result struct {
	valid       bool
	normalized  document.Document
	schemaID    string
	version     string
	fingerprint string
	violations  []Violation
}

// NewValid creates a passing result. The fingerprint binds this exact
// normalized payload; the index refuses writes whose payload does not
// carry a matching fingerprint.
func NewValid(normalized document.Document, schemaID, version string) Result {
	return Result{
		valid:       true,
		normalized:  normalized,
		schemaID:    schemaID,
		version:     version,
		fingerprint: Fingerprint(normalized),
	}
}

// NewInvalid creates a failing result with the complete violation list,
// sorted by path for deterministic reporting.
func NewInvalid(violations []Violation) Result {
	sorted := append([]Violation(nil), violations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].path < sorted[j].path })
	return Result{violations: sorted}
}

// IsValid reports whether the document passed.
func (r Result) IsValid() bool { return r.valid }

// Normalized returns the normalized document of a passing result.
func (r Result) Normalized() document.Document { return r.normalized }

// SchemaID returns the schema the document was validated against.
func (r Result) SchemaID() string { return r.schemaID }

// SchemaVersion returns the resolved schema version string.
func (r Result) SchemaVersion() string { return r.version }

// Fingerprint returns the digest binding the normalized payload.
func (r Result) Fingerprint() string { return r.fingerprint }

// Violations returns the full violation list of a failing result.
func (r Result) Violations() []Violation { return r.violations }

// Error formats the violation list as a single message.
func (r Result) Error() string {
	parts := make([]string, len(r.violations))
	for i, v := range r.violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

// Fingerprint computes the digest of a document's canonical JSON form.
// encoding/json sorts map keys, so equal payloads digest equally.
func Fingerprint(doc document.Document) string {
	canonical := struct {
		ID       string         `json:"id"`
		Type     string         `json:"type"`
		Content  string         `json:"content"`
		Metadata map[string]any `json:"metadata"`
	}{
		ID:       doc.ID(),
		Type:     doc.Type(),
		Content:  doc.Content(),
		Metadata: doc.Metadata(),
	}
	data, err := json.Marshal(canonical)
	if err != nil {
		// Metadata comes from decoded JSON, so marshaling cannot fail in
		// practice; an empty fingerprint never matches.
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
