package result

// Result is a single search hit.
type Result struct {
	id       string
	docType  string
	score    float64
	content  string
	metadata map[string]any
}

// New creates a search result.
func New(id, docType string, score float64, content string, metadata map[string]any) Result {
	return Result{id: id, docType: docType, score: score, content: content, metadata: metadata}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// DocType returns the document-type partition the hit came from.
func (r *Result) DocType() string { return r.docType }

// Score returns the relevance score.
func (r *Result) Score() float64 { return r.score }

// Content returns the document content.
func (r *Result) Content() string { return r.content }

// Metadata returns the document metadata.
func (r *Result) Metadata() map[string]any { return r.metadata }

// WithScore returns a copy carrying the given score. Used by fusion.
func (r *Result) WithScore(score float64) Result {
	return Result{id: r.id, docType: r.docType, score: score, content: r.content, metadata: r.metadata}
}
