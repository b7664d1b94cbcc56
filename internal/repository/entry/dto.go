package entry

import (
	"encoding/json"
	"fmt"

	"github.com/lodestone-ai/lodestone/internal/index"
)

// jsonEntry is the storage shape of a committed index entry.
type jsonEntry struct {
	ID            string         `json:"id"`
	DocType       string         `json:"doc_type"`
	SchemaID      string         `json:"schema_id"`
	SchemaVersion string         `json:"schema_version"`
	Content       string         `json:"content,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	AccessControl map[string]any `json:"access_control,omitempty"`
	Vector        []float32      `json:"vector,omitempty"`
	Terms         map[string]int `json:"terms,omitempty"`
	TermTotal     int            `json:"term_total,omitempty"`
	Fingerprint   string         `json:"fingerprint"`
}

func buildJSONEntry(e *index.Entry) jsonEntry {
	return jsonEntry{
		ID:            e.ID,
		DocType:       e.DocType,
		SchemaID:      e.SchemaID,
		SchemaVersion: e.SchemaVersion,
		Content:       e.Content,
		Metadata:      e.Metadata,
		AccessControl: e.AccessControl,
		Vector:        e.Vector,
		Terms:         e.Terms,
		TermTotal:     e.TermTotal,
		Fingerprint:   e.Fingerprint,
	}
}

// parseJSONGetResult unwraps the JSONPath array envelope from JSON.GET $.
func parseJSONGetResult(raw []byte) (*index.Entry, error) {
	var docs []jsonEntry
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("empty JSON.GET result")
	}
	d := docs[0]
	return &index.Entry{
		ID:            d.ID,
		DocType:       d.DocType,
		SchemaID:      d.SchemaID,
		SchemaVersion: d.SchemaVersion,
		Content:       d.Content,
		Metadata:      d.Metadata,
		AccessControl: d.AccessControl,
		Vector:        d.Vector,
		Terms:         d.Terms,
		TermTotal:     d.TermTotal,
		Fingerprint:   d.Fingerprint,
	}, nil
}
