package index

import (
	"math"
	"sort"
	"sync"
)

// Entry is an immutable snapshot of one indexed document. The engine swaps
// whole entries on upsert; readers holding a pointer always observe a
// fully-written entry, never a partial one.
type Entry struct {
	ID            string
	DocType       string
	SchemaID      string
	SchemaVersion string
	Content       string
	Metadata      map[string]any
	AccessControl map[string]any
	Vector        []float32
	Terms         map[string]int
	TermTotal     int
	Fingerprint   string
}

// Hit pairs an entry with its relevance score.
type Hit struct {
	Entry *Entry
	Score float64
}

// Engine is the in-memory vector + inverted keyword index, partitioned by
// document type. Writes take the exclusive lock but only perform pointer
// swaps; entry construction (tokenizing, copying) happens before the lock.
// Same-id upserts serialize on the lock in submission order
// (last-writer-wins); reads run concurrently under the shared lock.
type Engine struct {
	mu         sync.RWMutex
	partitions map[string]map[string]*Entry
}

// NewEngine creates an empty engine.
func NewEngine() *Engine {
	return &Engine{partitions: map[string]map[string]*Entry{}}
}

// Upsert stores or replaces an entry (replace, not merge).
// Returns true if the entry was created.
func (e *Engine) Upsert(entry *Entry) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	part, ok := e.partitions[entry.DocType]
	if !ok {
		part = map[string]*Entry{}
		e.partitions[entry.DocType] = part
	}
	_, existed := part[entry.ID]
	part[entry.ID] = entry
	return !existed
}

// Delete removes an entry. Returns false if absent (no-op).
func (e *Engine) Delete(docType, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	part, ok := e.partitions[docType]
	if !ok {
		return false
	}
	if _, ok := part[id]; !ok {
		return false
	}
	delete(part, id)
	return true
}

// Get returns the current snapshot of an entry.
func (e *Engine) Get(docType, id string) (*Entry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	part, ok := e.partitions[docType]
	if !ok {
		return nil, false
	}
	entry, ok := part[id]
	return entry, ok
}

// Count returns the number of entries in a partition ("" = all).
func (e *Engine) Count(docType string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if docType != "" {
		return len(e.partitions[docType])
	}
	n := 0
	for _, part := range e.partitions {
		n += len(part)
	}
	return n
}

// snapshot collects entry pointers from the selected partitions under the
// read lock. The returned slice is the query's stable view.
func (e *Engine) snapshot(docType string) []*Entry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var entries []*Entry
	if docType != "" {
		for _, entry := range e.partitions[docType] {
			entries = append(entries, entry)
		}
		return entries
	}
	for _, part := range e.partitions {
		for _, entry := range part {
			entries = append(entries, entry)
		}
	}
	return entries
}

// SearchVector returns up to k entries ranked by descending cosine
// similarity to the query vector, restricted to entries matching pred.
// Entries without a vector never match.
func (e *Engine) SearchVector(vector []float32, k int, docType string, pred func(*Entry) bool) []Hit {
	if len(vector) == 0 || k <= 0 {
		return nil
	}
	var hits []Hit
	for _, entry := range e.snapshot(docType) {
		if len(entry.Vector) != len(vector) {
			continue
		}
		if pred != nil && !pred(entry) {
			continue
		}
		hits = append(hits, Hit{Entry: entry, Score: cosine(vector, entry.Vector)})
	}
	return topK(hits, k)
}

// SearchKeyword returns up to k entries ranked by a term-frequency
// relevance score, restricted to entries matching pred. With no terms the
// query degrades to a pure filter scan: matching entries score zero and
// order by id.
func (e *Engine) SearchKeyword(terms []string, k int, docType string, pred func(*Entry) bool) []Hit {
	if k <= 0 {
		return nil
	}
	var hits []Hit
	for _, entry := range e.snapshot(docType) {
		if pred != nil && !pred(entry) {
			continue
		}
		score, matched := termScore(entry, terms)
		if len(terms) > 0 && !matched {
			continue
		}
		hits = append(hits, Hit{Entry: entry, Score: score})
	}
	return topK(hits, k)
}

// termScore is the normalized term frequency of the query terms in the
// entry: sum of per-term frequencies over the entry's total term count.
func termScore(entry *Entry, terms []string) (float64, bool) {
	if entry.TermTotal == 0 || len(terms) == 0 {
		return 0, false
	}
	sum := 0
	for _, t := range terms {
		sum += entry.Terms[t]
	}
	if sum == 0 {
		return 0, false
	}
	return float64(sum) / float64(entry.TermTotal), true
}

// topK sorts by descending score with ties broken by ascending id, then
// truncates. The id tie-break keeps result order deterministic.
func topK(hits []Hit, k int) []Hit {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Entry.ID < hits[j].Entry.ID
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// cosine computes cosine similarity between equal-length vectors.
func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
