package entry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/index"
)

// store is the consumer interface for entry persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/index.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates an entry repository. Keys are namespaced under prefix; empty
// selects domain.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Save persists an index entry.
func (r *Repo) Save(ctx context.Context, e *index.Entry) error {
	key := r.entryKey(e.DocType, e.ID)
	data, err := json.Marshal(buildJSONEntry(e))
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Delete removes a persisted entry. Deleting an absent entry is a no-op.
func (r *Repo) Delete(ctx context.Context, docType, id string) error {
	key := r.entryKey(docType, id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// List returns every persisted entry for index rebuild at startup.
func (r *Repo) List(ctx context.Context) ([]*index.Entry, error) {
	keys, err := r.store.Scan(ctx, r.entryKey("*", "*"))
	if err != nil {
		return nil, fmt.Errorf("scan entries: %w", err)
	}

	entries := make([]*index.Entry, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			return nil, fmt.Errorf("json.get %s: %w", key, err)
		}
		e, err := parseJSONGetResult(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *Repo) entryKey(docType, id string) string {
	return fmt.Sprintf("%sentry:%s:%s", r.prefix, docType, id)
}
