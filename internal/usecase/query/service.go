package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lodestone-ai/lodestone/internal/domain"
	domquery "github.com/lodestone-ai/lodestone/internal/domain/search/query"
	"github.com/lodestone-ai/lodestone/internal/domain/search/result"
	"github.com/lodestone-ai/lodestone/internal/metrics"
)

// FusionConfig tunes hybrid ranking. Weights and oversampling are
// workload-dependent, so they are injected at construction, never
// hardcoded.
type FusionConfig struct {
	VectorWeight  float64
	KeywordWeight float64
	Oversampling  int
}

// DefaultFusionConfig returns the baseline fusion tuning.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{VectorWeight: 0.7, KeywordWeight: 0.3, Oversampling: 3}
}

// normalize fills unset fields with defaults.
func (c FusionConfig) normalize() FusionConfig {
	def := DefaultFusionConfig()
	if c.VectorWeight <= 0 && c.KeywordWeight <= 0 {
		c.VectorWeight, c.KeywordWeight = def.VectorWeight, def.KeywordWeight
	}
	if c.Oversampling <= 0 {
		c.Oversampling = def.Oversampling
	}
	return c
}

// Timing carries per-stage latencies of one query.
type Timing struct {
	EmbedMillis  int64
	SearchMillis int64
	FuseMillis   int64
	TotalMillis  int64
}

// Response is a fused, ranked result list with execution metadata.
type Response struct {
	QueryID string
	Results []result.Result
	Timing  Timing
}

// Service is the hybrid query planner: it derives the embedding and the
// keyword-term set from the query text (both delegated), dispatches the two
// sub-searches with oversampled candidate counts, and fuses the ranked
// lists into one deterministic ordering.
type Service struct {
	index    Index
	types    TypeChecker
	embed    Embedder
	analyzer Analyzer
	cfg      FusionConfig
	logger   *zap.Logger
}

// New creates a query planner.
func New(index Index, types TypeChecker, embed Embedder, analyzer Analyzer, cfg FusionConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		index:    index,
		types:    types,
		embed:    embed,
		analyzer: analyzer,
		cfg:      cfg.normalize(),
		logger:   logger,
	}
}

type subSearch struct {
	results []result.Result
	err     error
}

// Query executes a hybrid search. Cancellation abandons both sub-searches
// and returns the context error; a partial fusion would be silently wrong.
func (s *Service) Query(ctx context.Context, q domquery.Query) (Response, error) {
	start := time.Now()
	queryID := uuid.NewString()

	if q.DocType() != "" && !s.types.Supports(q.DocType()) {
		return Response{}, fmt.Errorf("%q: %w", q.DocType(), domain.ErrUnsupportedDocumentType)
	}
	if err := s.index.ValidateFilters(q.Filters(), q.DocType()); err != nil {
		return Response{}, err
	}

	var timing Timing

	// Vector branch needs an embedding; a filter-only query (empty text)
	// skips it entirely and ranks on the keyword/filter side alone.
	var vector []float32
	if q.Text() != "" {
		embedStart := time.Now()
		emb, err := s.embed.Embed(ctx, q.Text())
		if err != nil {
			return Response{}, fmt.Errorf("embed query: %w", err)
		}
		vector = emb.Embedding
		timing.EmbedMillis = time.Since(embedStart).Milliseconds()
	}
	terms := s.analyzer.Terms(q.Text())

	// Oversample both branches: fusion and deduplication discard
	// candidates, so each list fetches more than topK.
	fetchK := q.TopK() * s.cfg.Oversampling

	searchStart := time.Now()
	vecCh := make(chan subSearch, 1)
	keyCh := make(chan subSearch, 1)

	go func() {
		if len(vector) == 0 {
			vecCh <- subSearch{}
			return
		}
		res, err := s.index.SearchVector(ctx, vector, fetchK, q.Filters(), q.DocType())
		vecCh <- subSearch{results: res, err: err}
	}()
	go func() {
		res, err := s.index.SearchKeyword(ctx, terms, fetchK, q.Filters(), q.DocType())
		keyCh <- subSearch{results: res, err: err}
	}()

	var vecRes, keyRes subSearch
	for pending := 2; pending > 0; pending-- {
		select {
		case <-ctx.Done():
			return Response{}, fmt.Errorf("query %s canceled: %w", queryID, ctx.Err())
		case vecRes = <-vecCh:
			if vecRes.err != nil {
				return Response{}, fmt.Errorf("vector search: %w", vecRes.err)
			}
		case keyRes = <-keyCh:
			if keyRes.err != nil {
				return Response{}, fmt.Errorf("keyword search: %w", keyRes.err)
			}
		}
	}
	timing.SearchMillis = time.Since(searchStart).Milliseconds()

	fuseStart := time.Now()
	fused := fuse(vecRes.results, keyRes.results, s.cfg, q.TopK())
	timing.FuseMillis = time.Since(fuseStart).Milliseconds()
	timing.TotalMillis = time.Since(start).Milliseconds()

	metrics.ObserveQuery(q.DocType(), time.Since(start), len(fused))
	s.logger.Info("query executed",
		zap.String("query_id", queryID),
		zap.String("doc_type", q.DocType()),
		zap.Int("results", len(fused)),
		zap.Int64("embed_ms", timing.EmbedMillis),
		zap.Int64("search_ms", timing.SearchMillis),
		zap.Int64("total_ms", timing.TotalMillis),
	)

	return Response{QueryID: queryID, Results: fused, Timing: timing}, nil
}
