package query

import (
	"sort"

	"github.com/lodestone-ai/lodestone/internal/domain/search/result"
)

// fuse merges the vector and keyword ranked lists by weighted combination
// of min-max-normalized scores. A document present in only one list is
// scored from that list alone. Ties break by document id ascending so the
// same query against an unchanged index always yields the same ordering.
func fuse(vec, key []result.Result, cfg FusionConfig, topK int) []result.Result {
	type scored struct {
		res   result.Result
		score float64
	}

	merged := make(map[string]*scored, len(vec)+len(key))

	for i, norm := range normalizeScores(vec) {
		r := vec[i]
		merged[fuseKey(&r)] = &scored{res: r, score: cfg.VectorWeight * norm}
	}
	for i, norm := range normalizeScores(key) {
		r := key[i]
		k := fuseKey(&r)
		if existing, ok := merged[k]; ok {
			existing.score += cfg.KeywordWeight * norm
			continue
		}
		merged[k] = &scored{res: r, score: cfg.KeywordWeight * norm}
	}

	fused := make([]result.Result, 0, len(merged))
	for _, s := range merged {
		fused = append(fused, s.res.WithScore(s.score))
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score() != fused[j].Score() {
			return fused[i].Score() > fused[j].Score()
		}
		if fused[i].ID() != fused[j].ID() {
			return fused[i].ID() < fused[j].ID()
		}
		return fused[i].DocType() < fused[j].DocType()
	})

	if len(fused) > topK {
		fused = fused[:topK]
	}
	return fused
}

// fuseKey dedupes across partitions: ids are unique per document type only.
func fuseKey(r *result.Result) string {
	return r.DocType() + "/" + r.ID()
}

// normalizeScores min-max normalizes a ranked list into [0,1].
// A constant list (including a single hit) normalizes to 1.0.
func normalizeScores(results []result.Result) []float64 {
	if len(results) == 0 {
		return nil
	}
	min, max := results[0].Score(), results[0].Score()
	for _, r := range results[1:] {
		if r.Score() < min {
			min = r.Score()
		}
		if r.Score() > max {
			max = r.Score()
		}
	}
	norms := make([]float64, len(results))
	for i, r := range results {
		if max == min {
			norms[i] = 1.0
			continue
		}
		norms[i] = (r.Score() - min) / (max - min)
	}
	return norms
}
