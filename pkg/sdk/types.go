package lodestone

import (
	"fmt"

	domdoc "github.com/lodestone-ai/lodestone/internal/domain/document"
	"github.com/lodestone-ai/lodestone/internal/domain/schema"
	"github.com/lodestone-ai/lodestone/internal/domain/search/filter"
	"github.com/lodestone-ai/lodestone/internal/domain/search/result"
	"github.com/lodestone-ai/lodestone/internal/domain/validation"
	queryuc "github.com/lodestone-ai/lodestone/internal/usecase/query"
)

// Document is a candidate metadata document.
type Document struct {
	ID            string
	Type          string
	Content       string
	Metadata      map[string]any
	AccessControl map[string]any
}

// Violation is a single structural mismatch found during validation.
type Violation struct {
	Path     string
	Expected string
	Actual   string
}

// Receipt is the outcome of one validation: either Valid with the schema
// coordinates and payload fingerprint, or invalid with every violation.
type Receipt struct {
	Valid         bool
	SchemaID      string
	SchemaVersion string
	Fingerprint   string
	Violations    []Violation
}

// Schema is a published structural contract.
type Schema struct {
	ID          string
	Version     string
	Description string
	UpdatedDate string
	// Definition uses the registry's JSON shape: object nodes with
	// properties/required, array nodes with items, primitive type names.
	Definition map[string]any
}

// Filter is a single predicate over a metadata path. Build with Match,
// Contains or NumRange.
type Filter struct {
	Path     string
	Match    *string
	Contains string
	Range    *Range
}

// Range bounds a numeric metadata field. Nil boundaries are open.
type Range struct {
	GT  *float64
	GTE *float64
	LT  *float64
	LTE *float64
}

// Match builds an exact string match filter.
func Match(path, value string) Filter {
	return Filter{Path: path, Match: &value}
}

// Contains builds an array-membership filter.
func Contains(path, value string) Filter {
	return Filter{Path: path, Contains: value}
}

// NumRange builds a numeric range filter.
func NumRange(path string, r Range) Filter {
	return Filter{Path: path, Range: &r}
}

// QueryOptions configures a hybrid search.
type QueryOptions struct {
	DocType string
	Filters []Filter
	TopK    int
}

// Hit is a single search result.
type Hit struct {
	ID       string
	DocType  string
	Score    float64
	Content  string
	Metadata map[string]any
}

// QueryResult is a fused, ranked result list.
type QueryResult struct {
	QueryID string
	Hits    []Hit
	Timing  Timing
}

// Timing carries per-stage query latencies in milliseconds.
type Timing struct {
	EmbedMillis  int64
	SearchMillis int64
	FuseMillis   int64
	TotalMillis  int64
}

// --- converters ---

func toInternalDocument(d Document) (domdoc.Document, error) {
	doc, err := domdoc.New(d.ID, d.Type, d.Content, d.Metadata, d.AccessControl)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("validate document: %w", err)
	}
	return doc, nil
}

func fromReceipt(r validation.Result) Receipt {
	out := Receipt{
		Valid:         r.IsValid(),
		SchemaID:      r.SchemaID(),
		SchemaVersion: r.SchemaVersion(),
		Fingerprint:   r.Fingerprint(),
	}
	for _, v := range r.Violations() {
		out.Violations = append(out.Violations, Violation{
			Path:     v.Path(),
			Expected: v.Expected(),
			Actual:   v.Actual(),
		})
	}
	return out
}

func toInternalFilters(filters []Filter) (filter.Expression, error) {
	if len(filters) == 0 {
		return filter.Expression{}, nil
	}
	conditions := make([]filter.Condition, 0, len(filters))
	for _, f := range filters {
		cond, err := toInternalCondition(f)
		if err != nil {
			return filter.Expression{}, err
		}
		conditions = append(conditions, cond)
	}
	return filter.NewExpression(conditions)
}

func toInternalCondition(f Filter) (filter.Condition, error) {
	set := 0
	if f.Match != nil {
		set++
	}
	if f.Contains != "" {
		set++
	}
	if f.Range != nil {
		set++
	}
	if set != 1 {
		return filter.Condition{}, fmt.Errorf(
			"filter on %q must set exactly one of match, contains, range", f.Path)
	}
	switch {
	case f.Match != nil:
		return filter.NewMatch(f.Path, *f.Match)
	case f.Contains != "":
		return filter.NewContains(f.Path, f.Contains)
	default:
		r, err := filter.NewRangeBounds(f.Range.GT, f.Range.GTE, f.Range.LT, f.Range.LTE)
		if err != nil {
			return filter.Condition{}, fmt.Errorf("filter on %q: %w", f.Path, err)
		}
		return filter.NewRange(f.Path, r)
	}
}

func fromResults(results []result.Result) []Hit {
	hits := make([]Hit, len(results))
	for i := range results {
		r := &results[i]
		hits[i] = Hit{
			ID:       r.ID(),
			DocType:  r.DocType(),
			Score:    r.Score(),
			Content:  r.Content(),
			Metadata: r.Metadata(),
		}
	}
	return hits
}

func fromQueryResponse(resp queryuc.Response) QueryResult {
	return QueryResult{
		QueryID: resp.QueryID,
		Hits:    fromResults(resp.Results),
		Timing: Timing{
			EmbedMillis:  resp.Timing.EmbedMillis,
			SearchMillis: resp.Timing.SearchMillis,
			FuseMillis:   resp.Timing.FuseMillis,
			TotalMillis:  resp.Timing.TotalMillis,
		},
	}
}

func toInternalSchema(s Schema) (schema.Schema, error) {
	node, warnings, err := schema.DecodeDefinition(s.Definition)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("schema definition: %w", err)
	}
	_ = warnings // path-node normalization is silent in the SDK
	return schema.New(s.ID, s.Version, node, s.Description, s.UpdatedDate)
}

func fromInternalSchema(sc schema.Schema) Schema {
	return Schema{
		ID:          sc.ID(),
		Version:     sc.Version().String(),
		Description: sc.Description(),
		UpdatedDate: sc.UpdatedDate(),
		Definition:  schema.EncodeDefinition(sc.Definition()),
	}
}
