package chi

import (
	"fmt"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/document"
	"github.com/lodestone-ai/lodestone/internal/domain/schema"
	"github.com/lodestone-ai/lodestone/internal/domain/search/filter"
	"github.com/lodestone-ai/lodestone/internal/domain/search/result"
	"github.com/lodestone-ai/lodestone/internal/domain/validation"
	queryuc "github.com/lodestone-ai/lodestone/internal/usecase/query"
)

// Error codes returned to clients.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeSchemaNotFound     = "schema_not_found"
	codeVersionNotFound    = "version_not_found"
	codeDuplicateVersion   = "duplicate_version"
	codeUnsupportedDocType = "unsupported_document_type"
	codeDocumentNotFound   = "document_not_found"
	codeInvalidFilter      = "invalid_filter"
	codeEmptyQuery         = "empty_query"
	codeVectorDimMismatch  = "vector_dim_mismatch"
	codeEmbeddingsDown     = "embedding_unavailable"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- schemas ---

type registerSchemaRequest struct {
	SchemaID    string         `json:"schema_id"`
	Version     string         `json:"schema_version"`
	Definition  map[string]any `json:"schema_definition"`
	Description string         `json:"description,omitempty"`
	UpdatedDate string         `json:"updated_date,omitempty"`
}

type schemaResponse struct {
	SchemaID    string         `json:"schema_id"`
	Version     string         `json:"schema_version"`
	Definition  map[string]any `json:"schema_definition"`
	Description string         `json:"description,omitempty"`
	UpdatedDate string         `json:"updated_date,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
}

type schemaListing struct {
	SchemaID string   `json:"schema_id"`
	Versions []string `json:"versions"`
	Latest   string   `json:"latest"`
}

type listSchemasResponse struct {
	Schemas []schemaListing `json:"schemas"`
}

func schemaToResponse(s schema.Schema, warnings []string) schemaResponse {
	return schemaResponse{
		SchemaID:    s.ID(),
		Version:     s.Version().String(),
		Definition:  schema.EncodeDefinition(s.Definition()),
		Description: s.Description(),
		UpdatedDate: s.UpdatedDate(),
		Warnings:    warnings,
	}
}

// --- documents ---

type documentPayload struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Content       string         `json:"content,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	AccessControl map[string]any `json:"access_control,omitempty"`
}

type upsertDocumentRequest struct {
	Document      documentPayload `json:"document"`
	SchemaVersion string          `json:"schema_version,omitempty"`
}

type violationPayload struct {
	Path     string `json:"path"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

type validationResponse struct {
	Valid         bool               `json:"valid"`
	SchemaID      string             `json:"schema_id,omitempty"`
	SchemaVersion string             `json:"schema_version,omitempty"`
	Fingerprint   string             `json:"fingerprint,omitempty"`
	Created       *bool              `json:"created,omitempty"`
	Violations    []violationPayload `json:"violations,omitempty"`
}

func receiptToResponse(receipt validation.Result, created *bool) validationResponse {
	resp := validationResponse{
		Valid:         receipt.IsValid(),
		SchemaID:      receipt.SchemaID(),
		SchemaVersion: receipt.SchemaVersion(),
		Fingerprint:   receipt.Fingerprint(),
		Created:       created,
	}
	for _, v := range receipt.Violations() {
		resp.Violations = append(resp.Violations, violationPayload{
			Path:     v.Path(),
			Expected: v.Expected(),
			Actual:   v.Actual(),
		})
	}
	return resp
}

func documentFromPayload(p documentPayload) (document.Document, error) {
	return document.New(p.ID, p.Type, p.Content, p.Metadata, p.AccessControl)
}

type documentResponse struct {
	ID       string         `json:"id"`
	DocType  string         `json:"doc_type"`
	Content  string         `json:"content,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// --- query ---

type filterPayload struct {
	Path     string   `json:"path"`
	Match    *string  `json:"match,omitempty"`
	Contains string   `json:"contains,omitempty"`
	GT       *float64 `json:"gt,omitempty"`
	GTE      *float64 `json:"gte,omitempty"`
	LT       *float64 `json:"lt,omitempty"`
	LTE      *float64 `json:"lte,omitempty"`
}

type queryRequest struct {
	Query   string          `json:"query,omitempty"`
	DocType string          `json:"doc_type,omitempty"`
	TopK    int             `json:"top_k,omitempty"`
	Filters []filterPayload `json:"filters,omitempty"`
}

type resultPayload struct {
	ID       string         `json:"id"`
	DocType  string         `json:"doc_type"`
	Score    float64        `json:"score"`
	Content  string         `json:"content,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type timingPayload struct {
	EmbedMillis  int64 `json:"embed_ms"`
	SearchMillis int64 `json:"search_ms"`
	FuseMillis   int64 `json:"fuse_ms"`
	TotalMillis  int64 `json:"total_ms"`
}

type queryResponse struct {
	QueryID string          `json:"query_id"`
	Results []resultPayload `json:"results"`
	Timing  timingPayload   `json:"timing"`
}

// filtersFromPayload converts wire filters into the domain expression.
// Shape errors are wrapped as ErrInvalidFilter so they map to 400.
func filtersFromPayload(payloads []filterPayload) (filter.Expression, error) {
	conditions := make([]filter.Condition, 0, len(payloads))
	for i, p := range payloads {
		cond, err := conditionFromPayload(p)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("filter %d: %s: %w", i, err, domain.ErrInvalidFilter)
		}
		conditions = append(conditions, cond)
	}
	expr, err := filter.NewExpression(conditions)
	if err != nil {
		return filter.Expression{}, fmt.Errorf("%s: %w", err, domain.ErrInvalidFilter)
	}
	return expr, nil
}

func conditionFromPayload(p filterPayload) (filter.Condition, error) {
	hasRange := p.GT != nil || p.GTE != nil || p.LT != nil || p.LTE != nil

	switch {
	case p.Match != nil:
		if hasRange || p.Contains != "" {
			return filter.Condition{}, fmt.Errorf("match excludes range and contains")
		}
		return filter.NewMatch(p.Path, *p.Match)
	case p.Contains != "":
		if hasRange {
			return filter.Condition{}, fmt.Errorf("contains excludes range bounds")
		}
		return filter.NewContains(p.Path, p.Contains)
	case hasRange:
		r, err := filter.NewRangeBounds(p.GT, p.GTE, p.LT, p.LTE)
		if err != nil {
			return filter.Condition{}, err
		}
		return filter.NewRange(p.Path, r)
	default:
		return filter.Condition{}, fmt.Errorf("condition needs match, contains, or a range bound")
	}
}

func queryToResponse(resp queryuc.Response) queryResponse {
	out := queryResponse{
		QueryID: resp.QueryID,
		Results: make([]resultPayload, 0, len(resp.Results)),
		Timing: timingPayload{
			EmbedMillis:  resp.Timing.EmbedMillis,
			SearchMillis: resp.Timing.SearchMillis,
			FuseMillis:   resp.Timing.FuseMillis,
			TotalMillis:  resp.Timing.TotalMillis,
		},
	}
	for i := range resp.Results {
		out.Results = append(out.Results, resultToPayload(&resp.Results[i]))
	}
	return out
}

func resultToPayload(r *result.Result) resultPayload {
	return resultPayload{
		ID:       r.ID(),
		DocType:  r.DocType(),
		Score:    r.Score(),
		Content:  r.Content(),
		Metadata: r.Metadata(),
	}
}
