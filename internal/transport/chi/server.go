package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/domain/schema"
	domquery "github.com/lodestone-ai/lodestone/internal/domain/search/query"
	logpkg "github.com/lodestone-ai/lodestone/internal/logger"
	healthuc "github.com/lodestone-ai/lodestone/internal/usecase/health"
	indexuc "github.com/lodestone-ai/lodestone/internal/usecase/index"
	ingestuc "github.com/lodestone-ai/lodestone/internal/usecase/ingest"
	queryuc "github.com/lodestone-ai/lodestone/internal/usecase/query"
	registryuc "github.com/lodestone-ai/lodestone/internal/usecase/registry"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API surface over the registry, ingest, and query services.
type Server struct {
	registry      *registryuc.Service
	ingest        *ingestuc.Service
	index         *indexuc.Service
	query         *queryuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	registry *registryuc.Service,
	ingest *ingestuc.Service,
	index *indexuc.Service,
	query *queryuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		registry: registry,
		ingest:   ingest,
		index:    index,
		query:    query,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDuplicateVersion, http.StatusConflict, codeDuplicateVersion),
		sentinelHandler(domain.ErrUnknownSchema, http.StatusNotFound, codeSchemaNotFound),
		sentinelHandler(domain.ErrUnknownVersion, http.StatusNotFound, codeVersionNotFound),
		sentinelHandler(domain.ErrUnsupportedDocumentType, http.StatusBadRequest, codeUnsupportedDocType),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, codeInvalidFilter),
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeEmptyQuery),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusBadGateway, codeEmbeddingsDown),
	}
	return s
}

// Register mounts all API routes on the router.
func (s *Server) Register(r chirouter.Router) {
	r.Post("/schemas", s.RegisterSchema)
	r.Get("/schemas", s.ListSchemas)
	r.Get("/schemas/{schema_id}", s.GetSchema)

	r.Post("/documents", s.UpsertDocument)
	r.Post("/documents/validate", s.ValidateDocument)
	r.Get("/documents/{doc_type}/{id}", s.GetDocument)
	r.Delete("/documents/{doc_type}/{id}", s.DeleteDocument)

	r.Post("/query", s.Query)

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// RegisterSchema handles POST /schemas.
func (s *Server) RegisterSchema(w http.ResponseWriter, r *http.Request) {
	var req registerSchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.SchemaID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "schema_id is required")
		return
	}
	if req.Definition == nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "schema_definition is required")
		return
	}

	node, warnings, err := schema.DecodeDefinition(map[string]any(req.Definition))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}
	sc, err := schema.New(req.SchemaID, req.Version, node, req.Description, req.UpdatedDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	if err := s.registry.Register(r.Context(), sc); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, schemaToResponse(sc, warnings))
}

// ListSchemas handles GET /schemas.
func (s *Server) ListSchemas(w http.ResponseWriter, r *http.Request) {
	ids := s.registry.SchemaIDs()

	listings := make([]schemaListing, 0, len(ids))
	for _, id := range ids {
		versions, err := s.registry.Versions(id)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		names := make([]string, len(versions))
		for i, v := range versions {
			names[i] = v.String()
		}
		listing := schemaListing{SchemaID: id, Versions: names}
		if len(names) > 0 {
			listing.Latest = names[len(names)-1]
		}
		listings = append(listings, listing)
	}

	writeJSON(w, http.StatusOK, listSchemasResponse{Schemas: listings})
}

// GetSchema handles GET /schemas/{schema_id}. The version query parameter
// selects an exact version; absent means latest.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	schemaID := chirouter.URLParam(r, "schema_id")
	version := r.URL.Query().Get("version")

	sc, err := s.registry.Get(schemaID, version)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, schemaToResponse(sc, nil))
}

// UpsertDocument handles POST /documents: validate, embed, index.
func (s *Server) UpsertDocument(w http.ResponseWriter, r *http.Request) {
	var req upsertDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc, err := documentFromPayload(req.Document)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	receipt, created, err := s.ingest.Upsert(r.Context(), doc, req.SchemaVersion)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if !receipt.IsValid() {
		writeJSON(w, http.StatusUnprocessableEntity, receiptToResponse(receipt, nil))
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, receiptToResponse(receipt, &created))
}

// ValidateDocument handles POST /documents/validate: validation only, no
// index write.
func (s *Server) ValidateDocument(w http.ResponseWriter, r *http.Request) {
	var req upsertDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc, err := documentFromPayload(req.Document)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	receipt, err := s.ingest.Validate(doc, req.SchemaVersion)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, receiptToResponse(receipt, nil))
}

// GetDocument handles GET /documents/{doc_type}/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	docType := chirouter.URLParam(r, "doc_type")
	id := chirouter.URLParam(r, "id")

	res, err := s.index.Get(docType, id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, documentResponse{
		ID:       res.ID(),
		DocType:  res.DocType(),
		Content:  res.Content(),
		Metadata: res.Metadata(),
	})
}

// DeleteDocument handles DELETE /documents/{doc_type}/{id}. Deleting an
// absent document still returns 204.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	docType := chirouter.URLParam(r, "doc_type")
	id := chirouter.URLParam(r, "id")

	if err := s.ingest.Delete(r.Context(), docType, id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	filters, err := filtersFromPayload(req.Filters)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	q, err := domquery.New(req.Query, filters, req.DocType, req.TopK)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp, err := s.query.Query(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, queryToResponse(resp))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":  report.Status,
		"checks":  report.Checks,
		"schemas": report.Schemas,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDuplicateVersion,
		domain.ErrUnknownSchema,
		domain.ErrUnknownVersion,
		domain.ErrUnsupportedDocumentType,
		domain.ErrDocumentNotFound,
		domain.ErrInvalidFilter,
		domain.ErrEmptyQuery,
		domain.ErrVectorDimMismatch,
		domain.ErrEmbeddingUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	// The request-scoped logger carries the request id, so these lines
	// correlate with the canonical request line.
	log := logpkg.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
