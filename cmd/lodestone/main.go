package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lodestone-ai/lodestone/internal/config"
	dbRedis "github.com/lodestone-ai/lodestone/internal/db/redis"
	"github.com/lodestone-ai/lodestone/internal/domain"
	"github.com/lodestone-ai/lodestone/internal/index"
	logpkg "github.com/lodestone-ai/lodestone/internal/logger"
	"github.com/lodestone-ai/lodestone/internal/metrics"
	entryrepo "github.com/lodestone-ai/lodestone/internal/repository/entry"
	schemarepo "github.com/lodestone-ai/lodestone/internal/repository/schema"
	chiTransport "github.com/lodestone-ai/lodestone/internal/transport/chi"
	openaiEmb "github.com/lodestone-ai/lodestone/internal/transport/openai"
	healthuc "github.com/lodestone-ai/lodestone/internal/usecase/health"
	indexuc "github.com/lodestone-ai/lodestone/internal/usecase/index"
	ingestuc "github.com/lodestone-ai/lodestone/internal/usecase/ingest"
	queryuc "github.com/lodestone-ai/lodestone/internal/usecase/query"
	registryuc "github.com/lodestone-ai/lodestone/internal/usecase/registry"
	validateuc "github.com/lodestone-ai/lodestone/internal/usecase/validate"
	"github.com/lodestone-ai/lodestone/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting lodestone API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Build embedder chain — composition root
	// Take the first vectorizer config
	var vecCfg config.VectorizerConfig
	var provName string
	for _, vc := range cfg.Embedding.Vectorizers {
		vecCfg = vc
		provName = vc.Provider
		break
	}
	provCfg := cfg.Embedding.Providers[provName]

	docEmbedder := buildEmbedder(provName, provCfg, vecCfg, vecCfg.DocumentInstruction, logger)
	queryEmbedder := buildEmbedder(provName, provCfg, vecCfg, vecCfg.QueryInstruction, logger)
	logger.Info("Embedders created",
		zap.String("provider", provName),
		zap.String("model", vecCfg.Model),
		zap.Int("dimensions", vecCfg.Dimensions),
	)

	// Registry: catalog first, then schemas registered in previous runs.
	regSvc := registryuc.New(schemarepo.New(store, cfg.Storage.KeyPrefix), logger)
	if cfg.Registry.CatalogPath != "" {
		catalog, err := schemarepo.LoadCatalog(cfg.Registry.CatalogPath)
		if err != nil {
			logger.Fatal("Failed to load schema catalog", zap.Error(err))
		}
		for _, w := range catalog.Warnings {
			logger.Warn("catalog normalization", zap.String("detail", w))
		}
		if err := regSvc.LoadCatalog(catalog.Schemas); err != nil {
			logger.Fatal("Failed to apply schema catalog", zap.Error(err))
		}
		logger.Info("Schema catalog loaded",
			zap.String("registry", catalog.Name),
			zap.Int("schemas", len(catalog.Schemas)),
		)
	}
	if err := regSvc.LoadPersisted(ctx); err != nil {
		logger.Fatal("Failed to restore persisted schemas", zap.Error(err))
	}

	typeTable := registryuc.DefaultTypeTable()
	for docType, schemaID := range cfg.Registry.TypeTable {
		typeTable[docType] = schemaID
	}
	resolver := registryuc.NewResolver(regSvc, typeTable)

	validateSvc := validateuc.New(resolver)

	// Index: rebuild the in-memory engine from persisted entries.
	indexSvc := indexuc.New(entryrepo.New(store, cfg.Storage.KeyPrefix), resolver, logger).WithVectorDim(vecCfg.Dimensions)
	if err := indexSvc.Load(ctx); err != nil {
		logger.Fatal("Failed to rebuild document index", zap.Error(err))
	}
	logger.Info("Document index rebuilt", zap.Int("entries", indexSvc.Count("")))

	ingestSvc := ingestuc.New(validateSvc, indexSvc, docEmbedder, logger)
	querySvc := queryuc.New(indexSvc, resolver, queryEmbedder, index.Analyzer{}, queryuc.FusionConfig{
		VectorWeight:  cfg.Fusion.VectorWeight,
		KeywordWeight: cfg.Fusion.KeywordWeight,
		Oversampling:  cfg.Fusion.Oversampling,
	}, logger)

	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(docEmbedder), regSvc)

	// Create chi server
	server := chiTransport.NewServer(regSvc, ingestSvc, indexSvc, querySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// buildEmbedder assembles the decorator chain: OpenAI -> Instruction
func buildEmbedder(
	provName string,
	provCfg config.ProviderConfig,
	vecCfg config.VectorizerConfig,
	instruction string,
	logger *zap.Logger,
) domain.Embedder {
	// Base provider (with transport metrics built-in)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     provCfg.APIKey,
		BaseURL:    provCfg.BaseURL,
		Model:      vecCfg.Model,
		Dimensions: vecCfg.Dimensions,
		Provider:   provName,
		Logger:     logger,
	})

	// Instruction prefix (outermost)
	if instruction != "" {
		return domain.NewInstructionEmbedder(base, instruction)
	}

	return base
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
