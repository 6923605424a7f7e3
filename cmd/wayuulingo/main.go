package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fredygallego8/wayuulingo-api/internal/config"
	"github.com/fredygallego8/wayuulingo-api/internal/domain"
	"github.com/fredygallego8/wayuulingo-api/internal/embedding"
	"github.com/fredygallego8/wayuulingo-api/internal/genai"
	logpkg "github.com/fredygallego8/wayuulingo-api/internal/logger"
	"github.com/fredygallego8/wayuulingo-api/internal/metrics"
	chiTransport "github.com/fredygallego8/wayuulingo-api/internal/transport/chi"
	healthuc "github.com/fredygallego8/wayuulingo-api/internal/usecase/health"
	queryuc "github.com/fredygallego8/wayuulingo-api/internal/usecase/query"
	"github.com/fredygallego8/wayuulingo-api/internal/vectorstore/qdrant"
	"github.com/fredygallego8/wayuulingo-api/internal/version"
)

func main() {
	env := config.GetEnv()

	// Missing required configuration is fatal before any request is served.
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting wayuulingo API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("collection", cfg.Qdrant.Collection),
		zap.Int("dimensions", cfg.Qdrant.Dimensions),
	)

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	// Vector index client, process-wide and read-only after this point
	searchClient, err := qdrant.New(qdrant.Config{
		Host:       cfg.Qdrant.Host,
		Port:       cfg.Qdrant.Port,
		APIKey:     cfg.Qdrant.APIKey,
		UseTLS:     cfg.Qdrant.UseTLS,
		Collection: cfg.Qdrant.Collection,
	})
	if err != nil {
		logger.Fatal("Failed to create Qdrant client", zap.Error(err))
	}
	defer func() { _ = searchClient.Close() }()

	// Embedder chain: OpenAI-compatible primary -> optional cache -> fallback generator
	primary := embedding.NewOpenAIProvider(embedding.OpenAIConfig{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
		Logger:  logger,
	})

	var provider domain.EmbeddingProvider = primary
	var cacheStore *embedding.RueidisStore
	if len(cfg.Cache.Addrs) > 0 {
		cacheStore, err = embedding.NewRueidisStore(embedding.RueidisConfig{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to connect embedding cache", zap.Error(err))
		}
		defer cacheStore.Close()
		ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
		provider = embedding.NewCachedProvider(provider, cacheStore, ttl, logger)
		logger.Info("Embedding cache enabled", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	embedder := embedding.NewGenerator(provider, cfg.Qdrant.Dimensions, logger)

	answerer := genai.New(genai.Config{
		APIKey:  cfg.Generation.APIKey,
		BaseURL: cfg.Generation.BaseURL,
		Model:   cfg.Generation.Model,
		Logger:  logger,
	})

	querySvc := queryuc.New(embedder, searchClient, answerer, queryuc.Options{
		DefaultLimit:    cfg.Pipeline.DefaultLimit,
		MaxLimit:        cfg.Pipeline.MaxLimit,
		ContextResults:  cfg.Pipeline.ContextResults,
		EmbedTimeout:    time.Duration(cfg.Pipeline.EmbedTimeoutSec) * time.Second,
		SearchTimeout:   time.Duration(cfg.Pipeline.SearchTimeoutSec) * time.Second,
		GenerateTimeout: time.Duration(cfg.Pipeline.GenerateTimeoutSec) * time.Second,
	}, logger)

	var cacheChecker healthuc.Checker
	if cacheStore != nil {
		cacheChecker = cachePinger{store: cacheStore}
	}
	healthSvc := healthuc.New(searchClient, primary, cacheChecker)

	server := chiTransport.NewServer(querySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

// cachePinger adapts the cache store's Ping to the health Checker contract.
type cachePinger struct {
	store *embedding.RueidisStore
}

func (c cachePinger) HealthCheck(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// jsonRecoverer is a recovery middleware that returns the JSON error
// envelope instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					chiTransport.WriteError(w, r, http.StatusInternalServerError, "internal error")
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWith(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
