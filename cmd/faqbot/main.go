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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/faqbot/internal/config"
	dbRedis "github.com/kailas-cloud/faqbot/internal/db/redis"
	"github.com/kailas-cloud/faqbot/internal/index"
	logpkg "github.com/kailas-cloud/faqbot/internal/logger"
	"github.com/kailas-cloud/faqbot/internal/matcher"
	"github.com/kailas-cloud/faqbot/internal/metrics"
	"github.com/kailas-cloud/faqbot/internal/ratelimit"
	"github.com/kailas-cloud/faqbot/internal/repository/embcache"
	historyrepo "github.com/kailas-cloud/faqbot/internal/repository/history"
	chiTransport "github.com/kailas-cloud/faqbot/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/faqbot/internal/transport/openai"
	healthuc "github.com/kailas-cloud/faqbot/internal/usecase/health"
	responduc "github.com/kailas-cloud/faqbot/internal/usecase/respond"
	"github.com/kailas-cloud/faqbot/internal/version"
)

func main() {
	// .env is optional; absence is the normal case outside local dev.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting faqbot API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("matcher", cfg.Engine.Matcher),
		zap.Float64("threshold", cfg.Engine.Threshold),
	)

	ctx := context.Background()

	metrics.RegisterEngineMetrics()

	// Chat history store. Empty addrs run the service without persistence.
	var store *dbRedis.Store
	if len(cfg.Database.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))
	} else {
		logger.Info("No database configured, chat history disabled")
	}

	// Similarity index. A failed load degrades to fallback-only mode rather
	// than refusing to start.
	var idx *index.Index
	idx, err = index.Load(cfg.Index.Artifact)
	if err != nil {
		logger.Warn("Index load failed, running fallback-only",
			zap.String("artifact", cfg.Index.Artifact),
			zap.Error(err),
		)
		idx = nil
	} else {
		logger.Info("Index loaded",
			zap.String("artifact", cfg.Index.Artifact),
			zap.Int("sentences", idx.Len()),
			zap.Int("dimensions", idx.Dimensions()),
		)
	}

	// Generative fallback provider.
	var generator *openaiTransport.Generator
	if cfg.Generative.Model != "" {
		generator = openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
			APIKey:    cfg.Generative.APIKey,
			BaseURL:   cfg.Generative.BaseURL,
			Model:     cfg.Generative.Model,
			MaxTokens: cfg.Generative.MaxTokens,
			Logger:    logger,
		})
		logger.Info("Generative provider configured", zap.String("model", cfg.Generative.Model))
	} else {
		logger.Warn("No generative provider configured, unmatched queries get the fixed apology")
	}

	// Pass nil interface (not typed nil pointer!) when a component is absent.
	var m responduc.Matcher
	if idx != nil {
		m = buildMatcher(ctx, cfg, idx, store, logger)
	}
	var gen responduc.Generator
	if generator != nil {
		gen = generator
	}

	respondSvc := responduc.New(m, gen, responduc.Config{
		Threshold:         cfg.Engine.Threshold,
		GenerationTimeout: time.Duration(cfg.Engine.GenerationTimeoutSec) * time.Second,
	}, logger)

	var dbPinger healthuc.DBPinger
	if store != nil {
		dbPinger = store
	}
	var genChecker healthuc.GenerationChecker
	if generator != nil {
		genChecker = generator
	}
	healthSvc := healthuc.New(dbPinger, genChecker, idx != nil)

	var hist chiTransport.HistoryStore
	if store != nil {
		hist = historyrepo.New(store, cfg.History.KeyPrefix, cfg.History.MaxEntries, logger)
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.RPS > 0 {
		limiter = ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	server := chiTransport.NewServer(respondSvc, hist, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(chiTransport.RateLimitMiddleware(limiter))
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

// buildMatcher selects the retrieval variant. The semantic matcher embeds the
// corpus at startup; if that fails the lexical matcher takes over so the
// service still retrieves.
func buildMatcher(
	ctx context.Context,
	cfg config.Config,
	idx *index.Index,
	store *dbRedis.Store,
	logger *zap.Logger,
) responduc.Matcher {
	lexical := matcher.NewLexical(idx, cfg.Normalize.Options(), logger)

	if cfg.Engine.Matcher != config.MatcherSemantic {
		return lexical
	}

	var embedder matcher.Embedder = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	if store != nil {
		embedder = embcache.New(embedder, store, cfg.History.KeyPrefix,
			24*time.Hour, metrics.EmbeddingCacheTotal, logger)
	}

	sentences := make([]string, idx.Len())
	for i := range sentences {
		sentences[i] = idx.Sentence(i)
	}

	sem, err := matcher.NewSemantic(ctx, embedder, sentences, logger)
	if err != nil {
		logger.Warn("Semantic matcher init failed, using lexical matcher", zap.Error(err))
		return lexical
	}

	logger.Info("Semantic matcher ready", zap.String("model", cfg.Embedding.Model))
	return sem
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
