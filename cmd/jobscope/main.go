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

	"github.com/kailas-cloud/jobscope/internal/artifact"
	"github.com/kailas-cloud/jobscope/internal/config"
	dbRedis "github.com/kailas-cloud/jobscope/internal/db/redis"
	logpkg "github.com/kailas-cloud/jobscope/internal/logger"
	"github.com/kailas-cloud/jobscope/internal/metrics"
	"github.com/kailas-cloud/jobscope/internal/rank"
	historyrepo "github.com/kailas-cloud/jobscope/internal/repository/history"
	chiTransport "github.com/kailas-cloud/jobscope/internal/transport/chi"
	healthuc "github.com/kailas-cloud/jobscope/internal/usecase/health"
	matchuc "github.com/kailas-cloud/jobscope/internal/usecase/match"
	"github.com/kailas-cloud/jobscope/internal/version"
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

	logger.Info("Starting jobscope API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("model_dir", cfg.Model.Dir),
		zap.Bool("history_enabled", cfg.History.Enabled()),
	)

	// Register matching metrics explicitly (no init())
	metrics.RegisterMatchingMetrics()

	// Optional match-history store
	var histWriter matchuc.HistoryWriter
	var histPinger healthuc.DBPinger
	if cfg.History.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.History.Addrs,
			Password: cfg.History.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create history store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(context.Background(), 10*time.Second); err != nil {
			// History is best-effort; a slow Redis must not block serving matches.
			logger.Warn("History store not ready, continuing without it", zap.Error(err))
		}

		histWriter = historyrepo.New(
			store,
			cfg.History.KeyPrefix,
			cfg.History.Keep,
			time.Duration(cfg.History.TTLHours)*time.Hour,
		)
		histPinger = store
		logger.Info("Match history enabled", zap.Strings("addrs", cfg.History.Addrs))
	}

	// Model artifacts load lazily on first request; warm in the background so
	// the first caller does not pay the load latency.
	modelDir := cfg.Model.Dir
	loader := matchuc.LoaderFunc(func() (*artifact.Set, error) {
		return artifact.Load(modelDir)
	})

	matchSvc := matchuc.NewService(loader, rank.NewLinear(), logger).
		WithLimits(cfg.Matching.DefaultTopN, cfg.Matching.MaxTopN)
	if histWriter != nil {
		matchSvc = matchSvc.WithHistory(histWriter)
	}

	healthSvc := healthuc.New(matchSvc, histPinger)

	go func() {
		if err := matchSvc.Ready(context.Background()); err != nil {
			logger.Warn("Model warm-up failed", zap.Error(err))
		}
	}()

	// Create chi server
	server := chiTransport.NewServer(matchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/match", server.Match)
		r.Get("/jobs", server.Jobs)
		r.Get("/jobs/stats", server.JobStats)
	})
	r.Get("/health", server.HealthCheck)
	r.Get("/metrics", server.Metrics)

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
