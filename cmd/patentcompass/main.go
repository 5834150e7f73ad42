package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patentcompass/internal/app"
	"github.com/kailas-cloud/patentcompass/internal/config"
	logpkg "github.com/kailas-cloud/patentcompass/internal/logger"
	"github.com/kailas-cloud/patentcompass/internal/metrics"
	chiTransport "github.com/kailas-cloud/patentcompass/internal/transport/chi"
	healthuc "github.com/kailas-cloud/patentcompass/internal/usecase/health"
	searchuc "github.com/kailas-cloud/patentcompass/internal/usecase/search"
	"github.com/kailas-cloud/patentcompass/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	_ = logger.Sync()
	if err != nil {
		logger.Error("patentcompass exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	logger.Info("Starting patentcompass",
		zap.String("version", version.String()),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("corpus", cfg.Corpus.Path),
	)

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()
	metrics.RegisterHTTPMetrics()

	store, err := app.ConnectCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("embedding cache: %w", err)
	}
	var cachePinger healthuc.CachePinger
	if store != nil {
		defer store.Close()
		cachePinger = store
		logger.Info("Embedding cache connected", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	embedder := app.BuildEmbedder(cfg.Embedding, cfg.Cache, store, logger)
	cat := app.BuildCatalog(cfg.Corpus, embedder, logger)
	if cfg.Corpus.EagerInit {
		if _, err := cat.Init(ctx); err != nil {
			return fmt.Errorf("build corpus index: %w", err)
		}
	}

	server := chiTransport.NewServer(
		searchuc.New(cat, embedder).WithMaxK(cfg.Search.MaxK),
		healthuc.New(cat, cachePinger, app.NewEmbeddingHealthChecker(embedder)).
			WithTimeout(time.Duration(cfg.HTTP.HealthProbeSec)*time.Second),
		chiTransport.Options{
			DefaultK:     cfg.Search.DefaultK,
			SummaryRunes: cfg.Search.SummaryRunes,
		},
		logger,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      newRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// newRouter orders the middleware stack: panics are caught outermost, the
// request id exists before the access log, and auth rejects before metrics.
func newRouter(server *chiTransport.Server, apiKeys []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chiTransport.RecovererMiddleware(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.AccessLogMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())
	return chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.BindErrorHandler,
	})
}
