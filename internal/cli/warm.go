package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patentcompass/internal/app"
	"github.com/kailas-cloud/patentcompass/internal/config"
	"github.com/kailas-cloud/patentcompass/internal/metrics"
)

// ErrCacheDisabled is returned by warm when no cache driver is configured.
var ErrCacheDisabled = errors.New("embedding cache is disabled")

func cmdWarm(st *state) *cli.Command {
	var metricsAddr string

	return &cli.Command{
		Name:  "warm",
		Usage: "Embed the whole corpus once so the service starts from a filled cache",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "metrics-addr",
				Usage:       "serve Prometheus metrics on this address while warming (e.g. :9090)",
				Destination: &metricsAddr,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			if st.cfg.Cache.Driver == config.CacheDriverNone {
				return fmt.Errorf("warm: %w (set cache.driver to redis or valkey)", ErrCacheDisabled)
			}

			if metricsAddr != "" {
				metrics.RegisterEmbeddingMetrics()
				metrics.RegisterSearchMetrics()
				srv := serveMetrics(metricsAddr, st.logger)
				defer func() {
					shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutCtx)
				}()
			}

			store, err := app.ConnectCache(ctx, st.cfg.Cache)
			if err != nil {
				return err
			}
			defer store.Close()

			embedder := app.BuildEmbedder(st.cfg.Embedding, st.cfg.Cache, store, st.logger)
			cat := app.BuildCatalog(st.cfg.Corpus, embedder, st.logger)

			start := time.Now()
			idx, err := cat.Init(ctx)
			if err != nil {
				return fmt.Errorf("warm: %w", err)
			}

			st.logger.Info("Embedding cache warmed",
				zap.Int("records", idx.Len()),
				zap.Duration("duration", time.Since(start)),
			)
			st.printf("warmed %d records in %s\n", idx.Len(), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func serveMetrics(addr string, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Metrics server stopped", zap.Error(err))
		}
	}()
	return srv
}
