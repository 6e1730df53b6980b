package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/site"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/middleware"
	"golang.org/x/sync/errgroup"
)

func runServe(ctx context.Context, args []string) error {
	cfg, err := setup(flag.NewFlagSet("serve", flag.ExitOnError), args)
	if err != nil {
		return err
	}
	slog.Info("starting site server", "port", cfg.Server.Port, "site_dir", cfg.Site.Dir, "base_path", cfg.Site.BasePath)

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdownMetrics := m.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	loader, err := site.NewLoader(cfg, "", nil)
	if err != nil {
		return err
	}
	svc := site.NewService(loader, cfg.Indexer, m)
	if snap, err := svc.Snapshot(ctx); err != nil {
		slog.Warn("corpus not loadable yet; the page search will fail until it is", "location", loader.Location(), "error", err)
	} else {
		slog.Info("corpus indexed", "location", snap.Location, "documents", snap.Documents, "build_ms", snap.BuildMS)
	}

	checker := health.NewChecker(cfg.Server.ReadTimeout)
	checker.Register("corpus", svc.HealthCheck())
	h := site.NewHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/corpus", h.CorpusStats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())
	mux.Handle("/", http.FileServer(http.Dir(cfg.Site.Dir)))

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.CORS.AllowOrigins,
		MaxAge:       cfg.CORS.MaxAge,
	})(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("site server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("site server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("site server stopped")
	return nil
}
