// Package site loads and indexes the published corpus on behalf of the
// command-line tools and exposes its statistics and health over HTTP. It
// never answers search queries; searching happens in the page.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/health"
)

// Recorder receives load and build observations. *metrics.Metrics
// implements it.
type Recorder interface {
	RecordCorpusLoad(err error)
	RecordBuild(documents int, took time.Duration, termsByField map[string]int)
}

// Snapshot is one loaded and indexed copy of the corpus.
type Snapshot struct {
	Location  string          `json:"location"`
	Documents int             `json:"documents"`
	BuildMS   int64           `json:"build_ms"`
	Index     index.Stats     `json:"index"`
	Engine    *indexer.Engine `json:"-"`
}

type Service struct {
	loader   *corpus.Loader
	indexing config.IndexerConfig
	recorder Recorder
	logger   *slog.Logger
}

// NewService returns a Service reading the corpus through loader. recorder
// may be nil.
func NewService(loader *corpus.Loader, indexing config.IndexerConfig, recorder Recorder) *Service {
	return &Service{
		loader:   loader,
		indexing: indexing,
		recorder: recorder,
		logger:   slog.Default().With("component", "site"),
	}
}

// NewLoader builds a corpus loader for cfg. An empty origin falls back to
// cfg.Site.Origin. With no origin at all the corpus is read from
// cfg.Site.Dir; otherwise it is fetched over HTTP from origin.
func NewLoader(cfg *config.Config, origin string, client *http.Client) (*corpus.Loader, error) {
	if origin == "" {
		origin = cfg.Site.Origin
	}
	opts := corpus.Options{
		BasePath:     cfg.Site.BasePath,
		FileName:     cfg.Corpus.FileName,
		FetchTimeout: cfg.Corpus.FetchTimeout,
	}
	var fetcher corpus.Fetcher
	if origin == "" {
		fetcher = &corpus.FSFetcher{FS: os.DirFS(cfg.Site.Dir)}
	} else {
		opts.Origin = origin
		fetcher = &corpus.HTTPFetcher{Client: client}
	}
	loader, err := corpus.NewLoader(fetcher, opts)
	if err != nil {
		return nil, fmt.Errorf("creating corpus loader: %w", err)
	}
	return loader, nil
}

func (s *Service) Location() string {
	return s.loader.Location()
}

// Snapshot loads the corpus once and indexes it into a fresh engine.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	docs, err := s.loader.Load(ctx)
	if s.recorder != nil {
		s.recorder.RecordCorpusLoad(err)
	}
	if err != nil {
		return nil, err
	}
	engine, err := indexer.NewEngine(s.indexing)
	if err != nil {
		return nil, err
	}
	stats := engine.Build(docs)
	if s.recorder != nil {
		terms := make(map[string]int, len(stats.Index.Fields))
		for _, f := range stats.Index.Fields {
			terms[string(f.Field)] = f.Terms
		}
		s.recorder.RecordBuild(stats.Documents, stats.Duration, terms)
	}
	return &Snapshot{
		Location:  s.loader.Location(),
		Documents: stats.Documents,
		BuildMS:   stats.Duration.Milliseconds(),
		Index:     stats.Index,
		Engine:    engine,
	}, nil
}

// HealthCheck reports the corpus as up when it loads and indexes, degraded
// when it is empty and down otherwise.
func (s *Service) HealthCheck() health.Check {
	return func(ctx context.Context) health.ComponentHealth {
		snap, err := s.Snapshot(ctx)
		if err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		details := map[string]any{"documents": snap.Documents, "location": snap.Location}
		if snap.Documents == 0 {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "corpus is empty", Details: details}
		}
		return health.ComponentHealth{Status: health.StatusUp, Details: details}
	}
}
