//go:build js && wasm

// Command searchwasm is the in-page search. Build it with
// GOOS=js GOARCH=wasm and load it with wasm_exec.js on the search page; it
// reads hugoSearchLimit and hugoBasePath from the page globals.
package main

import (
	"context"
	"log/slog"
	"syscall/js"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/ui/controller"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/ui/jsdom"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/logger"
)

func main() {
	cfg := config.Default()
	cfg.Site.BasePath = jsdom.GlobalString("hugoBasePath", cfg.Site.BasePath)
	cfg.Search.Limit = jsdom.GlobalInt("hugoSearchLimit", cfg.Search.Limit)
	if cfg.Search.Limit > cfg.Search.MaxResults {
		cfg.Search.MaxResults = cfg.Search.Limit
	}
	cfg.Logging.Level = jsdom.GlobalString("hugoSearchLogLevel", "warn")
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	doc := jsdom.Global()
	origin := js.Global().Get("location").Get("origin").String()
	loader, err := corpus.NewLoader(&corpus.HTTPFetcher{}, corpus.Options{
		Origin:   origin,
		BasePath: cfg.Site.BasePath,
		FileName: cfg.Corpus.FileName,
	})
	if err != nil {
		disable(doc, err)
		return
	}
	engine, err := indexer.NewEngine(cfg.Indexer)
	if err != nil {
		disable(doc, err)
		return
	}
	rk, err := ranker.FromConfig(cfg.Search)
	if err != nil {
		disable(doc, err)
		return
	}

	ctrl := controller.New(doc, loader, engine, executor.New(engine, rk, cfg.Search.MaxResults), cfg.Search.Limit)
	doc.OnReady(func() {
		// Handlers run on the JS event loop; the fetch must not block it.
		go func() {
			if err := ctrl.Init(context.Background()); err != nil {
				slog.Warn("search unavailable", "state", ctrl.State().String(), "error", err)
			}
		}()
	})

	select {}
}

// disable reports a setup failure on the page the same way a failed corpus
// load is reported.
func disable(doc *jsdom.Document, err error) {
	slog.Error("search disabled", "error", err)
	done := make(chan struct{})
	doc.OnReady(func() {
		controller.ShowLoadFailure(doc)
		close(done)
	})
	<-done
}
