package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/site"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/ui/htmldom"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/ui/render"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/tracing"
)

// resultsPage stands in for the site's search page when no -page is given.
const resultsPage = `<!doctype html><html><body>
<div data-search-results></div>
<template><article><h2><a href="#"></a></h2><time></time><div class="content"></div></article></template>
</body></html>`

type queryOutput struct {
	*executor.SearchResult
	Location string           `json:"location"`
	Ranking  string           `json:"ranking"`
	Timings  []tracing.Timing `json:"timings"`
}

func runQuery(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	origin := fs.String("url", "", "fetch the corpus from this site origin (default site.origin, else site.dir)")
	limit := fs.Int("limit", 0, "maximum results (default search.limit)")
	format := fs.String("format", "json", "output format: json or html")
	page := fs.String("page", "", "HTML page whose template renders results (html format)")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	if *limit <= 0 {
		*limit = cfg.Search.Limit
	}

	ctx, root := tracing.StartSpan(ctx, "query", "")
	root.SetAttr("query", query)

	loader, err := site.NewLoader(cfg, *origin, nil)
	if err != nil {
		return err
	}
	_, buildSpan := tracing.StartChildSpan(ctx, "load_and_build")
	snap, err := site.NewService(loader, cfg.Indexer, nil).Snapshot(ctx)
	buildSpan.End()
	if err != nil {
		return err
	}
	buildSpan.SetAttr("documents", snap.Documents)

	rk, err := ranker.FromConfig(cfg.Search)
	if err != nil {
		return err
	}
	searchCtx, searchSpan := tracing.StartChildSpan(ctx, "search")
	res, err := executor.New(snap.Engine, rk, cfg.Search.MaxResults).Execute(searchCtx, parser.Parse(query, snap.Engine), *limit)
	searchSpan.End()
	if err != nil {
		return err
	}
	searchSpan.SetAttr("results", len(res.Results))
	root.End()
	root.Log(slog.Default())

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(queryOutput{SearchResult: res, Location: snap.Location, Ranking: rk.Strategy().String(), Timings: root.Timings()})
	case "html":
		markup, err := renderHTML(*page, res.Results)
		if err != nil {
			return err
		}
		_, err = io.WriteString(os.Stdout, markup+"\n")
		return err
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

// renderHTML renders results into the results container of page, or of a
// minimal built-in page, and returns the container's markup.
func renderHTML(page string, results []executor.Result) (string, error) {
	var (
		doc *htmldom.Document
		err error
	)
	if page == "" {
		doc, err = htmldom.ParseString(resultsPage)
	} else {
		f, openErr := os.Open(page)
		if openErr != nil {
			return "", fmt.Errorf("opening page: %w", openErr)
		}
		defer f.Close()
		doc, err = htmldom.Parse(f)
	}
	if err != nil {
		return "", err
	}
	if err := render.New(doc).Render(results); err != nil {
		return "", err
	}
	return doc.Element(render.ContainerSelector).InnerHTML(), nil
}
