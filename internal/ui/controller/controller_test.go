package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/ranker"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/ui/htmldom"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/ui/render"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/errors"
)

const page = `<!doctype html><html><body>
<div data-search-loading class="hidden">Loading…</div>
<div data-search-input class="hidden">
  <form data-search-form><input type="search" data-search-text></form>
</div>
<div data-search-results></div>
<template><article><a href="#"></a><time></time><div class="content"></div></article></template>
</body></html>`

type fixture struct {
	doc  *htmldom.Document
	ctrl *Controller
}

func newFixture(t *testing.T, markup string, loader CorpusLoader) *fixture {
	t.Helper()
	doc, err := htmldom.ParseString(markup)
	if err != nil {
		t.Fatal(err)
	}
	engine, err := indexer.NewEngine(config.IndexerConfig{})
	if err != nil {
		t.Fatal(err)
	}
	exec := executor.New(engine, ranker.New(ranker.Weighted, nil), 100)
	return &fixture{doc: doc, ctrl: New(doc, loader, engine, exec, 10)}
}

func (f *fixture) typeQuery(q string) {
	input := f.doc.Element(TextSelector)
	input.SetValue(q)
	f.doc.Dispatch(input, "input")
}

func (f *fixture) results() *htmldom.Element {
	return f.doc.Element(render.ContainerSelector)
}

type staticLoader struct {
	docs []corpus.Document
	err  error
}

func (l staticLoader) Load(context.Context) ([]corpus.Document, error) {
	return l.docs, l.err
}

func TestInstallGuideScenario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"title":"Install Guide","content":"How to install","tags":"setup","date":"2024-01-01","summary":"Steps","permalink":"/install/"}]`))
	}))
	defer srv.Close()

	loader, err := corpus.NewLoader(&corpus.HTTPFetcher{Client: srv.Client()}, corpus.Options{Origin: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	f := newFixture(t, page, loader)
	if err := f.ctrl.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if f.ctrl.State() != StateReady {
		t.Fatalf("state = %s", f.ctrl.State())
	}
	if !f.doc.Element(LoadingSelector).HasClass(HiddenClass) || f.doc.Element(InputSelector).HasClass(HiddenClass) {
		t.Error("loading indicator and input visibility not toggled")
	}

	f.typeQuery("install")
	links := f.results()
	a := links.QuerySelector("a")
	if a == nil || a.Text() != "Install Guide" {
		t.Fatalf("results = %s", links.InnerHTML())
	}
	if href, _ := a.Attr("href"); href != "/install/" {
		t.Errorf("href = %q", href)
	}
	if strings.Count(links.InnerHTML(), "<article>") != 1 {
		t.Errorf("expected exactly one result: %s", links.InnerHTML())
	}

	f.typeQuery("xyz")
	if got := strings.TrimSpace(f.results().Text()); got != render.NoResultsText {
		t.Errorf("no-match text = %q", got)
	}

	f.typeQuery("   ")
	if f.results().InnerHTML() != "" {
		t.Errorf("empty query must clear results, got %q", f.results().InnerHTML())
	}
}

func TestSubmitPreventsDefault(t *testing.T) {
	f := newFixture(t, page, staticLoader{docs: []corpus.Document{{ID: "1", Title: "Install Guide"}}})
	if err := f.ctrl.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	f.doc.Element(TextSelector).SetValue("guide")
	ev := f.doc.Dispatch(f.doc.QuerySelector(FormSelector), "submit")
	if !ev.DefaultPrevented() {
		t.Error("submit default not prevented")
	}
	if f.results().QuerySelector("a") == nil {
		t.Error("submit did not render results")
	}
}

func TestLoadFailureGating(t *testing.T) {
	loadErr := &corpus.LoadError{Location: "/searchindex.json", StatusCode: 404, Err: apperrors.ErrCorpusUnavailable}
	f := newFixture(t, page, staticLoader{err: loadErr})

	err := f.ctrl.Init(context.Background())
	if !errors.Is(err, apperrors.ErrCorpusUnavailable) {
		t.Fatalf("Init error = %v", err)
	}
	if f.ctrl.State() != StateFailed {
		t.Fatalf("state = %s", f.ctrl.State())
	}
	loading := f.doc.Element(LoadingSelector)
	if !strings.Contains(loading.Text(), LoadFailureText) {
		t.Errorf("loading indicator = %q", loading.Text())
	}
	if loading.HasClass(HiddenClass) {
		t.Error("failure message must stay visible")
	}

	f.typeQuery("install")
	if f.results().InnerHTML() != "" {
		t.Error("handlers must not be attached after a load failure")
	}
	if err := f.ctrl.Init(context.Background()); err == nil {
		t.Error("second Init must fail")
	}
}

func TestShowLoadFailureBeforeInit(t *testing.T) {
	doc, err := htmldom.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	if !ShowLoadFailure(doc) {
		t.Fatal("expected loading indicator to be found")
	}
	loading := doc.Element(LoadingSelector)
	if !strings.Contains(loading.Text(), LoadFailureText) || loading.HasClass(HiddenClass) {
		t.Errorf("loading indicator = %q hidden=%v", loading.Text(), loading.HasClass(HiddenClass))
	}

	bare, err := htmldom.ParseString(`<div data-search-results></div>`)
	if err != nil {
		t.Fatal(err)
	}
	if ShowLoadFailure(bare) {
		t.Error("page without a loading indicator must report false")
	}
}

func TestMissingForm(t *testing.T) {
	f := newFixture(t, `<div data-search-results></div>`, staticLoader{})
	err := f.ctrl.Init(context.Background())
	var cfgErr *render.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Selector != FormSelector {
		t.Fatalf("expected form ConfigurationError, got %v", err)
	}
	if f.ctrl.State() != StateFailed {
		t.Errorf("state = %s", f.ctrl.State())
	}
}

type panickingSearcher struct{}

func (panickingSearcher) Execute(context.Context, *parser.QueryPlan, int) (*executor.SearchResult, error) {
	panic("index corrupted")
}

func TestSearchRecoversPanic(t *testing.T) {
	doc, err := htmldom.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	engine, _ := indexer.NewEngine(config.IndexerConfig{})
	ctrl := New(doc, staticLoader{}, engine, panickingSearcher{}, 0)

	err = ctrl.Search(context.Background(), "boom")
	if !errors.Is(err, apperrors.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if !strings.Contains(doc.Element(render.ContainerSelector).Text(), render.FailureText) {
		t.Error("failure state not rendered")
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{StateIdle: "idle", StateLoading: "loading", StateReady: "ready", StateFailed: "failed"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q", s, s.String())
		}
	}
}
