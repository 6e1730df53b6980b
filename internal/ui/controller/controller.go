// Package controller wires the search page together: it loads the corpus,
// builds the engine, binds the search form and renders results as the user
// types.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/ui/dom"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/ui/render"
	apperrors "github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/errors"
)

const (
	FormSelector    = "[data-search-form]"
	TextSelector    = "[data-search-text]"
	LoadingSelector = "[data-search-loading]"
	InputSelector   = "[data-search-input]"

	HiddenClass = "hidden"

	LoadFailureText = "Failed to load search functionality"
)

// State is the controller lifecycle. Ready and Failed are terminal.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// CorpusLoader fetches the corpus once.
type CorpusLoader interface {
	Load(ctx context.Context) ([]corpus.Document, error)
}

// Searcher executes a parsed query.
type Searcher interface {
	Execute(ctx context.Context, plan *parser.QueryPlan, limit int) (*executor.SearchResult, error)
}

type Controller struct {
	doc      dom.Document
	loader   CorpusLoader
	engine   *indexer.Engine
	searcher Searcher
	renderer *render.Renderer
	limit    int

	mu     sync.RWMutex
	state  State
	logger *slog.Logger
}

// New returns a controller for doc. A non-positive limit uses
// executor.DefaultLimit.
func New(doc dom.Document, loader CorpusLoader, engine *indexer.Engine, searcher Searcher, limit int) *Controller {
	if limit <= 0 {
		limit = executor.DefaultLimit
	}
	return &Controller{
		doc:      doc,
		loader:   loader,
		engine:   engine,
		searcher: searcher,
		renderer: render.New(doc),
		limit:    limit,
		logger:   slog.Default().With("component", "search-ui"),
	}
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	prev := c.state
	c.state = s
	c.mu.Unlock()
	c.logger.Debug("search state changed", "from", prev.String(), "to", s.String())
}

// Init shows the loading indicator, loads the corpus, builds the index and
// enables the search form. On a load failure the indicator is replaced with
// an error message and no handlers are attached. Init runs at most once.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	if s := c.state; s != StateIdle {
		c.mu.Unlock()
		return fmt.Errorf("%w: search already initialised (%s)", apperrors.ErrInvalidInput, s)
	}
	c.state = StateLoading
	c.mu.Unlock()

	if loading := c.doc.QuerySelector(LoadingSelector); loading != nil {
		loading.RemoveClass(HiddenClass)
	}

	docs, err := c.loader.Load(ctx)
	if err != nil {
		c.logger.Error("failed to load search index", "error", err)
		ShowLoadFailure(c.doc)
		c.setState(StateFailed)
		return err
	}

	stats := c.engine.Build(docs)
	c.logger.Info("search ready", "documents", stats.Documents)

	if err := c.enableUI(); err != nil {
		c.setState(StateFailed)
		return err
	}
	c.setState(StateReady)
	return nil
}

// ShowLoadFailure replaces the loading indicator with the load failure
// message. It reports whether the indicator was found.
func ShowLoadFailure(doc dom.Document) bool {
	loading := doc.QuerySelector(LoadingSelector)
	if loading == nil {
		return false
	}
	loading.RemoveClass(HiddenClass)
	loading.SetHTML(`<p class="text-center text-red-500">` + LoadFailureText + `</p>`)
	return true
}

func (c *Controller) enableUI() error {
	form := c.doc.QuerySelector(FormSelector)
	if form == nil {
		c.logger.Error("search form not found", "selector", FormSelector)
		return &render.ConfigurationError{Selector: FormSelector}
	}
	form.On("submit", func(e dom.Event) {
		e.PreventDefault()
		c.doSearch()
	})
	form.On("input", func(dom.Event) {
		c.doSearch()
	})

	loading := c.doc.QuerySelector(LoadingSelector)
	input := c.doc.QuerySelector(InputSelector)
	if loading != nil && input != nil {
		loading.AddClass(HiddenClass)
		input.RemoveClass(HiddenClass)
	}
	return nil
}

// Search runs query and renders the outcome. It is what the form handlers
// call with the current input value.
func (c *Controller) Search(ctx context.Context, query string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("search panicked", "query", query, "panic", r)
			err = fmt.Errorf("%w: search panicked: %v", apperrors.ErrInternal, r)
			if ferr := c.renderer.Fail(); ferr != nil {
				c.logger.Error("rendering failure state", "error", ferr)
			}
		}
	}()

	query = strings.TrimSpace(query)
	if query == "" {
		return c.renderer.Clear()
	}
	plan := parser.Parse(query, c.engine)
	res, err := c.searcher.Execute(ctx, plan, c.limit)
	if err != nil {
		c.logger.Error("search failed", "query", query, "error", err)
		if ferr := c.renderer.Fail(); ferr != nil {
			return ferr
		}
		return err
	}
	return c.renderer.Render(res.Results)
}

func (c *Controller) doSearch() {
	input := c.doc.QuerySelector(TextSelector)
	if input == nil {
		return
	}
	if err := c.Search(context.Background(), input.Value()); err != nil {
		c.logger.Warn("search not rendered", "error", err)
	}
}
