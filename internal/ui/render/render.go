// Package render turns search results into page markup by cloning the
// page's result template.
package render

import (
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/ui/dom"
	apperrors "github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/errors"
)

const (
	TemplateSelector  = "template"
	ContainerSelector = "[data-search-results]"

	NoResultsText = "No results found. Try different keywords."
	FailureText   = "Search failed. Please try again."

	placeholderClass = "text-center py-12 text-[var(--color-fg)]/60 col-span-full"
)

// ConfigurationError reports a required page element that is missing.
type ConfigurationError struct {
	Selector string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("search element not found: %s", e.Selector)
}

func (e *ConfigurationError) Unwrap() error {
	return apperrors.ErrConfiguration
}

type Renderer struct {
	doc    dom.Document
	logger *slog.Logger
}

func New(doc dom.Document) *Renderer {
	return &Renderer{
		doc:    doc,
		logger: slog.Default().With("component", "renderer"),
	}
}

// Render replaces the container content with one template instance per
// result, in order. An empty slice renders the no-results placeholder.
func (r *Renderer) Render(results []executor.Result) error {
	tmpl := r.doc.QuerySelector(TemplateSelector)
	if tmpl == nil {
		return r.missing(TemplateSelector)
	}
	container, err := r.container()
	if err != nil {
		return err
	}
	container.Clear()

	if len(results) == 0 {
		container.AppendChild(r.placeholder("text-lg", NoResultsText))
		return nil
	}
	for _, res := range results {
		item := tmpl.CloneContent()
		if item == nil {
			return r.missing(TemplateSelector)
		}
		bind(item, res)
		container.AppendChild(item)
	}
	return nil
}

func bind(item dom.Element, res executor.Result) {
	if a := item.QuerySelector("a"); a != nil {
		a.SetText(res.Doc.Title)
		a.SetAttr("href", res.Doc.Permalink)
	}
	if t := item.QuerySelector("time"); t != nil {
		t.SetText(res.Doc.Date)
		t.SetAttr("datetime", res.Doc.Date)
	}
	if c := item.QuerySelector(".content"); c != nil {
		c.SetHTML(res.Doc.Summary)
	}
}

// Clear empties the results container.
func (r *Renderer) Clear() error {
	container, err := r.container()
	if err != nil {
		return err
	}
	container.Clear()
	return nil
}

// Fail replaces the container content with a generic failure message.
func (r *Renderer) Fail() error {
	container, err := r.container()
	if err != nil {
		return err
	}
	container.Clear()
	container.AppendChild(r.placeholder("text-lg text-red-500", FailureText))
	return nil
}

func (r *Renderer) container() (dom.Element, error) {
	c := r.doc.QuerySelector(ContainerSelector)
	if c == nil {
		return nil, r.missing(ContainerSelector)
	}
	return c, nil
}

func (r *Renderer) placeholder(class, text string) dom.Element {
	div := r.doc.CreateElement("div")
	div.SetAttr("class", placeholderClass)
	p := r.doc.CreateElement("p")
	p.SetAttr("class", class)
	p.SetText(text)
	div.AppendChild(p)
	return div
}

func (r *Renderer) missing(selector string) error {
	err := &ConfigurationError{Selector: selector}
	r.logger.Error("search page is misconfigured", "selector", selector)
	return err
}
