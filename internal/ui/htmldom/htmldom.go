// Package htmldom implements the dom contract on a parsed HTML tree using
// golang.org/x/net/html and goquery. Events are dispatched explicitly with
// Dispatch and bubble to ancestor elements.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/ui/dom"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Document struct {
	root *html.Node

	mu        sync.Mutex
	listeners map[*html.Node]map[string][]func(dom.Event)
}

// Parse reads a full HTML page.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return FromGoquery(doc), nil
}

func ParseString(page string) (*Document, error) {
	return Parse(strings.NewReader(page))
}

// FromGoquery wraps an already loaded goquery document.
func FromGoquery(doc *goquery.Document) *Document {
	if len(doc.Nodes) == 0 {
		return newDocument(&html.Node{Type: html.DocumentNode})
	}
	return newDocument(doc.Nodes[0])
}

func newDocument(root *html.Node) *Document {
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]func(dom.Event)),
	}
}

func (d *Document) QuerySelector(selector string) dom.Element {
	return d.first(d.root, selector)
}

func (d *Document) CreateElement(tag string) dom.Element {
	tag = strings.ToLower(tag)
	return d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

// Element returns the first match as a concrete *Element, or nil.
func (d *Document) Element(selector string) *Element {
	if el, ok := d.QuerySelector(selector).(*Element); ok {
		return el
	}
	return nil
}

// HTML renders the whole document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return buf.String(), nil
}

// Dispatch fires an event of eventType at target and bubbles it up the tree.
// Handlers run synchronously on the calling goroutine.
func (d *Document) Dispatch(target dom.Element, eventType string) *Event {
	ev := &Event{typ: eventType}
	el, ok := target.(*Element)
	if !ok || el == nil {
		return ev
	}
	for n := el.node; n != nil; n = n.Parent {
		d.mu.Lock()
		handlers := slices.Clone(d.listeners[n][eventType])
		d.mu.Unlock()
		for _, h := range handlers {
			h(ev)
		}
	}
	return ev
}

func (d *Document) addListener(n *html.Node, eventType string, handler func(dom.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]func(dom.Event))
		d.listeners[n] = byType
	}
	byType[eventType] = append(byType[eventType], handler)
}

// first returns the first descendant of root matching selector that is not
// part of a template's content.
func (d *Document) first(root *html.Node, selector string) dom.Element {
	sel := goquery.NewDocumentFromNode(root).Find(selector)
	for _, n := range sel.Nodes {
		if !insideTemplate(root, n) {
			return d.wrap(n)
		}
	}
	return nil
}

func insideTemplate(root, n *html.Node) bool {
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Template {
			return true
		}
	}
	return false
}

func (d *Document) wrap(n *html.Node) *Element {
	return &Element{doc: d, node: n}
}

// Event is an event dispatched with Document.Dispatch.
type Event struct {
	typ       string
	prevented bool
}

func (e *Event) Type() string { return e.typ }

func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether a handler called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.prevented }
