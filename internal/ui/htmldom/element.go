package htmldom

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/ui/dom"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element wraps an html.Node. A node of type html.DocumentNode acts as a
// document fragment.
type Element struct {
	doc  *Document
	node *html.Node
}

// Node exposes the underlying node.
func (e *Element) Node() *html.Node {
	return e.node
}

func (e *Element) QuerySelector(selector string) dom.Element {
	return e.doc.first(e.node, selector)
}

func (e *Element) Text() string {
	return goquery.NewDocumentFromNode(e.node).Text()
}

func (e *Element) SetText(text string) {
	e.Clear()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *Element) SetHTML(markup string) {
	context := e.node
	if context.Type != html.ElementNode {
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		e.SetText(markup)
		return
	}
	e.Clear()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
}

// InnerHTML renders the element's children.
func (e *Element) InnerHTML() string {
	out, err := goquery.NewDocumentFromNode(e.node).Html()
	if err != nil {
		return ""
	}
	return out
}

// OuterHTML renders the element itself.
func (e *Element) OuterHTML() string {
	out, err := goquery.OuterHtml(goquery.NewDocumentFromNode(e.node).Selection)
	if err != nil {
		return ""
	}
	return out
}

func (e *Element) Clear() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
}

func (e *Element) AppendChild(child dom.Element) {
	c, ok := child.(*Element)
	if !ok || c == nil || c.node == e.node {
		return
	}
	if c.node.Type == html.DocumentNode {
		for n := c.node.FirstChild; n != nil; {
			next := n.NextSibling
			c.node.RemoveChild(n)
			e.node.AppendChild(n)
			n = next
		}
		return
	}
	if c.node.Parent != nil {
		c.node.Parent.RemoveChild(c.node)
	}
	e.node.AppendChild(c.node)
}

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	e.SetAttr("class", strings.Join(append(e.classes(), name), " "))
}

func (e *Element) RemoveClass(name string) {
	if !e.HasClass(name) {
		return
	}
	kept := make([]string, 0)
	for _, c := range e.classes() {
		if c != name {
			kept = append(kept, c)
		}
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

func (e *Element) HasClass(name string) bool {
	for _, c := range e.classes() {
		if c == name {
			return true
		}
	}
	return false
}

// Value reads the value attribute, or the text of a textarea.
func (e *Element) Value() string {
	if e.node.DataAtom == atom.Textarea {
		return e.Text()
	}
	v, _ := e.Attr("value")
	return v
}

// SetValue stands in for user input on a form control.
func (e *Element) SetValue(v string) {
	if e.node.DataAtom == atom.Textarea {
		e.SetText(v)
		return
	}
	e.SetAttr("value", v)
}

func (e *Element) CloneContent() dom.Element {
	if e.node.Type != html.ElementNode || e.node.DataAtom != atom.Template {
		return nil
	}
	frag := &html.Node{Type: html.DocumentNode}
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		frag.AppendChild(cloneNode(c))
	}
	return e.doc.wrap(frag)
}

func (e *Element) On(eventType string, handler func(dom.Event)) {
	e.doc.addListener(e.node, eventType, handler)
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}
