// Package dom is the small slice of the browser DOM the search UI relies on.
// internal/ui/jsdom implements it on the live page under js/wasm and
// internal/ui/htmldom implements it on a parsed HTML tree.
//
// Lookups that find nothing return a nil Element, never a typed nil.
package dom

// Document is the page the UI is mounted in.
type Document interface {
	// QuerySelector returns the first element matching a CSS selector. The
	// content of <template> elements is not searched.
	QuerySelector(selector string) Element
	CreateElement(tag string) Element
}

// Element is a node the UI reads or mutates. A node returned by
// CloneContent behaves like a document fragment: appending it moves its
// children.
type Element interface {
	QuerySelector(selector string) Element

	Text() string
	// SetText replaces the children with a single text node.
	SetText(text string)
	// SetHTML replaces the children with the parsed markup.
	SetHTML(markup string)
	// Clear removes every child.
	Clear()
	AppendChild(child Element)

	Attr(name string) (string, bool)
	SetAttr(name, value string)

	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool

	// Value is the current value of a form control.
	Value() string

	// CloneContent deep-copies the content of a <template>. It returns nil for
	// any other element.
	CloneContent() Element

	// On registers handler for events of the given type dispatched at or
	// bubbling through the element.
	On(eventType string, handler func(Event))
}

type Event interface {
	Type() string
	PreventDefault()
}
