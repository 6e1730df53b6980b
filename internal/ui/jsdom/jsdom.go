//go:build js && wasm

// Package jsdom implements the dom contract on the live browser DOM through
// syscall/js.
package jsdom

import (
	"syscall/js"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/ui/dom"
)

type Document struct {
	v js.Value
}

// Global returns the page's document.
func Global() *Document {
	return &Document{v: js.Global().Get("document")}
}

// ReadyState reports document.readyState.
func (d *Document) ReadyState() string {
	return d.v.Get("readyState").String()
}

// OnReady runs fn once the DOM has been parsed: immediately if parsing is
// already done, otherwise on DOMContentLoaded.
func (d *Document) OnReady(fn func()) {
	if d.ReadyState() != "loading" {
		fn()
		return
	}
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		cb.Release()
		fn()
		return nil
	})
	d.v.Call("addEventListener", "DOMContentLoaded", cb)
}

func (d *Document) QuerySelector(selector string) dom.Element {
	return wrap(d.v.Call("querySelector", selector))
}

func (d *Document) CreateElement(tag string) dom.Element {
	return wrap(d.v.Call("createElement", tag))
}

type Element struct {
	v js.Value
}

func wrap(v js.Value) dom.Element {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &Element{v: v}
}

func (e *Element) QuerySelector(selector string) dom.Element {
	return wrap(e.v.Call("querySelector", selector))
}

func (e *Element) Text() string {
	return e.v.Get("textContent").String()
}

func (e *Element) SetText(text string) {
	e.v.Set("textContent", text)
}

func (e *Element) SetHTML(markup string) {
	e.v.Set("innerHTML", markup)
}

func (e *Element) Clear() {
	e.v.Set("textContent", "")
}

func (e *Element) AppendChild(child dom.Element) {
	if c, ok := child.(*Element); ok && c != nil {
		e.v.Call("appendChild", c.v)
	}
}

func (e *Element) Attr(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

func (e *Element) SetAttr(name, value string) {
	e.v.Call("setAttribute", name, value)
}

func (e *Element) AddClass(name string) {
	e.v.Get("classList").Call("add", name)
}

func (e *Element) RemoveClass(name string) {
	e.v.Get("classList").Call("remove", name)
}

func (e *Element) HasClass(name string) bool {
	return e.v.Get("classList").Call("contains", name).Bool()
}

func (e *Element) Value() string {
	v := e.v.Get("value")
	if v.IsUndefined() || v.IsNull() {
		return ""
	}
	return v.String()
}

func (e *Element) CloneContent() dom.Element {
	content := e.v.Get("content")
	if content.IsUndefined() || content.IsNull() {
		return nil
	}
	return wrap(content.Call("cloneNode", true))
}

// On registers handler for the page lifetime; the callback is never released.
func (e *Element) On(eventType string, handler func(dom.Event)) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			handler(&Event{v: args[0]})
		}
		return nil
	})
	e.v.Call("addEventListener", eventType, cb)
}

type Event struct {
	v js.Value
}

func (e *Event) Type() string {
	return e.v.Get("type").String()
}

func (e *Event) PreventDefault() {
	e.v.Call("preventDefault")
}

// GlobalString reads a page global as a string, returning def when it is unset.
func GlobalString(name, def string) string {
	v := js.Global().Get(name)
	if v.IsUndefined() || v.IsNull() || v.Type() != js.TypeString || v.String() == "" {
		return def
	}
	return v.String()
}

// GlobalInt reads a numeric page global, returning def when it is unset or
// not a positive number.
func GlobalInt(name string, def int) int {
	v := js.Global().Get(name)
	if v.Type() != js.TypeNumber || v.Int() <= 0 {
		return def
	}
	return v.Int()
}
