// Copyright © 2024 The ELPS authors

// Package markup writes GtkBuilder XML.  A Builder enforces the rendering
// discipline shared by every emitter: special characters are escaped,
// elements nest strictly, children are indented by two spaces and an
// element without content is written as a self-closing tag.
package markup

import (
	"strings"

	"github.com/luthersystems/blueprint/diagnostic"
)

// Header is the XML declaration written at the top of every document.
const Header = `<?xml version="1.0" encoding="UTF-8"?>`

const indentUnit = "  "

// Attr is an element attribute.  Attributes with an empty value are not
// written.
type Attr struct {
	Name  string
	Value string
}

// A returns an attribute.
func A(name, value string) Attr {
	return Attr{Name: name, Value: value}
}

type element struct {
	tag      string
	children bool
	text     bool
}

// Builder accumulates an XML document.
type Builder struct {
	sb    strings.Builder
	stack []element
	// open is true while the start tag of the top element is unterminated.
	open bool
}

// NewBuilder returns a Builder that has written the XML declaration.
func NewBuilder() *Builder {
	b := &Builder{}
	b.sb.WriteString(Header)
	b.sb.WriteByte('\n')
	return b
}

var (
	attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;", "\n", "&#10;", "\t", "&#9;")
	textEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;")
)

// Start opens an element.
func (b *Builder) Start(tag string, attrs ...Attr) {
	if n := len(b.stack); n > 0 {
		top := &b.stack[n-1]
		diagnostic.Assert(!top.text, "<%s> mixes text and child elements", top.tag)
		top.children = true
	}
	b.terminate("\n")
	b.sb.WriteString(strings.Repeat(indentUnit, len(b.stack)))
	b.sb.WriteByte('<')
	b.sb.WriteString(tag)
	for _, a := range attrs {
		if a.Value == "" {
			continue
		}
		b.sb.WriteByte(' ')
		b.sb.WriteString(a.Name)
		b.sb.WriteString(`="`)
		b.sb.WriteString(attrEscaper.Replace(a.Value))
		b.sb.WriteByte('"')
	}
	b.stack = append(b.stack, element{tag: tag})
	b.open = true
}

// Text writes escaped character data into the current element.
func (b *Builder) Text(s string) {
	n := len(b.stack)
	diagnostic.Assert(n > 0, "text outside of any element")
	top := &b.stack[n-1]
	diagnostic.Assert(!top.children, "<%s> mixes text and child elements", top.tag)
	b.terminate("")
	top.text = true
	b.sb.WriteString(textEscaper.Replace(s))
}

// End closes the current element, which must have the given tag.
func (b *Builder) End(tag string) {
	n := len(b.stack)
	diagnostic.Assert(n > 0, "</%s> without a matching start tag", tag)
	top := b.stack[n-1]
	diagnostic.Assert(top.tag == tag, "</%s> closes <%s>", tag, top.tag)
	b.stack = b.stack[:n-1]
	switch {
	case !top.children && !top.text:
		b.sb.WriteString("/>\n")
		b.open = false
		return
	case top.children:
		b.sb.WriteString(strings.Repeat(indentUnit, len(b.stack)))
	}
	b.sb.WriteString("</")
	b.sb.WriteString(tag)
	b.sb.WriteString(">\n")
}

// Element writes an element whose only content is text.
func (b *Builder) Element(tag, text string, attrs ...Attr) {
	b.Start(tag, attrs...)
	if text != "" {
		b.Text(text)
	}
	b.End(tag)
}

// Depth returns the number of open elements.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// String returns the document.  Every element must be closed.
func (b *Builder) String() string {
	diagnostic.Assert(len(b.stack) == 0, "unclosed element <%s>", b.topTag())
	return b.sb.String()
}

func (b *Builder) terminate(after string) {
	if b.open {
		b.sb.WriteByte('>')
		b.sb.WriteString(after)
		b.open = false
	}
}

func (b *Builder) topTag() string {
	if len(b.stack) == 0 {
		return ""
	}
	return b.stack[len(b.stack)-1].tag
}
