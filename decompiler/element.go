// Copyright © 2024 The ELPS authors

// Package decompiler turns GtkBuilder XML back into source text.  Handlers
// registered per tag print the local syntax of one element and the
// framework recurses into children and closes the blocks handlers open.
package decompiler

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Element is one XML element.
type Element struct {
	Tag      string
	Attrs    []xml.Attr
	Children []*Element
	// CData is the character data of a leaf element, unmodified.
	CData string
	Line  int
}

// Attr returns the value of the named attribute or "".
func (e *Element) Attr(name string) string {
	v, _ := e.LookupAttr(name)
	return v
}

// LookupAttr returns the value of the named attribute.
func (e *Element) LookupAttr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// IsLeaf reports whether the element has no child elements.
func (e *Element) IsLeaf() bool {
	return len(e.Children) == 0
}

// Parse reads an XML document and returns its root element.
func Parse(r io.Reader) (*Element, error) {
	d := xml.NewDecoder(r)
	var (
		root  *Element
		stack []*Element
		text  strings.Builder
	)
	for {
		line, _ := d.InputPos()
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml: %w", err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: tok.Name.Local, Attrs: tok.Copy().Attr, Line: line}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			} else if root != nil {
				return nil, fmt.Errorf("xml: line %d: more than one root element", line)
			} else {
				root = el
			}
			stack = append(stack, el)
			text.Reset()
		case xml.CharData:
			text.Write(tok)
		case xml.EndElement:
			el := stack[len(stack)-1]
			if el.IsLeaf() {
				el.CData = text.String()
			}
			stack = stack[:len(stack)-1]
			text.Reset()
		}
	}
	if root == nil {
		return nil, fmt.Errorf("xml: no root element")
	}
	return root, nil
}
