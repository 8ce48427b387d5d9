// Copyright © 2024 The ELPS authors

package ast

import (
	"github.com/luthersystems/blueprint/parser/token"
)

// SymbolKind classifies a document symbol.  The values match the language
// server protocol.
type SymbolKind int

const (
	SymbolFile      SymbolKind = 1
	SymbolModule    SymbolKind = 2
	SymbolNamespace SymbolKind = 3
	SymbolClass     SymbolKind = 5
	SymbolProperty  SymbolKind = 7
	SymbolField     SymbolKind = 8
	SymbolString    SymbolKind = 15
	SymbolArray     SymbolKind = 18
	SymbolObject    SymbolKind = 19
	SymbolEvent     SymbolKind = 24
)

// DocumentSymbol describes a node for outline views.
type DocumentSymbol struct {
	Name           string
	Kind           SymbolKind
	Range          token.Range
	SelectionRange token.Range
	Detail         string
	Children       []DocumentSymbol
}

// Symboler is implemented by nodes that appear in document outlines.
type Symboler interface {
	Symbol() *DocumentSymbol
}

// Symbols returns the outline of the tree rooted at root.  Nodes without a
// symbol are transparent: their descendants' symbols are attached to the
// nearest ancestor that has one.
func Symbols(root Node) []DocumentSymbol {
	var out []DocumentSymbol
	for _, c := range root.Children() {
		out = append(out, symbolsOf(c)...)
	}
	return out
}

func symbolsOf(n Node) []DocumentSymbol {
	var children []DocumentSymbol
	for _, c := range n.Children() {
		children = append(children, symbolsOf(c)...)
	}
	s, ok := n.(Symboler)
	if !ok {
		return children
	}
	sym := s.Symbol()
	if sym == nil {
		return children
	}
	sym.Children = append(sym.Children, children...)
	return []DocumentSymbol{*sym}
}

// Link connects a reference to the declaration it names.
type Link struct {
	Origin          token.Range
	Target          token.Range
	TargetSelection token.Range
}

// Referencer is implemented by nodes that refer to a declaration.
type Referencer interface {
	Reference(env *Env, offset int) (Link, bool)
}

// Definition resolves the reference under offset.
func (r *Registry) Definition(root Node, base *Env, offset int) (Link, bool) {
	for n := NodeAt(root, offset); n != nil; n = n.Parent() {
		ref, ok := n.(Referencer)
		if !ok {
			continue
		}
		if link, ok := ref.Reference(r.EnvAt(base, n), offset); ok {
			return link, true
		}
	}
	return Link{}, false
}
