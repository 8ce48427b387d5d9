// Copyright © 2024 The ELPS authors

// Package ast provides the node framework shared by every construct of the
// language: structural children, captured token ranges, typed contexts
// inherited down the tree, and registries of validators, documentation and
// completion providers.
package ast

import (
	"github.com/luthersystems/blueprint/parser/token"
)

// Node is implemented by every syntax tree node.  Concrete nodes embed Base,
// which is the only way to satisfy the interface.
type Node interface {
	Range() token.Range
	Parent() Node
	Children() []Node
	Capture(name string) token.Range
	Incomplete() bool

	base() *Base
}

// Base holds the structural state common to all nodes.  It is populated by
// the parser through Init and is not mutated afterwards.
type Base struct {
	parent     Node
	children   []Node
	captures   map[string]token.Range
	rng        token.Range
	incomplete bool
}

func (b *Base) base() *Base { return b }

// Range returns the span of source covered by the node.
func (b *Base) Range() token.Range { return b.rng }

// Parent returns the enclosing node, or nil for the root.
func (b *Base) Parent() Node { return b.parent }

// Children returns the child nodes in source order.
func (b *Base) Children() []Node { return b.children }

// Capture returns the range of the token captured under name, or a zero
// range.
func (b *Base) Capture(name string) token.Range { return b.captures[name] }

// HasCapture reports whether a token was captured under name.
func (b *Base) HasCapture(name string) bool {
	_, ok := b.captures[name]
	return ok
}

// Incomplete reports whether the node's grammar rule failed after partial
// progress.  Validators are not run for incomplete nodes.
func (b *Base) Incomplete() bool { return b.incomplete }

// Init attaches children, captures and a range to a freshly built node.
func Init(n Node, children []Node, captures map[string]token.Range, rng token.Range, incomplete bool) {
	b := n.base()
	b.children = children
	b.captures = captures
	b.rng = rng
	b.incomplete = incomplete
	for _, c := range children {
		c.base().parent = n
	}
}

// Root returns the topmost ancestor of n.
func Root(n Node) Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

// ChildrenOf returns the children of n with type N.
func ChildrenOf[N Node](n Node) []N {
	var out []N
	for _, c := range n.Children() {
		if cn, ok := c.(N); ok {
			out = append(out, cn)
		}
	}
	return out
}

// FirstChild returns the first child of n with type N.
func FirstChild[N Node](n Node) (N, bool) {
	for _, c := range n.Children() {
		if cn, ok := c.(N); ok {
			return cn, true
		}
	}
	var zero N
	return zero, false
}

// Ancestor returns the nearest strict ancestor of n with type N.
func Ancestor[N Node](n Node) (N, bool) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if pn, ok := p.(N); ok {
			return pn, true
		}
	}
	var zero N
	return zero, false
}
