// Copyright © 2024 The ELPS authors

package ast

import (
	"reflect"

	"github.com/luthersystems/blueprint/diagnostic"
)

// Registry holds the per-node-kind rules of a language.  Rules run in the
// order they were registered.  A Registry is populated once at startup and
// is read-only afterwards, so it may be shared between concurrent compiles.
type Registry struct {
	validators map[reflect.Type][]validator
	providers  map[reflect.Type][]provider
	docs       map[reflect.Type][]doc
	completers []Completer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		validators: make(map[reflect.Type][]validator),
		providers:  make(map[reflect.Type][]provider),
		docs:       make(map[reflect.Type][]doc),
	}
}

type validator struct {
	name    string
	capture string
	fn      func(*Pass, Node)
}

type provider struct {
	typ reflect.Type
	fn  func(Node, *Env) any
}

type doc struct {
	capture string
	fn      func(Node, *Env) string
}

func typeOf(n Node) reflect.Type {
	return reflect.TypeOf(n)
}

// Validate registers a validator for nodes of type N.  Diagnostics reported
// without a range are placed on the token captured under capture, or on the
// whole node when capture is empty or was not matched.
func Validate[N Node](r *Registry, name, capture string, fn func(*Pass, N)) {
	typ := reflect.TypeFor[N]()
	r.validators[typ] = append(r.validators[typ], validator{
		name:    name,
		capture: capture,
		fn:      func(p *Pass, n Node) { fn(p, n.(N)) },
	})
}

// ProvideContext registers a provider computing a context of type C for the
// subtree rooted at each node of type N, the node itself included.
func ProvideContext[N Node, C any](r *Registry, fn func(N, *Env) C) {
	typ := reflect.TypeFor[N]()
	r.providers[typ] = append(r.providers[typ], provider{
		typ: reflect.TypeFor[C](),
		fn:  func(n Node, e *Env) any { return fn(n.(N), e) },
	})
}

// Doc registers a documentation lookup for the token captured under
// capture in nodes of type N.
func Doc[N Node](r *Registry, capture string, fn func(N, *Env) string) {
	typ := reflect.TypeFor[N]()
	r.docs[typ] = append(r.docs[typ], doc{
		capture: capture,
		fn:      func(n Node, e *Env) string { return fn(n.(N), e) },
	})
}

// ValidatorNames returns the names of the validators registered for the
// type of n.
func (r *Registry) ValidatorNames(n Node) []string {
	var names []string
	for _, v := range r.validators[typeOf(n)] {
		names = append(names, v.name)
	}
	return names
}

// enter pushes the contexts provided by n and returns the depth to restore
// when leaving it.
func (r *Registry) enter(n Node, e *Env) int {
	depth := e.Depth()
	for _, p := range r.providers[typeOf(n)] {
		e.push(p.typ, p.fn(n, e))
	}
	return depth
}

// EnvAt rebuilds the context stack in effect at n on top of base.  It is
// used by editor features that start from an arbitrary node rather than
// from a full walk.
func (r *Registry) EnvAt(base *Env, n Node) *Env {
	e := base.Clone()
	for _, p := range Path(n) {
		r.enter(p, e)
	}
	return e
}

// Pass carries the state of one validation walk and collects the
// diagnostics its validators report.
type Pass struct {
	Env *Env

	reg     *Registry
	node    Node
	capture string
	diags   diagnostic.List
}

// Report records a diagnostic for the node being validated.
func (p *Pass) Report(d *diagnostic.Diagnostic) {
	if d.Range.IsZero() && p.node != nil {
		d.Range = p.node.Capture(p.capture)
		if d.Range.IsZero() {
			d.Range = p.node.Range()
		}
	}
	p.diags = append(p.diags, d)
}

// Diagnostics returns everything reported so far.
func (p *Pass) Diagnostics() diagnostic.List {
	return p.diags
}

// Run validates the tree rooted at root in a single pre-order walk.  Each
// node's contexts are pushed before its validators run and popped after its
// subtree has been visited.  The walk never stops early: every node is
// visited exactly once and all diagnostics are returned together.
func (r *Registry) Run(root Node, env *Env) diagnostic.List {
	p := &Pass{Env: env, reg: r}
	p.visit(root)
	return p.diags
}

func (p *Pass) visit(n Node) {
	depth := p.reg.enter(n, p.Env)
	if !n.Incomplete() {
		for _, v := range p.reg.validators[typeOf(n)] {
			p.node, p.capture = n, v.capture
			v.fn(p, n)
		}
		p.node, p.capture = nil, ""
	}
	for _, c := range n.Children() {
		p.visit(c)
	}
	p.Env.truncate(depth)
}

// DocAt returns documentation for the captured token under offset, along
// with the token's range.
func (r *Registry) DocAt(root Node, base *Env, offset int) (string, bool) {
	for n := NodeAt(root, offset); n != nil; n = n.Parent() {
		for _, d := range r.docs[typeOf(n)] {
			rng := n.Capture(d.capture)
			if rng.IsZero() || !rng.Contains(offset) {
				continue
			}
			if text := d.fn(n, r.EnvAt(base, n)); text != "" {
				return text, true
			}
		}
	}
	return "", false
}
