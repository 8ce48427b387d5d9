// Copyright © 2024 The ELPS authors

package grammar

import (
	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/parser/token"
)

type group[T any, P interface {
	*T
	ast.Node
}] struct {
	body Rule
}

// Group builds one node of type *T from the tokens matched by body.  Child
// nodes built by body, captured token ranges and setter values are attached
// to the new node, and its range is set to the consumed tokens.
//
// When body fails hard the node is still built, marked incomplete and
// attached to its parent, so that editor features can use the partial tree,
// and the failure is returned.
func Group[T any, P interface {
	*T
	ast.Node
}](body ...Rule) Rule {
	return group[T, P]{Seq(body...)}
}

func (g group[T, P]) Parse(ctx *Context) (bool, error) {
	start := ctx.pos
	f := &frame{parent: ctx.frame}
	ctx.frame = f
	ok, err := g.body.Parse(ctx)
	ctx.frame = f.parent
	if err == nil && !ok {
		return false, nil
	}

	n := P(new(T))
	for _, set := range f.sets {
		set(n)
	}
	var caps map[string]token.Range
	if len(f.captures) > 0 {
		caps = make(map[string]token.Range, len(f.captures))
		for _, c := range f.captures {
			caps[c.name] = c.rng
		}
	}
	ast.Init(n, f.children, caps, ctx.span(start), err != nil || f.incomplete)
	f.parent.children = append(f.parent.children, n)
	return err == nil, err
}
