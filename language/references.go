// Copyright © 2024 The ELPS authors

package language

import (
	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/parser/token"
	"github.com/luthersystems/blueprint/typeres"
)

// IDAt returns the object ID declared or referenced at offset.
func IDAt(doc *Document, catalog *typeres.Catalog, offset int) (string, token.Range, bool) {
	for n := ast.NodeAt(doc.UI, offset); n != nil; n = n.Parent() {
		if id := nodeID(n); id != "" {
			if rng := n.Capture("id"); rng.Contains(offset) {
				return id, rng, true
			}
		}
	}
	link, ok := Registry().Definition(doc.UI, Env(catalog), offset)
	if !ok {
		return "", token.Range{}, false
	}
	return link.TargetSelection.Text(), link.Origin, true
}

// References returns the ranges that name the object id: the declaration
// first, when includeDecl is set, followed by every reference in source
// order.
func References(doc *Document, catalog *typeres.Catalog, id string, includeDecl bool) []token.Range {
	scope := newScope(doc.UI)
	decl, ok := scope.Lookup(id)
	if !ok {
		return nil
	}
	var out []token.Range
	if includeDecl {
		out = append(out, selection(decl, "id"))
	}
	env := Env(catalog)
	reg := Registry()
	for n := range ast.All(doc.UI) {
		var rng token.Range
		switch n := n.(type) {
		case *Literal:
			if n.Kind != LiteralIdent || n.Value != id {
				continue
			}
			rng = n.Range()
		case *Signal:
			if n.Object != id {
				continue
			}
			rng = n.Capture("object")
		case *SizeGroupWidget:
			if n.Name != id {
				continue
			}
			rng = n.Capture("name")
		default:
			continue
		}
		if link, ok := reg.Definition(doc.UI, env, rng.Start); ok && link.TargetSelection == selection(decl, "id") {
			out = append(out, rng)
		}
	}
	return out
}
