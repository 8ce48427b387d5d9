// Copyright © 2024 The ELPS authors

package language

import (
	"sort"

	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/parser/token"
	"github.com/luthersystems/blueprint/typeres"
)

// ScopeCtx indexes the objects and menus of a document by ID.
type ScopeCtx struct {
	objects map[string]ast.Node
	// declared holds every node with an ID in source order, duplicates
	// included.
	declared []ast.Node
}

func newScope(ui *UI) *ScopeCtx {
	s := &ScopeCtx{objects: make(map[string]ast.Node)}
	for n := range ast.All(ui) {
		id := nodeID(n)
		if id == "" {
			continue
		}
		s.declared = append(s.declared, n)
		if _, dup := s.objects[id]; !dup {
			s.objects[id] = n
		}
	}
	return s
}

// Lookup returns the first object or menu declared with id.
func (s *ScopeCtx) Lookup(id string) (ast.Node, bool) {
	n, ok := s.objects[id]
	return n, ok
}

// IDs returns every declared ID, sorted.
func (s *ScopeCtx) IDs() []string {
	ids := make([]string, 0, len(s.objects))
	for id := range s.objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func nodeID(n ast.Node) string {
	switch n := n.(type) {
	case *Object:
		return n.ID
	case *Menu:
		return n.ID
	}
	return ""
}

// ValueTypeCtx is the type expected of a value.  A nil Type means the
// type is unknown and the value is not checked.
type ValueTypeCtx struct {
	Type *typeres.Type
}

// importContext builds the import scope of ui.
func importContext(ui *UI, catalog *typeres.Catalog) *typeres.Context {
	c := typeres.NewContext(catalog)
	if gtk, ok := ui.Gtk(); ok {
		c.AddNamespace("Gtk", gtk.Version)
	}
	for _, imp := range ui.Imports() {
		c.AddNamespace(imp.Namespace, imp.Version)
	}
	return c
}

// resolve returns the catalog type a type name refers to.  Application
// defined types have none.
func resolve(types *typeres.Context, tn *TypeName) (*typeres.Type, bool) {
	if tn == nil || tn.Extern || tn.Name == "" {
		return nil, false
	}
	return types.LookupType(tn.Namespace, tn.Name)
}

// classOf returns the catalog type configured by an object or template
// body, or by a menu.
func classOf(types *typeres.Context, n ast.Node) (*typeres.Type, bool) {
	switch n := n.(type) {
	case *Menu:
		return types.Catalog().Lookup("Gio.Menu")
	case classNode:
		tn, ok := n.ClassName()
		if !ok {
			return nil, false
		}
		return resolve(types, tn)
	}
	return nil, false
}

// enclosingClass returns the type of the nearest object, template or
// menu containing n.
func enclosingClass(env *ast.Env, n ast.Node) (*typeres.Type, bool) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.(type) {
		case *Object, *Template, *Menu:
			return classOf(ast.Context[*typeres.Context](env), p)
		}
	}
	return nil, false
}

// expectedType returns the type of the property a value is assigned to.
func expectedType(types *typeres.Context, prop *Property) (*typeres.Type, bool) {
	owner, ok := prop.Parent().(classNode)
	if !ok {
		return nil, false
	}
	cls, ok := classOf(types, owner)
	if !ok {
		return nil, false
	}
	p, ok := cls.Property(prop.Name)
	if !ok {
		return nil, false
	}
	return types.Catalog().Lookup(p.Type)
}

func linkTo(env *ast.Env, origin token.Range, id string) (ast.Link, bool) {
	scope, ok := ast.LookupContext[*ScopeCtx](env)
	if !ok {
		return ast.Link{}, false
	}
	target, ok := scope.Lookup(id)
	if !ok {
		return ast.Link{}, false
	}
	return ast.Link{Origin: origin, Target: target.Range(), TargetSelection: selection(target, "id")}, true
}
