// Copyright © 2024 The ELPS authors

package language

import (
	"fmt"
	"reflect"

	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/parser/token"
	"github.com/luthersystems/blueprint/typeres"
)

// newStatement matches a cursor at the start of a statement.
var newStatement = [][]ast.TokenPattern{
	{{Kind: token.Punct, Text: "{"}},
	{{Kind: token.Punct, Text: "}"}},
	{{Kind: token.Punct, Text: "]"}},
	{{Kind: token.Punct, Text: ";"}},
}

var (
	inUI      = []reflect.Type{ast.TypeOf[*UI]()}
	inObjects = []reflect.Type{ast.TypeOf[*Object](), ast.TypeOf[*Template]()}
	inBodies  = []reflect.Type{ast.TypeOf[*UI](), ast.TypeOf[*Object](), ast.TypeOf[*Template]()}
	inMenus   = []reflect.Type{ast.TypeOf[*Menu]()}
)

// classAt returns the class configured at n: its own when n is an object
// or template, otherwise that of the nearest enclosing one.
func classAt(n ast.Node, env *ast.Env) (*typeres.Type, bool) {
	if c, ok := n.(classNode); ok {
		return classOf(typesOf(env), c)
	}
	return enclosingClass(env, n)
}

func classIs(name string) func(ast.Node, *ast.Env) bool {
	return func(n ast.Node, env *ast.Env) bool {
		cls, ok := classAt(n, env)
		if !ok {
			return false
		}
		want, ok := typesOf(env).Catalog().Lookup(name)
		return ok && cls.AssignableTo(want)
	}
}

func knownClass(n ast.Node, env *ast.Env) bool {
	_, ok := classAt(n, env)
	return ok
}

func keyword(label, snippet string) ast.Completion {
	return ast.Completion{Label: label, Kind: ast.CompletionSnippet, Snippet: snippet, Detail: label}
}

func snippetOnly(name string, applies []reflect.Type, c ...ast.Completion) ast.Completer {
	return ast.Completer{
		Name:      name,
		AppliesIn: applies,
		Matches:   newStatement,
		Fn:        func(*ast.CompletionContext) []ast.Completion { return c },
	}
}

func extension(name, class string, c ast.Completion) ast.Completer {
	return ast.Completer{
		Name:       name,
		AppliesIn:  inObjects,
		Constraint: classIs(class),
		Matches:    newStatement,
		Fn:         func(*ast.CompletionContext) []ast.Completion { return []ast.Completion{c} },
	}
}

func registerCompleters(r *ast.Registry) {
	r.Complete(ast.Completer{
		Name:      "using",
		AppliesIn: inUI,
		Matches:   newStatement,
		Fn:        completeImports,
	})
	r.Complete(snippetOnly("template", inUI,
		keyword("template", "template \\$${1:ClassName} : ${2:ParentClass} {\n  $0\n}")))
	r.Complete(snippetOnly("menu", inUI,
		keyword("menu", "menu ${1:menu_id} {\n  $0\n}")))
	r.Complete(snippetOnly("translation-domain", inUI,
		keyword("translation-domain", "translation-domain \"${1:domain}\";")))
	r.Complete(ast.Completer{
		Name:      "classes",
		AppliesIn: inBodies,
		Matches:   newStatement,
		Fn:        completeClasses,
	})
	r.Complete(ast.Completer{
		Name:      "namespaced classes",
		AppliesIn: inBodies,
		Matches:   [][]ast.TokenPattern{{{Kind: token.Ident}, {Kind: token.Op, Text: "."}}},
		Fn:        completeNamespaceClasses,
	})
	r.Complete(ast.Completer{
		Name:       "properties",
		AppliesIn:  inObjects,
		Constraint: knownClass,
		Matches:    newStatement,
		Fn:         completeProperties,
	})
	r.Complete(ast.Completer{
		Name:       "signals",
		AppliesIn:  inObjects,
		Constraint: knownClass,
		Matches:    newStatement,
		Fn:         completeSignals,
	})
	r.Complete(ast.Completer{
		Name:       "property values",
		AppliesIn:  []reflect.Type{ast.TypeOf[*Object](), ast.TypeOf[*Template](), ast.TypeOf[*Property]()},
		Constraint: knownClass,
		Matches:    [][]ast.TokenPattern{{{Kind: token.Ident}, {Kind: token.Op, Text: ":"}}},
		Fn:         completePropertyValues,
	})
	r.Complete(extension("styles", "Gtk.Widget", keyword("styles", "styles [\"$0\"]")))
	r.Complete(extension("widgets", "Gtk.SizeGroup", keyword("widgets", "widgets [$0]")))
	r.Complete(extension("strings", "Gtk.StringList", keyword("strings", "strings [$0]")))
	r.Complete(extension("items", "Gtk.ComboBoxText", keyword("items", "items [$0]")))
	for _, tag := range []string{"mime-types", "patterns", "suffixes"} {
		r.Complete(extension(tag, "Gtk.FileFilter", keyword(tag, tag+" [\"$0\"]")))
	}
	r.Complete(snippetOnly("menu content", inMenus,
		keyword("section", "section {\n  $0\n}"),
		keyword("submenu", "submenu {\n  $0\n}"),
		keyword("item", "item {\n  $0\n}"),
		keyword("item (shorthand)", "item (_(\"${1:Label}\"), \"${2:action-name}\", \"${3:icon-name}\")"),
		keyword("label", "label: $0;"),
		keyword("action", "action: \"$0\";"),
		keyword("icon", "icon: \"$0\";"),
	))
}

func completeImports(c *ast.CompletionContext) []ast.Completion {
	types := typesOf(c.Env)
	var out []ast.Completion
	for _, ns := range types.Catalog().Namespaces() {
		if _, ok := types.Namespace(ns.Name); ok {
			continue
		}
		out = append(out, ast.Completion{
			Label:  fmt.Sprintf("using %s %s", ns.Name, ns.Version),
			Kind:   ast.CompletionModule,
			Text:   fmt.Sprintf("using %s %s;", ns.Name, ns.Version),
			Detail: ns.Name,
			Doc:    ns.Doc,
		})
	}
	return out
}

func classCompletion(label string, t *typeres.Type) ast.Completion {
	return ast.Completion{
		Label:      label,
		Kind:       ast.CompletionClass,
		Snippet:    label + " {\n  $0\n}",
		Detail:     t.FullName(),
		Doc:        t.Doc,
		Deprecated: t.Deprecated,
	}
}

func instantiable(t *typeres.Type) bool {
	return t.Kind == typeres.KindClass && !t.Abstract
}

func completeClasses(c *ast.CompletionContext) []ast.Completion {
	types := typesOf(c.Env)
	var out []ast.Completion
	for _, ns := range types.Imports() {
		for _, name := range ns.TypeNames() {
			t, _ := ns.Lookup(name)
			if !instantiable(t) {
				continue
			}
			label := t.FullName()
			if ns.Name == "Gtk" {
				label = t.Name
			}
			out = append(out, classCompletion(label, t))
		}
	}
	return out
}

func completeNamespaceClasses(c *ast.CompletionContext) []ast.Completion {
	ns, ok := typesOf(c.Env).Namespace(c.Vars[0])
	if !ok {
		return nil
	}
	var out []ast.Completion
	for _, name := range ns.TypeNames() {
		t, _ := ns.Lookup(name)
		if instantiable(t) {
			out = append(out, classCompletion(t.Name, t))
		}
	}
	return out
}

func completeProperties(c *ast.CompletionContext) []ast.Completion {
	cls, _ := classAt(c.Node, c.Env)
	var out []ast.Completion
	for _, p := range typesOf(c.Env).Properties(cls) {
		if p.ReadOnly {
			continue
		}
		out = append(out, ast.Completion{
			Label:      p.Name,
			Kind:       ast.CompletionProperty,
			Snippet:    p.Name + ": $0;",
			Detail:     p.Type,
			Doc:        p.Doc,
			Deprecated: p.Deprecated,
		})
	}
	return out
}

func completeSignals(c *ast.CompletionContext) []ast.Completion {
	cls, _ := classAt(c.Node, c.Env)
	var out []ast.Completion
	for _, s := range typesOf(c.Env).Signals(cls) {
		out = append(out, ast.Completion{
			Label:      s.Name,
			Kind:       ast.CompletionEvent,
			Snippet:    fmt.Sprintf("%s => \\$${1:on_%s}();", s.Name, snakeCase(s.Name)),
			Detail:     "signal " + s.Name,
			Doc:        s.Doc,
			Deprecated: s.Deprecated,
		})
	}
	return out
}

func snakeCase(name string) string {
	b := []byte(name)
	for i, ch := range b {
		if ch == '-' {
			b[i] = '_'
		}
	}
	return string(b)
}

func completePropertyValues(c *ast.CompletionContext) []ast.Completion {
	types := typesOf(c.Env)
	cls, _ := classAt(c.Node, c.Env)
	p, ok := cls.Property(c.Vars[0])
	if !ok {
		return nil
	}
	t, ok := types.Catalog().Lookup(p.Type)
	if !ok {
		return nil
	}
	var out []ast.Completion
	switch {
	case t.IsEnum():
		for _, m := range t.Members {
			out = append(out, ast.Completion{
				Label:  m.Name,
				Kind:   ast.CompletionEnumMember,
				Detail: fmt.Sprintf("%s.%s = %d", t.FullName(), m.Name, m.Value),
				Doc:    m.Doc,
			})
		}
	case t.Name == "gboolean":
		for _, v := range []string{"true", "false"} {
			out = append(out, ast.Completion{Label: v, Kind: ast.CompletionValue})
		}
	case t.IsObject():
		scope, ok := ast.LookupContext[*ScopeCtx](c.Env)
		if !ok {
			break
		}
		for _, id := range scope.IDs() {
			n, _ := scope.Lookup(id)
			if ot, ok := classOf(types, n); ok && !ot.AssignableTo(t) {
				continue
			}
			out = append(out, ast.Completion{Label: id, Kind: ast.CompletionValue, Detail: t.FullName()})
		}
	}
	return out
}
