// Copyright © 2024 The ELPS authors

// Package language defines the Gtk dialect: its grammar, validators,
// editor support, XML emission and decompilers.  The registries are built
// once and shared by every compile.
package language

import (
	"sync"

	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/decompiler"
	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/parser/grammar"
	"github.com/luthersystems/blueprint/parser/lexer"
	"github.com/luthersystems/blueprint/parser/token"
	"github.com/luthersystems/blueprint/typeres"
)

var registry = sync.OnceValue(func() *ast.Registry {
	r := ast.NewRegistry()
	registerContexts(r)
	registerValidators(r)
	registerDocs(r)
	registerCompleters(r)
	return r
})

// Registry returns the validators, contexts, docs and completers of the
// language.
func Registry() *ast.Registry {
	return registry()
}

var decompilers = sync.OnceValue(func() *decompiler.Registry {
	r := decompiler.NewRegistry()
	registerDecompilers(r)
	return r
})

// Decompilers returns the registry used to convert XML back to source.
func Decompilers() *decompiler.Registry {
	return decompilers()
}

func registerContexts(r *ast.Registry) {
	ast.ProvideContext(r, func(ui *UI, e *ast.Env) *typeres.Context {
		return importContext(ui, ast.Context[*typeres.Catalog](e))
	})
	ast.ProvideContext(r, func(ui *UI, _ *ast.Env) *ScopeCtx {
		return newScope(ui)
	})
	ast.ProvideContext(r, func(p *Property, e *ast.Env) ValueTypeCtx {
		t, _ := expectedType(typesOf(e), p)
		return ValueTypeCtx{Type: t}
	})
	ast.ProvideContext(r, func(*Object, *ast.Env) ValueTypeCtx { return ValueTypeCtx{} })
	ast.ProvideContext(r, func(*Template, *ast.Env) ValueTypeCtx { return ValueTypeCtx{} })
	ast.ProvideContext(r, func(*MenuAttribute, *ast.Env) ValueTypeCtx {
		t, _ := typeres.Fundamental("gchararray")
		return ValueTypeCtx{Type: t}
	})
}

// Env returns the base environment of a compile against catalog.
func Env(catalog *typeres.Catalog) *ast.Env {
	env := ast.NewEnv()
	ast.Provide(env, catalog)
	return env
}

// Document is a parsed source file.
type Document struct {
	Source *token.Source
	// Tokens are the significant tokens, ending with EOF.
	Tokens []token.Token
	UI     *UI
}

// Parse tokenizes and parses src.  A tree is always returned, possibly
// with incomplete nodes, along with the syntax errors found.
func Parse(src *token.Source) (*Document, diagnostic.List) {
	return ParseTokens(src, lexer.Significant(lexer.Tokenize(src)))
}

// ParseTokens parses the significant tokens of src.
func ParseTokens(src *token.Source, toks []token.Token) (*Document, diagnostic.List) {
	nodes, errs := grammar.Parse(src, toks, Grammar())
	var ui *UI
	if len(nodes) > 0 {
		ui, _ = nodes[0].(*UI)
	}
	diagnostic.Assert(ui != nil, "document grammar produced no root node")
	return &Document{Source: src, Tokens: toks, UI: ui}, errs
}

// Validate runs every validator over the document.
func Validate(doc *Document, catalog *typeres.Catalog) diagnostic.List {
	return Registry().Run(doc.UI, Env(catalog))
}
