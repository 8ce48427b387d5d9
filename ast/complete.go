// Copyright © 2024 The ELPS authors

package ast

import (
	"reflect"

	"github.com/luthersystems/blueprint/parser/token"
)

// CompletionKind classifies a completion item.
type CompletionKind int

const (
	CompletionText CompletionKind = iota
	CompletionKeyword
	CompletionSnippet
	CompletionClass
	CompletionProperty
	CompletionEvent
	CompletionEnumMember
	CompletionModule
	CompletionValue
)

// Completion is a single completion suggestion.
type Completion struct {
	Label      string
	Kind       CompletionKind
	Snippet    string
	Text       string
	Detail     string
	Doc        string
	Deprecated bool
}

// InsertText returns the text to insert, preferring the snippet.
func (c Completion) InsertText() string {
	switch {
	case c.Snippet != "":
		return c.Snippet
	case c.Text != "":
		return c.Text
	}
	return c.Label
}

// TokenPattern matches one significant token.  An empty Text matches any
// token of the kind and binds its text as a match variable.
type TokenPattern struct {
	Kind token.Kind
	Text string
}

// CompletionContext is passed to completion providers.
type CompletionContext struct {
	Env  *Env
	Node Node
	// Vars holds the texts bound by wildcard patterns, in order.
	Vars []string
}

// Completer offers completions inside nodes of particular types.
type Completer struct {
	Name string
	// AppliesIn lists the node types the cursor must be directly inside.
	AppliesIn []reflect.Type
	// Constraint further restricts where the completer applies.  It may be
	// nil.
	Constraint func(Node, *Env) bool
	// Matches lists alternative token sequences that must immediately
	// precede the cursor.  An empty list always matches.
	Matches [][]TokenPattern
	Fn      func(*CompletionContext) []Completion
}

// TypeOf returns the reflect.Type used to key nodes of type N.
func TypeOf[N Node]() reflect.Type {
	return reflect.TypeFor[N]()
}

// Complete registers a completion provider.
func (r *Registry) Complete(c Completer) {
	r.completers = append(r.completers, c)
}

// Completions runs every applicable completer at offset.  toks are the
// significant tokens of the document.
func (r *Registry) Completions(root Node, base *Env, toks []token.Token, offset int) []Completion {
	n := cursorNode(root, toks, offset)
	prior := tokensBefore(toks, offset)
	var env *Env
	var out []Completion
	for _, c := range r.completers {
		if !appliesIn(c.AppliesIn, n) {
			continue
		}
		vars, ok := matchTokens(c.Matches, prior)
		if !ok {
			continue
		}
		if env == nil {
			env = r.EnvAt(base, n)
		}
		if c.Constraint != nil && !c.Constraint(n, env) {
			continue
		}
		out = append(out, c.Fn(&CompletionContext{Env: env, Node: n, Vars: vars})...)
	}
	return out
}

// cursorNode is NodeAt, except that a node ending exactly at offset is
// entered when it leaves a bracket open, as a block still being typed at
// the end of a document does.
func cursorNode(root Node, toks []token.Token, offset int) Node {
	n := root
	for {
		var next Node
		for _, c := range n.Children() {
			r := c.Range()
			if r.Start <= offset && (offset < r.End || offset == r.End && unclosed(r, toks)) {
				next = c
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
}

func unclosed(r token.Range, toks []token.Token) bool {
	depth := 0
	for _, tok := range toks {
		if tok.Kind != token.Punct || tok.Range.Start < r.Start {
			continue
		}
		if tok.Range.End > r.End {
			break
		}
		switch tok.Text {
		case "{", "[", "(":
			depth++
		case "}", "]", ")":
			depth--
		}
	}
	return depth > 0
}

func appliesIn(types []reflect.Type, n Node) bool {
	if len(types) == 0 {
		return true
	}
	typ := typeOf(n)
	for _, t := range types {
		if t == typ {
			return true
		}
	}
	return false
}

// tokensBefore returns the significant tokens that end before offset.  A
// word the cursor is in the middle of, or at the end of, is excluded because
// it is the text being completed.
func tokensBefore(toks []token.Token, offset int) []token.Token {
	end := 0
	for end < len(toks) && toks[end].Kind != token.EOF && toks[end].Range.End <= offset {
		end++
	}
	if end > 0 {
		last := toks[end-1]
		if last.Range.End == offset && (last.Kind == token.Ident || last.Kind == token.Number) {
			end--
		}
	}
	return toks[:end]
}

func matchTokens(patterns [][]TokenPattern, prior []token.Token) ([]string, bool) {
	if len(patterns) == 0 {
		return nil, true
	}
	for _, pat := range patterns {
		if len(pat) > len(prior) {
			continue
		}
		tail := prior[len(prior)-len(pat):]
		var vars []string
		ok := true
		for i, p := range pat {
			tok := tail[i]
			if tok.Kind != p.Kind || (p.Text != "" && tok.Text != p.Text) {
				ok = false
				break
			}
			if p.Text == "" {
				vars = append(vars, tok.Text)
			}
		}
		if ok {
			return vars, true
		}
	}
	return nil, false
}
