// Copyright © 2024 The ELPS authors

// Package grammar is a parser combinator engine producing ast nodes from a
// token stream.
//
// A Rule reports one of three outcomes.  Success consumes tokens.  A soft
// failure, (false, nil), lets the caller backtrack and try something else.
// A hard failure returns a *diagnostic.Diagnostic: the construct is
// definitely malformed and the error is reported at the failing token.
// Hard failures are recovered by Statement and Until, which record the
// error and resynchronise so that the rest of the document still parses.
package grammar

import (
	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/parser/token"
)

// Rule is a grammar rule.  Rules are immutable and hold no parse state, so
// a grammar may be shared by concurrent parses.
type Rule interface {
	Parse(ctx *Context) (bool, error)
}

// Context holds the state of one parse.
type Context struct {
	src   *token.Source
	toks  []token.Token // significant tokens, ending with EOF
	pos   int
	frame *frame
	errs  diagnostic.List

	// skip merges consecutive unexpected tokens into one diagnostic.
	skip    *diagnostic.Diagnostic
	skipEnd int
}

// frame collects the pieces of the node being built by a Group.  Setters
// and captures are recorded rather than applied so that backtracking can
// discard them.
type frame struct {
	parent     *frame
	children   []ast.Node
	sets       []func(ast.Node)
	captures   []capture
	incomplete bool
}

type capture struct {
	name string
	rng  token.Range
}

type mark struct {
	pos        int
	children   int
	sets       int
	captures   int
	errs       int
	incomplete bool
}

// NewContext prepares a parse of the significant tokens toks, which must
// end with an EOF token.
func NewContext(src *token.Source, toks []token.Token) *Context {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		end := len(src.Text)
		toks = append(toks, token.Token{Kind: token.EOF, Range: token.NewRange(src, end, end)})
	}
	return &Context{src: src, toks: toks, frame: &frame{}}
}

// Parse runs rule over the tokens and returns the top level nodes it built
// along with every error recorded during the parse.  Lexical error tokens
// are reported once each.
func Parse(src *token.Source, toks []token.Token, rule Rule) ([]ast.Node, diagnostic.List) {
	ctx := NewContext(src, toks)
	for _, tok := range ctx.toks {
		if tok.Kind == token.Error {
			ctx.errs = append(ctx.errs, lexError(tok))
		}
	}
	ok, err := rule.Parse(ctx)
	switch {
	case err != nil:
		ctx.record(err)
	case !ok:
		ctx.record(diagnostic.Errorf("Unexpected tokens").At(ctx.Peek().Range).SetFatal())
	}
	ctx.errs.Sort()
	return ctx.frame.children, ctx.errs
}

func lexError(tok token.Token) *diagnostic.Diagnostic {
	switch {
	case len(tok.Text) > 1 && (tok.Text[0] == '"' || tok.Text[0] == '\''):
		return diagnostic.Errorf("Unterminated string literal").At(tok.Range)
	case len(tok.Text) > 1 && tok.Text[:2] == "/*":
		return diagnostic.Errorf("Unterminated block comment").At(tok.Range)
	}
	return diagnostic.Errorf("Unexpected character %q", tok.Text).At(tok.Range)
}

// Peek returns the current token.
func (ctx *Context) Peek() token.Token {
	return ctx.toks[ctx.pos]
}

// Prev returns the last consumed token, or the current token when nothing
// has been consumed.
func (ctx *Context) Prev() token.Token {
	if ctx.pos == 0 {
		return ctx.toks[0]
	}
	return ctx.toks[ctx.pos-1]
}

// AtEOF reports whether all tokens have been consumed.
func (ctx *Context) AtEOF() bool {
	return ctx.Peek().Kind == token.EOF
}

// Next consumes and returns the current token.  EOF is never consumed.
func (ctx *Context) Next() token.Token {
	tok := ctx.toks[ctx.pos]
	if tok.Kind != token.EOF {
		ctx.pos++
	}
	return tok
}

// Errors returns the errors recorded so far.
func (ctx *Context) Errors() diagnostic.List {
	return ctx.errs
}

func (ctx *Context) mark() mark {
	f := ctx.frame
	return mark{
		pos:        ctx.pos,
		children:   len(f.children),
		sets:       len(f.sets),
		captures:   len(f.captures),
		errs:       len(ctx.errs),
		incomplete: f.incomplete,
	}
}

func (ctx *Context) reset(m mark) {
	f := ctx.frame
	ctx.pos = m.pos
	f.children = f.children[:m.children]
	f.sets = f.sets[:m.sets]
	f.captures = f.captures[:m.captures]
	f.incomplete = m.incomplete
	if len(ctx.errs) > m.errs {
		ctx.errs = ctx.errs[:m.errs]
		ctx.skip = nil
	}
}

// span returns the range covered by the tokens consumed since position
// start.  When nothing was consumed the range is empty and sits at the
// start of the current token.
func (ctx *Context) span(start int) token.Range {
	if ctx.pos <= start {
		at := ctx.toks[start].Range.Start
		return token.NewRange(ctx.src, at, at)
	}
	return token.NewRange(ctx.src, ctx.toks[start].Range.Start, ctx.toks[ctx.pos-1].Range.End)
}

// here returns an empty range at the start of the current token.
func (ctx *Context) here() token.Range {
	at := ctx.Peek().Range.Start
	return token.NewRange(ctx.src, at, at)
}

// afterPrev returns an empty range just after the last consumed token.
func (ctx *Context) afterPrev() token.Range {
	if ctx.pos == 0 {
		return ctx.here()
	}
	at := ctx.toks[ctx.pos-1].Range.End
	return token.NewRange(ctx.src, at, at)
}

// record stores a recovered hard failure and marks the node being built
// incomplete.
func (ctx *Context) record(err error) {
	d, ok := err.(*diagnostic.Diagnostic)
	diagnostic.Assert(ok, "grammar rule returned %T, not a diagnostic", err)
	ctx.errs = append(ctx.errs, d)
	ctx.skip = nil
}

// skipUnexpected consumes the current token, reporting it as unexpected.
// Adjacent skipped tokens share one diagnostic.  Lexical error tokens were
// already reported by Parse.
func (ctx *Context) skipUnexpected() {
	tok := ctx.Next()
	if tok.Kind == token.Error {
		ctx.skip = nil
		return
	}
	if ctx.skip != nil && ctx.skipEnd == ctx.pos-1 {
		ctx.skip.Range = token.Join(ctx.skip.Range, tok.Range)
	} else {
		ctx.skip = diagnostic.Errorf("Unexpected tokens").At(tok.Range)
		ctx.errs = append(ctx.errs, ctx.skip)
	}
	ctx.skipEnd = ctx.pos
}

func (ctx *Context) set(fn func(ast.Node)) {
	ctx.frame.sets = append(ctx.frame.sets, fn)
}

func (ctx *Context) capture(name string, rng token.Range) {
	ctx.frame.captures = append(ctx.frame.captures, capture{name: name, rng: rng})
}

// resync skips tokens after a hard failure inside a statement.  It stops
// after a `;` or before a `}` or `]` that closes an enclosing block.
func (ctx *Context) resync() {
	depth := 0
	for !ctx.AtEOF() {
		tok := ctx.Peek()
		if tok.Kind == token.Punct {
			switch tok.Text {
			case "{", "[", "(":
				depth++
			case "}", "]", ")":
				if depth == 0 {
					return
				}
				depth--
			case ";":
				if depth == 0 {
					ctx.Next()
					return
				}
			}
		}
		ctx.Next()
	}
}
