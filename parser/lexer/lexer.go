// Copyright © 2018 The ELPS authors

// Package lexer splits blueprint source text into tokens.  The lexer never
// fails: text it cannot classify is emitted as token.Error so the parser can
// report it and carry on.
package lexer

import (
	"github.com/prataprc/goparsec"

	"github.com/luthersystems/blueprint/parser/token"
)

type pattern struct {
	kind token.Kind
	re   string
}

// patterns are tried in order at the current cursor.  goparsec requires
// every expression to be anchored with a leading ^.
var patterns = []pattern{
	{token.Whitespace, `^\s+`},
	{token.Comment, `^//[^\n]*`},
	{token.Comment, `^(?s:/\*.*?\*/)`},
	{token.Error, `^(?s:/\*.*)`},
	{token.Ident, `^[A-Za-z_][A-Za-z0-9_\-]*`},
	{token.Quoted, `^"(?:[^"\\\n]|\\.)*"`},
	{token.Quoted, `^'(?:[^'\\\n]|\\.)*'`},
	{token.Number, `^(?:0x[0-9A-Fa-f_]+|0b[01_]+|0o[0-7_]+|[-+]?(?:[0-9][0-9_]*(?:\.[0-9_]+)?|\.[0-9_]+))`},
	{token.Punct, `^[(){}\[\];,]`},
	{token.Op, `^\$`},
	{token.Op, `^[:=.|<>+\-/*]+`},
}

// unterminated catches string literals that run off the end of a line or of
// the input.  An open block comment is matched in patterns, ahead of the
// operators that would otherwise take its "/*".
var unterminated = []pattern{
	{token.Error, `^"(?:[^"\\\n]|\\.)*\\?`},
	{token.Error, `^'(?:[^'\\\n]|\\.)*\\?`},
}

// Tokenize returns every token in src, including whitespace and comments, in
// order.  The final token is always token.EOF.
func Tokenize(src *token.Source) []token.Token {
	var toks []token.Token
	s := parsec.NewScanner([]byte(src.Text))
	for !s.Endof() {
		start := s.GetCursor()
		kind, text, next := scan(s)
		s = next
		toks = append(toks, token.Token{
			Kind:  kind,
			Text:  text,
			Range: token.NewRange(src, start, start+len(text)),
		})
	}
	end := len(src.Text)
	toks = append(toks, token.Token{Kind: token.EOF, Range: token.NewRange(src, end, end)})
	return toks
}

func scan(s parsec.Scanner) (token.Kind, string, parsec.Scanner) {
	for _, p := range patterns {
		if b, next := s.Match(p.re); len(b) > 0 {
			return p.kind, string(b), next
		}
	}
	for _, p := range unterminated {
		if b, next := s.Match(p.re); len(b) > 0 {
			return p.kind, string(b), next
		}
	}
	b, next := s.Match(`^(?s:.)`)
	return token.Error, string(b), next
}

// Significant filters out trivia, leaving the tokens the parser consumes.
func Significant(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		if !tok.Kind.Trivia() {
			out = append(out, tok)
		}
	}
	return out
}
