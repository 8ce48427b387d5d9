// Copyright © 2024 The ELPS authors

package grammar

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/parser/token"
)

type match struct {
	text    string
	keyword bool
}

// Match matches a single token with the given text.
func Match(text string) *match {
	return &match{text: text}
}

// Keyword matches an identifier token with the given text and captures its
// range under the keyword itself.
func Keyword(word string) *match {
	return &match{text: word, keyword: true}
}

// Expected makes a mismatch a hard failure reading "Expected `text`".
func (m *match) Expected() Rule {
	return Err(m, "Expected `"+m.text+"`")
}

func (m *match) Parse(ctx *Context) (bool, error) {
	tok := ctx.Peek()
	if tok.Text != m.text || tok.Kind == token.Quoted || tok.Kind == token.EOF {
		return false, nil
	}
	if m.keyword && tok.Kind != token.Ident {
		return false, nil
	}
	ctx.Next()
	if m.keyword {
		ctx.capture(m.text, tok.Range)
	}
	return true, nil
}

// setter defers assigning a captured value until the node under
// construction exists.
func setter[N ast.Node, V any](name string, set func(N, V), v V) func(ast.Node) {
	return func(n ast.Node) {
		nn, ok := n.(N)
		diagnostic.Assert(ok, "capture %q applied to %T", name, n)
		set(nn, v)
	}
}

// Capture matches a single token of the given kind, records its range under
// name and passes its converted text to set.  A conversion error is a soft
// failure.
func Capture[N ast.Node, V any](kind token.Kind, name string, conv func(string) (V, bool), set func(N, V)) Rule {
	return RuleFunc(func(ctx *Context) (bool, error) {
		tok := ctx.Peek()
		if tok.Kind != kind {
			return false, nil
		}
		v, ok := conv(tok.Text)
		if !ok {
			return false, nil
		}
		ctx.Next()
		ctx.capture(name, tok.Range)
		if set != nil {
			ctx.set(setter(name, set, v))
		}
		return true, nil
	})
}

func identity(s string) (string, bool) { return s, true }

// UseIdent captures an identifier.
func UseIdent[N ast.Node](name string, set func(N, string)) Rule {
	return Capture(token.Ident, name, identity, set)
}

// UseQuoted captures a quoted string and passes its unescaped value.
func UseQuoted[N ast.Node](name string, set func(N, string)) Rule {
	return Capture(token.Quoted, name, Unquote, set)
}

// UseNumber captures a number and passes its text.
func UseNumber[N ast.Node](name string, set func(N, string)) Rule {
	return Capture(token.Number, name, identity, set)
}

// UseExact captures an identifier that must equal text.
func UseExact[N ast.Node](name, text string, set func(N, string)) Rule {
	return Capture(token.Ident, name, func(s string) (string, bool) { return s, s == text }, set)
}

// UseLiteral assigns a value without consuming input.
func UseLiteral[N ast.Node](set func(N)) Rule {
	return RuleFunc(func(ctx *Context) (bool, error) {
		ctx.set(setter("literal", func(n N, _ struct{}) { set(n) }, struct{}{}))
		return true, nil
	})
}

// Unquote removes the quotes from a string literal and resolves its escape
// sequences.
func Unquote(s string) (string, bool) {
	if len(s) < 2 || s[0] != s[len(s)-1] || (s[0] != '"' && s[0] != '\'') {
		return "", false
	}
	body := s[1 : len(s)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, true
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '\n':
		default:
			sb.WriteByte(body[i])
		}
	}
	return sb.String(), true
}

// Quote returns s as a double quoted string literal.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// ParseInteger converts a number token's text to an exact integer.  It
// fails for numbers with a fractional part.
func ParseInteger(text string) (*big.Int, bool) {
	return new(big.Int).SetString(strings.ReplaceAll(text, "_", ""), 0)
}

// ParseNumber converts a number token's text.  Underscores are ignored and
// 0x, 0o and 0b prefixes are supported.
func ParseNumber(text string) (float64, bool) {
	clean := strings.ReplaceAll(text, "_", "")
	if i, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return float64(i), true
	}
	f, err := strconv.ParseFloat(clean, 64)
	return f, err == nil
}
