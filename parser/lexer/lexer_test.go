// Copyright © 2018 The ELPS authors

package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/blueprint/parser/token"
)

type testToken struct {
	kind token.Kind
	text string
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []testToken
	}{
		{``, nil},
		{`using Gtk 4.0;`, []testToken{
			{token.Ident, "using"},
			{token.Ident, "Gtk"},
			{token.Number, "4.0"},
			{token.Punct, ";"},
		}},
		{`Gtk.Box box1 {}`, []testToken{
			{token.Ident, "Gtk"},
			{token.Op, "."},
			{token.Ident, "Box"},
			{token.Ident, "box1"},
			{token.Punct, "{"},
			{token.Punct, "}"},
		}},
		{`clicked => $on_click() swapped;`, []testToken{
			{token.Ident, "clicked"},
			{token.Op, "=>"},
			{token.Op, "$"},
			{token.Ident, "on_click"},
			{token.Punct, "("},
			{token.Punct, ")"},
			{token.Ident, "swapped"},
			{token.Punct, ";"},
		}},
		{`mime-types ["text/plain", 'a\'b']`, []testToken{
			{token.Ident, "mime-types"},
			{token.Punct, "["},
			{token.Quoted, `"text/plain"`},
			{token.Punct, ","},
			{token.Quoted, `'a\'b'`},
			{token.Punct, "]"},
		}},
		{`10 -5 0.5 .5 0xff 1_000`, []testToken{
			{token.Number, "10"},
			{token.Number, "-5"},
			{token.Number, "0.5"},
			{token.Number, ".5"},
			{token.Number, "0xff"},
			{token.Number, "1_000"},
		}},
		{`notify::label`, []testToken{
			{token.Ident, "notify"},
			{token.Op, "::"},
			{token.Ident, "label"},
		}},
		{`a // comment
/* block */ b`, []testToken{
			{token.Ident, "a"},
			{token.Ident, "b"},
		}},
		{`"unterminated`, []testToken{
			{token.Error, `"unterminated`},
		}},
		{`x @ y`, []testToken{
			{token.Ident, "x"},
			{token.Error, "@"},
			{token.Ident, "y"},
		}},
		{`/* open`, []testToken{
			{token.Error, `/* open`},
		}},
		{"a /* open Label {}\n", []testToken{
			{token.Ident, "a"},
			{token.Error, "/* open Label {}\n"},
		}},
		{`a */ b`, []testToken{
			{token.Ident, "a"},
			{token.Op, "*/"},
			{token.Ident, "b"},
		}},
	}
	for i, test := range tests {
		src := token.NewSource("test", test.input)
		toks := Significant(Tokenize(src))
		require.NotEmpty(t, toks, "test %d", i)
		last := toks[len(toks)-1]
		assert.Equal(t, token.EOF, last.Kind, "test %d", i)
		var got []testToken
		for _, tok := range toks[:len(toks)-1] {
			got = append(got, testToken{tok.Kind, tok.Text})
		}
		assert.Equal(t, test.tokens, got, "test %d: %q", i, test.input)
	}
}

func TestLexerCoversInput(t *testing.T) {
	input := "using Gtk 4.0;\n\n// comment\nBox {\n\tlabel: _(\"hi\");\n}\n"
	src := token.NewSource("test", input)
	toks := Tokenize(src)
	var sb strings.Builder
	pos := 0
	for _, tok := range toks {
		assert.Equal(t, pos, tok.Range.Start, "gap before %v", tok)
		assert.Equal(t, tok.Text, tok.Range.Text())
		sb.WriteString(tok.Text)
		pos = tok.Range.End
	}
	assert.Equal(t, input, sb.String())
}

func TestLexerPositions(t *testing.T) {
	src := token.NewSource("test", "a\n\tb")
	toks := Significant(Tokenize(src))
	require.Len(t, toks, 3)
	pos := toks[1].Range.StartPos()
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 2, pos.Col)
	assert.Equal(t, 5, pos.DisplayCol)
}
