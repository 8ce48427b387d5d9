// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/language"
	"github.com/luthersystems/blueprint/parser/token"
	"github.com/luthersystems/blueprint/typeres"
)

func TestSemanticTokens(t *testing.T) {
	src := "using Gtk 4.0;\n\nLabel title {\n  label: \"x\";\n  clicked => $f(title);\n}\n"
	doc, _ := language.Parse(token.NewSource("test.blp", src))
	toks := semanticTokens(doc, typeres.MustDefault())

	type tok struct{ typ, mods int }
	var got []tok
	for _, r := range toks {
		got = append(got, tok{r.tokenType, r.modifiers})
	}
	assert.Equal(t, []tok{
		{semTokenKeyword, 0},                   // using
		{semTokenNamespace, 0},                 // Gtk
		{semTokenNumber, 0},                    // 4.0
		{semTokenClass, 0},                     // Label
		{semTokenVariable, semModDeclaration},  // title
		{semTokenProperty, 0},                  // label
		{semTokenOperator, 0},                  // :
		{semTokenString, 0},                    // "x"
		{semTokenEvent, 0},                     // clicked
		{semTokenOperator, 0},                  // =>
		{semTokenOperator, 0},                  // $
		{semTokenFunction, 0},                  // f
		{semTokenVariable, 0},                  // title
	}, got)

	assert.Equal(t, rawToken{line: 2, startChar: 6, length: 5, tokenType: semTokenVariable, modifiers: semModDeclaration}, toks[4])
}

func TestSemanticTokensMultiline(t *testing.T) {
	src := token.NewSource("test.blp", "/* a\n  bc */")
	toks := appendLines(nil, token.NewRange(src, 0, len(src.Text)), semTokenComment, 0)
	require.Len(t, toks, 2)
	assert.Equal(t, rawToken{line: 0, startChar: 0, length: 4, tokenType: semTokenComment}, toks[0])
	assert.Equal(t, rawToken{line: 1, startChar: 0, length: 7, tokenType: semTokenComment}, toks[1])
}

func TestDeltaEncode(t *testing.T) {
	data := deltaEncode([]rawToken{
		{line: 0, startChar: 0, length: 5, tokenType: semTokenKeyword},
		{line: 0, startChar: 6, length: 3, tokenType: semTokenNamespace},
		{line: 2, startChar: 4, length: 1, tokenType: semTokenNumber},
	})
	assert.Equal(t, []protocol.UInteger{
		0, 0, 5, semTokenKeyword, 0,
		0, 6, 3, semTokenNamespace, 0,
		2, 4, 1, semTokenNumber, 0,
	}, data)
}

func TestSemanticTokensRequest(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "using Gtk 4.0;\n")
	result, err := s.textDocumentSemanticTokensFull(mockContext(), &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Data, 15)
	assert.Len(t, semanticTokenLegend().TokenTypes, semTokenOperator+1)
}
