// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func format(t *testing.T, content string) []protocol.TextEdit {
	t.Helper()
	s := testServer()
	openDoc(s, testURI, content)
	edits, err := s.textDocumentFormatting(mockContext(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	return edits
}

func TestFormatting(t *testing.T) {
	edits := format(t, "using Gtk 4.0;\nBox{spacing:6;}\n")
	require.Len(t, edits, 1)
	assert.Equal(t, "using Gtk 4.0;\n\nBox {\n  spacing: 6;\n}\n", edits[0].NewText)
	assert.Equal(t, protocol.Range{Start: pos(0, 0), End: pos(2, 0)}, edits[0].Range)
}

func TestFormattingNoChange(t *testing.T) {
	assert.Nil(t, format(t, "using Gtk 4.0;\n\nBox {\n  spacing: 6;\n}\n"))
}

func TestFormattingErrors(t *testing.T) {
	assert.Nil(t, format(t, "using Gtk 4.0;\n\nBox {\n  nope: 6;\n}\n"))
	assert.Nil(t, format(t, ""))
}
