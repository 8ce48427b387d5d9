// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func codeActions(t *testing.T, s *Server, rng protocol.Range, only ...protocol.CodeActionKind) []protocol.CodeAction {
	t.Helper()
	result, err := s.textDocumentCodeAction(mockContext(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range:        rng,
		Context:      protocol.CodeActionContext{Only: only},
	})
	require.NoError(t, err)
	if result == nil {
		return nil
	}
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok, "got %T", result)
	return actions
}

func TestCodeActionDidYouMean(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "using Gtk 4.0;\n\nLabel {\n  lable: \"x\";\n}\n")

	actions := codeActions(t, s, protocol.Range{Start: pos(3, 2), End: pos(3, 2)})
	require.Len(t, actions, 1)
	a := actions[0]
	assert.Equal(t, "Change to `label`", a.Title)
	assert.Equal(t, protocol.CodeActionKindQuickFix, *a.Kind)
	assert.True(t, *a.IsPreferred)
	require.Len(t, a.Diagnostics, 1)
	edits := a.Edit.Changes[testURI]
	require.Len(t, edits, 1)
	assert.Equal(t, "label", edits[0].NewText)
	assert.Equal(t, protocol.Range{Start: pos(3, 2), End: pos(3, 7)}, edits[0].Range)
}

func TestCodeActionOutsideRange(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "using Gtk 4.0;\n\nLabel {\n  lable: \"x\";\n}\n")
	assert.Empty(t, codeActions(t, s, protocol.Range{Start: pos(0, 0), End: pos(0, 3)}))
}

func TestCodeActionOnlyFilter(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "using Gtk 4.0;\n\nLabel {\n  lable: \"x\";\n}\n")
	whole := protocol.Range{Start: pos(0, 0), End: pos(5, 0)}
	assert.Empty(t, codeActions(t, s, whole, protocol.CodeActionKindRefactor))
	assert.Len(t, codeActions(t, s, whole, protocol.CodeActionKindQuickFix), 1)
}

func TestCodeActionInsert(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "using Gtk 4.0;\n\nBox {\n  spacing: 6\n}\n")

	var found *protocol.CodeAction
	actions := codeActions(t, s, protocol.Range{Start: pos(0, 0), End: pos(5, 0)})
	for i := range actions {
		if actions[i].Title == "Insert `;`" {
			found = &actions[i]
		}
	}
	require.NotNil(t, found)
	edits := found.Edit.Changes[testURI]
	require.Len(t, edits, 1)
	assert.Equal(t, ";", edits[0].NewText)
	assert.Equal(t, edits[0].Range.Start, edits[0].Range.End)
}
