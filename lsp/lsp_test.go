// Copyright © 2024 The ELPS authors

package lsp

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/parser/token"
)

const testURI = "file:///test/window.blp"

const sample = `using Gtk 4.0;

// header
// comment
Box box {
  orientation: vertical;
  spacing: 6;

  Label title {
    label: "Hello";
  }

  Button {
    clicked => $on_click(title);
  }
}
`

// testServer creates a server using the default catalog.
func testServer(opts ...Option) *Server {
	s := New(opts...)
	s.exitFn = func(int) {}
	return s
}

// openDoc opens a document in the test server and returns it.
func openDoc(s *Server, uri, content string) *Document {
	return s.docs.Open(uri, 1, content)
}

// mockContext returns a minimal glsp.Context for testing.
func mockContext() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {},
	}
}

// capturingContext returns a context that captures published diagnostics.
// Publication may happen on a timer goroutine, so the captured slice is
// read through the returned function.
func capturingContext() (*glsp.Context, func() []*protocol.PublishDiagnosticsParams) {
	var (
		mu       sync.Mutex
		captured []*protocol.PublishDiagnosticsParams
	)
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method == protocol.ServerTextDocumentPublishDiagnostics {
				mu.Lock()
				captured = append(captured, params.(*protocol.PublishDiagnosticsParams))
				mu.Unlock()
			}
		},
	}
	return ctx, func() []*protocol.PublishDiagnosticsParams {
		mu.Lock()
		defer mu.Unlock()
		return append([]*protocol.PublishDiagnosticsParams(nil), captured...)
	}
}

func pos(line, char int) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

func docPosition(uri string, line, char int) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     pos(line, char),
	}
}

func openParams(uri, text string) *protocol.DidOpenTextDocumentParams {
	return &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "blueprint", Version: 1, Text: text},
	}
}

// --- Position conversion tests ---

func TestPositionConversion(t *testing.T) {
	src := token.NewSource("test.blp", "a😀b\nxy")
	t.Run("utf16 columns", func(t *testing.T) {
		assert.Equal(t, pos(0, 3), lspPosition(src, 5))
		assert.Equal(t, 5, offsetOf(src, pos(0, 3)))
	})
	t.Run("second line", func(t *testing.T) {
		assert.Equal(t, pos(1, 0), lspPosition(src, 7))
		assert.Equal(t, pos(1, 1), lspPosition(src, 8))
		assert.Equal(t, 8, offsetOf(src, pos(1, 1)))
	})
	t.Run("clamping", func(t *testing.T) {
		assert.Equal(t, 6, offsetOf(src, pos(0, 99)))
		assert.Equal(t, len(src.Text), offsetOf(src, pos(9, 0)))
	})
	t.Run("ranges", func(t *testing.T) {
		r := lspRange(token.NewRange(src, 0, 8))
		assert.Equal(t, protocol.Range{Start: pos(0, 0), End: pos(1, 1)}, r)
		assert.Equal(t, protocol.Range{}, lspRange(token.Range{}))
		assert.Equal(t, token.NewRange(src, 1, 8), rangeOf(src, protocol.Range{Start: pos(0, 1), End: pos(1, 1)}))
	})
}

func TestSafeUint(t *testing.T) {
	assert.Equal(t, protocol.UInteger(0), safeUint(-1))
	assert.Equal(t, protocol.UInteger(42), safeUint(42))
}

func TestWordBefore(t *testing.T) {
	assert.Equal(t, "spac", wordBefore("  spac", 6))
	assert.Equal(t, "b-c", wordBefore("a: b-c", 6))
	assert.Equal(t, "", wordBefore("x {", 3))
	assert.Equal(t, "", wordBefore("", 0))
}

func TestURIConversion(t *testing.T) {
	assert.Equal(t, "/tmp/a.blp", uriToPath("file:///tmp/a.blp"))
	assert.Equal(t, "file:///tmp/a.blp", pathToURI("/tmp/a.blp"))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
}

// --- Document store tests ---

func TestDocumentStore(t *testing.T) {
	s := testServer()
	t.Run("Open", func(t *testing.T) {
		doc := s.docs.Open("file:///b.blp", 1, sample)
		require.NotNil(t, doc)
		snap := doc.snapshot()
		require.NotNil(t, snap.parsed())
		assert.False(t, snap.result.Failed())
	})
	t.Run("Change", func(t *testing.T) {
		doc := s.docs.Change("file:///b.blp", 2, "using Gtk 4.0;\n")
		assert.Nil(t, doc.result, "compile cache should be cleared on change")
		assert.Equal(t, int32(2), doc.snapshot().version)
	})
	t.Run("All", func(t *testing.T) {
		s.docs.Open("file:///a.blp", 1, "using Gtk 4.0;\n")
		docs := s.docs.All()
		require.Len(t, docs, 2)
		assert.Equal(t, "file:///a.blp", docs[0].URI)
	})
	t.Run("Close", func(t *testing.T) {
		s.docs.Close("file:///a.blp")
		assert.Nil(t, s.docs.Get("file:///a.blp"))
		assert.NotNil(t, s.docs.Get("file:///b.blp"))
	})
}

// --- Diagnostics tests ---

func TestPublishDiagnostics(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()
	src := "using Gtk 4.0;\n\nBox {\n  nope: 1;\n}\n"
	require.NoError(t, s.textDocumentDidOpen(ctx, openParams(testURI, src)))

	got := captured()
	require.Len(t, got, 1)
	assert.Equal(t, testURI, got[0].URI)
	require.Len(t, got[0].Diagnostics, 1)
	d := got[0].Diagnostics[0]
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, "error", d.Code.Value)
	assert.Equal(t, "blueprint", *d.Source)
	assert.Contains(t, d.Message, "Class Gtk.Box does not have a property called nope")
	assert.Equal(t, protocol.Range{Start: pos(3, 2), End: pos(3, 6)}, d.Range)
}

func TestPublishWarnings(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()
	require.NoError(t, s.textDocumentDidOpen(ctx, openParams(testURI, "using Gtk 4.0;\nusing Adw 1;\n")))

	got := captured()
	require.Len(t, got, 1)
	require.Len(t, got[0].Diagnostics, 1)
	d := got[0].Diagnostics[0]
	assert.Equal(t, protocol.DiagnosticSeverityHint, *d.Severity)
	assert.Equal(t, []protocol.DiagnosticTag{protocol.DiagnosticTagUnnecessary}, d.Tags)
}

func TestDebouncedPublish(t *testing.T) {
	s := testServer(WithDebounce(10 * time.Millisecond))
	ctx, captured := capturingContext()
	require.NoError(t, s.textDocumentDidOpen(ctx, openParams(testURI, sample)))

	change := func(version int, text string) {
		require.NoError(t, s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
			TextDocument: protocol.VersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
				Version:                protocol.Integer(version),
			},
			ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: text}},
		}))
	}
	change(2, "using Gtk 4.0;\nBox { nope: 1; }\n")
	change(3, "using Gtk 4.0;\nBox { nope: 1; nada: 2; }\n")

	require.Eventually(t, func() bool { return len(captured()) >= 2 }, time.Second, 5*time.Millisecond)
	got := captured()
	last := got[len(got)-1]
	assert.Equal(t, protocol.UInteger(3), *last.Version)
	assert.Len(t, last.Diagnostics, 2)
	// The first change was superseded before its timer fired.
	assert.Len(t, got, 2)
}

func TestDidClose(t *testing.T) {
	s := testServer()
	ctx, captured := capturingContext()
	require.NoError(t, s.textDocumentDidOpen(ctx, openParams(testURI, sample)))
	require.NoError(t, s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	}))
	got := captured()
	require.Len(t, got, 2)
	assert.Empty(t, got[1].Diagnostics)
	assert.Nil(t, s.docs.Get(testURI))
}

func TestInitialize(t *testing.T) {
	s := testServer()
	result, err := s.initialize(mockContext(), &protocol.InitializeParams{})
	require.NoError(t, err)
	res, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, serverName, res.ServerInfo.Name)
	assert.NotNil(t, res.Capabilities.CompletionProvider)
	assert.NotNil(t, res.Capabilities.SemanticTokensProvider)
	require.NoError(t, s.shutdown(mockContext()))
}

// --- Request tests ---

func TestHover(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, sample)
	hover, err := s.textDocumentHover(mockContext(), &protocol.HoverParams{
		TextDocumentPositionParams: docPosition(testURI, 4, 1),
	})
	require.NoError(t, err)
	require.NotNil(t, hover)
	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Contains(t, content.Value, "class Gtk.Box")

	hover, err = s.textDocumentHover(mockContext(), &protocol.HoverParams{
		TextDocumentPositionParams: docPosition("file:///missing.blp", 0, 0),
	})
	assert.NoError(t, err)
	assert.Nil(t, hover)
}

func TestDefinition(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, sample)
	result, err := s.textDocumentDefinition(mockContext(), &protocol.DefinitionParams{
		TextDocumentPositionParams: docPosition(testURI, 13, 26),
	})
	require.NoError(t, err)
	links, ok := result.([]protocol.LocationLink)
	require.True(t, ok)
	require.Len(t, links, 1)
	assert.Equal(t, pos(8, 8), links[0].TargetSelectionRange.Start)
	assert.Equal(t, pos(8, 2), links[0].TargetRange.Start)

	result, err = s.textDocumentDefinition(mockContext(), &protocol.DefinitionParams{
		TextDocumentPositionParams: docPosition(testURI, 5, 4),
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCompletion(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, "using Gtk 4.0;\n\nBox {\n  \n}\n")
	result, err := s.textDocumentCompletion(mockContext(), &protocol.CompletionParams{
		TextDocumentPositionParams: docPosition(testURI, 3, 2),
	})
	require.NoError(t, err)
	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok)
	byLabel := map[string]protocol.CompletionItem{}
	for _, item := range items {
		byLabel[item.Label] = item
	}
	require.Contains(t, byLabel, "spacing")
	assert.Equal(t, protocol.CompletionItemKindProperty, *byLabel["spacing"].Kind)
	require.Contains(t, byLabel, "destroy")
	assert.Equal(t, protocol.InsertTextFormatSnippet, *byLabel["destroy"].InsertTextFormat)
	assert.Contains(t, *byLabel["destroy"].InsertText, "=>")
}

func TestCompletionItems(t *testing.T) {
	comps := []ast.Completion{
		{Label: "orientation", Kind: ast.CompletionProperty},
		{Label: "spacing", Kind: ast.CompletionProperty, Detail: "gint", Deprecated: true},
		{Label: "Separator", Kind: ast.CompletionClass},
		{Label: "clicked", Kind: ast.CompletionEvent, Snippet: "clicked => \\$${1:on_clicked}();"},
	}

	items := completionItems(comps, "spa")
	require.Len(t, items, 2)
	assert.Equal(t, "spacing", items[0].Label)
	assert.Equal(t, "Separator", items[1].Label)
	assert.Equal(t, "0000", *items[0].SortText)
	assert.Equal(t, "gint", *items[0].Detail)
	assert.True(t, *items[0].Deprecated)
	assert.Nil(t, items[0].InsertText)

	items = completionItems(comps, "")
	require.Len(t, items, 4)
	assert.Equal(t, "orientation", items[0].Label)
	assert.Equal(t, protocol.InsertTextFormatSnippet, *items[3].InsertTextFormat)
	assert.Equal(t, comps[3].Snippet, *items[3].InsertText)
	assert.Equal(t, protocol.CompletionItemKindEvent, *items[3].Kind)
}

func TestDocumentSymbol(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, sample)
	result, err := s.textDocumentDocumentSymbol(mockContext(), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	syms, ok := result.([]protocol.DocumentSymbol)
	require.True(t, ok)
	require.Len(t, syms, 1)
	assert.Equal(t, "Box", syms[0].Name)
	assert.Equal(t, "box", *syms[0].Detail)
	assert.Equal(t, protocol.SymbolKindObject, syms[0].Kind)
	var children []string
	for _, c := range syms[0].Children {
		children = append(children, c.Name)
	}
	assert.Equal(t, []string{"orientation", "spacing", "Label", "Button"}, children)
}

func TestWorkspaceSymbol(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, sample)
	openDoc(s, "file:///test/other.blp", "using Gtk 4.0;\n\nButton quit {}\n")

	syms, err := s.workspaceSymbol(mockContext(), &protocol.WorkspaceSymbolParams{Query: "butt"})
	require.NoError(t, err)
	require.Len(t, syms, 2)
	assert.Equal(t, "file:///test/other.blp", syms[0].Location.URI)
	assert.Nil(t, syms[0].ContainerName)
	assert.Equal(t, testURI, syms[1].Location.URI)
	assert.Equal(t, "Box", *syms[1].ContainerName)

	all, err := s.workspaceSymbol(mockContext(), &protocol.WorkspaceSymbolParams{})
	require.NoError(t, err)
	assert.Greater(t, len(all), len(syms))
}

func TestReferences(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, sample)
	locs, err := s.textDocumentReferences(mockContext(), &protocol.ReferenceParams{
		TextDocumentPositionParams: docPosition(testURI, 8, 9),
		Context:                    protocol.ReferenceContext{IncludeDeclaration: true},
	})
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, pos(8, 8), locs[0].Range.Start)
	assert.Equal(t, pos(13, 25), locs[1].Range.Start)

	locs, err = s.textDocumentReferences(mockContext(), &protocol.ReferenceParams{
		TextDocumentPositionParams: docPosition(testURI, 8, 9),
	})
	require.NoError(t, err)
	assert.Len(t, locs, 1)
}

func TestRename(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, sample)

	prep, err := s.textDocumentPrepareRename(mockContext(), &protocol.PrepareRenameParams{
		TextDocumentPositionParams: docPosition(testURI, 13, 26),
	})
	require.NoError(t, err)
	rp, ok := prep.(*protocol.RangeWithPlaceholder)
	require.True(t, ok)
	assert.Equal(t, "title", rp.Placeholder)
	assert.Equal(t, pos(13, 25), rp.Range.Start)

	prep, err = s.textDocumentPrepareRename(mockContext(), &protocol.PrepareRenameParams{
		TextDocumentPositionParams: docPosition(testURI, 12, 3),
	})
	require.NoError(t, err)
	assert.Nil(t, prep)

	edit, err := s.textDocumentRename(mockContext(), &protocol.RenameParams{
		TextDocumentPositionParams: docPosition(testURI, 8, 9),
		NewName:                    "heading",
	})
	require.NoError(t, err)
	edits := edit.Changes[testURI]
	require.Len(t, edits, 2)
	for _, e := range edits {
		assert.Equal(t, "heading", e.NewText)
	}

	_, err = s.textDocumentRename(mockContext(), &protocol.RenameParams{
		TextDocumentPositionParams: docPosition(testURI, 8, 9),
		NewName:                    "1heading",
	})
	assert.Error(t, err)
}
