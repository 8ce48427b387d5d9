// Copyright © 2024 The ELPS authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/parser/token"
)

type fold struct {
	start, end protocol.UInteger
	kind       string
}

func folds(ranges []protocol.FoldingRange) []fold {
	var out []fold
	for _, r := range ranges {
		out = append(out, fold{r.StartLine, r.EndLine, *r.Kind})
	}
	return out
}

func TestFoldingRange(t *testing.T) {
	s := testServer()
	openDoc(s, testURI, sample)
	ranges, err := s.textDocumentFoldingRange(mockContext(), &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	assert.Equal(t, []fold{
		{4, 15, "region"},
		{8, 10, "region"},
		{12, 14, "region"},
		{2, 3, "comment"},
	}, folds(ranges))
}

func TestCommentFoldingRanges(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []fold
	}{
		{"single line comment", "// one\nBox {}\n", nil},
		{"line comment run", "// a\n// b\n// c\n\n// d\n", []fold{{0, 2, "comment"}}},
		{"block comment", "/* a\n   b */\n", []fold{{0, 1, "comment"}}},
		{"one line block", "/* a */\n// b\n", nil},
		{"separated runs", "// a\n// b\nBox {}\n// c\n// d\n", []fold{{0, 1, "comment"}, {3, 4, "comment"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := commentFoldingRanges(token.NewSource("test.blp", tc.source))
			assert.Equal(t, tc.want, folds(got))
		})
	}
}
