// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/parser/lexer"
	"github.com/luthersystems/blueprint/parser/token"
)

// textDocumentFoldingRange returns folding ranges for multi-line blocks
// and comments.
func (s *Server) textDocumentFoldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	snap := doc.snapshot()
	var ranges []protocol.FoldingRange
	if parsed := snap.parsed(); parsed != nil {
		ranges = blockFoldingRanges(parsed.UI)
	}
	ranges = append(ranges, commentFoldingRanges(snap.source())...)
	return ranges, nil
}

// blockFoldingRanges emits one range per starting line for every node
// that spans more than one line.  The outermost node starting on a line
// wins.
func blockFoldingRanges(root ast.Node) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	seen := map[int]bool{}
	for n := range ast.All(root) {
		if n == root {
			continue
		}
		start, end := n.Range().StartPos().Line, n.Range().EndPos().Line
		if end <= start || seen[start] {
			continue
		}
		seen[start] = true
		ranges = append(ranges, foldingRange(start, end, protocol.FoldingRangeKindRegion))
	}
	return ranges
}

// commentFoldingRanges folds multi-line block comments and runs of two or
// more line comments on consecutive lines.
func commentFoldingRanges(src *token.Source) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	runStart, runEnd := -1, -1
	flush := func() {
		if runStart >= 0 && runEnd > runStart {
			ranges = append(ranges, foldingRange(runStart, runEnd, protocol.FoldingRangeKindComment))
		}
		runStart, runEnd = -1, -1
	}
	for _, tok := range lexer.Tokenize(src) {
		if tok.Kind != token.Comment {
			continue
		}
		start, end := tok.Range.StartPos().Line, tok.Range.EndPos().Line
		if !strings.HasPrefix(tok.Text, "//") {
			flush()
			if end > start {
				ranges = append(ranges, foldingRange(start, end, protocol.FoldingRangeKindComment))
			}
			continue
		}
		if runEnd >= 0 && start == runEnd+1 {
			runEnd = start
			continue
		}
		flush()
		runStart, runEnd = start, start
	}
	flush()
	return ranges
}

// foldingRange builds a range from 1-based lines.
func foldingRange(start, end int, kind protocol.FoldingRangeKind) protocol.FoldingRange {
	k := string(kind)
	return protocol.FoldingRange{
		StartLine: safeUint(start - 1),
		EndLine:   safeUint(end - 1),
		Kind:      &k,
	}
}
