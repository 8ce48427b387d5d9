// Copyright © 2024 The ELPS authors

package lsp

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/compiler"
	"github.com/luthersystems/blueprint/parser/token"
)

// textDocumentFormatting returns a single whole-document edit with the
// canonical form of the document, or nil when it is already formatted or
// does not compile.
func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	snap := doc.snapshot()
	if snap.content == "" || snap.result.Failed() {
		return nil, nil
	}

	src := snap.source()
	formatted, _, err := compiler.Format(context.Background(), src, s.catalog)
	if err != nil {
		// Return nil edits (not an error) so the editor doesn't show an
		// error dialog for code that cannot be formatted.
		s.log.Debugf("format %s: %v", snap.uri, err)
		return nil, nil
	}
	if formatted == snap.content {
		return nil, nil
	}
	return []protocol.TextEdit{{
		Range:   lspRange(token.NewRange(src, 0, len(src.Text))),
		NewText: formatted,
	}}, nil
}
