// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/ast"
)

func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	parsed := doc.snapshot().parsed()
	if parsed == nil {
		return nil, nil
	}
	return convertSymbols(ast.Symbols(parsed.UI)), nil
}

func convertSymbols(syms []ast.DocumentSymbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(syms))
	for _, sym := range syms {
		ds := protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           protocol.SymbolKind(sym.Kind),
			Range:          lspRange(sym.Range),
			SelectionRange: lspRange(sym.SelectionRange),
			Children:       convertSymbols(sym.Children),
		}
		if sym.SelectionRange.IsZero() {
			ds.SelectionRange = ds.Range
		}
		if sym.Detail != "" {
			ds.Detail = strPtr(sym.Detail)
		}
		out = append(out, ds)
	}
	return out
}
