// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/ast"
)

// workspaceSymbol returns the symbols of every open document whose name
// fuzzily matches the query. An empty query returns all symbols.
func (s *Server) workspaceSymbol(_ *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	var results []protocol.SymbolInformation
	for _, doc := range s.docs.All() {
		snap := doc.snapshot()
		parsed := snap.parsed()
		if parsed == nil {
			continue
		}
		results = appendSymbolInfo(results, snap.uri, "", ast.Symbols(parsed.UI), params.Query)
	}
	return results, nil
}

func appendSymbolInfo(out []protocol.SymbolInformation, uri, container string, syms []ast.DocumentSymbol, query string) []protocol.SymbolInformation {
	for _, sym := range syms {
		if query == "" || fuzzy.MatchFold(query, sym.Name) {
			si := protocol.SymbolInformation{
				Name:     sym.Name,
				Kind:     protocol.SymbolKind(sym.Kind),
				Location: protocol.Location{URI: uri, Range: lspRange(sym.Range)},
			}
			if container != "" {
				si.ContainerName = strPtr(container)
			}
			out = append(out, si)
		}
		out = appendSymbolInfo(out, uri, sym.Name, sym.Children, query)
	}
	return out
}
