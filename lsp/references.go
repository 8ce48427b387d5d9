// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/language"
)

// textDocumentReferences lists the uses of the object ID under the cursor.
func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	parsed := doc.snapshot().parsed()
	if parsed == nil {
		return nil, nil
	}
	offset := offsetOf(parsed.Source, params.Position)
	id, _, ok := language.IDAt(parsed, s.catalog, offset)
	if !ok {
		return nil, nil
	}
	var locs []protocol.Location
	for _, r := range language.References(parsed, s.catalog, id, params.Context.IncludeDeclaration) {
		locs = append(locs, protocol.Location{URI: params.TextDocument.URI, Range: lspRange(r)})
	}
	return locs, nil
}
