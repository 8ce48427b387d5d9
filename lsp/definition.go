// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/language"
)

func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	parsed := doc.snapshot().parsed()
	if parsed == nil {
		return nil, nil
	}
	offset := offsetOf(parsed.Source, params.Position)
	link, ok := language.Registry().Definition(parsed.UI, language.Env(s.catalog), offset)
	if !ok {
		return nil, nil
	}
	origin := lspRange(link.Origin)
	return []protocol.LocationLink{{
		OriginSelectionRange: &origin,
		TargetURI:            params.TextDocument.URI,
		TargetRange:          lspRange(link.Target),
		TargetSelectionRange: lspRange(link.TargetSelection),
	}}, nil
}
