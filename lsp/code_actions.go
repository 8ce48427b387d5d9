// Copyright © 2024 The ELPS authors

package lsp

import (
	"slices"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCodeAction returns quick fixes for the diagnostics touching
// the requested range.
func (s *Server) textDocumentCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	if len(params.Context.Only) > 0 && !slices.Contains(params.Context.Only, protocol.CodeActionKindQuickFix) {
		return nil, nil
	}
	snap := doc.snapshot()
	if snap.result.Bug != nil {
		return nil, nil
	}
	want := rangeOf(snap.source(), params.Range)

	var actions []protocol.CodeAction
	for _, d := range snap.result.Diagnostics {
		if d.Range.IsZero() || d.Range.Start > want.End || want.Start > d.Range.End {
			continue
		}
		lspDiag := convertDiagnostic(snap.uri, d)
		for _, a := range d.Actions {
			kind := protocol.CodeActionKindQuickFix
			actions = append(actions, protocol.CodeAction{
				Title:       a.Title,
				Kind:        &kind,
				Diagnostics: []protocol.Diagnostic{lspDiag},
				IsPreferred: boolPtr(len(d.Actions) == 1),
				Edit: &protocol.WorkspaceEdit{
					Changes: map[protocol.DocumentUri][]protocol.TextEdit{
						snap.uri: {{
							Range:   lspRange(d.ActionRange(a)),
							NewText: a.Replace,
						}},
					},
				},
			})
		}
	}
	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}
