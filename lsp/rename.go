// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"regexp"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/language"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// textDocumentPrepareRename reports the object ID under the cursor, the
// only thing that can be renamed.
func (s *Server) textDocumentPrepareRename(_ *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	parsed := doc.snapshot().parsed()
	if parsed == nil {
		return nil, nil
	}
	id, rng, ok := language.IDAt(parsed, s.catalog, offsetOf(parsed.Source, params.Position))
	if !ok {
		return nil, nil
	}
	return &protocol.RangeWithPlaceholder{
		Range:       lspRange(rng),
		Placeholder: id,
	}, nil
}

// textDocumentRename renames an object ID along with every reference.
func (s *Server) textDocumentRename(_ *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, fmt.Errorf("document not found")
	}
	if !identPattern.MatchString(params.NewName) {
		return nil, fmt.Errorf("%q is not a valid object ID", params.NewName)
	}
	parsed := doc.snapshot().parsed()
	if parsed == nil {
		return nil, fmt.Errorf("document could not be parsed")
	}
	id, _, ok := language.IDAt(parsed, s.catalog, offsetOf(parsed.Source, params.Position))
	if !ok {
		return nil, fmt.Errorf("no object ID at position")
	}

	var edits []protocol.TextEdit
	for _, r := range language.References(parsed, s.catalog, id, true) {
		edits = append(edits, protocol.TextEdit{Range: lspRange(r), NewText: params.NewName})
	}
	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{params.TextDocument.URI: edits},
	}, nil
}
