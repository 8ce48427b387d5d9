// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/diagnostic"
)

const diagnosticSource = "blueprint"

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.publish(doc)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(s.delay, func() {
		defer func() {
			if v := recover(); v != nil {
				s.log.Errorf("publish %s: %v", doc.URI, v)
			}
		}()
		if d := s.docs.Get(doc.URI); d != nil {
			s.publish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)
	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.publish(doc)
	}
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)
	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// publish compiles a document and sends its diagnostics.  The result is
// dropped when the document changed while it was being compiled.
func (s *Server) publish(doc *Document) {
	snap := doc.snapshot()
	doc.mu.Lock()
	current := doc.Version
	doc.mu.Unlock()
	if current != snap.version {
		s.log.Debugf("discarding diagnostics for %s version %d", snap.uri, snap.version)
		return
	}

	diags := []protocol.Diagnostic{}
	if bug := snap.result.Bug; bug != nil {
		s.log.Errorf("%s: %s\n%s", snap.uri, bug.Message, bug.Stack)
		diags = append(diags, protocol.Diagnostic{
			Severity: severity(protocol.DiagnosticSeverityError),
			Source:   strPtr(diagnosticSource),
			Message:  bug.Error(),
		})
	} else {
		for _, d := range snap.result.Diagnostics {
			diags = append(diags, convertDiagnostic(snap.uri, d))
		}
	}
	version := safeUint(int(snap.version))
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         snap.uri,
		Version:     &version,
		Diagnostics: diags,
	})
}

// convertDiagnostic converts a compiler diagnostic to an LSP diagnostic.
// Hints are appended to the message.
func convertDiagnostic(uri string, d *diagnostic.Diagnostic) protocol.Diagnostic {
	msg := d.Message
	if len(d.Hints) > 0 {
		msg += "\n" + strings.Join(d.Hints, "\n")
	}
	out := protocol.Diagnostic{
		Range:    lspRange(d.Range),
		Severity: severity(mapSeverity(d.Category)),
		Source:   strPtr(diagnosticSource),
		Code:     &protocol.IntegerOrString{Value: d.Category.String()},
		Message:  msg,
	}
	switch d.Category {
	case diagnostic.CategoryDeprecated:
		out.Tags = []protocol.DiagnosticTag{protocol.DiagnosticTagDeprecated}
	case diagnostic.CategoryUnused:
		out.Tags = []protocol.DiagnosticTag{protocol.DiagnosticTagUnnecessary}
	}
	for _, ref := range d.References {
		out.RelatedInformation = append(out.RelatedInformation, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{URI: uri, Range: lspRange(ref.Range)},
			Message:  ref.Message,
		})
	}
	return out
}

func mapSeverity(c diagnostic.Category) protocol.DiagnosticSeverity {
	switch c {
	case diagnostic.CategoryError:
		return protocol.DiagnosticSeverityError
	case diagnostic.CategoryUnused:
		return protocol.DiagnosticSeverityHint
	case diagnostic.CategoryUpgrade:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityWarning
	}
}

func severity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}
