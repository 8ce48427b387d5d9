// Copyright © 2024 The ELPS authors

// Package lsp implements a Language Server Protocol server for blueprint
// files.  It provides diagnostics with quick fixes, hover, completion,
// go-to-definition, references, rename, document and workspace symbols,
// folding, semantic tokens and formatting.
package lsp

import (
	"os"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/typeres"
)

const serverName = "blueprint-lsp"

// DefaultDebounce is the delay between the last edit of a document and the
// publication of its diagnostics.
const DefaultDebounce = 300 * time.Millisecond

// Server is the blueprint language server.
type Server struct {
	handler protocol.Handler
	glspSrv *glspserver.Server
	docs    *DocumentStore
	catalog *typeres.Catalog
	log     commonlog.Logger
	version string

	// Debouncer for didChange notifications.
	delay      time.Duration
	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	// Overridable for testing.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithCatalog sets the type catalog documents are checked against.  The
// default catalog is used otherwise.
func WithCatalog(c *typeres.Catalog) Option {
	return func(s *Server) { s.catalog = c }
}

// WithDebounce sets the delay before diagnostics are republished after an
// edit.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// WithVersion sets the version reported to clients.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a new blueprint LSP server.
func New(opts ...Option) *Server {
	s := &Server{
		delay:    DefaultDebounce,
		debounce: make(map[string]*time.Timer),
		exitFn:   os.Exit,
		log:      commonlog.GetLogger(serverName),
		version:  "0.1.0",
	}
	for _, o := range opts {
		o(s)
	}
	if s.catalog == nil {
		s.catalog = typeres.MustDefault()
	}
	s.docs = NewDocumentStore(s.catalog)

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:              s.textDocumentHover,
		TextDocumentDefinition:         s.textDocumentDefinition,
		TextDocumentCompletion:         s.textDocumentCompletion,
		TextDocumentReferences:         s.textDocumentReferences,
		TextDocumentDocumentSymbol:     s.textDocumentDocumentSymbol,
		TextDocumentRename:             s.textDocumentRename,
		TextDocumentPrepareRename:      s.textDocumentPrepareRename,
		TextDocumentFormatting:         s.textDocumentFormatting,
		TextDocumentCodeAction:         s.textDocumentCodeAction,
		TextDocumentFoldingRange:       s.textDocumentFoldingRange,
		TextDocumentSemanticTokensFull: s.textDocumentSemanticTokensFull,
		WorkspaceSymbol:                s.workspaceSymbol,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)
	if params.ClientInfo != nil {
		s.log.Infof("initialize: client %s", params.ClientInfo.Name)
	}

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", ":", "$", " "},
	}
	capabilities.RenameProvider = &protocol.RenameOptions{
		PrepareProvider: boolPtr(true),
	}
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: semanticTokenLegend(),
		Full:   true,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()
	return nil
}

func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// captureNotify stores the notification function from the context for
// async use (e.g., publishing diagnostics after a debounce).
func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
