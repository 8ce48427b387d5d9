// Copyright © 2024 The ELPS authors

package lsp

import (
	"context"
	"sort"
	"sync"

	"github.com/luthersystems/blueprint/compiler"
	"github.com/luthersystems/blueprint/language"
	"github.com/luthersystems/blueprint/parser/token"
	"github.com/luthersystems/blueprint/typeres"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string
	catalog *typeres.Catalog
	result  *compiler.Result
}

// compile returns the compile result for the current content, compiling
// it when the cached result is stale.  The caller must hold d.mu.
func (d *Document) compile() *compiler.Result {
	if d.result == nil {
		d.result = compiler.Compile(context.Background(), token.NewSource(uriToPath(d.URI), d.Content), d.catalog)
	}
	return d.result
}

// snapshot is the state of a document at one version.
type snapshot struct {
	uri     string
	version int32
	content string
	result  *compiler.Result
}

// parsed returns the syntax tree, which is nil only when the compiler
// failed before producing one.
func (s snapshot) parsed() *language.Document {
	if s.result == nil {
		return nil
	}
	return s.result.Document
}

func (s snapshot) source() *token.Source {
	if doc := s.parsed(); doc != nil {
		return doc.Source
	}
	return token.NewSource(uriToPath(s.uri), s.content)
}

// snapshot compiles the document if necessary and returns its current
// state.
func (d *Document) snapshot() snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return snapshot{uri: d.URI, version: d.Version, content: d.Content, result: d.compile()}
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu      sync.RWMutex
	docs    map[string]*Document
	catalog *typeres.Catalog
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore(catalog *typeres.Catalog) *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document), catalog: catalog}
}

// Open adds a document to the store.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
		catalog: s.catalog,
	}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change replaces a document's content (full sync) and drops its cached
// compile result.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri, catalog: s.catalog}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.result = nil
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns the open documents ordered by URI.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	docs := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	s.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })
	return docs
}
