// Copyright © 2024 The ELPS authors

package repl

import (
	"context"
	"strings"

	"github.com/luthersystems/blueprint/compiler"
	"github.com/luthersystems/blueprint/parser/lexer"
	"github.com/luthersystems/blueprint/parser/token"
	"github.com/luthersystems/blueprint/typeres"
)

const gtkDirective = "using Gtk 4.0;\n"

// Session is the document built up by the snippets entered so far.
// Snippets that fail to compile are not kept.
type Session struct {
	catalog *typeres.Catalog
	imports []string
	body    []string
}

// NewSession returns an empty session resolving types against catalog.
func NewSession(catalog *typeres.Catalog) *Session {
	return &Session{catalog: catalog}
}

// Reset discards every snippet.
func (s *Session) Reset() {
	s.imports, s.body = nil, nil
}

// Text returns the session document with pending appended to its body.
func (s *Session) Text(pending string) string {
	imports, body := s.imports, s.body
	if isImport(pending) {
		imports = append(imports[:len(imports):len(imports)], pending)
	} else if strings.TrimSpace(pending) != "" {
		body = append(body[:len(body):len(body)], pending)
	}
	var sb strings.Builder
	sb.WriteString(gtkDirective)
	for _, imp := range imports {
		sb.WriteString(imp)
		sb.WriteByte('\n')
	}
	for _, b := range body {
		sb.WriteByte('\n')
		sb.WriteString(b)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Eval compiles the session with snippet added and keeps the snippet when
// the result has no errors.
func (s *Session) Eval(ctx context.Context, snippet string) *compiler.Result {
	snippet = strings.TrimSpace(snippet)
	res := compiler.Compile(ctx, token.NewSource("<repl>", s.Text(snippet)), s.catalog)
	if res.Failed() {
		return res
	}
	if isImport(snippet) {
		s.imports = append(s.imports, snippet)
	} else if snippet != "" {
		s.body = append(s.body, snippet)
	}
	return res
}

func isImport(snippet string) bool {
	return strings.HasPrefix(strings.TrimSpace(snippet), "using ")
}

// complete reports whether input forms a whole snippet: every bracket is
// closed and it ends with a semicolon or a closing brace.  Input the lexer
// rejects is complete so that the compiler can report it.
func complete(input string) bool {
	depth := 0
	var last token.Token
	for _, tok := range lexer.Significant(lexer.Tokenize(token.NewSource("<repl>", input))) {
		switch tok.Kind {
		case token.EOF:
			continue
		case token.Error:
			return true
		case token.Punct:
			switch tok.Text {
			case "{", "[", "(":
				depth++
			case "}", "]", ")":
				depth--
			}
		}
		last = tok
	}
	if depth > 0 || last.Kind != token.Punct {
		return depth < 0
	}
	return last.Text == ";" || last.Text == "}"
}
