// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/language"
	"github.com/luthersystems/blueprint/parser/lexer"
	"github.com/luthersystems/blueprint/parser/token"
	"github.com/luthersystems/blueprint/typeres"
)

// Semantic token type indices; must match the order in semanticTokenLegend().
const (
	semTokenNamespace = iota
	semTokenType
	semTokenClass
	semTokenEnumMember
	semTokenProperty
	semTokenEvent
	semTokenFunction
	semTokenVariable
	semTokenKeyword
	semTokenComment
	semTokenString
	semTokenNumber
	semTokenOperator
)

// Semantic token modifier bit flags; must match the order in semanticTokenLegend().
const (
	semModDeclaration = 1 << iota
)

// semanticTokenLegend returns the legend that the client uses to decode tokens.
func semanticTokenLegend() protocol.SemanticTokensLegend {
	return protocol.SemanticTokensLegend{
		TokenTypes: []string{
			"namespace",  // 0
			"type",       // 1
			"class",      // 2
			"enumMember", // 3
			"property",   // 4
			"event",      // 5
			"function",   // 6
			"variable",   // 7
			"keyword",    // 8
			"comment",    // 9
			"string",     // 10
			"number",     // 11
			"operator",   // 12
		},
		TokenModifiers: []string{
			"declaration", // bit 0
		},
	}
}

// rawToken is an intermediate representation before delta encoding.
type rawToken struct {
	line      int // 0-based
	startChar int // 0-based, UTF-16 units
	length    int
	tokenType int
	modifiers int
}

func (s *Server) textDocumentSemanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	parsed := doc.snapshot().parsed()
	if parsed == nil {
		return nil, nil
	}
	tokens := semanticTokens(parsed, s.catalog)
	return &protocol.SemanticTokens{Data: deltaEncode(tokens)}, nil
}

// semanticTokens classifies every token of the document, in source order.
func semanticTokens(doc *language.Document, catalog *typeres.Catalog) []rawToken {
	env := language.Registry().EnvAt(language.Env(catalog), doc.UI)
	scope, _ := ast.LookupContext[*language.ScopeCtx](env)
	var out []rawToken
	for _, tok := range lexer.Tokenize(doc.Source) {
		typ, mods, ok := classify(doc.UI, scope, tok)
		if !ok {
			continue
		}
		out = appendLines(out, tok.Range, typ, mods)
	}
	return out
}

func classify(root ast.Node, scope *language.ScopeCtx, tok token.Token) (typ, mods int, ok bool) {
	switch tok.Kind {
	case token.Comment:
		return semTokenComment, 0, true
	case token.Quoted:
		return semTokenString, 0, true
	case token.Number:
		return semTokenNumber, 0, true
	case token.Op:
		return semTokenOperator, 0, true
	case token.Ident:
	default:
		return 0, 0, false
	}

	n := ast.NodeAt(root, tok.Range.Start)
	at := func(capture string) bool {
		r := n.Capture(capture)
		return !r.IsZero() && r.Start == tok.Range.Start
	}
	switch n := n.(type) {
	case *language.GtkDirective:
		if tok.Text == "Gtk" {
			return semTokenNamespace, 0, true
		}
	case *language.Import, *language.TypeName:
		switch {
		case at("namespace"):
			return semTokenNamespace, 0, true
		case at("class_name"):
			return semTokenClass, 0, true
		}
	case *language.Template:
		if at("id") {
			return semTokenClass, semModDeclaration, true
		}
	case *language.Object, *language.Menu:
		if at("id") {
			return semTokenVariable, semModDeclaration, true
		}
	case *language.Property, *language.MenuAttribute:
		if at("name") {
			return semTokenProperty, 0, true
		}
	case *language.Signal:
		switch {
		case at("name"), at("detail"):
			return semTokenEvent, 0, true
		case at("handler"):
			return semTokenFunction, 0, true
		case at("object"):
			return semTokenVariable, 0, true
		}
	case *language.Child:
		if at("child_type") {
			return semTokenType, 0, true
		}
	case *language.SizeGroupWidget:
		return semTokenVariable, 0, true
	case *language.ComboItem:
		if at("name") {
			return semTokenProperty, 0, true
		}
	case *language.Translated:
		if tok.Text == "_" || tok.Text == "C_" {
			return semTokenFunction, 0, true
		}
	case *language.Literal:
		switch {
		case tok.Text == "true" || tok.Text == "false":
			return semTokenKeyword, 0, true
		case n.Kind == language.LiteralIdent:
			if scope != nil {
				if _, linked := scope.Lookup(n.Value); linked {
					return semTokenVariable, 0, true
				}
			}
			return semTokenEnumMember, 0, true
		}
	}
	return semTokenKeyword, 0, true
}

// appendLines adds a token, split at line breaks since clients are not
// required to support tokens spanning lines.
func appendLines(out []rawToken, r token.Range, typ, mods int) []rawToken {
	src := r.Src
	for line := r.StartPos().Line; line <= r.EndPos().Line; line++ {
		start := max(r.Start, src.LineStart(line))
		end := min(r.End, src.LineStart(line)+len(src.Line(line)))
		if end <= start {
			continue
		}
		pos := lspPosition(src, start)
		out = append(out, rawToken{
			line:      int(pos.Line),
			startChar: int(pos.Character),
			length:    utf16Len(src.Text[start:end]),
			tokenType: typ,
			modifiers: mods,
		})
	}
	return out
}

// deltaEncode converts tokens sorted by position to the relative encoding
// of the protocol.
func deltaEncode(tokens []rawToken) []protocol.UInteger {
	data := make([]protocol.UInteger, 0, len(tokens)*5)
	prevLine := 0
	prevChar := 0
	for _, tok := range tokens {
		deltaLine := tok.line - prevLine
		deltaChar := tok.startChar
		if deltaLine == 0 {
			deltaChar = tok.startChar - prevChar
		}
		data = append(data,
			safeUint(deltaLine),
			safeUint(deltaChar),
			safeUint(tok.length),
			safeUint(tok.tokenType),
			safeUint(tok.modifiers),
		)
		prevLine = tok.line
		prevChar = tok.startChar
	}
	return data
}
