// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/language"
)

func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	parsed := doc.snapshot().parsed()
	if parsed == nil {
		return nil, nil
	}
	offset := offsetOf(parsed.Source, params.Position)
	comps := language.Registry().Completions(parsed.UI, language.Env(s.catalog), parsed.Tokens, offset)
	return completionItems(comps, wordBefore(parsed.Source.Text, offset)), nil
}

// completionItems converts completions to LSP items.  When the user has
// typed a prefix, items that fuzzily match it are kept, best match first.
func completionItems(comps []ast.Completion, prefix string) []protocol.CompletionItem {
	order := make([]int, 0, len(comps))
	if prefix == "" {
		for i := range comps {
			order = append(order, i)
		}
	} else {
		labels := make([]string, len(comps))
		for i, c := range comps {
			labels[i] = c.Label
		}
		ranks := fuzzy.RankFindFold(prefix, labels)
		sort.Stable(ranks)
		for _, r := range ranks {
			order = append(order, r.OriginalIndex)
		}
	}

	items := make([]protocol.CompletionItem, 0, len(order))
	for rank, i := range order {
		c := comps[i]
		kind := mapCompletionKind(c.Kind)
		item := protocol.CompletionItem{
			Label:    c.Label,
			Kind:     &kind,
			SortText: strPtr(fmt.Sprintf("%04d", rank)),
		}
		if c.Detail != "" {
			item.Detail = strPtr(c.Detail)
		}
		if c.Doc != "" {
			item.Documentation = protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: c.Doc,
			}
		}
		if c.Deprecated {
			item.Deprecated = boolPtr(true)
			item.Tags = []protocol.CompletionItemTag{protocol.CompletionItemTagDeprecated}
		}
		if c.Snippet != "" {
			format := protocol.InsertTextFormatSnippet
			item.InsertTextFormat = &format
		}
		if text := c.InsertText(); text != c.Label {
			item.InsertText = strPtr(text)
		}
		items = append(items, item)
	}
	return items
}

func mapCompletionKind(k ast.CompletionKind) protocol.CompletionItemKind {
	switch k {
	case ast.CompletionKeyword:
		return protocol.CompletionItemKindKeyword
	case ast.CompletionSnippet:
		return protocol.CompletionItemKindSnippet
	case ast.CompletionClass:
		return protocol.CompletionItemKindClass
	case ast.CompletionProperty:
		return protocol.CompletionItemKindProperty
	case ast.CompletionEvent:
		return protocol.CompletionItemKindEvent
	case ast.CompletionEnumMember:
		return protocol.CompletionItemKindEnumMember
	case ast.CompletionModule:
		return protocol.CompletionItemKindModule
	case ast.CompletionValue:
		return protocol.CompletionItemKindValue
	default:
		return protocol.CompletionItemKindText
	}
}
