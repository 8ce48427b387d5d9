// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/luthersystems/blueprint/language"
	"github.com/luthersystems/blueprint/parser/token"
)

// completer implements readline.AutoCompleter using the language's
// completions at the end of the line being typed.
type completer struct {
	session *Session
	pending *strings.Builder
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && isWordRune(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])

	typed := c.pending.String() + string(line[:pos])
	text := c.session.Text(typed)
	// Completion happens at the end of the typed snippet, before the
	// newline Text appends after it.
	offset := len(text) - 1
	if strings.TrimSpace(typed) == "" {
		offset = len(text)
	}
	doc, _ := language.Parse(token.NewSource("<repl>", text))
	comps := language.Registry().Completions(doc.UI, language.Env(c.session.catalog), doc.Tokens, offset)

	seen := map[string]bool{}
	var labels []string
	for _, comp := range comps {
		if strings.HasPrefix(comp.Label, prefix) && !seen[comp.Label] {
			seen[comp.Label] = true
			labels = append(labels, comp.Label)
		}
	}
	if len(labels) == 0 {
		return nil, 0
	}
	sort.Strings(labels)
	result := make([][]rune, 0, len(labels))
	for _, l := range labels {
		result = append(result, []rune(l[len(prefix):]))
	}
	return result, len([]rune(prefix))
}

func isWordRune(r rune) bool {
	return r == '_' || r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
