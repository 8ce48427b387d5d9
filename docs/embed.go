// Copyright © 2024 The ELPS authors

// Package docs embeds the syntax reference used for hover text and the
// CLI.
package docs

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// Reference is the syntax reference in markdown.
//
//go:embed reference.md
var Reference string

// Width is the column hover text is wrapped to.
const Width = 72

var sections = sync.OnceValue(func() map[string]string {
	m := make(map[string]string)
	var name string
	var body []string
	flush := func() {
		if name != "" {
			m[name] = strings.TrimSpace(strings.Join(body, "\n"))
		}
	}
	for _, line := range strings.Split(Reference, "\n") {
		if title, ok := strings.CutPrefix(line, "## "); ok {
			flush()
			name, body = strings.TrimSpace(title), nil
			continue
		}
		body = append(body, line)
	}
	flush()
	return m
})

// Section returns the text of a reference section, unwrapped.
func Section(name string) (string, bool) {
	s, ok := sections()[name]
	return s, ok
}

// SectionNames returns the names of every reference section in document
// order.
func SectionNames() []string {
	var names []string
	for _, line := range strings.Split(Reference, "\n") {
		if title, ok := strings.CutPrefix(line, "## "); ok {
			names = append(names, strings.TrimSpace(title))
		}
	}
	return names
}

// Wrap reflows paragraphs of text to width columns.
func Wrap(text string, width int) string {
	paras := strings.Split(text, "\n\n")
	for i, p := range paras {
		paras[i] = wordwrap.String(strings.Join(strings.Fields(p), " "), width)
	}
	return strings.Join(paras, "\n\n")
}

// Indent wraps text to width and indents every line by n spaces.
func Indent(text string, width, n int) string {
	return indent.String(Wrap(text, width-n), uint(n))
}

// Hover formats a title and a body for an editor hover.
func Hover(title, body string) string {
	if body == "" {
		return title
	}
	return title + "\n\n" + Wrap(body, Width)
}
