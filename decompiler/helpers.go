// Copyright © 2024 The ELPS authors

package decompiler

import (
	"strings"

	"github.com/luthersystems/blueprint/parser/grammar"
)

// EscapeQuote returns s as a double quoted string literal.
func EscapeQuote(s string) string {
	return grammar.Quote(s)
}

// Truthy reports whether a GtkBuilder boolean attribute is set.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "y", "yes", "true":
		return true
	}
	return false
}

// Translatable returns the source form of a possibly translated string and
// a translator comment, which is empty when comments is.
func Translatable(cdata, translatable, context, comments string) (value, comment string) {
	if comments != "" {
		comment = "/* Translators: " + strings.ReplaceAll(comments, "*/", "* /") + " */"
	}
	switch {
	case !Truthy(translatable):
		value = EscapeQuote(cdata)
	case context != "":
		value = "C_(" + EscapeQuote(context) + ", " + EscapeQuote(cdata) + ")"
	default:
		value = "_(" + EscapeQuote(cdata) + ")"
	}
	return value, comment
}
