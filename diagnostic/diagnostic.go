// Copyright © 2024 The ELPS authors

// Package diagnostic defines the errors and warnings reported by the
// compiler and renders them as annotated source snippets.
//
// All user-facing problems share the Diagnostic type and differ only by
// Category.  Internal invariant violations use Bug instead and never appear
// in a diagnostic list.
package diagnostic

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/luthersystems/blueprint/parser/token"
)

// Category classifies a diagnostic.  Every category except CategoryError is
// a warning and does not fail a compile.
type Category int

const (
	CategoryError Category = iota
	CategoryWarning
	CategoryDeprecated
	CategoryUnused
	CategoryUpgrade
)

func (c Category) String() string {
	switch c {
	case CategoryError:
		return "error"
	case CategoryWarning:
		return "warning"
	case CategoryDeprecated:
		return "deprecated"
	case CategoryUnused:
		return "unused"
	case CategoryUpgrade:
		return "upgrade"
	default:
		return "unknown"
	}
}

// Label is the tag printed in front of the message.  Deprecated and unused
// diagnostics display as plain warnings.
func (c Category) Label() string {
	switch c {
	case CategoryDeprecated, CategoryUnused:
		return "warning"
	default:
		return c.String()
	}
}

// IsError reports whether diagnostics of this category fail a compile.
func (c Category) IsError() bool {
	return c == CategoryError
}

func (c Category) attrs() []color.Attribute {
	switch c {
	case CategoryError:
		return []color.Attribute{color.FgRed, color.Bold}
	case CategoryUpgrade:
		return []color.Attribute{color.FgMagenta, color.Bold}
	default:
		return []color.Attribute{color.FgYellow, color.Bold}
	}
}

// CodeAction is an edit that resolves a diagnostic.
type CodeAction struct {
	Title   string
	Replace string
	// EditRange is the span to replace.  When zero the diagnostic's own
	// range is used.
	EditRange token.Range
}

// Reference points at a secondary location related to a diagnostic.
type Reference struct {
	Range   token.Range
	Message string
}

// Diagnostic is a single error or warning.
type Diagnostic struct {
	Category   Category
	Message    string
	Range      token.Range
	Hints      []string
	Actions    []CodeAction
	References []Reference
	// Fatal diagnostics prevent any output from being produced, even
	// best-effort output.
	Fatal bool
}

// New returns a diagnostic of the given category.
func New(cat Category, msg string) *Diagnostic {
	return &Diagnostic{Category: cat, Message: msg}
}

// Errorf returns an error diagnostic with a formatted message.
func Errorf(format string, v ...interface{}) *Diagnostic {
	return New(CategoryError, fmt.Sprintf(format, v...))
}

// Warningf returns a warning diagnostic with a formatted message.
func Warningf(format string, v ...interface{}) *Diagnostic {
	return New(CategoryWarning, fmt.Sprintf(format, v...))
}

// Deprecatedf returns a deprecation warning with a formatted message.
func Deprecatedf(format string, v ...interface{}) *Diagnostic {
	return New(CategoryDeprecated, fmt.Sprintf(format, v...))
}

// Unusedf returns an unused-code warning with a formatted message.
func Unusedf(format string, v ...interface{}) *Diagnostic {
	return New(CategoryUnused, fmt.Sprintf(format, v...))
}

// Upgradef returns a warning suggesting newer syntax.
func Upgradef(format string, v ...interface{}) *Diagnostic {
	return New(CategoryUpgrade, fmt.Sprintf(format, v...))
}

func (d *Diagnostic) Error() string {
	if d.Range.IsZero() {
		return fmt.Sprintf("%s: %s", d.Category.Label(), d.Message)
	}
	return fmt.Sprintf("%v: %s: %s", d.Range, d.Category.Label(), d.Message)
}

// At sets the diagnostic's range.
func (d *Diagnostic) At(r token.Range) *Diagnostic {
	d.Range = r
	return d
}

// Hint appends a hint line.
func (d *Diagnostic) Hint(format string, v ...interface{}) *Diagnostic {
	d.Hints = append(d.Hints, fmt.Sprintf(format, v...))
	return d
}

// Action appends a code action.
func (d *Diagnostic) Action(title, replace string, edit token.Range) *Diagnostic {
	d.Actions = append(d.Actions, CodeAction{Title: title, Replace: replace, EditRange: edit})
	return d
}

// Ref appends a reference to a related location.
func (d *Diagnostic) Ref(r token.Range, msg string) *Diagnostic {
	d.References = append(d.References, Reference{Range: r, Message: msg})
	return d
}

// SetFatal marks the diagnostic fatal.
func (d *Diagnostic) SetFatal() *Diagnostic {
	d.Fatal = true
	return d
}

// ActionRange returns the range a code action edits.
func (d *Diagnostic) ActionRange(a CodeAction) token.Range {
	if a.EditRange.IsZero() {
		return d.Range
	}
	return a.EditRange
}
