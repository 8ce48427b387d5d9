// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"fmt"
	"sort"
	"strings"
)

// List aggregates the diagnostics of one compile.
type List []*Diagnostic

// HasErrors reports whether any diagnostic fails the compile.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Category.IsError() {
			return true
		}
	}
	return false
}

// HasFatal reports whether any diagnostic is fatal.
func (l List) HasFatal() bool {
	for _, d := range l {
		if d.Fatal {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with the given category.
func (l List) Count(cat Category) int {
	n := 0
	for _, d := range l {
		if d.Category == cat {
			n++
		}
	}
	return n
}

// Sort orders diagnostics by source position.  Diagnostics without a range
// sort first.  Equal positions keep their relative order.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Range.Start < l[j].Range.Start
	})
}

// Summary describes the number of errors and warnings in the list.
func (l List) Summary() string {
	errs := 0
	for _, d := range l {
		if d.Category.IsError() {
			errs++
		}
	}
	warns := len(l) - errs
	var parts []string
	if errs > 0 || warns == 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	return strings.Join(parts, ", ")
}

// Error joins the messages of all diagnostics so that a List can be
// returned where an error is expected.
func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, d := range l {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
