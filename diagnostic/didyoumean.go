// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// DidYouMean attaches suggestions for a misspelled word chosen from
// options.  When a close enough option exists a code action replacing the
// diagnostic's range is added as well.
func (d *Diagnostic) DidYouMean(word string, options []string) *Diagnostic {
	if alt := strings.ReplaceAll(word, "_", "-"); alt != word && slices.Contains(options, alt) {
		return d.Hint("use '-', not '_': `%s`", alt)
	}
	rec, ok := Closest(word, options)
	if !ok {
		return d.Hint("Did you check your spelling?").Hint("Are your dependencies up to date?")
	}
	if folder.String(word) == folder.String(rec) {
		d.Hint("Did you mean `%s` (note the capitalization)?", rec)
	} else {
		d.Hint("Did you mean `%s`?", rec)
	}
	d.Actions = append(d.Actions, CodeAction{Title: "Change to `" + rec + "`", Replace: rec})
	return d
}

// Closest returns the option nearest to word by edit distance.  Options
// differing only by case always win.  An option is only proposed when it
// is within a third of the word's length, and never further than two edits
// for short words.
func Closest(word string, options []string) (string, bool) {
	folded := folder.String(word)
	best, bestDist := "", -1
	for _, opt := range options {
		f := folder.String(opt)
		if f == folded {
			return opt, true
		}
		dist := fuzzy.LevenshteinDistance(folded, f)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = opt, dist
		}
	}
	if bestDist < 0 || bestDist > maxEdits(word) {
		return "", false
	}
	return best, true
}

func maxEdits(word string) int {
	return max(2, utf8.RuneCountInString(word)/3)
}
