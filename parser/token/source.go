// Copyright © 2024 The ELPS authors

package token

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// TabWidth is the number of display columns a tab character occupies when
// source is rendered for the user.
const TabWidth = 4

// Source is a named piece of source text with a precomputed line index.
type Source struct {
	Name string
	Text string

	lines []int // byte offset of the first character of each line
}

// NewSource indexes text for offset to line/column conversion.
func NewSource(name, text string) *Source {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &Source{Name: name, Text: text, lines: lines}
}

// Position is an offset resolved against a Source.
type Position struct {
	Offset     int
	Line       int // 1-based
	Col        int // 1-based, counted in runes
	DisplayCol int // 1-based, as measured by DisplayWidth
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// LineCount returns the number of lines in the source.
func (s *Source) LineCount() int {
	return len(s.lines)
}

// LineIndex returns the 0-based line containing offset.
func (s *Source) LineIndex(offset int) int {
	offset = s.clamp(offset)
	return sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > offset }) - 1
}

// Pos resolves a byte offset into a Position.  Offsets outside of the text
// are clamped.
func (s *Source) Pos(offset int) Position {
	offset = s.clamp(offset)
	li := s.LineIndex(offset)
	prefix := s.Text[s.lines[li]:offset]
	return Position{
		Offset:     offset,
		Line:       li + 1,
		Col:        utf8.RuneCountInString(prefix) + 1,
		DisplayCol: DisplayWidth(prefix) + 1,
	}
}

// LineStart returns the byte offset of the first character of the 1-based
// line.
func (s *Source) LineStart(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(s.lines) {
		return len(s.Text)
	}
	return s.lines[line-1]
}

// Line returns the text of the 1-based line without its line terminator.
func (s *Source) Line(line int) string {
	if line < 1 || line > len(s.lines) {
		return ""
	}
	start := s.lines[line-1]
	end := len(s.Text)
	if line < len(s.lines) {
		end = s.lines[line] - 1
	}
	return strings.TrimSuffix(s.Text[start:end], "\r")
}

func (s *Source) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(s.Text) {
		return len(s.Text)
	}
	return offset
}

// DisplayWidth returns the number of terminal columns s occupies, with tabs
// expanded to TabWidth and wide runes counted twice.
func DisplayWidth(s string) int {
	return DisplayWidthTabs(s, TabWidth)
}

// DisplayWidthTabs is DisplayWidth with tabs expanded to tab columns.
func DisplayWidthTabs(s string, tab int) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += tab
		} else {
			w += runewidth.RuneWidth(ch)
		}
	}
	return w
}

// Range is a half-open span [Start, End) of a Source.
type Range struct {
	Start int
	End   int
	Src   *Source
}

// NewRange returns the span [start, end) of src.
func NewRange(src *Source, start, end int) Range {
	if end < start {
		end = start
	}
	return Range{Start: start, End: end, Src: src}
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool {
	return r.Src == nil
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Text returns the source text covered by the range.
func (r Range) Text() string {
	if r.Src == nil {
		return ""
	}
	return r.Src.Text[r.Src.clamp(r.Start):r.Src.clamp(r.End)]
}

// Contains reports whether offset lies inside the range.  The end offset is
// included so a cursor placed just after a token still belongs to it.
func (r Range) Contains(offset int) bool {
	return r.Start <= offset && offset <= r.End
}

// Covers reports whether other lies entirely inside r.
func (r Range) Covers(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Overlaps reports whether the two ranges share at least one offset.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// StartPos resolves the start of the range.
func (r Range) StartPos() Position {
	if r.Src == nil {
		return Position{}
	}
	return r.Src.Pos(r.Start)
}

// EndPos resolves the end of the range.
func (r Range) EndPos() Position {
	if r.Src == nil {
		return Position{}
	}
	return r.Src.Pos(r.End)
}

func (r Range) String() string {
	if r.Src == nil {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%v", r.Src.Name, r.StartPos())
}

// Join returns the smallest range covering a and b.  A zero range is
// ignored.
func Join(a, b Range) Range {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	}
	return Range{Start: min(a.Start, b.Start), End: max(a.End, b.End), Src: a.Src}
}
