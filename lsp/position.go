// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"fortio.org/safecast"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/luthersystems/blueprint/parser/token"
)

// safeUint converts a non-negative int to protocol.UInteger, clamping
// values out of range.
func safeUint(n int) protocol.UInteger {
	v, err := safecast.Conv[protocol.UInteger](n)
	if err != nil {
		if n < 0 {
			return 0
		}
		return ^protocol.UInteger(0)
	}
	return v
}

// utf16Len returns the number of UTF-16 code units encoding s.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// lspPosition converts a byte offset of src to an LSP position, whose
// character is counted in UTF-16 code units.
func lspPosition(src *token.Source, offset int) protocol.Position {
	pos := src.Pos(offset)
	start := src.LineStart(pos.Line)
	return protocol.Position{
		Line:      safeUint(pos.Line - 1),
		Character: safeUint(utf16Len(src.Text[start:pos.Offset])),
	}
}

// lspRange converts a source range to an LSP range.
func lspRange(r token.Range) protocol.Range {
	if r.IsZero() {
		return protocol.Range{}
	}
	return protocol.Range{Start: lspPosition(r.Src, r.Start), End: lspPosition(r.Src, r.End)}
}

// offsetOf converts an LSP position to a byte offset of src.  Positions
// past the end of a line resolve to the end of the line.
func offsetOf(src *token.Source, pos protocol.Position) int {
	line := int(pos.Line) + 1
	if line > src.LineCount() {
		return len(src.Text)
	}
	start := src.LineStart(line)
	text := src.Line(line)
	want := int(pos.Character)
	units := 0
	for i, r := range text {
		if units >= want {
			return start + i
		}
		units += utf16.RuneLen(r)
	}
	return start + len(text)
}

// rangeOf converts an LSP range to a source range.
func rangeOf(src *token.Source, r protocol.Range) token.Range {
	return token.NewRange(src, offsetOf(src, r.Start), offsetOf(src, r.End))
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}

// pathToURI converts a filesystem path to a file:// URI.
func pathToURI(path string) string {
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return path
}

// wordBefore returns the identifier characters immediately preceding
// offset.
func wordBefore(text string, offset int) string {
	start := offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	return text[start:offset]
}

func isWordRune(r rune) bool {
	return r == '_' || r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
