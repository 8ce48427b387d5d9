// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/luthersystems/blueprint/parser/token"
)

// Renderer formats diagnostics as annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode
	// TabWidth is the display width of a tab in source lines.  Zero
	// means token.TabWidth.
	TabWidth int
}

func (r *Renderer) tabWidth() int {
	if r.TabWidth > 0 {
		return r.TabWidth
	}
	return token.TabWidth
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d *Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}
	r.render(ew, d, p)
	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.  When
// there is more than one diagnostic a summary count follows them.
func (r *Renderer) RenderAll(w io.Writer, diags List) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}
	for i, d := range diags {
		if i > 0 {
			ew.print("\n")
		}
		r.render(ew, d, p)
	}
	if len(diags) > 1 {
		ew.printf("\n%s\n", p.bold(diags.Summary()))
	}
	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes. This avoids checking every fmt.Fprintf return value.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

func (r *Renderer) render(ew *errWriter, d *Diagnostic, p palette) {
	cat := p.category(d.Category)
	ew.printf("%s %s\n", cat(d.Category.Label()+":"), p.bold(d.Message))
	if !d.Range.IsZero() {
		r.writeSpan(ew, d.Range, cat, p, false)
	}
	for _, hint := range d.Hints {
		ew.printf("   %s hint: %s\n", p.gutter("="), hint)
	}
	for _, a := range d.Actions {
		old := d.ActionRange(a).Text()
		switch {
		case old == "":
			ew.printf("   %s suggestion: insert %s\n", p.gutter("="), p.insert(a.Replace))
		case a.Replace == "":
			ew.printf("   %s suggestion: remove %s\n", p.gutter("="), p.remove(old))
		default:
			ew.printf("   %s suggestion: replace %s with %s\n", p.gutter("="), p.remove(old), p.insert(a.Replace))
		}
	}
	for _, ref := range d.References {
		ew.printf("   %s note: %s\n", p.gutter("="), ref.Message)
		if !ref.Range.IsZero() {
			r.writeSpan(ew, ref.Range, p.faint, p, true)
		}
	}
}

// writeSpan prints the location line, the first source line of rng and a
// caret underline.  Spans that cross lines are underlined to the end of
// their first line.  A single caret is drawn when single is set.
func (r *Renderer) writeSpan(ew *errWriter, rng token.Range, caret paint, p palette, single bool) {
	start, end := rng.StartPos(), rng.EndPos()
	ew.printf("  %s %s:%d:%d\n", p.gutter("-->"), rng.Src.Name, start.Line, start.Col)

	line := rng.Src.Line(start.Line)
	lineStr := strconv.Itoa(start.Line)
	pad := strings.Repeat(" ", len(lineStr))

	ew.printf(" %s\n", p.gutter(pad+" |"))
	ew.printf(" %s  %s\n", p.gutter(lineStr+" |"), r.expandTabs(line))

	lineStart := rng.Src.LineStart(start.Line)
	col := min(rng.Start-lineStart, len(line))
	n := 1
	if !single {
		stop := len(line)
		if end.Line == start.Line {
			stop = min(rng.End-lineStart, len(line))
		}
		if stop > col {
			n = max(1, r.displayWidth(line[col:stop]))
		}
	}
	ew.printf(" %s  %s%s\n", p.gutter(pad+" |"), strings.Repeat(" ", r.displayWidth(line[:col])), caret(strings.Repeat("^", n)))
}

func (r *Renderer) displayWidth(s string) int {
	return token.DisplayWidthTabs(s, r.tabWidth())
}

func (r *Renderer) expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", r.tabWidth()))
}

// fileFromWriter attempts to extract an *os.File from a writer for terminal
// detection. Returns nil if the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
