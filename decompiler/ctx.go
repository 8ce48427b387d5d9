// Copyright © 2024 The ELPS authors

package decompiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luthersystems/blueprint/typeres"
)

const indentUnit = "  "

// Error is a problem with one element of the input.
type Error struct {
	Tag  string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: <%s>: %s", e.Line, e.Tag, e.Msg)
}

type block struct {
	closer   string
	opener   int
	items    int
	lastItem int
}

// Ctx accumulates output for one document.
type Ctx struct {
	reg     *Registry
	types   *typeres.Context
	added   []*typeres.Namespace
	lines   []string
	blocks  []block
	stack   []*typeres.Type
	prefix  string
	suffix  string
	errs    []error
	current *Element
}

// Decompile converts the element tree rooted at root into source text.
// Elements without a matching entry are reported as errors; the rest of
// the document is still converted and returned alongside them.
func Decompile(root *Element, reg *Registry, catalog *typeres.Catalog) (string, error) {
	ctx := &Ctx{reg: reg, types: typeres.NewContext(catalog)}
	if _, ok := ctx.types.AddNamespace("Gtk", "4.0"); !ok {
		return "", fmt.Errorf("catalog has no Gtk 4.0 namespace")
	}
	ctx.decompile(root)

	var sb strings.Builder
	sb.WriteString("using Gtk 4.0;\n")
	for _, ns := range ctx.added {
		fmt.Fprintf(&sb, "using %s %s;\n", ns.Name, ns.Version)
	}
	if len(ctx.lines) > 0 {
		sb.WriteByte('\n')
	}
	for _, line := range ctx.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String(), errors.Join(ctx.errs...)
}

func (c *Ctx) decompile(el *Element) {
	entry, ok := c.reg.lookup(c.types.Catalog(), c.Type(), el)
	if !ok {
		c.errs = append(c.errs, &Error{Tag: el.Tag, Line: el.Line, Msg: "unsupported element"})
		return
	}
	blocks, types := len(c.blocks), len(c.stack)
	prev := c.current
	c.current = el
	err := entry.Handler(c, el)
	c.current = prev
	if err != nil {
		c.errs = append(c.errs, c.wrap(el, err))
	} else if !entry.CData {
		for _, child := range el.Children {
			c.decompile(child)
		}
	}
	c.prefix, c.suffix = "", ""
	c.closeBlocks(blocks)
	c.stack = c.stack[:types]
}

func (c *Ctx) wrap(el *Element, err error) error {
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Tag: el.Tag, Line: el.Line, Msg: err.Error()}
}

// Errorf returns an error about the element being decompiled.
func (c *Ctx) Errorf(format string, v ...any) error {
	el := c.current
	if el == nil {
		return fmt.Errorf(format, v...)
	}
	return &Error{Tag: el.Tag, Line: el.Line, Msg: fmt.Sprintf(format, v...)}
}

// Print writes one line at the current indentation.  A line ending in "{"
// or "[" opens a block that is closed after the element's children.
func (c *Ctx) Print(line string) {
	line = c.prefix + line
	c.prefix = ""
	opens := strings.HasSuffix(line, "{") || strings.HasSuffix(line, "[")
	if opens && strings.HasSuffix(line, "{") && c.needsBlank() {
		c.lines = append(c.lines, "")
	}
	c.lines = append(c.lines, strings.Repeat(indentUnit, len(c.blocks))+line)
	if opens {
		closer := "}"
		if strings.HasSuffix(line, "[") {
			closer = "]"
		}
		c.blocks = append(c.blocks, block{closer: closer + c.suffix, opener: len(c.lines) - 1})
		c.suffix = ""
	}
}

// PrintItem writes one item of the enclosing list block.  Items are
// separated by commas and the last one has none.
func (c *Ctx) PrintItem(item string) {
	if n := len(c.blocks); n > 0 {
		b := &c.blocks[n-1]
		if b.items > 0 {
			c.lines[b.lastItem] += ","
		}
		c.Print(item)
		b.items++
		b.lastItem = len(c.lines) - 1
		return
	}
	c.Print(item)
}

// Prefix is prepended to the next printed line.
func (c *Ctx) Prefix(s string) {
	c.prefix += s
}

// EndBlockWith appends s to the closer of the next block opened.
func (c *Ctx) EndBlockWith(s string) {
	c.suffix = s
}

func (c *Ctx) needsBlank() bool {
	if len(c.lines) == 0 {
		return false
	}
	last := strings.TrimSpace(c.lines[len(c.lines)-1])
	return last != "" && !strings.HasSuffix(last, "{") && !strings.HasSuffix(last, "[")
}

func (c *Ctx) closeBlocks(depth int) {
	for len(c.blocks) > depth {
		b := c.blocks[len(c.blocks)-1]
		c.blocks = c.blocks[:len(c.blocks)-1]
		if b.opener == len(c.lines)-1 {
			c.lines[b.opener] += b.closer
			continue
		}
		c.lines = append(c.lines, strings.Repeat(indentUnit, len(c.blocks))+b.closer)
	}
}

// PushType sets the enclosing object type for the element's children.
func (c *Ctx) PushType(t *typeres.Type) {
	c.stack = append(c.stack, t)
}

// Type returns the enclosing object type, or nil.
func (c *Ctx) Type() *typeres.Type {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// Types returns the document's import scope.
func (c *Ctx) Types() *typeres.Context {
	return c.types
}

// Catalog returns the catalog types are resolved against.
func (c *Ctx) Catalog() *typeres.Catalog {
	return c.types.Catalog()
}

// ResolveCType finds a type by its C name, importing its namespace if
// necessary.
func (c *Ctx) ResolveCType(ctype string) (*typeres.Type, bool) {
	t, ok := c.types.Catalog().LookupByCType(ctype)
	if !ok {
		return nil, false
	}
	ns := t.Namespace()
	if _, imported := c.types.Namespace(ns.Name); !imported {
		c.types.AddNamespace(ns.Name, ns.Version)
		c.added = append(c.added, ns)
	}
	return t, true
}

// TypeName returns the source spelling of a type.
func (c *Ctx) TypeName(t *typeres.Type) string {
	return c.types.ShortName(t)
}
