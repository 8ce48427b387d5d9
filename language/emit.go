// Copyright © 2024 The ELPS authors

package language

import (
	"strconv"

	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/markup"
	"github.com/luthersystems/blueprint/parser/grammar"
	"github.com/luthersystems/blueprint/typeres"
)

type emitter struct {
	b     *markup.Builder
	types *typeres.Context
}

// Emit renders a validated document as GtkBuilder XML.  The document must
// be free of errors.
func Emit(doc *Document, catalog *typeres.Catalog) string {
	e := &emitter{b: markup.NewBuilder(), types: importContext(doc.UI, catalog)}
	e.ui(doc.UI)
	return e.b.String()
}

func (e *emitter) ui(ui *UI) {
	var domain string
	if td, ok := ui.TranslationDomain(); ok {
		domain = td.Domain
	}
	version := "4.0"
	if gtk, ok := ui.Gtk(); ok {
		version = gtk.Version
	}
	e.b.Start("interface", markup.A("domain", domain))
	e.b.Start("requires", markup.A("lib", "gtk"), markup.A("version", version))
	e.b.End("requires")
	for _, n := range ui.Contents() {
		switch n := n.(type) {
		case *Template:
			e.template(n)
		case *Object:
			e.object(n)
		case *Menu:
			e.menu(n)
		}
	}
	e.b.End("interface")
}

// className returns the GType name of a class reference.
func (e *emitter) className(tn *TypeName) string {
	if tn.Extern {
		return tn.Name
	}
	if t, ok := resolve(e.types, tn); ok && t.CType != "" {
		return t.CType
	}
	return tn.Namespace + tn.Name
}

func (e *emitter) template(t *Template) {
	var parent string
	if tn, ok := t.ClassName(); ok {
		parent = e.className(tn)
	}
	e.b.Start("template", markup.A("class", t.ID), markup.A("parent", parent))
	e.body(t)
	e.b.End("template")
}

func (e *emitter) object(o *Object) {
	tn, ok := o.ClassName()
	diagnostic.Assert(ok, "object without a class survived validation")
	e.b.Start("object", markup.A("class", e.className(tn)), markup.A("id", o.ID))
	e.body(o)
	e.b.End("object")
}

func (e *emitter) body(n classNode) {
	for _, c := range n.Children() {
		switch c := c.(type) {
		case *Property:
			e.property(c)
		case *Signal:
			e.b.Start("signal",
				markup.A("name", c.FullName()),
				markup.A("handler", c.Handler),
				markup.A("object", c.Object),
				markup.A("swapped", flag(c.Swapped)),
				markup.A("after", flag(c.After)))
			e.b.End("signal")
		case *Child:
			e.b.Start("child", markup.A("type", c.Type))
			if o, ok := c.Object(); ok {
				e.object(o)
			}
			e.b.End("child")
		case *Styles:
			e.b.Start("style")
			for _, s := range ast.ChildrenOf[*StyleClass](c) {
				e.b.Start("class", markup.A("name", s.Name))
				e.b.End("class")
			}
			e.b.End("style")
		case *SizeGroupWidgets:
			e.b.Start("widgets")
			for _, w := range ast.ChildrenOf[*SizeGroupWidget](c) {
				e.b.Start("widget", markup.A("name", w.Name))
				e.b.End("widget")
			}
			e.b.End("widgets")
		case *StringListStrings:
			e.b.Start("items")
			for _, s := range ast.ChildrenOf[*StringItem](c) {
				v, _ := s.Value()
				e.text("item", v)
			}
			e.b.End("items")
		case *ComboBoxItems:
			e.b.Start("items")
			for _, item := range ast.ChildrenOf[*ComboItem](c) {
				v, _ := item.Value()
				e.text("item", v, markup.A("id", item.Name))
			}
			e.b.End("items")
		case *FileFilterBlock:
			e.b.Start(c.Tag)
			for _, s := range ast.ChildrenOf[*FilterString](c) {
				e.b.Element(c.ItemTag(), s.Value)
			}
			e.b.End(c.Tag)
		}
	}
}

func flag(b bool) string {
	if b {
		return "True"
	}
	return ""
}

func (e *emitter) property(p *Property) {
	v, _ := p.Value()
	name := markup.A("name", p.Name)
	switch v := v.(type) {
	case *Object:
		e.b.Start("property", name)
		e.object(v)
		e.b.End("property")
	case *Literal:
		want, _ := expectedType(e.types, p)
		e.b.Element("property", literalText(v, want), name)
	default:
		e.text("property", v, name)
	}
}

// text writes a string valued element, marking translated strings.
func (e *emitter) text(tag string, v ast.Node, attrs ...markup.Attr) {
	switch v := v.(type) {
	case *Translated:
		attrs = append(attrs, markup.A("translatable", "yes"), markup.A("context", v.Context))
		e.b.Element(tag, v.String, attrs...)
	case *Literal:
		e.b.Element(tag, literalText(v, nil), attrs...)
	default:
		e.b.Element(tag, "", attrs...)
	}
}

// literalText converts a literal to its GtkBuilder form.  want may be nil
// when the property type is unknown.
func literalText(l *Literal, want *typeres.Type) string {
	switch l.Kind {
	case LiteralNumber:
		if i, ok := grammar.ParseInteger(l.Value); ok {
			return i.String()
		}
		if f, ok := grammar.ParseNumber(l.Value); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	case LiteralIdent:
		if l.Value == "true" || l.Value == "false" {
			if want == nil || want.Name == "gboolean" {
				if l.Value == "true" {
					return "True"
				}
				return "False"
			}
		}
	}
	return l.Value
}

func (e *emitter) menu(m *Menu) {
	e.b.Start(m.Tag, markup.A("id", m.ID))
	for _, c := range m.Children() {
		switch c := c.(type) {
		case *Menu:
			e.menu(c)
		case *MenuAttribute:
			v, _ := c.Value()
			e.text("attribute", v, markup.A("name", c.Name))
		}
	}
	e.b.End(m.Tag)
}
