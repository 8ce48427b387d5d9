// Copyright © 2024 The ELPS authors

package language

import (
	"strings"

	"github.com/luthersystems/blueprint/decompiler"
	"github.com/luthersystems/blueprint/parser/grammar"
	"github.com/luthersystems/blueprint/typeres"
)

func registerDecompilers(r *decompiler.Registry) {
	for _, e := range []decompiler.Entry{
		{Tag: "interface", Handler: decompileInterface},
		{Tag: "requires", Handler: decompileRequires},
		{Tag: "template", Handler: decompileTemplate},
		{Tag: "object", Handler: decompileObject},
		{Tag: "child", Handler: decompileChild},
		{Tag: "property", Handler: decompileProperty},
		{Tag: "signal", Handler: decompileSignal},
		{Tag: "menu", Handler: decompileMenu},
		{Tag: "section", ParentType: "Gio.Menu", Handler: decompileMenu},
		{Tag: "submenu", ParentType: "Gio.Menu", Handler: decompileMenu},
		{Tag: "item", ParentType: "Gio.Menu", Handler: decompileMenu},
		{Tag: "attribute", ParentType: "Gio.Menu", CData: true, Handler: decompileMenuAttribute},
		{Tag: "style", ParentType: "Gtk.Widget", Handler: listBlock("styles")},
		{Tag: "class", ParentType: "Gtk.Widget", Handler: decompileStyleClass},
		{Tag: "widgets", ParentType: "Gtk.SizeGroup", Handler: listBlock("widgets")},
		{Tag: "widget", ParentType: "Gtk.SizeGroup", Handler: decompileWidget},
		{Tag: "items", ParentType: "Gtk.StringList", Handler: listBlock("strings")},
		{Tag: "item", ParentType: "Gtk.StringList", CData: true, Handler: decompileStringItem},
		{Tag: "items", ParentType: "Gtk.ComboBoxText", Handler: listBlock("items")},
		{Tag: "item", ParentType: "Gtk.ComboBoxText", CData: true, Handler: decompileComboItem},
	} {
		r.Register(e)
	}
	for tag, item := range filterItemTags {
		r.Register(decompiler.Entry{Tag: tag, ParentType: "Gtk.FileFilter", Handler: listBlock(tag)})
		r.Register(decompiler.Entry{Tag: item, ParentType: "Gtk.FileFilter", CData: true, Handler: decompileFilterString})
	}
}

func decompileInterface(ctx *decompiler.Ctx, el *decompiler.Element) error {
	if domain := el.Attr("domain"); domain != "" {
		ctx.Print("translation-domain " + decompiler.EscapeQuote(domain) + ";")
	}
	return nil
}

func decompileRequires(ctx *decompiler.Ctx, el *decompiler.Element) error {
	if el.Attr("lib") == "gtk" && !strings.HasPrefix(el.Attr("version"), "4") {
		return ctx.Errorf("Only GTK 4 is supported")
	}
	return nil
}

// typeSyntax returns the source spelling of a class given its GType name.
func typeSyntax(ctx *decompiler.Ctx, ctype string) (string, *typeres.Type) {
	if t, ok := ctx.ResolveCType(ctype); ok {
		return ctx.TypeName(t), t
	}
	return "$" + ctype, nil
}

func decompileTemplate(ctx *decompiler.Ctx, el *decompiler.Element) error {
	class := el.Attr("class")
	if class == "" {
		return ctx.Errorf("template has no class")
	}
	line := "template $" + class
	var parent *typeres.Type
	if p := el.Attr("parent"); p != "" {
		var name string
		name, parent = typeSyntax(ctx, p)
		line += " : " + name
	}
	ctx.Print(line + " {")
	ctx.PushType(parent)
	return nil
}

func decompileObject(ctx *decompiler.Ctx, el *decompiler.Element) error {
	class := el.Attr("class")
	if class == "" {
		return ctx.Errorf("object has no class")
	}
	name, t := typeSyntax(ctx, class)
	if id := el.Attr("id"); id != "" {
		name += " " + id
	}
	ctx.Print(name + " {")
	ctx.PushType(t)
	return nil
}

func decompileChild(ctx *decompiler.Ctx, el *decompiler.Element) error {
	if _, ok := el.LookupAttr("internal-child"); ok {
		return ctx.Errorf("internal children are not supported")
	}
	if typ := el.Attr("type"); typ != "" {
		ctx.Prefix("[" + typ + "] ")
	}
	return nil
}

func decompileProperty(ctx *decompiler.Ctx, el *decompiler.Element) error {
	if _, ok := el.LookupAttr("bind-source"); ok {
		return ctx.Errorf("property bindings are not supported")
	}
	name := strings.ReplaceAll(el.Attr("name"), "_", "-")
	if name == "" {
		return ctx.Errorf("property has no name")
	}
	if !el.IsLeaf() {
		ctx.Prefix(name + ": ")
		ctx.EndBlockWith(";")
		return nil
	}
	value, comment := propertyValue(ctx, name, el)
	if comment != "" {
		ctx.Print(comment)
	}
	ctx.Print(name + ": " + value + ";")
	return nil
}

var numeric = map[string]bool{
	"gchar": true, "guchar": true, "gint": true, "guint": true, "glong": true,
	"gulong": true, "gint64": true, "guint64": true, "gfloat": true, "gdouble": true,
}

func propertyValue(ctx *decompiler.Ctx, name string, el *decompiler.Element) (string, string) {
	text := el.CData
	if decompiler.Truthy(el.Attr("translatable")) {
		return decompiler.Translatable(text, "yes", el.Attr("context"), el.Attr("comments"))
	}
	t, ok := propertyType(ctx, name)
	if !ok {
		return decompiler.Translatable(text, "", "", el.Attr("comments"))
	}
	trimmed := strings.TrimSpace(text)
	var value string
	switch {
	case t.Kind == typeres.KindFundamental && t.Name == "gboolean":
		value = "false"
		if decompiler.Truthy(trimmed) {
			value = "true"
		}
	case t.Kind == typeres.KindFundamental && numeric[t.Name]:
		if _, ok := grammar.ParseNumber(trimmed); ok {
			value = trimmed
		}
	case t.IsEnum():
		if m, ok := enumMember(t, trimmed); ok {
			value = m.Name
		}
	case t.IsObject():
		if isIdent(trimmed) {
			value = trimmed
		}
	}
	if value == "" {
		return decompiler.Translatable(text, "", "", el.Attr("comments"))
	}
	var comment string
	if c := el.Attr("comments"); c != "" {
		_, comment = decompiler.Translatable("", "", "", c)
	}
	return value, comment
}

func propertyType(ctx *decompiler.Ctx, name string) (*typeres.Type, bool) {
	cls := ctx.Type()
	if cls == nil {
		return nil, false
	}
	p, ok := cls.Property(name)
	if !ok {
		return nil, false
	}
	return ctx.Catalog().Lookup(p.Type)
}

// enumMember accepts a member's name or nick, or its C identifier such as
// GTK_ORIENTATION_VERTICAL.
func enumMember(t *typeres.Type, s string) (*typeres.Member, bool) {
	if m, ok := t.Member(s); ok {
		return m, true
	}
	norm := strings.ToLower(strings.ReplaceAll(s, "_", "-"))
	for _, m := range t.Members {
		if norm == m.Name || strings.HasSuffix(norm, "-"+m.Name) {
			return m, true
		}
	}
	return nil, false
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		switch {
		case ch == '_', 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z':
		case i > 0 && (ch == '-' || '0' <= ch && ch <= '9'):
		default:
			return false
		}
	}
	return true
}

func decompileSignal(ctx *decompiler.Ctx, el *decompiler.Element) error {
	name, handler := el.Attr("name"), el.Attr("handler")
	if name == "" || handler == "" {
		return ctx.Errorf("signal requires a name and a handler")
	}
	line := name + " => $" + handler + "(" + el.Attr("object") + ")"
	if decompiler.Truthy(el.Attr("swapped")) {
		line += " swapped"
	}
	if decompiler.Truthy(el.Attr("after")) {
		line += " after"
	}
	ctx.Print(line + ";")
	return nil
}

func decompileMenu(ctx *decompiler.Ctx, el *decompiler.Element) error {
	line := el.Tag
	if id := el.Attr("id"); id != "" {
		line += " " + id
	}
	ctx.Print(line + " {")
	if el.Tag == "menu" {
		menu, _ := ctx.Catalog().Lookup("Gio.Menu")
		ctx.PushType(menu)
	}
	return nil
}

func decompileMenuAttribute(ctx *decompiler.Ctx, el *decompiler.Element) error {
	name := el.Attr("name")
	if name == "" {
		return ctx.Errorf("attribute has no name")
	}
	value, comment := decompiler.Translatable(el.CData, el.Attr("translatable"), el.Attr("context"), el.Attr("comments"))
	if comment != "" {
		ctx.Print(comment)
	}
	ctx.Print(name + ": " + value + ";")
	return nil
}

func listBlock(keyword string) decompiler.Handler {
	return func(ctx *decompiler.Ctx, _ *decompiler.Element) error {
		ctx.Print(keyword + " [")
		return nil
	}
}

func decompileStyleClass(ctx *decompiler.Ctx, el *decompiler.Element) error {
	ctx.PrintItem(decompiler.EscapeQuote(el.Attr("name")))
	return nil
}

func decompileWidget(ctx *decompiler.Ctx, el *decompiler.Element) error {
	name := el.Attr("name")
	if !isIdent(name) {
		return ctx.Errorf("widget name %q is not an identifier", name)
	}
	ctx.PrintItem(name)
	return nil
}

func decompileStringItem(ctx *decompiler.Ctx, el *decompiler.Element) error {
	value, comment := decompiler.Translatable(el.CData, el.Attr("translatable"), el.Attr("context"), el.Attr("comments"))
	if comment != "" {
		ctx.Print(comment)
	}
	ctx.PrintItem(value)
	return nil
}

func decompileComboItem(ctx *decompiler.Ctx, el *decompiler.Element) error {
	value, comment := decompiler.Translatable(el.CData, el.Attr("translatable"), el.Attr("context"), el.Attr("comments"))
	if comment != "" {
		ctx.Print(comment)
	}
	if id := el.Attr("id"); id != "" {
		value = id + ": " + value
	}
	ctx.PrintItem(value)
	return nil
}

func decompileFilterString(ctx *decompiler.Ctx, el *decompiler.Element) error {
	ctx.PrintItem(decompiler.EscapeQuote(el.CData))
	return nil
}
