// Copyright © 2024 The ELPS authors

package language

import (
	g "github.com/luthersystems/blueprint/parser/grammar"
)

const usingGtkMsg = "File must start with a \"using Gtk\" directive (e.g. `using Gtk 4.0;`)"

var (
	objectRule   = g.NewForward()
	menuChild    = g.NewForward()
	uiRule       g.Rule
	valueRule    g.Rule
	stringValue  g.Rule
	typeNameRule g.Rule
)

func init() {
	typeNameRule = g.Group[TypeName](g.AnyOf(
		g.Seq(
			g.Match("$"),
			g.UseIdent("class_name", func(t *TypeName, v string) { t.Name = v }),
			g.UseLiteral(func(t *TypeName) { t.Extern = true }),
		),
		g.Seq(
			g.UseIdent("namespace", func(t *TypeName, v string) { t.Namespace = v }),
			g.Match("."),
			g.Expect(g.UseIdent("class_name", func(t *TypeName, v string) { t.Name = v }), "a class name"),
		),
		g.UseIdent("class_name", func(t *TypeName, v string) { t.Name = v }),
	))

	translated := g.Group[Translated](g.AnyOf(
		g.Seq(
			g.Keyword("_"),
			g.Match("("),
			g.Expect(g.UseQuoted("string", func(t *Translated, v string) { t.String = v }), "a quoted string"),
			g.Match(")").Expected(),
		),
		g.Seq(
			g.Keyword("C_"),
			g.Match("("),
			g.Expect(g.UseQuoted("context", func(t *Translated, v string) { t.Context = v }), "a quoted string"),
			g.Match(",").Expected(),
			g.Expect(g.UseQuoted("string", func(t *Translated, v string) { t.String = v }), "a quoted string"),
			g.Match(")").Expected(),
		),
	))
	quoted := g.Group[Literal](
		g.UseQuoted("value", func(l *Literal, v string) { l.Value = v }),
		g.UseLiteral(func(l *Literal) { l.Kind = LiteralString }),
	)
	number := g.Group[Literal](
		g.UseNumber("value", func(l *Literal, v string) { l.Value = v }),
		g.UseLiteral(func(l *Literal) { l.Kind = LiteralNumber }),
	)
	ident := g.Group[Literal](
		g.UseIdent("value", func(l *Literal, v string) { l.Value = v }),
		g.UseLiteral(func(l *Literal) { l.Kind = LiteralIdent }),
	)
	stringValue = g.AnyOf(translated, quoted)
	valueRule = g.AnyOf(translated, quoted, number, objectRule, ident)

	property := g.Group[Property](g.Statement(
		g.UseIdent("name", func(p *Property, v string) { p.Name = v }),
		g.Match(":"),
		g.Expect(valueRule, "a value"),
	))

	signal := g.Group[Signal](g.Statement(
		g.UseIdent("name", func(s *Signal, v string) { s.Name = v }),
		g.Optional(
			g.Match("::"),
			g.Expect(g.UseIdent("detail", func(s *Signal, v string) { s.Detail = v }), "a signal detail"),
		),
		g.Match("=>"),
		g.Match("$").Expected(),
		g.Expect(g.UseIdent("handler", func(s *Signal, v string) { s.Handler = v }), "the name of a function to handle the signal"),
		g.Match("(").Expected(),
		g.Optional(g.UseIdent("object", func(s *Signal, v string) { s.Object = v })),
		g.Match(")").Expected(),
		g.ZeroOrMore(g.AnyOf(
			g.Seq(g.Keyword("swapped"), g.UseLiteral(func(s *Signal) { s.Swapped = true })),
			g.Seq(g.Keyword("after"), g.UseLiteral(func(s *Signal) { s.After = true })),
		)),
	))

	styles := g.Group[Styles](
		g.Keyword("styles"),
		g.Match("[").Expected(),
		g.Optional(g.Delimited(
			g.Group[StyleClass](g.UseQuoted("name", func(s *StyleClass, v string) { s.Name = v })),
			g.Match(","),
		)),
		g.Match("]").Expected(),
	)
	widgets := g.Group[SizeGroupWidgets](
		g.Keyword("widgets"),
		g.Match("[").Expected(),
		g.Optional(g.Delimited(
			g.Group[SizeGroupWidget](g.UseIdent("name", func(w *SizeGroupWidget, v string) { w.Name = v })),
			g.Match(","),
		)),
		g.Match("]").Expected(),
	)
	strs := g.Group[StringListStrings](
		g.Keyword("strings"),
		g.Match("[").Expected(),
		g.Optional(g.Delimited(g.Group[StringItem](stringValue), g.Match(","))),
		g.Match("]").Expected(),
	)
	items := g.Group[ComboBoxItems](
		g.Keyword("items"),
		g.Match("[").Expected(),
		g.Optional(g.Delimited(
			g.Group[ComboItem](
				g.Optional(g.UseIdent("name", func(c *ComboItem, v string) { c.Name = v }), g.Match(":")),
				stringValue,
			),
			g.Match(","),
		)),
		g.Match("]").Expected(),
	)
	var filters []g.Rule
	for _, tag := range []string{"mime-types", "patterns", "suffixes"} {
		filters = append(filters, g.Group[FileFilterBlock](
			g.UseExact("tag", tag, func(f *FileFilterBlock, v string) { f.Tag = v }),
			g.Match("[").Expected(),
			g.Optional(g.Delimited(
				g.Group[FilterString](g.UseQuoted("name", func(f *FilterString, v string) { f.Value = v })),
				g.Match(","),
			)),
			g.Match("]").Expected(),
		))
	}
	extension := g.AnyOf(append([]g.Rule{styles, widgets, strs, items}, filters...)...)

	child := g.Group[Child](
		g.Optional(
			g.Match("["),
			g.Expect(g.UseIdent("child_type", func(c *Child, v string) { c.Type = v }), "a child type"),
			g.Match("]").Expected(),
		),
		objectRule,
	)

	content := g.AnyOf(property, signal, extension, child)
	objectContent := g.Seq(g.Match("{"), g.Until(content, g.Match("}")))

	objectRule.Set(g.Group[Object](
		typeNameRule,
		g.Optional(g.UseIdent("id", func(o *Object, v string) { o.ID = v })),
		objectContent,
	))

	template := g.Group[Template](
		g.Keyword("template"),
		g.AnyOf(
			g.Seq(
				g.Match("$"),
				g.UseIdent("id", func(t *Template, v string) { t.ID = v }),
				g.UseLiteral(func(t *Template) { t.Extern = true }),
			),
			g.UseIdent("id", func(t *Template, v string) { t.ID = v }),
			g.Expect(g.Match("$"), "a class name"),
		),
		g.Optional(g.Match(":"), g.Expect(typeNameRule, "a parent class")),
		g.Match("{").Expected(),
		g.Until(content, g.Match("}")),
	)

	menuAttribute := g.Group[MenuAttribute](g.Statement(
		g.UseIdent("name", func(a *MenuAttribute, v string) { a.Name = v }),
		g.Match(":"),
		g.Err(stringValue, "Expected string or translated string"),
	))

	menuBlock := func(tag string, body g.Rule) g.Rule {
		return g.Group[Menu](
			g.Keyword(tag),
			g.UseLiteral(func(m *Menu) { m.Tag = tag }),
			g.Optional(g.UseIdent("id", func(m *Menu, v string) { m.ID = v })),
			g.Match("{").Expected(),
			g.Until(body, g.Match("}")),
		)
	}
	shorthandAttr := func(name string) g.Rule {
		return g.Group[MenuAttribute](
			g.UseLiteral(func(a *MenuAttribute) { a.Name = name }),
			stringValue,
		)
	}
	shorthand := g.Group[Menu](
		g.Keyword("item"),
		g.UseLiteral(func(m *Menu) { m.Tag = "item"; m.Shorthand = true }),
		g.Match("("),
		g.Err(shorthandAttr("label"), "Expected string or translated string"),
		g.Optional(
			g.Match(","),
			g.Optional(
				shorthandAttr("action"),
				g.Optional(g.Match(","), shorthandAttr("icon")),
			),
		),
		g.Match(")").Expected(),
	)
	item := g.Group[Menu](
		g.Keyword("item"),
		g.UseLiteral(func(m *Menu) { m.Tag = "item" }),
		g.Match("{").Expected(),
		g.Until(menuAttribute, g.Match("}")),
	)
	nested := g.AnyOf(menuChild, menuAttribute)
	menuChild.Set(g.AnyOf(
		menuBlock("section", nested),
		menuBlock("submenu", nested),
		shorthand,
		item,
	))
	menu := g.Group[Menu](
		g.Keyword("menu"),
		g.UseLiteral(func(m *Menu) { m.Tag = "menu" }),
		g.Optional(g.UseIdent("id", func(m *Menu, v string) { m.ID = v })),
		g.Match("{").Expected(),
		g.Until(g.AnyOf(
			menuChild,
			g.Fail(menuAttribute, "Attributes are not permitted at the top level of a menu"),
		), g.Match("}")),
	)

	gtkDirective := g.Group[GtkDirective](
		g.Err(g.Keyword("using"), usingGtkMsg),
		g.Err(g.Keyword("Gtk"), usingGtkMsg),
		g.Statement(g.Expect(g.UseNumber("version", func(d *GtkDirective, v string) { d.Version = v }), "a version number for GTK")),
	)
	imp := g.Group[Import](g.Statement(
		g.Keyword("using"),
		g.Expect(g.UseIdent("namespace", func(i *Import, v string) { i.Namespace = v }), "a namespace name"),
		g.Expect(g.UseNumber("version", func(i *Import, v string) { i.Version = v }), "a version number"),
	))
	domain := g.Group[TranslationDomain](g.Statement(
		g.Keyword("translation-domain"),
		g.Expect(g.UseQuoted("domain", func(d *TranslationDomain, v string) { d.Domain = v }), "a quoted string"),
	))

	uiRule = g.Group[UI](
		gtkDirective,
		g.ZeroOrMore(imp),
		g.Optional(domain),
		g.Until(g.AnyOf(template, menu, objectRule), g.Eof()),
	)
}

// Grammar returns the rule matching a whole document.
func Grammar() g.Rule {
	return uiRule
}
