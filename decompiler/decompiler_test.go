// Copyright © 2024 The ELPS authors

package decompiler

import (
	"strings"
	"testing"

	"github.com/luthersystems/blueprint/typeres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	r := NewRegistry()
	r.Register(Entry{Tag: "interface", Handler: func(ctx *Ctx, el *Element) error { return nil }})
	r.Register(Entry{Tag: "object", Handler: func(ctx *Ctx, el *Element) error {
		t, ok := ctx.ResolveCType(el.Attr("class"))
		if !ok {
			return ctx.Errorf("unknown class %s", el.Attr("class"))
		}
		ctx.PushType(t)
		line := ctx.TypeName(t)
		if id := el.Attr("id"); id != "" {
			line += " " + id
		}
		ctx.Print(line + " {")
		return nil
	}})
	r.Register(Entry{Tag: "property", Handler: func(ctx *Ctx, el *Element) error {
		if el.IsLeaf() {
			ctx.Print(el.Attr("name") + ": " + EscapeQuote(el.CData) + ";")
			return nil
		}
		ctx.Prefix(el.Attr("name") + ": ")
		ctx.EndBlockWith(";")
		return nil
	}})
	r.Register(Entry{Tag: "items", Handler: func(ctx *Ctx, el *Element) error {
		ctx.Print("items [")
		return nil
	}})
	r.Register(Entry{Tag: "items", ParentType: "Gtk.StringList", Handler: func(ctx *Ctx, el *Element) error {
		ctx.Print("strings [")
		return nil
	}})
	r.Register(Entry{Tag: "item", Handler: func(ctx *Ctx, el *Element) error {
		ctx.Print("item {")
		return nil
	}})
	r.Register(Entry{Tag: "item", CData: true, Handler: func(ctx *Ctx, el *Element) error {
		v, comment := Translatable(el.CData, el.Attr("translatable"), el.Attr("context"), el.Attr("comments"))
		if comment != "" {
			ctx.Print(comment)
		}
		ctx.PrintItem(v)
		return nil
	}})
	return r
}

func decompile(t *testing.T, xml string) (string, error) {
	t.Helper()
	root, err := Parse(strings.NewReader(xml))
	require.NoError(t, err)
	return Decompile(root, testRegistry(), typeres.MustDefault())
}

func TestDecompile(t *testing.T) {
	out, err := decompile(t, `<?xml version="1.0"?>
<interface>
  <object class="GtkBox" id="box">
    <property name="name">main</property>
    <property name="child">
      <object class="GtkLabel"/>
    </property>
  </object>
  <object class="GtkStringList">
    <items>
      <item translatable="yes" comments="greeting">Hello</item>
      <item translatable="yes" context="menu">Open</item>
      <item>"quoted"</item>
    </items>
  </object>
  <object class="AdwClamp"/>
</interface>`)
	require.NoError(t, err)
	expect := `using Gtk 4.0;
using Adw 1;

Box box {
  name: "main";

  child: Label {};
}

StringList {
  strings [
    /* Translators: greeting */
    _("Hello"),
    C_("menu", "Open"),
    "\"quoted\""
  ]
}

Adw.Clamp {}
`
	assert.Equal(t, expect, out)
}

func TestDecompileEmpty(t *testing.T) {
	out, err := decompile(t, `<interface/>`)
	require.NoError(t, err)
	assert.Equal(t, "using Gtk 4.0;\n", out)
}

func TestDecompileErrors(t *testing.T) {
	out, err := decompile(t, `<interface>
  <object class="GtkLabel">
    <bogus/>
  </object>
  <object class="NoSuchType"/>
</interface>`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3: <bogus>: unsupported element")
	assert.Contains(t, err.Error(), "line 5: <object>: unknown class NoSuchType")
	assert.Contains(t, out, "Label {}")
}

func TestLookupScoring(t *testing.T) {
	cat := typeres.MustDefault()
	reg := testRegistry()
	strList, _ := cat.Lookup("Gtk.StringList")
	box, _ := cat.Lookup("Gtk.Box")

	items := &Element{Tag: "items", Children: []*Element{{Tag: "item"}}}
	e, ok := reg.lookup(cat, strList, items)
	require.True(t, ok)
	assert.Equal(t, "Gtk.StringList", e.ParentType)
	e, ok = reg.lookup(cat, box, items)
	require.True(t, ok)
	assert.Empty(t, e.ParentType)
	e, ok = reg.lookup(cat, nil, items)
	require.True(t, ok)
	assert.Empty(t, e.ParentType)

	leaf := &Element{Tag: "item"}
	e, ok = reg.lookup(cat, nil, leaf)
	require.True(t, ok)
	assert.True(t, e.CData)
	e, ok = reg.lookup(cat, nil, items.Children[0])
	require.True(t, ok)
	assert.True(t, e.CData, "an item without children is a leaf")
	nested := &Element{Tag: "item", Children: []*Element{{Tag: "attribute"}}}
	e, ok = reg.lookup(cat, nil, nested)
	require.True(t, ok)
	assert.False(t, e.CData)

	_, ok = reg.lookup(cat, nil, &Element{Tag: "nope"})
	assert.False(t, ok)
	assert.Equal(t, []string{"interface", "object", "property", "items", "item"}, reg.Tags())
}

func TestLookupTiesGoToFirst(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Entry{Tag: "a", Handler: func(*Ctx, *Element) error { return nil }})
	reg.Register(Entry{Tag: "a", Handler: nil})
	e, ok := reg.lookup(typeres.MustDefault(), nil, &Element{Tag: "a"})
	require.True(t, ok)
	assert.NotNil(t, e.Handler)
}

func TestParse(t *testing.T) {
	root, err := Parse(strings.NewReader(`<a x="1">
  <b>text &amp; more</b>
  <c/>
</a>`))
	require.NoError(t, err)
	assert.Equal(t, "a", root.Tag)
	assert.Equal(t, "1", root.Attr("x"))
	_, ok := root.LookupAttr("y")
	assert.False(t, ok)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "text & more", root.Children[0].CData)
	assert.Equal(t, 2, root.Children[0].Line)
	assert.Equal(t, 3, root.Children[1].Line)
	assert.Empty(t, root.CData)

	_, err = Parse(strings.NewReader(`<a><b></a>`))
	assert.Error(t, err)
	_, err = Parse(strings.NewReader(``))
	assert.Error(t, err)
}

func TestTranslatable(t *testing.T) {
	tests := []struct {
		cdata, translatable, context, comments string
		value, comment                         string
	}{
		{"x", "", "", "", `"x"`, ""},
		{"x", "no", "", "", `"x"`, ""},
		{"x", "yes", "", "", `_("x")`, ""},
		{"x", "True", "ctx", "", `C_("ctx", "x")`, ""},
		{"x", "1", "", "a */ b", `_("x")`, "/* Translators: a * / b */"},
	}
	for _, test := range tests {
		value, comment := Translatable(test.cdata, test.translatable, test.context, test.comments)
		assert.Equal(t, test.value, value)
		assert.Equal(t, test.comment, comment)
	}
}
