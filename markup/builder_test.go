// Copyright © 2024 The ELPS authors

package markup

import (
	"testing"

	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/stretchr/testify/assert"
)

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	b.Start("interface")
	b.Start("requires", A("lib", "gtk"), A("version", "4.0"))
	b.End("requires")
	b.Start("object", A("class", "GtkLabel"), A("id", ""))
	b.Element("property", `a < b & "c"`, A("name", "label"), A("translatable", "yes"))
	b.Element("property", "", A("name", "empty"))
	b.End("object")
	b.End("interface")

	expect := `<?xml version="1.0" encoding="UTF-8"?>
<interface>
  <requires lib="gtk" version="4.0"/>
  <object class="GtkLabel">
    <property name="label" translatable="yes">a &lt; b &amp; "c"</property>
    <property name="empty"/>
  </object>
</interface>
`
	assert.Equal(t, expect, b.String())
	assert.Equal(t, 0, b.Depth())
}

func TestBuilderEscapesAttributes(t *testing.T) {
	b := NewBuilder()
	b.Element("item", "x", A("comments", "say \"hi\"\n<now>"))
	assert.Contains(t, b.String(), `<item comments="say &quot;hi&quot;&#10;&lt;now&gt;">x</item>`)
}

func TestBuilderAsserts(t *testing.T) {
	tests := []struct {
		name string
		fn   func(b *Builder)
	}{
		{"mismatched end", func(b *Builder) {
			b.Start("a")
			b.End("b")
		}},
		{"end without start", func(b *Builder) { b.End("a") }},
		{"unclosed", func(b *Builder) {
			b.Start("a")
			_ = b.String()
		}},
		{"text outside element", func(b *Builder) { b.Text("x") }},
		{"mixed content", func(b *Builder) {
			b.Start("a")
			b.Text("x")
			b.Start("b")
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defer func() {
				r := recover()
				_, ok := r.(*diagnostic.Bug)
				assert.True(t, ok, "expected a *diagnostic.Bug, got %v", r)
			}()
			test.fn(NewBuilder())
		})
	}
}
