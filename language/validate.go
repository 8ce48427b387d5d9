// Copyright © 2024 The ELPS authors

package language

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/diagnostic"
	"github.com/luthersystems/blueprint/parser/grammar"
	"github.com/luthersystems/blueprint/parser/token"
	"github.com/luthersystems/blueprint/typeres"
)

// ReservedIDs are object IDs that read like keywords.
var ReservedIDs = map[string]bool{
	"this": true, "self": true, "template": true, "true": true,
	"false": true, "null": true, "none": true,
}

func typesOf(env *ast.Env) *typeres.Context {
	return ast.Context[*typeres.Context](env)
}

func rootUI(n ast.Node) (*UI, bool) {
	ui, ok := ast.Root(n).(*UI)
	return ui, ok
}

// importPoint is where a new import is inserted: after the last import,
// or after the Gtk directive.
func importPoint(ui *UI) token.Range {
	var end token.Range
	if gtk, ok := ui.Gtk(); ok {
		end = gtk.Range()
	}
	if imps := ui.Imports(); len(imps) > 0 {
		end = imps[len(imps)-1].Range()
	}
	return token.NewRange(end.Src, end.End, end.End)
}

func registerValidators(r *ast.Registry) {
	ast.Validate(r, "gtk version", "version", func(p *ast.Pass, d *GtkDirective) {
		if d.Version != "4.0" {
			p.Report(diagnostic.Errorf("Only GTK 4 is supported").
				Action("Change to 4.0", "4.0", d.Capture("version")))
			return
		}
		if _, ok := typesOf(p.Env).Namespace("Gtk"); !ok {
			p.Report(diagnostic.Errorf("Namespace Gtk-4.0 could not be found in the type catalog"))
		}
	})

	ast.Validate(r, "namespace exists", "namespace", func(p *ast.Pass, imp *Import) {
		cat := typesOf(p.Env).Catalog()
		if _, ok := cat.Namespace(imp.Namespace, imp.Version); ok {
			return
		}
		if versions := cat.Versions(imp.Namespace); len(versions) > 0 {
			p.Report(diagnostic.Errorf("Namespace %s-%s could not be found", imp.Namespace, imp.Version).
				At(imp.Capture("version")).
				Hint("available versions: %s", strings.Join(versions, ", ")))
			return
		}
		var names []string
		for _, ns := range cat.Namespaces() {
			names = append(names, ns.Name)
		}
		p.Report(diagnostic.Errorf("Namespace %s could not be found", imp.Namespace).DidYouMean(imp.Namespace, names))
	})
	ast.Validate(r, "unique import", "namespace", func(p *ast.Pass, imp *Import) {
		ast.UniqueInParent(p, imp, fmt.Sprintf("Duplicate import of %s", imp.Namespace), func(o *Import) bool {
			return o.Namespace == imp.Namespace
		})
	})
	ast.Validate(r, "unused import", "", func(p *ast.Pass, imp *Import) {
		ui, ok := rootUI(imp)
		if !ok {
			return
		}
		if _, ok := typesOf(p.Env).Namespace(imp.Namespace); !ok {
			return
		}
		types := typesOf(p.Env)
		for tn := range ast.OfType[*TypeName](ast.All(ui)) {
			if tn.Extern {
				continue
			}
			if tn.Namespace == imp.Namespace {
				return
			}
			if t, ok := resolve(types, tn); ok && tn.Namespace == "" && t.Namespace() != nil && t.Namespace().Name == imp.Namespace {
				return
			}
		}
		p.Report(diagnostic.Unusedf("Unused import %s", imp.Namespace).Action("Remove import", "", imp.Range()))
	})

	ast.Validate(r, "type exists", "class_name", validateTypeName)
	ast.Validate(r, "deprecated type", "class_name", func(p *ast.Pass, tn *TypeName) {
		if t, ok := resolve(typesOf(p.Env), tn); ok && t.Deprecated {
			p.Report(diagnostic.Deprecatedf("%s is deprecated", t.FullName()))
		}
	})

	ast.Validate(r, "not abstract", "", func(p *ast.Pass, o *Object) {
		tn, ok := o.ClassName()
		if !ok {
			return
		}
		if t, ok := resolve(typesOf(p.Env), tn); ok && t.Abstract {
			p.Report(diagnostic.Errorf("%s can't be instantiated because it's abstract", t.FullName()).
				At(tn.Range()).
				Hint("did you mean to use a subclass of %s?", t.FullName()))
		}
	})
	ast.Validate(r, "reserved id", "id", func(p *ast.Pass, o *Object) {
		if ReservedIDs[o.ID] {
			p.Report(diagnostic.Warningf("%s may be a confusing object ID", o.ID))
		}
	})
	ast.Validate(r, "object value type", "", func(p *ast.Pass, o *Object) {
		prop, ok := o.Parent().(*Property)
		if !ok {
			return
		}
		types := typesOf(p.Env)
		want, ok := expectedType(types, prop)
		if !ok {
			return
		}
		tn, _ := o.ClassName()
		cls, ok := resolve(types, tn)
		if !ok {
			return
		}
		if !cls.AssignableTo(want) {
			p.Report(diagnostic.Errorf("Cannot assign %s to %s", cls.FullName(), want.FullName()).At(tn.Range()))
		}
	})

	ast.Validate(r, "single template", "template", func(p *ast.Pass, t *Template) {
		ast.UniqueInParent(p, t, "Only one template may be defined per file", nil)
	})
	ast.Validate(r, "template syntax", "id", func(p *ast.Pass, t *Template) {
		if t.Extern {
			return
		}
		at := t.Capture("id")
		p.Report(diagnostic.Upgradef("Use type syntax here (introduced in blueprint 0.8.0)").
			Action("Use type syntax", "$", token.NewRange(at.Src, at.Start, at.Start)))
	})

	ast.Validate(r, "property exists", "name", func(p *ast.Pass, prop *Property) {
		cls, ok := enclosingClass(p.Env, prop)
		if !ok {
			return
		}
		pr, ok := cls.Property(prop.Name)
		if !ok {
			p.Report(diagnostic.Errorf("Class %s does not have a property called %s", cls.FullName(), prop.Name).
				DidYouMean(prop.Name, cls.PropertyNames()))
			return
		}
		if pr.Deprecated {
			p.Report(diagnostic.Deprecatedf("%s:%s is deprecated", cls.FullName(), prop.Name))
		}
		if pr.ReadOnly {
			p.Report(diagnostic.Errorf("%s:%s is not writable", cls.FullName(), prop.Name))
		}
	})
	ast.Validate(r, "unique property", "name", func(p *ast.Pass, prop *Property) {
		ast.UniqueInParent(p, prop, fmt.Sprintf("Duplicate property '%s'", prop.Name), func(o *Property) bool {
			return o.Name == prop.Name
		})
	})

	ast.Validate(r, "signal exists", "name", func(p *ast.Pass, s *Signal) {
		cls, ok := enclosingClass(p.Env, s)
		if !ok {
			return
		}
		sig, ok := cls.Signal(s.Name)
		if !ok {
			p.Report(diagnostic.Errorf("Class %s does not contain a signal called %s", cls.FullName(), s.Name).
				DidYouMean(s.Name, cls.SignalNames()))
			return
		}
		if sig.Deprecated {
			p.Report(diagnostic.Deprecatedf("%s::%s is deprecated", cls.FullName(), s.Name))
		}
		if s.Detail != "" && !sig.Detailed {
			p.Report(diagnostic.Errorf("%s is not a detailed signal", s.Name).At(s.Capture("detail")))
		}
	})
	ast.Validate(r, "signal object", "object", func(p *ast.Pass, s *Signal) {
		if s.Object == "" {
			return
		}
		scope := ast.Context[*ScopeCtx](p.Env)
		if _, ok := scope.Lookup(s.Object); !ok {
			p.Report(diagnostic.Errorf("Could not find object with ID %s", s.Object).DidYouMean(s.Object, scope.IDs()))
		}
	})

	ast.Validate(r, "value type", "value", func(p *ast.Pass, l *Literal) {
		if vt, ok := ast.LookupContext[ValueTypeCtx](p.Env); ok && vt.Type != nil {
			checkLiteral(p, l, vt.Type)
		}
	})
	ast.Validate(r, "translated type", "", func(p *ast.Pass, t *Translated) {
		vt, ok := ast.LookupContext[ValueTypeCtx](p.Env)
		if ok && vt.Type != nil && vt.Type.Name != "gchararray" {
			p.Report(diagnostic.Errorf("Cannot convert translated string to %s", vt.Type.FullName()))
		}
	})

	ast.Validate(r, "unique ids", "", func(p *ast.Pass, ui *UI) {
		scope := ast.Context[*ScopeCtx](p.Env)
		first := make(map[string]ast.Node)
		for _, n := range scope.declared {
			id := nodeID(n)
			prev, dup := first[id]
			if !dup {
				first[id] = n
				continue
			}
			p.Report(diagnostic.Errorf("Duplicate object ID '%s'", id).
				At(selection(n, "id")).
				Ref(selection(prev, "id"), "previous declaration was here"))
		}
	})

	ast.Validate(r, "menu id", "menu", func(p *ast.Pass, m *Menu) {
		if m.Tag == "menu" && m.ID == "" {
			p.Report(diagnostic.Errorf("Menu requires an ID"))
		}
	})
	ast.Validate(r, "reserved id", "id", func(p *ast.Pass, m *Menu) {
		if ReservedIDs[m.ID] {
			p.Report(diagnostic.Warningf("%s may be a confusing object ID", m.ID))
		}
	})
	ast.Validate(r, "unique attribute", "name", func(p *ast.Pass, a *MenuAttribute) {
		ast.UniqueInParent(p, a, fmt.Sprintf("Duplicate attribute '%s'", a.Name), func(o *MenuAttribute) bool {
			return o.Name == a.Name
		})
	})

	ast.Validate(r, "parent type", "styles", func(p *ast.Pass, s *Styles) {
		validateParentType(p, s, "Gtk.Widget", "style classes")
	})
	ast.Validate(r, "unique block", "styles", func(p *ast.Pass, s *Styles) {
		ast.UniqueInParent(p, s, "Duplicate styles block", nil)
	})
	ast.Validate(r, "unique class", "name", func(p *ast.Pass, c *StyleClass) {
		ast.UniqueInParent(p, c, fmt.Sprintf("Duplicate style class '%s'", c.Name), func(o *StyleClass) bool {
			return o.Name == c.Name
		})
	})

	ast.Validate(r, "parent type", "widgets", func(p *ast.Pass, w *SizeGroupWidgets) {
		validateParentType(p, w, "Gtk.SizeGroup", "size group properties")
	})
	ast.Validate(r, "unique block", "widgets", func(p *ast.Pass, w *SizeGroupWidgets) {
		ast.UniqueInParent(p, w, "Duplicate widgets block", nil)
	})
	ast.Validate(r, "widget exists", "name", func(p *ast.Pass, w *SizeGroupWidget) {
		scope := ast.Context[*ScopeCtx](p.Env)
		target, ok := scope.Lookup(w.Name)
		if !ok {
			p.Report(diagnostic.Errorf("Could not find object with ID %s", w.Name).DidYouMean(w.Name, scope.IDs()))
			return
		}
		types := typesOf(p.Env)
		widget, ok := types.Catalog().Lookup("Gtk.Widget")
		if !ok {
			return
		}
		if cls, ok := classOf(types, target); ok && !cls.AssignableTo(widget) {
			p.Report(diagnostic.Errorf("Cannot assign %s to %s", cls.FullName(), widget.FullName()))
		}
	})
	ast.Validate(r, "unique widget", "name", func(p *ast.Pass, w *SizeGroupWidget) {
		ast.UniqueInParent(p, w, fmt.Sprintf("Object '%s' is listed twice", w.Name), func(o *SizeGroupWidget) bool {
			return o.Name == w.Name
		})
	})

	ast.Validate(r, "parent type", "strings", func(p *ast.Pass, s *StringListStrings) {
		validateParentType(p, s, "Gtk.StringList", "StringList items")
	})
	ast.Validate(r, "unique block", "strings", func(p *ast.Pass, s *StringListStrings) {
		ast.UniqueInParent(p, s, "Duplicate strings block", nil)
	})

	ast.Validate(r, "parent type", "items", func(p *ast.Pass, c *ComboBoxItems) {
		validateParentType(p, c, "Gtk.ComboBoxText", "combo box items")
	})
	ast.Validate(r, "unique block", "items", func(p *ast.Pass, c *ComboBoxItems) {
		ast.UniqueInParent(p, c, "Duplicate items block", nil)
	})
	ast.Validate(r, "unique item", "name", func(p *ast.Pass, c *ComboItem) {
		if c.Name == "" {
			return
		}
		ast.UniqueInParent(p, c, fmt.Sprintf("Duplicate item '%s'", c.Name), func(o *ComboItem) bool {
			return o.Name == c.Name
		})
	})

	ast.Validate(r, "parent type", "tag", func(p *ast.Pass, f *FileFilterBlock) {
		validateParentType(p, f, "Gtk.FileFilter", "file filter properties")
	})
	ast.Validate(r, "unique block", "tag", func(p *ast.Pass, f *FileFilterBlock) {
		ast.UniqueInParent(p, f, fmt.Sprintf("Duplicate %s block", f.Tag), func(o *FileFilterBlock) bool {
			return o.Tag == f.Tag
		})
	})
	ast.Validate(r, "unique filter", "name", func(p *ast.Pass, f *FilterString) {
		block, _ := f.Parent().(*FileFilterBlock)
		tag := "filter"
		if block != nil {
			tag = block.ItemTag()
		}
		ast.UniqueInParent(p, f, fmt.Sprintf("Duplicate %s '%s'", tag, f.Value), func(o *FilterString) bool {
			return o.Value == f.Value
		})
	})
}

func validateTypeName(p *ast.Pass, tn *TypeName) {
	if tn.Extern || tn.Name == "" {
		return
	}
	types := typesOf(p.Env)
	nsName := tn.Namespace
	if nsName == "" {
		for _, ns := range types.Imports() {
			if _, ok := ns.Lookup(tn.Name); ok {
				return
			}
		}
		nsName = "Gtk"
	}
	ns, ok := types.Namespace(nsName)
	if !ok {
		ui, _ := rootUI(tn)
		if nsName == "Gtk" || ui == nil || importsNamespace(ui, nsName) {
			// The directive or import reports the problem.
			return
		}
		if cns, ok := types.Catalog().Namespace(nsName, ""); ok {
			p.Report(diagnostic.Errorf("Namespace %s was not imported", nsName).
				At(tn.Capture("namespace")).
				Action(fmt.Sprintf("Import %s %s", nsName, cns.Version), fmt.Sprintf("\nusing %s %s;", nsName, cns.Version), importPoint(ui)))
			return
		}
		p.Report(diagnostic.Errorf("Namespace %s could not be found", nsName).
			At(tn.Capture("namespace")).
			DidYouMean(nsName, types.NamespaceNames()))
		return
	}
	if _, ok := ns.Lookup(tn.Name); !ok {
		p.Report(diagnostic.Errorf("Namespace %s does not contain a type called %s", nsName, tn.Name).
			DidYouMean(tn.Name, ns.TypeNames()))
	}
}

func importsNamespace(ui *UI, name string) bool {
	for _, imp := range ui.Imports() {
		if imp.Namespace == name {
			return true
		}
	}
	return false
}

// validateParentType reports an extension block placed in an object whose
// class does not support it.
func validateParentType(p *ast.Pass, n ast.Node, parent, what string) {
	cls, ok := enclosingClass(p.Env, n)
	if !ok {
		return
	}
	want, ok := typesOf(p.Env).Catalog().Lookup(parent)
	if !ok {
		return
	}
	if !cls.AssignableTo(want) {
		p.Report(diagnostic.Errorf("%s is not a %s, so it doesn't have %s", cls.FullName(), want.FullName(), what))
	}
}

// integerTypes and unsignedTypes map integer types to their width in bits.
var (
	integerTypes  = map[string]uint{"gchar": 8, "gint": 32, "glong": 64, "gint64": 64}
	unsignedTypes = map[string]uint{"guchar": 8, "guint": 32, "gulong": 64, "guint64": 64}
	floatTypes    = map[string]bool{"gfloat": true, "gdouble": true}
)

func fitsInteger(v *big.Int, bits uint, signed bool) bool {
	if !signed {
		return v.Sign() >= 0 && uint(v.BitLen()) <= bits
	}
	limit := new(big.Int).Lsh(big.NewInt(1), bits-1)
	return v.Cmp(new(big.Int).Neg(limit)) >= 0 && v.Cmp(limit) < 0
}

func checkLiteral(p *ast.Pass, l *Literal, t *typeres.Type) {
	text := l.Range().Text()
	switch {
	case t.Name == "gboolean":
		if l.Kind != LiteralIdent || (l.Value != "true" && l.Value != "false") {
			d := diagnostic.Errorf("Expected 'true' or 'false' for boolean value")
			if l.Kind == LiteralIdent {
				d.DidYouMean(l.Value, []string{"true", "false"})
			}
			p.Report(d)
		}
	case floatTypes[t.Name]:
		if l.Kind != LiteralNumber {
			p.Report(diagnostic.Errorf("Cannot convert %s to number", text))
			return
		}
		if _, ok := grammar.ParseNumber(l.Value); !ok {
			p.Report(diagnostic.Errorf("Cannot convert %s to number", text))
		}
	case integerTypes[t.Name] > 0 || unsignedTypes[t.Name] > 0:
		if l.Kind != LiteralNumber {
			p.Report(diagnostic.Errorf("Cannot convert %s to number", text))
			return
		}
		v, ok := grammar.ParseInteger(l.Value)
		if !ok {
			if _, isNumber := grammar.ParseNumber(l.Value); isNumber {
				p.Report(diagnostic.Errorf("Cannot convert %s to integer", text))
			} else {
				p.Report(diagnostic.Errorf("Cannot convert %s to number", text))
			}
			return
		}
		bits, signed := integerTypes[t.Name], true
		if bits == 0 {
			bits, signed = unsignedTypes[t.Name], false
			if v.Sign() < 0 {
				p.Report(diagnostic.Errorf("Cannot convert %s to unsigned integer", text))
				return
			}
		}
		if !fitsInteger(v, bits, signed) {
			p.Report(diagnostic.Errorf("%s is out of range for %s", text, t.Name))
		}
	case t.Name == "gchararray":
		if l.Kind != LiteralString {
			p.Report(diagnostic.Errorf("Cannot convert %s to string", text).
				Action("Quote", grammar.Quote(text), l.Range()))
		}
	case t.IsEnum():
		if l.Kind != LiteralIdent {
			p.Report(diagnostic.Errorf("Expected a member of %s", t.FullName()))
			return
		}
		if _, ok := t.Member(l.Value); !ok {
			p.Report(diagnostic.Errorf("%s is not a member of %s", l.Value, t.FullName()).
				DidYouMean(l.Value, t.MemberNames()))
		}
	case t.IsObject():
		if l.Kind != LiteralIdent {
			p.Report(diagnostic.Errorf("Cannot convert %s to %s", text, t.FullName()))
			return
		}
		scope := ast.Context[*ScopeCtx](p.Env)
		target, ok := scope.Lookup(l.Value)
		if !ok {
			p.Report(diagnostic.Errorf("Could not find object with ID %s", l.Value).DidYouMean(l.Value, scope.IDs()))
			return
		}
		if cls, ok := classOf(typesOf(p.Env), target); ok && !cls.AssignableTo(t) {
			p.Report(diagnostic.Errorf("Cannot assign %s to %s", cls.FullName(), t.FullName()))
		}
	}
}
