// Copyright © 2024 The ELPS authors

package language

import (
	"fmt"

	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/docs"
)

func section(name string) string {
	s, ok := docs.Section(name)
	if !ok {
		return ""
	}
	return docs.Wrap(s, docs.Width)
}

func sectionDoc[N ast.Node](r *ast.Registry, capture, name string) {
	ast.Doc(r, capture, func(N, *ast.Env) string { return section(name) })
}

func registerDocs(r *ast.Registry) {
	sectionDoc[*GtkDirective](r, "using", "Document")
	sectionDoc[*Import](r, "using", "Import")
	sectionDoc[*TranslationDomain](r, "translation-domain", "TranslationDomain")
	sectionDoc[*Template](r, "template", "Template")
	sectionDoc[*Styles](r, "styles", "ExtStyles")
	sectionDoc[*SizeGroupWidgets](r, "widgets", "ExtSizeGroupWidgets")
	sectionDoc[*StringListStrings](r, "strings", "ExtStringListStrings")
	sectionDoc[*ComboBoxItems](r, "items", "ExtComboBoxItems")
	sectionDoc[*FileFilterBlock](r, "tag", "ExtFileFilter")
	for _, tag := range []string{"menu", "section", "submenu", "item"} {
		ast.Doc(r, tag, func(m *Menu, _ *ast.Env) string {
			if m.Shorthand {
				return section("MenuItemShorthand")
			}
			return section("Menu")
		})
	}

	ast.Doc(r, "class_name", func(tn *TypeName, e *ast.Env) string {
		t, ok := resolve(typesOf(e), tn)
		if !ok {
			return ""
		}
		title := fmt.Sprintf("%s %s", t.Kind, t.FullName())
		if p := t.ParentType(); p != nil {
			title += " : " + p.FullName()
		}
		return docs.Hover(title, t.Doc)
	})
	ast.Doc(r, "namespace", func(tn *TypeName, e *ast.Env) string {
		ns, ok := typesOf(e).Namespace(tn.Namespace)
		if !ok {
			return ""
		}
		return docs.Hover(fmt.Sprintf("namespace %s %s", ns.Name, ns.Version), ns.Doc)
	})
	ast.Doc(r, "name", func(p *Property, e *ast.Env) string {
		cls, ok := enclosingClass(e, p)
		if !ok {
			return ""
		}
		pr, ok := cls.Property(p.Name)
		if !ok {
			return ""
		}
		return docs.Hover(fmt.Sprintf("property %s:%s: %s", cls.FullName(), pr.Name, pr.Type), pr.Doc)
	})
	ast.Doc(r, "name", func(s *Signal, e *ast.Env) string {
		cls, ok := enclosingClass(e, s)
		if !ok {
			return ""
		}
		sig, ok := cls.Signal(s.Name)
		if !ok {
			return ""
		}
		return docs.Hover(fmt.Sprintf("signal %s::%s", cls.FullName(), sig.Name), sig.Doc)
	})
	ast.Doc(r, "value", func(l *Literal, e *ast.Env) string {
		vt, ok := ast.LookupContext[ValueTypeCtx](e)
		if !ok || vt.Type == nil || !vt.Type.IsEnum() {
			return ""
		}
		m, ok := vt.Type.Member(l.Value)
		if !ok {
			return ""
		}
		return docs.Hover(fmt.Sprintf("%s.%s = %d", vt.Type.FullName(), m.Name, m.Value), m.Doc)
	})
}
