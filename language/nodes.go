// Copyright © 2024 The ELPS authors

package language

import (
	"github.com/luthersystems/blueprint/ast"
	"github.com/luthersystems/blueprint/parser/token"
)

// UI is the root of a document.
type UI struct {
	ast.Base
}

// Gtk returns the leading `using Gtk` directive.
func (ui *UI) Gtk() (*GtkDirective, bool) {
	return ast.FirstChild[*GtkDirective](ui)
}

// Imports returns the document's imports other than Gtk.
func (ui *UI) Imports() []*Import {
	return ast.ChildrenOf[*Import](ui)
}

// TranslationDomain returns the translation domain directive.
func (ui *UI) TranslationDomain() (*TranslationDomain, bool) {
	return ast.FirstChild[*TranslationDomain](ui)
}

// Template returns the document's first template.
func (ui *UI) Template() (*Template, bool) {
	return ast.FirstChild[*Template](ui)
}

// Contents returns the top level templates, menus and objects in source
// order.
func (ui *UI) Contents() []ast.Node {
	var out []ast.Node
	for _, c := range ui.Children() {
		switch c.(type) {
		case *Template, *Menu, *Object:
			out = append(out, c)
		}
	}
	return out
}

// GtkDirective is `using Gtk 4.0;`.
type GtkDirective struct {
	ast.Base
	Version string
}

// Import is `using Namespace version;`.
type Import struct {
	ast.Base
	Namespace string
	Version   string
}

// TranslationDomain is `translation-domain "domain";`.
type TranslationDomain struct {
	ast.Base
	Domain string
}

// TypeName names a class, optionally qualified by a namespace, or an
// application defined type when Extern is set.
type TypeName struct {
	ast.Base
	Namespace string
	Name      string
	Extern    bool
}

// String returns the type name as written.
func (t *TypeName) String() string {
	switch {
	case t.Extern:
		return "$" + t.Name
	case t.Namespace != "":
		return t.Namespace + "." + t.Name
	}
	return t.Name
}

// classNode is implemented by nodes whose body may hold properties,
// signals, children and extension blocks.
type classNode interface {
	ast.Node
	// ClassName returns the node naming the class the body configures.
	ClassName() (*TypeName, bool)
}

// Object declares an object.
type Object struct {
	ast.Base
	ID string
}

// ClassName returns the object's type.
func (o *Object) ClassName() (*TypeName, bool) {
	return ast.FirstChild[*TypeName](o)
}

func (o *Object) Symbol() *ast.DocumentSymbol {
	name := "object"
	sel := o.Range()
	if tn, ok := o.ClassName(); ok {
		name, sel = tn.String(), tn.Range()
	}
	return &ast.DocumentSymbol{Name: name, Kind: ast.SymbolObject, Range: o.Range(), SelectionRange: sel, Detail: o.ID}
}

// Template declares the contents of a composite widget class.
type Template struct {
	ast.Base
	ID string
	// Extern is false for the legacy syntax without a `$`.
	Extern bool
}

// ClassName returns the template's parent type.
func (t *Template) ClassName() (*TypeName, bool) {
	return ast.FirstChild[*TypeName](t)
}

func (t *Template) Symbol() *ast.DocumentSymbol {
	return &ast.DocumentSymbol{
		Name:           "template",
		Kind:           ast.SymbolObject,
		Range:          t.Range(),
		SelectionRange: t.Capture("template"),
		Detail:         t.ID,
	}
}

// Property sets a property to the value held by its only child.
type Property struct {
	ast.Base
	Name string
}

// Value returns the property's value node: a *Literal, *Translated or
// *Object.
func (p *Property) Value() (ast.Node, bool) {
	return only(p)
}

func (p *Property) Symbol() *ast.DocumentSymbol {
	var detail string
	if v, ok := p.Value(); ok {
		detail = v.Range().Text()
	}
	return &ast.DocumentSymbol{Name: p.Name, Kind: ast.SymbolProperty, Range: p.Range(), SelectionRange: p.Capture("name"), Detail: detail}
}

// LiteralKind is the token kind of a literal value.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralIdent
)

// Literal is a string, number or identifier value.  Value holds the
// unescaped string for strings and the token text otherwise.
type Literal struct {
	ast.Base
	Kind  LiteralKind
	Value string
}

// Reference links an identifier value to the object it names.
func (l *Literal) Reference(env *ast.Env, offset int) (ast.Link, bool) {
	if l.Kind != LiteralIdent {
		return ast.Link{}, false
	}
	return linkTo(env, l.Range(), l.Value)
}

// Translated is `_("text")` or `C_("context", "text")`.
type Translated struct {
	ast.Base
	Context string
	String  string
}

// Signal connects a handler to a signal.
type Signal struct {
	ast.Base
	Name    string
	Detail  string
	Handler string
	Object  string
	Swapped bool
	After   bool
}

// FullName returns the signal name including its detail.
func (s *Signal) FullName() string {
	if s.Detail == "" {
		return s.Name
	}
	return s.Name + "::" + s.Detail
}

func (s *Signal) Symbol() *ast.DocumentSymbol {
	return &ast.DocumentSymbol{Name: s.FullName(), Kind: ast.SymbolEvent, Range: s.Range(), SelectionRange: s.Capture("name"), Detail: s.Handler}
}

// Reference links the signal's object argument.
func (s *Signal) Reference(env *ast.Env, offset int) (ast.Link, bool) {
	rng := s.Capture("object")
	if rng.IsZero() || !rng.Contains(offset) {
		return ast.Link{}, false
	}
	return linkTo(env, rng, s.Object)
}

// Child adds a child object, optionally of a named child type.
type Child struct {
	ast.Base
	Type string
}

// Object returns the child object.
func (c *Child) Object() (*Object, bool) {
	return ast.FirstChild[*Object](c)
}

// Menu is a menu, section, submenu or item, as given by Tag.
type Menu struct {
	ast.Base
	Tag       string
	ID        string
	Shorthand bool
}

func (m *Menu) Symbol() *ast.DocumentSymbol {
	return &ast.DocumentSymbol{Name: m.Tag, Kind: ast.SymbolObject, Range: m.Range(), SelectionRange: selection(m, m.Tag), Detail: m.ID}
}

// MenuAttribute is `name: value;` inside a menu.
type MenuAttribute struct {
	ast.Base
	Name string
}

// Value returns the attribute's *Literal or *Translated value.
func (a *MenuAttribute) Value() (ast.Node, bool) {
	return only(a)
}

func (a *MenuAttribute) Symbol() *ast.DocumentSymbol {
	var detail string
	if v, ok := a.Value(); ok {
		detail = v.Range().Text()
	}
	return &ast.DocumentSymbol{Name: a.Name, Kind: ast.SymbolField, Range: a.Range(), SelectionRange: selection(a, "name"), Detail: detail}
}

// Styles is `styles [...]`.
type Styles struct {
	ast.Base
}

func (s *Styles) Symbol() *ast.DocumentSymbol {
	return &ast.DocumentSymbol{Name: "styles", Kind: ast.SymbolArray, Range: s.Range(), SelectionRange: s.Capture("styles")}
}

// StyleClass is one entry of a styles block.
type StyleClass struct {
	ast.Base
	Name string
}

func (s *StyleClass) Symbol() *ast.DocumentSymbol {
	return &ast.DocumentSymbol{Name: s.Name, Kind: ast.SymbolString, Range: s.Range(), SelectionRange: s.Range()}
}

// SizeGroupWidgets is `widgets [...]`.
type SizeGroupWidgets struct {
	ast.Base
}

func (w *SizeGroupWidgets) Symbol() *ast.DocumentSymbol {
	return &ast.DocumentSymbol{Name: "widgets", Kind: ast.SymbolArray, Range: w.Range(), SelectionRange: w.Capture("widgets")}
}

// SizeGroupWidget names one member of a size group.
type SizeGroupWidget struct {
	ast.Base
	Name string
}

func (w *SizeGroupWidget) Symbol() *ast.DocumentSymbol {
	return &ast.DocumentSymbol{Name: w.Name, Kind: ast.SymbolField, Range: w.Range(), SelectionRange: w.Capture("name")}
}

// Reference links the widget name to its declaration.
func (w *SizeGroupWidget) Reference(env *ast.Env, offset int) (ast.Link, bool) {
	return linkTo(env, w.Range(), w.Name)
}

// StringListStrings is `strings [...]`.
type StringListStrings struct {
	ast.Base
}

func (s *StringListStrings) Symbol() *ast.DocumentSymbol {
	return &ast.DocumentSymbol{Name: "strings", Kind: ast.SymbolArray, Range: s.Range(), SelectionRange: s.Capture("strings")}
}

// StringItem is one entry of a strings block.
type StringItem struct {
	ast.Base
}

// Value returns the item's *Literal or *Translated value.
func (s *StringItem) Value() (ast.Node, bool) {
	return only(s)
}

func (s *StringItem) Symbol() *ast.DocumentSymbol {
	return &ast.DocumentSymbol{Name: s.Range().Text(), Kind: ast.SymbolString, Range: s.Range(), SelectionRange: s.Range()}
}

// ComboBoxItems is `items [...]`.
type ComboBoxItems struct {
	ast.Base
}

func (c *ComboBoxItems) Symbol() *ast.DocumentSymbol {
	return &ast.DocumentSymbol{Name: "items", Kind: ast.SymbolArray, Range: c.Range(), SelectionRange: c.Capture("items")}
}

// ComboItem is one entry of an items block, with an optional ID.
type ComboItem struct {
	ast.Base
	Name string
}

// Value returns the item's *Literal or *Translated value.
func (c *ComboItem) Value() (ast.Node, bool) {
	return only(c)
}

func (c *ComboItem) Symbol() *ast.DocumentSymbol {
	sel := c.Range()
	var text string
	if v, ok := c.Value(); ok {
		sel, text = v.Range(), v.Range().Text()
	}
	return &ast.DocumentSymbol{Name: text, Kind: ast.SymbolString, Range: c.Range(), SelectionRange: sel, Detail: c.Name}
}

// FileFilterBlock is `mime-types [...]`, `patterns [...]` or
// `suffixes [...]`.
type FileFilterBlock struct {
	ast.Base
	Tag string
}

// ItemTag returns the element name of the block's entries.
func (f *FileFilterBlock) ItemTag() string {
	return filterItemTags[f.Tag]
}

var filterItemTags = map[string]string{
	"mime-types": "mime-type",
	"patterns":   "pattern",
	"suffixes":   "suffix",
}

func (f *FileFilterBlock) Symbol() *ast.DocumentSymbol {
	return &ast.DocumentSymbol{Name: f.Tag, Kind: ast.SymbolArray, Range: f.Range(), SelectionRange: f.Capture("tag")}
}

// FilterString is one entry of a file filter block.
type FilterString struct {
	ast.Base
	Value string
}

func (f *FilterString) Symbol() *ast.DocumentSymbol {
	return &ast.DocumentSymbol{Name: f.Value, Kind: ast.SymbolString, Range: f.Range(), SelectionRange: f.Range()}
}

// only returns the first child of n, the value of single-valued nodes.
func only(n ast.Node) (ast.Node, bool) {
	if c := n.Children(); len(c) > 0 {
		return c[0], true
	}
	return nil, false
}

func selection(n ast.Node, capture string) token.Range {
	if r := n.Capture(capture); !r.IsZero() {
		return r
	}
	return n.Range()
}
