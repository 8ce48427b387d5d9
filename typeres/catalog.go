// Copyright © 2024 The ELPS authors

// Package typeres resolves type names against a catalog of namespaces,
// types and their members.  A Catalog is built once and never modified, so
// it may be shared by concurrent compiles.  A Context is the import scope
// of a single document.
package typeres

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Kind classifies a catalog type.
type Kind string

const (
	KindClass       Kind = "class"
	KindInterface   Kind = "interface"
	KindEnum        Kind = "enum"
	KindFlags       Kind = "flags"
	KindBoxed       Kind = "boxed"
	KindFundamental Kind = "fundamental"
)

// Namespace is a versioned collection of types.
type Namespace struct {
	Name    string  `toml:"name" msgpack:"name"`
	Version string  `toml:"version" msgpack:"version"`
	Doc     string  `toml:"doc" msgpack:"doc,omitempty"`
	Types   []*Type `toml:"type" msgpack:"types"`

	byName map[string]*Type
}

// Type is a class, interface, enumeration or fundamental type.
type Type struct {
	Name       string      `toml:"name" msgpack:"name"`
	Kind       Kind        `toml:"kind" msgpack:"kind"`
	CType      string      `toml:"ctype" msgpack:"ctype,omitempty"`
	Parent     string      `toml:"parent" msgpack:"parent,omitempty"`
	Interfaces []string    `toml:"implements" msgpack:"implements,omitempty"`
	Abstract   bool        `toml:"abstract" msgpack:"abstract,omitempty"`
	Deprecated bool        `toml:"deprecated" msgpack:"deprecated,omitempty"`
	Doc        string      `toml:"doc" msgpack:"doc,omitempty"`
	Properties []*Property `toml:"property" msgpack:"properties,omitempty"`
	Signals    []*Signal   `toml:"signal" msgpack:"signals,omitempty"`
	Members    []*Member   `toml:"member" msgpack:"members,omitempty"`

	ns     *Namespace
	parent *Type
	ifaces []*Type
}

// Property is a readable and possibly writable attribute of a type.
type Property struct {
	Name       string `toml:"name" msgpack:"name"`
	Type       string `toml:"type" msgpack:"type"`
	ReadOnly   bool   `toml:"read-only" msgpack:"read_only,omitempty"`
	Deprecated bool   `toml:"deprecated" msgpack:"deprecated,omitempty"`
	Doc        string `toml:"doc" msgpack:"doc,omitempty"`
}

// Signal is an event emitted by a type.
type Signal struct {
	Name       string `toml:"name" msgpack:"name"`
	Detailed   bool   `toml:"detailed" msgpack:"detailed,omitempty"`
	Deprecated bool   `toml:"deprecated" msgpack:"deprecated,omitempty"`
	Doc        string `toml:"doc" msgpack:"doc,omitempty"`
}

// Member is a named value of an enumeration or flags type.
type Member struct {
	Name  string `toml:"name" msgpack:"name"`
	Nick  string `toml:"nick" msgpack:"nick,omitempty"`
	Value int64  `toml:"value" msgpack:"value"`
	Doc   string `toml:"doc" msgpack:"doc,omitempty"`
}

// Fundamental types, which belong to no namespace.
var fundamentals = map[string]*Type{}

func init() {
	for _, name := range []string{
		"gboolean", "gchar", "guchar", "gint", "guint", "glong", "gulong",
		"gint64", "guint64", "gfloat", "gdouble", "gchararray", "GType",
	} {
		fundamentals[name] = &Type{Name: name, Kind: KindFundamental}
	}
}

// Fundamental returns the fundamental type with the given name.
func Fundamental(name string) (*Type, bool) {
	t, ok := fundamentals[name]
	return t, ok
}

// Namespace returns the namespace the type belongs to.  Fundamental types
// have none.
func (t *Type) Namespace() *Namespace {
	return t.ns
}

// FullName returns the namespace qualified name of the type.
func (t *Type) FullName() string {
	if t.ns == nil {
		return t.Name
	}
	return t.ns.Name + "." + t.Name
}

func (t *Type) String() string {
	return t.FullName()
}

// ParentType returns the resolved parent class.
func (t *Type) ParentType() *Type {
	return t.parent
}

// IsObject reports whether values of the type are object references.
func (t *Type) IsObject() bool {
	return t.Kind == KindClass || t.Kind == KindInterface
}

// IsEnum reports whether the type is an enumeration or flags type.
func (t *Type) IsEnum() bool {
	return t.Kind == KindEnum || t.Kind == KindFlags
}

// AssignableTo reports whether a value of type t can be used where other
// is expected, following parent and interface edges.
func (t *Type) AssignableTo(other *Type) bool {
	if t == nil || other == nil {
		return false
	}
	if t == other {
		return true
	}
	seen := map[*Type]bool{}
	stack := []*Type{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == other {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if cur.parent != nil {
			stack = append(stack, cur.parent)
		}
		stack = append(stack, cur.ifaces...)
	}
	return false
}

// ancestry returns t followed by its parents and then every implemented
// interface, each type once.
func (t *Type) ancestry() []*Type {
	var out []*Type
	seen := map[*Type]bool{}
	var ifaces []*Type
	for cur := t; cur != nil && !seen[cur]; cur = cur.parent {
		seen[cur] = true
		out = append(out, cur)
		ifaces = append(ifaces, cur.ifaces...)
	}
	for len(ifaces) > 0 {
		cur := ifaces[0]
		ifaces = ifaces[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		ifaces = append(ifaces, cur.ifaces...)
	}
	return out
}

// Property looks up a property on the type or any type it inherits from.
func (t *Type) Property(name string) (*Property, bool) {
	for _, a := range t.ancestry() {
		for _, p := range a.Properties {
			if p.Name == name {
				return p, true
			}
		}
	}
	return nil, false
}

// Signal looks up a signal on the type or any type it inherits from.
func (t *Type) Signal(name string) (*Signal, bool) {
	for _, a := range t.ancestry() {
		for _, s := range a.Signals {
			if s.Name == name {
				return s, true
			}
		}
	}
	return nil, false
}

// PropertyNames returns every property name available on the type, sorted.
func (t *Type) PropertyNames() []string {
	var names []string
	for _, a := range t.ancestry() {
		for _, p := range a.Properties {
			names = append(names, p.Name)
		}
	}
	return dedupe(names)
}

// SignalNames returns every signal name available on the type, sorted.
func (t *Type) SignalNames() []string {
	var names []string
	for _, a := range t.ancestry() {
		for _, s := range a.Signals {
			names = append(names, s.Name)
		}
	}
	return dedupe(names)
}

// Member looks up an enumeration member by name or nick.
func (t *Type) Member(name string) (*Member, bool) {
	for _, m := range t.Members {
		if m.Name == name || m.Nick == name {
			return m, true
		}
	}
	return nil, false
}

// MemberNames returns the names of the enumeration's members.
func (t *Type) MemberNames() []string {
	names := make([]string, len(t.Members))
	for i, m := range t.Members {
		names[i] = m.Name
	}
	return names
}

func dedupe(names []string) []string {
	sort.Strings(names)
	return slices.Compact(names)
}

// Lookup returns the type with the given unqualified name.
func (ns *Namespace) Lookup(name string) (*Type, bool) {
	t, ok := ns.byName[name]
	return t, ok
}

// TypeNames returns the names of the namespace's types, sorted.
func (ns *Namespace) TypeNames() []string {
	names := make([]string, 0, len(ns.Types))
	for _, t := range ns.Types {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// Catalog indexes namespaces by name and version.
type Catalog struct {
	namespaces []*Namespace
	byCType    map[string]*Type
}

// NewCatalog links namespaces into a catalog.  Parent and interface names
// must be fully qualified and must resolve within the catalog.
func NewCatalog(namespaces ...*Namespace) (*Catalog, error) {
	c := &Catalog{byCType: make(map[string]*Type)}
	for _, ns := range namespaces {
		if err := c.add(ns); err != nil {
			return nil, err
		}
	}
	if err := c.link(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) add(ns *Namespace) error {
	if ns.Name == "" {
		return fmt.Errorf("namespace without a name")
	}
	if _, ok := c.Namespace(ns.Name, ns.Version); ok {
		return fmt.Errorf("duplicate namespace %s %s", ns.Name, ns.Version)
	}
	ns.byName = make(map[string]*Type, len(ns.Types))
	for _, t := range ns.Types {
		if _, dup := ns.byName[t.Name]; dup {
			return fmt.Errorf("duplicate type %s.%s", ns.Name, t.Name)
		}
		if t.Kind == "" {
			t.Kind = KindClass
		}
		t.ns = ns
		ns.byName[t.Name] = t
	}
	c.namespaces = append(c.namespaces, ns)
	return nil
}

func (c *Catalog) link() error {
	for _, ns := range c.namespaces {
		for _, t := range ns.Types {
			if t.CType != "" {
				c.byCType[t.CType] = t
			}
			if t.Parent != "" {
				p, ok := c.Lookup(t.Parent)
				if !ok {
					return fmt.Errorf("%s: unknown parent type %s", t.FullName(), t.Parent)
				}
				t.parent = p
			}
			t.ifaces = t.ifaces[:0]
			for _, name := range t.Interfaces {
				it, ok := c.Lookup(name)
				if !ok {
					return fmt.Errorf("%s: unknown interface %s", t.FullName(), name)
				}
				t.ifaces = append(t.ifaces, it)
			}
		}
	}
	return nil
}

// Namespaces returns every namespace in the catalog.
func (c *Catalog) Namespaces() []*Namespace {
	return c.namespaces
}

// Namespace returns the namespace with the given name.  An empty version
// selects the last one added.
func (c *Catalog) Namespace(name, version string) (*Namespace, bool) {
	var found *Namespace
	for _, ns := range c.namespaces {
		if ns.Name == name && (version == "" || ns.Version == version) {
			found = ns
		}
	}
	return found, found != nil
}

// Versions returns the available versions of a namespace.
func (c *Catalog) Versions(name string) []string {
	var out []string
	for _, ns := range c.namespaces {
		if ns.Name == name {
			out = append(out, ns.Version)
		}
	}
	return out
}

// Lookup resolves a fully qualified type name such as "Gtk.Box", or a
// fundamental type name.
func (c *Catalog) Lookup(fullName string) (*Type, bool) {
	nsName, name, ok := strings.Cut(fullName, ".")
	if !ok {
		return Fundamental(fullName)
	}
	ns, ok := c.Namespace(nsName, "")
	if !ok {
		return nil, false
	}
	return ns.Lookup(name)
}

// LookupByCType resolves a C type name such as "GtkBox".
func (c *Catalog) LookupByCType(ctype string) (*Type, bool) {
	t, ok := c.byCType[ctype]
	return t, ok
}

// Merge returns a catalog holding the namespaces of c followed by those of
// other.  Namespaces of other replace those of c with the same name and
// version.
func (c *Catalog) Merge(other *Catalog) (*Catalog, error) {
	return c.merge(other.namespaces)
}

func (c *Catalog) merge(extra []*Namespace) (*Catalog, error) {
	replaced := func(ns *Namespace) bool {
		for _, e := range extra {
			if e.Name == ns.Name && e.Version == ns.Version {
				return true
			}
		}
		return false
	}
	var all []*Namespace
	for _, ns := range c.namespaces {
		if !replaced(ns) {
			all = append(all, ns.clone())
		}
	}
	for _, ns := range extra {
		all = append(all, ns.clone())
	}
	return NewCatalog(all...)
}

// clone copies the namespace and its types so that linking the copy leaves
// the original untouched.
func (ns *Namespace) clone() *Namespace {
	cp := *ns
	cp.byName = nil
	cp.Types = make([]*Type, len(ns.Types))
	for i, t := range ns.Types {
		tc := *t
		tc.ns, tc.parent, tc.ifaces = nil, nil, nil
		cp.Types[i] = &tc
	}
	return &cp
}
