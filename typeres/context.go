// Copyright © 2024 The ELPS authors

package typeres

import (
	"slices"
	"strings"
)

// Context is the set of namespaces imported by one document.  Unqualified
// names resolve against Gtk first and then the remaining imports in the
// order they were added.
type Context struct {
	catalog *Catalog
	imports []*Namespace
}

// NewContext returns an empty import scope over catalog.
func NewContext(catalog *Catalog) *Context {
	return &Context{catalog: catalog}
}

// Catalog returns the underlying catalog.
func (c *Context) Catalog() *Catalog {
	return c.catalog
}

// AddNamespace imports a namespace.  The result is false when the catalog
// does not contain the namespace at that version.  Importing a namespace
// twice has no effect.
func (c *Context) AddNamespace(name, version string) (*Namespace, bool) {
	ns, ok := c.catalog.Namespace(name, version)
	if !ok {
		return nil, false
	}
	if !slices.Contains(c.imports, ns) {
		c.imports = append(c.imports, ns)
	}
	return ns, true
}

// Namespace returns an imported namespace by name.
func (c *Context) Namespace(name string) (*Namespace, bool) {
	for _, ns := range c.imports {
		if ns.Name == name {
			return ns, true
		}
	}
	return nil, false
}

// Imports returns the imported namespaces in import order.
func (c *Context) Imports() []*Namespace {
	return c.imports
}

// NamespaceNames returns the names of the imported namespaces.
func (c *Context) NamespaceNames() []string {
	names := make([]string, len(c.imports))
	for i, ns := range c.imports {
		names[i] = ns.Name
	}
	return names
}

// LookupType resolves name within the imported namespace nsName.  An empty
// nsName searches the imports in resolution order.
func (c *Context) LookupType(nsName, name string) (*Type, bool) {
	if nsName != "" {
		ns, ok := c.Namespace(nsName)
		if !ok {
			return nil, false
		}
		return ns.Lookup(name)
	}
	for _, ns := range c.searchOrder() {
		if t, ok := ns.Lookup(name); ok {
			return t, true
		}
	}
	return Fundamental(name)
}

// Resolve resolves a possibly qualified type name such as "Gtk.Box" or
// "Box".
func (c *Context) Resolve(name string) (*Type, bool) {
	if nsName, typeName, ok := strings.Cut(name, "."); ok {
		return c.LookupType(nsName, typeName)
	}
	return c.LookupType("", name)
}

// LookupByCType resolves a C type name among the imported namespaces.
func (c *Context) LookupByCType(ctype string) (*Type, bool) {
	t, ok := c.catalog.LookupByCType(ctype)
	if !ok || !slices.Contains(c.imports, t.ns) {
		return nil, false
	}
	return t, true
}

// TypeNames returns the names visible in the given imported namespace.
// An empty nsName lists unqualified names from Gtk.
func (c *Context) TypeNames(nsName string) []string {
	if nsName == "" {
		nsName = "Gtk"
	}
	ns, ok := c.Namespace(nsName)
	if !ok {
		return nil
	}
	return ns.TypeNames()
}

// ShortName returns the shortest name that resolves to t in this context.
func (c *Context) ShortName(t *Type) string {
	if t.ns == nil {
		return t.Name
	}
	if t.ns.Name == "Gtk" {
		if u, ok := c.LookupType("", t.Name); ok && u == t {
			return t.Name
		}
	}
	return t.FullName()
}

func (c *Context) searchOrder() []*Namespace {
	order := make([]*Namespace, 0, len(c.imports))
	for _, ns := range c.imports {
		if ns.Name == "Gtk" {
			order = append(order, ns)
		}
	}
	for _, ns := range c.imports {
		if ns.Name != "Gtk" {
			order = append(order, ns)
		}
	}
	return order
}

// AssignableTo reports whether a value of type a can be used where b is
// expected.
func (c *Context) AssignableTo(a, b *Type) bool {
	return a.AssignableTo(b)
}

// Properties returns every property of t including inherited ones, the
// most derived declaration first.
func (c *Context) Properties(t *Type) []*Property {
	var out []*Property
	seen := map[string]bool{}
	for _, a := range t.ancestry() {
		for _, p := range a.Properties {
			if !seen[p.Name] {
				seen[p.Name] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// Signals returns every signal of t including inherited ones.
func (c *Context) Signals(t *Type) []*Signal {
	var out []*Signal
	seen := map[string]bool{}
	for _, a := range t.ancestry() {
		for _, s := range a.Signals {
			if !seen[s.Name] {
				seen[s.Name] = true
				out = append(out, s)
			}
		}
	}
	return out
}
