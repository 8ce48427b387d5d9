// Copyright © 2024 The ELPS authors

package typeres

import (
	"bytes"
	_ "embed"
	"sync"
)

//go:embed default.toml
var defaultTOML []byte

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return LoadTOML(bytes.NewReader(defaultTOML))
})

// Default returns the embedded catalog covering the parts of GObject, Gio,
// Gtk 4 and Adw that the language plugins reference.
func Default() (*Catalog, error) {
	return defaultCatalog()
}

// MustDefault is like Default but panics if the embedded catalog is
// malformed.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}
