// Copyright © 2024 The ELPS authors

package cmd

import "github.com/luthersystems/blueprint/typeres"

// Option configures an exported command factory (LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	catalog *typeres.Catalog
}

// WithCatalog injects the type catalog, replacing the bundled catalog and
// any configured catalog files.  Embedders use it to serve their own
// namespaces.
func WithCatalog(c *typeres.Catalog) Option {
	return func(cfg *cmdConfig) { cfg.catalog = c }
}

// resolveCatalog returns the injected catalog or loads the configured one.
func (c *cmdConfig) resolveCatalog() (*typeres.Catalog, error) {
	if c.catalog != nil {
		return c.catalog, nil
	}
	return loadCatalog()
}
