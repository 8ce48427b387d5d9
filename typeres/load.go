// Copyright © 2024 The ELPS authors

package typeres

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is the format version written by WriteSnapshot.
const SnapshotVersion = 1

type catalogFile struct {
	Namespaces []*Namespace `toml:"namespace"`
}

type snapshot struct {
	Version    int          `msgpack:"version"`
	Namespaces []*Namespace `msgpack:"namespaces"`
}

// LoadTOML reads a catalog in TOML form.
//
//	[[namespace]]
//	name = "Gtk"
//	version = "4.0"
//
//	[[namespace.type]]
//	name = "Box"
//	parent = "Gtk.Widget"
func LoadTOML(r io.Reader) (*Catalog, error) {
	nss, err := decodeTOML(r)
	if err != nil {
		return nil, err
	}
	return NewCatalog(nss...)
}

func decodeTOML(r io.Reader) ([]*Namespace, error) {
	var f catalogFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("catalog: unknown key %s", undecoded[0])
	}
	return f.Namespaces, nil
}

// WriteSnapshot writes the catalog in msgpack form.  A snapshot loads
// faster than the TOML it was built from.
func WriteSnapshot(w io.Writer, c *Catalog) error {
	bw := bufio.NewWriter(w)
	err := msgpack.NewEncoder(bw).Encode(&snapshot{
		Version:    SnapshotVersion,
		Namespaces: c.namespaces,
	})
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return bw.Flush()
}

// ReadSnapshot reads a catalog written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Catalog, error) {
	nss, err := decodeSnapshot(r)
	if err != nil {
		return nil, err
	}
	return NewCatalog(nss...)
}

func decodeSnapshot(r io.Reader) ([]*Namespace, error) {
	var s snapshot
	if err := msgpack.NewDecoder(bufio.NewReader(r)).Decode(&s); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot: unsupported version %d", s.Version)
	}
	return s.Namespaces, nil
}

// LoadFile reads a self-contained catalog from path, choosing the format
// by extension: ".msgpack" for snapshots and TOML otherwise.
func LoadFile(path string) (*Catalog, error) {
	nss, err := readFile(path)
	if err != nil {
		return nil, err
	}
	c, err := NewCatalog(nss...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func readFile(path string) ([]*Namespace, error) {
	f, err := os.Open(path) //nolint:gosec // catalog paths come from the user
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var nss []*Namespace
	if filepath.Ext(path) == ".msgpack" {
		nss, err = decodeSnapshot(f)
	} else {
		nss, err = decodeTOML(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nss, nil
}

// Load returns the default catalog extended with the catalogs at paths.
// Types in a file may refer to types of the default catalog and of the
// files before it.
func Load(paths ...string) (*Catalog, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		nss, err := readFile(path)
		if err != nil {
			return nil, err
		}
		c, err = c.merge(nss)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return c, nil
}
