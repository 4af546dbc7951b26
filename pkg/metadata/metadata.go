// Package metadata maps feature categories and types to display defaults.
//
// A [Table] is decoded from TOML. The built-in table ships with the binary and
// is returned by [Default]; [Load] and [LoadFile] read a user-supplied table
// with the same layout:
//
//	[categories.PTM]
//	label = "PTM"
//
//	[types.MOD_RES]
//	label = "Modified residue"
//	color = "#000066"
//	shape = "triangle"
//
// Lookups of unknown keys are not errors: [Table.TypeLabel] and
// [Table.CategoryLabel] fall back to the raw key, and [Table.Type] reports
// ok=false so callers leave styling unset.
package metadata

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/seqtracks/pkg/track"
)

//go:embed featuretypes.toml
var builtin string

// Type holds the display defaults for one feature type.
type Type struct {
	Label string      `toml:"label"`
	Color string      `toml:"color"`
	Shape track.Shape `toml:"shape"`
}

// Category holds the display defaults for one feature category.
type Category struct {
	Label string `toml:"label"`
}

// Table is an immutable lookup of categories and types. The zero value is an
// empty table on which every lookup falls back.
type Table struct {
	Categories map[string]Category `toml:"categories"`
	Types      map[string]Type     `toml:"types"`
}

// Type returns the defaults for key.
func (t *Table) Type(key string) (Type, bool) {
	if t == nil {
		return Type{}, false
	}
	v, ok := t.Types[key]
	return v, ok
}

// TypeLabel returns the display label for a type key, or key itself.
func (t *Table) TypeLabel(key string) string {
	if v, ok := t.Type(key); ok && v.Label != "" {
		return v.Label
	}
	return key
}

// CategoryLabel returns the display label for a category key, or key itself.
func (t *Table) CategoryLabel(key string) string {
	if t != nil {
		if c, ok := t.Categories[key]; ok && c.Label != "" {
			return c.Label
		}
	}
	return key
}

// Load decodes a table from r and validates its shapes.
func Load(r io.Reader) (*Table, error) {
	var t Table
	if _, err := toml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	for key, v := range t.Types {
		if !v.Shape.Valid() {
			return nil, fmt.Errorf("metadata type %s: unknown shape %q", key, v.Shape)
		}
	}
	return &t, nil
}

// LoadFile reads a table from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the built-in table. It panics only if the embedded file is
// malformed, which the package tests rule out.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Load(strings.NewReader(builtin))
		if err != nil {
			panic(fmt.Sprintf("metadata: built-in table: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}
