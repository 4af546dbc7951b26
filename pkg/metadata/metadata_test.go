package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/seqtracks/pkg/track"
)

func TestDefault(t *testing.T) {
	tbl := Default()
	if tbl == nil {
		t.Fatal("Default() returned nil")
	}

	v, ok := tbl.Type("DOMAIN")
	if !ok {
		t.Fatal("DOMAIN missing from built-in table")
	}
	if v.Label != "Domain" || v.Shape != track.ShapeRoundRectangle || v.Color == "" {
		t.Errorf("DOMAIN = %+v", v)
	}
	if Default() != tbl {
		t.Error("Default() should return the same table")
	}
}

func TestLabelsFallBack(t *testing.T) {
	tbl := Default()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"known type", tbl.TypeLabel("MOD_RES"), "Modified residue"},
		{"unknown type", tbl.TypeLabel("NOT_A_TYPE"), "NOT_A_TYPE"},
		{"known category", tbl.CategoryLabel("PTM"), "PTM"},
		{"labelled category", tbl.CategoryLabel("DOMAINS_AND_SITES"), "Domains & sites"},
		{"unknown category", tbl.CategoryLabel("ELSEWHERE"), "ELSEWHERE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	if _, ok := tbl.Type("DOMAIN"); ok {
		t.Error("nil table should not resolve types")
	}
	if got := tbl.TypeLabel("DOMAIN"); got != "DOMAIN" {
		t.Errorf("TypeLabel() = %q, want DOMAIN", got)
	}
	if got := tbl.CategoryLabel("PTM"); got != "PTM" {
		t.Errorf("CategoryLabel() = %q, want PTM", got)
	}
}

func TestLoad(t *testing.T) {
	const doc = `
[types.CUSTOM]
label = "Custom"
color = "#123456"
shape = "diamond"
`
	tbl, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := tbl.TypeLabel("CUSTOM"); got != "Custom" {
		t.Errorf("TypeLabel() = %q, want Custom", got)
	}
}

func TestLoadRejectsUnknownShape(t *testing.T) {
	const doc = `
[types.BAD]
shape = "blob"
`
	if _, err := Load(strings.NewReader(doc)); err == nil {
		t.Error("Load() should reject unknown shapes")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "types.toml")
	if err := os.WriteFile(path, []byte("[categories.X]\nlabel = \"Ex\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if got := tbl.CategoryLabel("X"); got != "Ex" {
		t.Errorf("CategoryLabel() = %q, want Ex", got)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadFile() should fail for a missing file")
	}
}
