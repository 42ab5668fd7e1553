package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTaxonomy(t *testing.T) {
	c := Default()
	if !c.ValidRoute("ECI") || !c.ValidRoute("Other") {
		t.Fatalf("expected built-in routes to validate")
	}
	if c.ValidRoute("Atlantic") {
		t.Fatalf("unknown route should not validate")
	}
	if !c.ValidSize("18.5kt") {
		t.Fatalf("expected built-in size to validate")
	}
	if !c.ValidLoadBasis("ex-Padang") {
		t.Fatalf("expected built-in load basis to validate")
	}
}

func TestTypesFor(t *testing.T) {
	c := Default()
	types := c.TypesFor("Palms")
	if len(types) == 0 || types[0] != "Crude Palm Oil" {
		t.Fatalf("unexpected Palms types: %v", types)
	}
	fallback := c.TypesFor("Minerals")
	if len(fallback) != 1 || fallback[0] != "Other / To specify" {
		t.Fatalf("unknown family should fall back, got %v", fallback)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if !c.ValidRoute("China") {
		t.Fatalf("expected defaults from empty path")
	}
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `routes:
  - Baltic
  - Other
cargoFamilies:
  - name: Chems
    types:
      - Methanol
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !c.ValidRoute("Baltic") || c.ValidRoute("ECI") {
		t.Fatalf("override routes should replace defaults: %v", c.Routes)
	}
	if got := c.TypesFor("Chems"); len(got) != 1 || got[0] != "Methanol" {
		t.Fatalf("unexpected override types: %v", got)
	}
	// Unspecified sections keep the built-ins.
	if !c.ValidSize("12kt") || !c.ValidLoadBasis("SDS1") {
		t.Fatalf("sizes and load bases should backfill from defaults")
	}
}

func TestLoadRejectsIncompleteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("routes: []\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for catalog without routes and families")
	}
}
