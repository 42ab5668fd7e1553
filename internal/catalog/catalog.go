// Package catalog holds the desk's route/cargo/size/basis taxonomy. The
// built-in defaults match the desk's standing palm/vegoil book; an optional
// YAML file can replace them without a rebuild.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Family struct {
	Name  string   `yaml:"name" json:"name"`
	Types []string `yaml:"types" json:"types"`
}

type Catalog struct {
	Routes    []string `yaml:"routes" json:"routes"`
	Families  []Family `yaml:"cargoFamilies" json:"cargoFamilies"`
	Sizes     []string `yaml:"sizes" json:"sizes"`
	LoadBases []string `yaml:"loadBases" json:"loadBases"`
}

// Default returns the built-in taxonomy.
func Default() Catalog {
	return Catalog{
		Routes: []string{
			"ECI", "China", "WCI/Paki", "AG/Red Sea", "Africa",
			"Long Haul", "SEA/Philippines", "Other",
		},
		Families: []Family{
			{Name: "Palms", Types: []string{
				"Crude Palm Oil", "Crude Palm Olein", "RBD Palm Oil",
				"RBD Palm Olein", "RBD Palm Stearin", "Palm Fatty Acid Distillate",
			}},
			{Name: "Lauric", Types: []string{
				"Crude Palm Kernel Oil", "RBD Palm Kernel Oil", "RBD Palm Kernel Olein",
				"RBD Palm Kernel Stearin", "Split Palm Kernel Fatty Acids",
				"Palm Kernel Fatty Acid Distillate",
			}},
			{Name: "Oleo", Types: []string{
				"Hydrogenated Palm Stearin", "Fatty Acid (PFAD base)",
				"Crude Glycerine", "Refined Glycerine", "Palm Stearin Fatty Acid",
				"Fatty Alcohol", "Lauric Acid 70%",
			}},
			{Name: "Bios", Types: []string{
				"Empty Fruit Bunch Oil", "Palm Oil Mill Effluent Oil",
				"Palm Pressed Fibre Oil", "Spent Bleaching Earth Oil",
				"Used Cooking Oil", "Sludge Palm Oil", "Food Waste", "Food Residue",
			}},
			{Name: "Other", Types: []string{"Other / To specify"}},
		},
		Sizes:     []string{"12kt", "18.5kt", "30kt", "40kt", "Other"},
		LoadBases: []string{"ex-Padang", "ex-Balik", "SDS1", "SDS2", "Other"},
	}
}

// Load reads a taxonomy override from a YAML file. An empty path returns the
// defaults.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog file: %w", err)
	}
	if len(c.Routes) == 0 || len(c.Families) == 0 {
		return Catalog{}, fmt.Errorf("catalog file %s: routes and cargoFamilies are required", path)
	}
	if len(c.Sizes) == 0 {
		c.Sizes = Default().Sizes
	}
	if len(c.LoadBases) == 0 {
		c.LoadBases = Default().LoadBases
	}
	return c, nil
}

// ValidRoute reports whether route is in the taxonomy.
func (c Catalog) ValidRoute(route string) bool {
	return contains(c.Routes, route)
}

// ValidSize reports whether size is in the taxonomy.
func (c Catalog) ValidSize(size string) bool {
	return contains(c.Sizes, size)
}

// ValidLoadBasis reports whether basis is in the taxonomy.
func (c Catalog) ValidLoadBasis(basis string) bool {
	return contains(c.LoadBases, basis)
}

// TypesFor returns the cargo types of a family, or the Other fallback when
// the family is unknown.
func (c Catalog) TypesFor(family string) []string {
	for _, f := range c.Families {
		if f.Name == family {
			return f.Types
		}
	}
	return []string{"Other / To specify"}
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
