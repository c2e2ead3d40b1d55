// Package speciesconfig loads particle species definitions from YAML,
// following the teacher's embedded-defaults configuration pattern.
package speciesconfig

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/zpic-go/species/density"
	"github.com/zpic-go/species/species"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// File is the top-level YAML document: simulation geometry shared by
// every species, plus a list of species definitions.
type File struct {
	Grid GridConfig     `yaml:"grid"`
	Spec []SpeciesEntry `yaml:"species"`
}

// GridConfig holds the box geometry every species is injected onto.
type GridConfig struct {
	Nx  int     `yaml:"nx"`
	Box float32 `yaml:"box"`
	Dt  float32 `yaml:"dt"`
}

// DensityEntry mirrors density.Profile but with YAML tags and a string
// Kind, so profiles round-trip through text config.
type DensityEntry struct {
	Kind  string  `yaml:"kind"`
	N     float64 `yaml:"n"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Ramp0 float64 `yaml:"ramp0"`
	Ramp1 float64 `yaml:"ramp1"`
}

func (d DensityEntry) toProfile() (density.Profile, error) {
	var kind density.Kind
	switch d.Kind {
	case "", "uniform":
		kind = density.Uniform
	case "empty":
		kind = density.Empty
	case "step":
		kind = density.Step
	case "slab":
		kind = density.Slab
	case "ramp":
		kind = density.Ramp
	case "custom":
		return density.Profile{}, fmt.Errorf("speciesconfig: custom density profiles must be set programmatically, not via YAML")
	default:
		return density.Profile{}, fmt.Errorf("speciesconfig: unknown density kind %q", d.Kind)
	}
	return density.Profile{
		Kind:  kind,
		N:     d.N,
		Start: d.Start,
		End:   d.End,
		Ramp0: d.Ramp0,
		Ramp1: d.Ramp1,
	}, nil
}

// SpeciesEntry is one species' YAML definition.
type SpeciesEntry struct {
	Name    string       `yaml:"name"`
	MQ      float32      `yaml:"mq"`
	PPC     int          `yaml:"ppc"`
	Ufl     [3]float32   `yaml:"ufl"`
	Uth     [3]float32   `yaml:"uth"`
	NSort   int          `yaml:"n_sort"`
	Seed    int64        `yaml:"seed"`
	Density DensityEntry `yaml:"density"`
}

// Load parses YAML-encoded species configuration.
func Load(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("speciesconfig: parse: %w", err)
	}
	return &f, nil
}

// LoadDefaults returns the configuration embedded at build time.
func LoadDefaults() (*File, error) {
	return Load(defaultsYAML)
}

// BuildSpecies constructs one species.Species per entry in f.Spec, using
// f.Grid for the shared box geometry.
func (f *File) BuildSpecies() ([]*species.Species, error) {
	out := make([]*species.Species, 0, len(f.Spec))
	for _, entry := range f.Spec {
		profile, err := entry.Density.toProfile()
		if err != nil {
			return nil, fmt.Errorf("speciesconfig: species %q: %w", entry.Name, err)
		}

		s, err := species.New(species.Config{
			Name:    entry.Name,
			MQ:      entry.MQ,
			PPC:     entry.PPC,
			Nx:      f.Grid.Nx,
			Box:     f.Grid.Box,
			Dt:      f.Grid.Dt,
			Ufl:     entry.Ufl,
			Uth:     entry.Uth,
			Density: profile,
			NSort:   entry.NSort,
			Seed:    entry.Seed,
		})
		if err != nil {
			return nil, fmt.Errorf("speciesconfig: species %q: %w", entry.Name, err)
		}
		out = append(out, s)
	}
	return out, nil
}
