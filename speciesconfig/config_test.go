package speciesconfig

import "testing"

func TestLoadDefaultsParses(t *testing.T) {
	f, err := LoadDefaults()
	if err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	if f.Grid.Nx <= 0 {
		t.Fatalf("expected positive Nx, got %d", f.Grid.Nx)
	}
	if len(f.Spec) == 0 {
		t.Fatal("expected at least one species entry")
	}
}

func TestBuildSpeciesFromDefaults(t *testing.T) {
	f, err := LoadDefaults()
	if err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	specs, err := f.BuildSpecies()
	if err != nil {
		t.Fatalf("BuildSpecies: %v", err)
	}
	if len(specs) != len(f.Spec) {
		t.Fatalf("expected %d species, got %d", len(f.Spec), len(specs))
	}
	for i, s := range specs {
		if s.Len() == 0 {
			t.Errorf("species %d (%s) injected 0 particles", i, f.Spec[i].Name)
		}
	}
}

func TestUnknownDensityKindErrors(t *testing.T) {
	_, err := (&DensityEntry{Kind: "bogus"}).toProfile()
	if err == nil {
		t.Fatal("expected error for unknown density kind")
	}
}

func TestCustomDensityKindRejectedFromYAML(t *testing.T) {
	_, err := (&DensityEntry{Kind: "custom"}).toProfile()
	if err == nil {
		t.Fatal("expected error: custom profiles cannot be expressed in YAML")
	}
}
