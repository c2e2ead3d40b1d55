// Command pushbench runs a headless particle-push benchmark: it builds
// the configured species, advances them for a fixed number of iterations
// against zeroed fields, and reports push throughput.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/zpic-go/species/field"
	"github.com/zpic-go/species/speciesconfig"
)

func main() {
	configPath := flag.String("config", "", "species config YAML (empty = built-in defaults)")
	steps := flag.Int("steps", 1000, "number of Advance iterations to run")
	parallel := flag.Bool("parallel", false, "use AdvanceParallel instead of Advance")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var cfgFile *speciesconfig.File
	var err error
	if *configPath == "" {
		cfgFile, err = speciesconfig.LoadDefaults()
	} else {
		data, readErr := os.ReadFile(*configPath)
		if readErr != nil {
			log.Fatalf("reading config: %v", readErr)
		}
		cfgFile, err = speciesconfig.Load(data)
	}
	if err != nil {
		log.Fatalf("loading species config: %v", err)
	}

	specs, err := cfgFile.BuildSpecies()
	if err != nil {
		log.Fatalf("building species: %v", err)
	}

	nx := cfgFile.Grid.Nx
	f := field.NewEMFields(nx)
	rho := field.NewChargeGrid(nx)
	j := field.NewCurrentGrid(nx)

	totalParticles := 0
	for _, s := range specs {
		totalParticles += s.Len()
	}
	logger.Info("starting push benchmark",
		"species", len(specs), "particles", totalParticles, "steps", *steps, "parallel", *parallel)

	t0 := time.Now()
	for step := 0; step < *steps; step++ {
		rho.Zero()
		j.Zero()
		for _, s := range specs {
			if *parallel {
				s.AdvanceParallel(f, rho, j)
			} else {
				s.Advance(f, rho, j)
			}
		}
	}
	elapsed := time.Since(t0)

	var totalPush uint64
	for _, s := range specs {
		totalPush += s.NPush()
	}

	fmt.Printf("steps=%d species=%d total_pushes=%d elapsed=%s ns_per_push=%.2f\n",
		*steps, len(specs), totalPush, elapsed, float64(elapsed.Nanoseconds())/float64(totalPush))

	for _, s := range specs {
		fmt.Printf("  perf: species=%s npush=%d perf=%s\n", s.Name(), s.NPush(), s.Perf())
	}
}
