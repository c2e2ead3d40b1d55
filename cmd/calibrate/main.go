// Command calibrate uses CMA-ES to find a thermal-velocity scale that
// drives a species to a target time-centered kinetic energy after a fixed
// number of push steps, following the teacher's cmd/optimize structure
// (gonum/optimize.Problem + CmaEsChol, CSV evaluation log).
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"gonum.org/v1/gonum/optimize"

	"github.com/zpic-go/species/field"
	"github.com/zpic-go/species/species"
)

func main() {
	nx := flag.Int("nx", 64, "grid cells")
	ppc := flag.Int("ppc", 100, "particles per cell")
	steps := flag.Int("steps", 200, "push steps per evaluation")
	targetEnergy := flag.Float64("target-energy", 1.0, "target time-centered kinetic energy")
	maxEvals := flag.Int("max-evals", 60, "CMA-ES evaluation budget")
	logPath := flag.String("log", "calibrate_log.csv", "CSV evaluation log path")
	flag.Parse()

	logFile, err := os.Create(*logPath)
	if err != nil {
		log.Fatalf("creating log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()
	logWriter.Write([]string{"eval", "uth", "energy", "error"})

	evaluate := func(uth float64) float64 {
		cfg := species.Config{
			Nx:  *nx,
			PPC: *ppc,
			Box: float32(*nx),
			Dt:  0.05,
			MQ:  -1,
			Uth: [3]float32{float32(uth), float32(uth), float32(uth)},
		}
		s, err := species.New(cfg)
		if err != nil {
			return 1e9
		}
		defer s.Close()

		f := field.NewEMFields(*nx)
		rho := field.NewChargeGrid(*nx)
		j := field.NewCurrentGrid(*nx)

		var lastEnergy float64
		for i := 0; i < *steps; i++ {
			rho.Zero()
			j.Zero()
			s.Advance(f, rho, j)
			lastEnergy = s.Energy()
		}
		return lastEnergy
	}

	evalCount := 0
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			uth := x[0]
			if uth < 0 {
				uth = 0
			}
			energy := evaluate(uth)
			diff := energy - *targetEnergy
			evalCount++

			logWriter.Write([]string{
				strconv.Itoa(evalCount),
				fmt.Sprintf("%.6f", uth),
				fmt.Sprintf("%.6f", energy),
				fmt.Sprintf("%.6f", diff),
			})
			logWriter.Flush()

			return diff * diff
		},
	}

	settings := &optimize.Settings{FuncEvaluations: *maxEvals}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: 8}

	result, err := optimize.Minimize(problem, []float64{0.1}, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	fmt.Printf("calibrated uth = %.6f (target energy = %.4f)\n", result.X[0], *targetEnergy)
}
