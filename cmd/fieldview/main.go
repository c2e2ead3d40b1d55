// Command fieldview is a live raylib viewer for a running species'
// charge-density diagnostic. Diagnostic probe markers (not particles) are
// tracked as ark ECS entities, the same library the teacher uses for its
// organism population, here repurposed for a small UI overlay rather than
// the particle hot path.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gen2brain/raylib-go/raygui"
	"github.com/mlange-42/ark/ecs"

	"github.com/zpic-go/species/field"
	"github.com/zpic-go/species/speciesconfig"
)

// probePosition marks a user-placed diagnostic marker's grid cell.
type probePosition struct {
	Cell int
}

const (
	screenWidth  = 1000
	screenHeight = 600
	plotHeight   = 400
)

func main() {
	configPath := flag.String("config", "", "species config YAML (empty = built-in defaults)")
	headless := flag.Bool("headless", false, "run one tick and exit without opening a window (smoke test)")
	flag.Parse()

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

	world := ecs.NewWorld()
	probeMap := ecs.NewMap1[probePosition](world)
	probeMap.NewEntity(&probePosition{Cell: nx / 2})

	step := func() {
		rho.Zero()
		j.Zero()
		for _, s := range specs {
			s.Advance(f, rho, j)
		}
	}

	if *headless {
		step()
		fmt.Printf("fieldview headless tick: %d species, nx=%d\n", len(specs), nx)
		return
	}

	rl.InitWindow(screenWidth, screenHeight, "species charge density")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	probeQuery := ecs.NewFilter1[probePosition](world)

	for !rl.WindowShouldClose() {
		step()

		if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			mx := rl.GetMouseX()
			if mx >= 0 && mx < screenWidth {
				cell := int(float64(mx) / float64(screenWidth) * float64(nx))
				probeMap.NewEntity(&probePosition{Cell: cell})
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawChargePlot(rho.Rho, nx)

		query := probeQuery.Query()
		for query.Next() {
			p := query.Get()
			x := int32(float64(p.Cell) / float64(nx) * screenWidth)
			rl.DrawLine(x, 0, x, plotHeight, rl.Red)
		}

		raygui.Label(rl.NewRectangle(10, float32(plotHeight+10), 300, 20),
			fmt.Sprintf("species=%d  click to add probe", len(specs)))

		rl.EndDrawing()
	}
}

func drawChargePlot(rho []float32, nx int) {
	var maxAbs float32 = 1e-6
	for _, v := range rho[:nx] {
		if v < 0 {
			v = -v
		}
		if v > maxAbs {
			maxAbs = v
		}
	}

	mid := int32(plotHeight / 2)
	rl.DrawLine(0, mid, screenWidth, mid, rl.LightGray)

	prevX, prevY := int32(0), mid
	for i := 0; i < nx; i++ {
		x := int32(float64(i) / float64(nx) * screenWidth)
		y := mid - int32(rho[i]/maxAbs*float32(plotHeight/2-10))
		if i > 0 {
			rl.DrawLine(prevX, prevY, x, y, rl.Blue)
		}
		prevX, prevY = x, y
	}
}
