package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/gabyx/RustoFluid/pkg/fluid"
)

// loadConfig builds the run configuration: defaults, then the JSON file,
// then explicitly set flags, then the scenario's sources if none were given.
func loadConfig() (fluid.Config, error) {
	cfg := fluid.DefaultConfig()
	cfg.NX, cfg.NY = *nxFlag, *nyFlag
	cfg.Steps = *stepsFlag

	if *configFlag != "" {
		data, err := os.ReadFile(*configFlag)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", *configFlag, err)
		}
	}

	var ferr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "nx":
			cfg.NX = *nxFlag
		case "ny":
			cfg.NY = *nyFlag
		case "h":
			cfg.H = *hFlag
		case "dt":
			cfg.Dt = *dtFlag
		case "steps":
			cfg.Steps = *stepsFlag
		case "viscosity":
			cfg.Viscosity = *viscosityFlag
		case "diffusion":
			cfg.Diffusion = *diffusionFlag
		case "gravity":
			cfg.Gravity = *gravityFlag
		case "vorticity":
			cfg.Confinement = *vorticityFlag
		case "iters":
			cfg.Pressure.Iterations = *itersFlag
		case "tol":
			cfg.Pressure.Tolerance = *tolFlag
		case "workers":
			cfg.Workers = *workersFlag
		case "boundary":
			p, err := fluid.ParseBoundaryPolicy(*boundaryFlag)
			if err != nil {
				ferr = err
				return
			}
			cfg.Boundaries = fluid.AllSides(p)
		}
	})
	if ferr != nil {
		return cfg, ferr
	}

	if len(cfg.Sources) == 0 {
		sources, err := scenarioSources(*scenarioFlag, cfg)
		if err != nil {
			return cfg, err
		}
		cfg.Sources = sources
	}
	return cfg, nil
}

// scenarioSources places the sources of a built-in scenario on the grid.
func scenarioSources(name string, cfg fluid.Config) ([]fluid.Source, error) {
	switch name {
	case "plume":
		x, y := max(cfg.NX/2, 1), max(cfg.NY/2, 1)
		return []fluid.Source{
			{X: x, Y: y, Field: fluid.SourceVelocity, Strength: 1.0, Dir: [2]float64{1, 0}},
			{X: x, Y: y, Field: fluid.SourceDensity, Strength: 1.0},
		}, nil
	case "still", "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown scenario %q", name)
}
