package main

import "flag"

// Command-line flags. Simulation flags override the configuration file only
// when they are given explicitly.
var (
	// configFlag names a JSON file laid over the scenario defaults.
	configFlag = flag.String("config", "", "JSON configuration file")

	// scenarioFlag picks the sources placed when the configuration has none.
	scenarioFlag = flag.String("scenario", "plume", "built-in scenario: plume or still")

	nxFlag    = flag.Int("nx", 32, "interior cells along x")
	nyFlag    = flag.Int("ny", 32, "interior cells along y")
	hFlag     = flag.Float64("h", 1.0, "cell spacing")
	dtFlag    = flag.Float64("dt", 0.1, "timestep")
	stepsFlag = flag.Int("steps", 50, "number of steps to run")

	viscosityFlag = flag.Float64("viscosity", 0.0001, "kinematic viscosity")
	diffusionFlag = flag.Float64("diffusion", 0.0, "dye diffusion rate")
	gravityFlag   = flag.Float64("gravity", 0.0, "vertical body acceleration")
	vorticityFlag = flag.Float64("vorticity", 0.0, "vorticity confinement strength")

	// itersFlag and tolFlag control the pressure solve.
	itersFlag = flag.Int("iters", 1000, "maximum pressure sweeps per step")
	tolFlag   = flag.Float64("tol", 1e-6, "pressure convergence threshold on divergence (0 runs all sweeps)")

	boundaryFlag = flag.String("boundary", "no-slip", "policy for every side: no-slip, free-slip or periodic")
	workersFlag  = flag.Int("workers", 0, "goroutines per parallel pass (0 uses GOMAXPROCS)")

	// outFlag enables PNG frames of the dye field.
	outFlag     = flag.String("out", "", "directory for PNG frames of the dye field")
	everyFlag   = flag.Int("every", 1, "write a frame every N steps")
	scaleFlag   = flag.Int("scale", 8, "pixels per cell in frames and the viewer")
	paletteFlag = flag.String("palette", "sci", "colour map: sci, viridis, turbo, inferno")

	plotFlag  = flag.String("plot", "", "write a convergence history chart to this PNG file")
	serveFlag = flag.String("serve", "", "stream snapshots over websocket on this address, e.g. :8080")

	// viewFlag opens an interactive window instead of running headless.
	viewFlag = flag.Bool("view", false, "open an interactive viewer")
)
