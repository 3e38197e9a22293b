package fluid

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// BoundaryPolicy selects how the outermost cell layer is treated on one side
// of the domain.
type BoundaryPolicy int

const (
	// NoSlip walls stop the flow: normal and tangential velocity vanish at
	// the wall.
	NoSlip BoundaryPolicy = iota
	// FreeSlip walls stop the normal component only.
	FreeSlip
	// Periodic sides wrap around to the opposite side.
	Periodic
)

func (b BoundaryPolicy) String() string {
	switch b {
	case NoSlip:
		return "no-slip"
	case FreeSlip:
		return "free-slip"
	case Periodic:
		return "periodic"
	}
	return fmt.Sprintf("BoundaryPolicy(%d)", int(b))
}

// ParseBoundaryPolicy accepts the names produced by String.
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no-slip", "noslip", "wall":
		return NoSlip, nil
	case "free-slip", "freeslip", "slip":
		return FreeSlip, nil
	case "periodic", "wrap":
		return Periodic, nil
	}
	return NoSlip, fmt.Errorf("unknown boundary policy %q", s)
}

func (b BoundaryPolicy) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *BoundaryPolicy) UnmarshalText(text []byte) error {
	p, err := ParseBoundaryPolicy(string(text))
	if err != nil {
		return err
	}
	*b = p
	return nil
}

// Boundaries holds one policy per domain side.
type Boundaries struct {
	Left   BoundaryPolicy `json:"left"`
	Right  BoundaryPolicy `json:"right"`
	Bottom BoundaryPolicy `json:"bottom"`
	Top    BoundaryPolicy `json:"top"`
}

// AllSides returns Boundaries using p on every side.
func AllSides(p BoundaryPolicy) Boundaries {
	return Boundaries{Left: p, Right: p, Bottom: p, Top: p}
}

func (b Boundaries) periodicX() bool { return b.Left == Periodic }
func (b Boundaries) periodicY() bool { return b.Bottom == Periodic }

// SourceField names the quantity a Source feeds.
type SourceField int

const (
	SourceDensity SourceField = iota
	SourceVelocity
)

func (s SourceField) String() string {
	switch s {
	case SourceDensity:
		return "density"
	case SourceVelocity:
		return "velocity"
	}
	return fmt.Sprintf("SourceField(%d)", int(s))
}

func (s SourceField) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *SourceField) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "density", "dye", "smoke":
		*s = SourceDensity
	case "velocity":
		*s = SourceVelocity
	default:
		return fmt.Errorf("unknown source field %q", string(text))
	}
	return nil
}

// Source injects a quantity at one interior cell every step. Strength is a
// rate: a step of length dt adds dt*Strength (times Dir for velocity).
type Source struct {
	X        int         `json:"x"`
	Y        int         `json:"y"`
	Field    SourceField `json:"field"`
	Strength float64     `json:"strength"`
	// Dir is the direction of a velocity source. Ignored for density.
	Dir [2]float64 `json:"dir,omitempty"`
}

// Obstacle is a solid disc of cells.
type Obstacle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`
}

// Relax configures one red-black relaxation solve.
type Relax struct {
	// Iterations caps the number of sweeps.
	Iterations int `json:"iterations"`
	// Tolerance ends the solve early. Zero runs exactly Iterations sweeps
	// and never reports a convergence warning.
	Tolerance float64 `json:"tolerance"`
	// Omega is the over-relaxation factor, in (0, 2).
	Omega float64 `json:"omega"`
}

// Config is everything needed to build a Fluid. Cell coordinates used by
// sources and obstacles count the ghost layer, so interior cells run from 1
// to NX (and 1 to NY).
type Config struct {
	NX    int     `json:"nx"`
	NY    int     `json:"ny"`
	H     float64 `json:"h"`
	Dt    float64 `json:"dt"`
	Steps int     `json:"steps"`

	// FluidDensity scales pressure; velocities do not depend on it.
	FluidDensity float64 `json:"fluidDensity"`
	Viscosity    float64 `json:"viscosity"`
	Diffusion    float64 `json:"diffusion"`
	Gravity      float64 `json:"gravity"`
	// Confinement is the vorticity confinement strength. Zero disables it.
	Confinement float64 `json:"confinement"`

	Diffuse  Relax `json:"diffuse"`
	Pressure Relax `json:"pressure"`

	Boundaries Boundaries `json:"boundaries"`
	Sources    []Source   `json:"sources,omitempty"`
	Obstacles  []Obstacle `json:"obstacles,omitempty"`

	// Workers is the number of goroutines per parallel pass. Zero uses
	// runtime.GOMAXPROCS.
	Workers int `json:"workers"`
}

// DefaultConfig returns a 64x64 closed box at rest.
func DefaultConfig() Config {
	return Config{
		NX:           64,
		NY:           64,
		H:            1.0,
		Dt:           0.1,
		Steps:        100,
		FluidDensity: 1.0,
		Viscosity:    0.0001,
		Diffusion:    0.0,
		Diffuse:      Relax{Iterations: 20, Tolerance: 1e-6, Omega: 1.0},
		Pressure:     Relax{Iterations: 1000, Tolerance: 1e-6, Omega: 1.9},
		Boundaries:   AllSides(NoSlip),
	}
}

// Validate reports every invalid field, joined into one error. Each part is a
// *ConfigError.
func (c Config) Validate() error {
	var errs []error
	bad := func(field, format string, args ...any) {
		errs = append(errs, &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}
	finite := func(field string, v float64) bool {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad(field, "must be finite, got %v", v)
			return false
		}
		return true
	}

	if c.NX <= 0 {
		bad("nx", "must be positive, got %d", c.NX)
	}
	if c.NY <= 0 {
		bad("ny", "must be positive, got %d", c.NY)
	}
	if finite("h", c.H) && c.H <= 0 {
		bad("h", "must be positive, got %v", c.H)
	}
	if finite("dt", c.Dt) && c.Dt <= 0 {
		bad("dt", "must be positive, got %v", c.Dt)
	}
	if c.Steps <= 0 {
		bad("steps", "must be positive, got %d", c.Steps)
	}
	if finite("fluidDensity", c.FluidDensity) && c.FluidDensity <= 0 {
		bad("fluidDensity", "must be positive, got %v", c.FluidDensity)
	}
	if finite("viscosity", c.Viscosity) && c.Viscosity < 0 {
		bad("viscosity", "must not be negative, got %v", c.Viscosity)
	}
	if finite("diffusion", c.Diffusion) && c.Diffusion < 0 {
		bad("diffusion", "must not be negative, got %v", c.Diffusion)
	}
	finite("gravity", c.Gravity)
	if finite("confinement", c.Confinement) && c.Confinement < 0 {
		bad("confinement", "must not be negative, got %v", c.Confinement)
	}
	for _, nr := range []struct {
		name string
		r    Relax
	}{{"diffuse", c.Diffuse}, {"pressure", c.Pressure}} {
		name, r := nr.name, nr.r
		if r.Iterations <= 0 {
			bad(name+".iterations", "must be positive, got %d", r.Iterations)
		}
		if finite(name+".tolerance", r.Tolerance) && r.Tolerance < 0 {
			bad(name+".tolerance", "must not be negative, got %v", r.Tolerance)
		}
		if finite(name+".omega", r.Omega) && (r.Omega <= 0 || r.Omega >= 2) {
			bad(name+".omega", "must be in (0, 2), got %v", r.Omega)
		}
	}
	if c.Workers < 0 {
		bad("workers", "must not be negative, got %d", c.Workers)
	}

	b := c.Boundaries
	if (b.Left == Periodic) != (b.Right == Periodic) {
		bad("boundaries", "left and right must both be periodic or both be walls")
	}
	if (b.Bottom == Periodic) != (b.Top == Periodic) {
		bad("boundaries", "bottom and top must both be periodic or both be walls")
	}
	for _, p := range []BoundaryPolicy{b.Left, b.Right, b.Bottom, b.Top} {
		if p < NoSlip || p > Periodic {
			bad("boundaries", "unknown policy %d", int(p))
		}
	}

	for k, s := range c.Sources {
		field := fmt.Sprintf("sources[%d]", k)
		if s.X < 1 || s.X > c.NX || s.Y < 1 || s.Y > c.NY {
			bad(field, "cell (%d,%d) outside interior [1,%d]x[1,%d]", s.X, s.Y, c.NX, c.NY)
		}
		finite(field+".strength", s.Strength)
		switch s.Field {
		case SourceDensity:
		case SourceVelocity:
			if finite(field+".dir", s.Dir[0]) && finite(field+".dir", s.Dir[1]) &&
				s.Dir[0] == 0 && s.Dir[1] == 0 {
				bad(field+".dir", "velocity source needs a non-zero direction")
			}
		default:
			bad(field+".field", "unknown field %d", int(s.Field))
		}
	}
	for k, o := range c.Obstacles {
		if o.Radius < 0 {
			bad(fmt.Sprintf("obstacles[%d].radius", k), "must not be negative, got %d", o.Radius)
		}
	}

	return errors.Join(errs...)
}
