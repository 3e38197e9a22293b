package fluid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Fluid is an incompressible 2D flow on a MAC grid with one ghost layer on
// every side. It owns all field buffers for the lifetime of a run.
type Fluid struct {
	cfg Config
	h   float64

	NumX, NumY int // interior plus the two ghost layers
	numCells   int

	u, v *Field // staggered velocity
	m    *Field // density / dye
	p    *Field // pressure

	div     []float64
	s       []float64 // solid (0) or fluid (1)
	scratch []float64

	pool pool

	state State
	step  int
	stats Stats
}

// New validates cfg and allocates a fluid at rest.
func New(cfg Config) (*Fluid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	numX, numY := cfg.NX+2, cfg.NY+2
	numCells := numX * numY
	f := &Fluid{
		cfg:      cfg,
		h:        cfg.H,
		NumX:     numX,
		NumY:     numY,
		numCells: numCells,
		u:        newField(numX, numY),
		v:        newField(numX, numY),
		m:        newField(numX, numY),
		p:        newField(numX, numY),
		div:      make([]float64, numCells),
		s:        make([]float64, numCells),
		scratch:  make([]float64, numCells),
		pool:     newPool(cfg.Workers),
	}
	f.cfg.Sources = append([]Source(nil), cfg.Sources...)
	for i := 1; i <= cfg.NX; i++ {
		for j := 1; j <= cfg.NY; j++ {
			f.s[f.idx(i, j)] = 1
		}
	}
	for _, o := range cfg.Obstacles {
		f.SetCircularObstacle(o.X, o.Y, o.Radius)
	}
	f.refreshSolidGhosts()
	f.enforceBoundaries()
	return f, nil
}

// H returns the grid spacing.
func (f *Fluid) H() float64 { return f.h }

// Config returns the configuration the fluid was built from.
func (f *Fluid) Config() Config { return f.cfg }

func (f *Fluid) idx(i, j int) int { return i*f.NumY + j }

func (f *Fluid) coords(c int) (int, int) { return c / f.NumY, c % f.NumY }

func (f *Fluid) interior(i, j int) bool {
	return i >= 1 && i < f.NumX-1 && j >= 1 && j < f.NumY-1
}

// fluidCell reports whether c is an interior cell that is not solid.
func (f *Fluid) fluidCell(c int) bool {
	i, j := f.coords(c)
	return f.interior(i, j) && f.s[c] != 0
}

// openU reports whether the u face at (i,j) is free to carry flow and is
// owned by the solver. The face at i = NumX-1 is either a wall or a periodic
// copy of the face at i = 1, so it is never owned.
func (f *Fluid) openU(i, j int) bool {
	if i < 1 || i > f.NumX-2 || j < 1 || j > f.NumY-2 {
		return false
	}
	n := f.NumY
	return f.s[(i-1)*n+j] != 0 && f.s[i*n+j] != 0
}

func (f *Fluid) openV(i, j int) bool {
	if i < 1 || i > f.NumX-2 || j < 1 || j > f.NumY-2 {
		return false
	}
	n := f.NumY
	return f.s[i*n+j-1] != 0 && f.s[i*n+j] != 0
}

// avgU is u averaged onto the v face at (i,j).
func (f *Fluid) avgU(u []float64, i, j int) float64 {
	n := f.NumY
	return (u[i*n+j-1] + u[i*n+j] +
		u[(i+1)*n+j-1] + u[(i+1)*n+j]) * 0.25
}

// avgV is v averaged onto the u face at (i,j).
func (f *Fluid) avgV(v []float64, i, j int) float64 {
	n := f.NumY
	return (v[(i-1)*n+j] + v[i*n+j] +
		v[(i-1)*n+j+1] + v[i*n+j+1]) * 0.25
}

// centreVelocity averages the staggered faces of cell (i,j).
func (f *Fluid) centreVelocity(i, j int) (float64, float64) {
	n := f.NumY
	u := (f.u.cur[i*n+j] + f.u.cur[(i+1)*n+j]) * 0.5
	v := (f.v.cur[i*n+j] + f.v.cur[i*n+j+1]) * 0.5
	return u, v
}

// divergence of cell (i,j) from the current velocity.
func (f *Fluid) divergence(i, j int) float64 {
	n := f.NumY
	u, v := f.u.cur, f.v.cur
	return (u[(i+1)*n+j] - u[i*n+j] + v[i*n+j+1] - v[i*n+j]) / f.h
}

// interiorValues gathers the interior of buf into a new slice, column by
// column.
func (f *Fluid) interiorValues(buf []float64) []float64 {
	nx, ny := f.NumX-2, f.NumY-2
	out := make([]float64, 0, nx*ny)
	for i := 1; i <= nx; i++ {
		out = append(out, buf[i*f.NumY+1:i*f.NumY+1+ny]...)
	}
	return out
}

// MaxDivergence returns the maximum absolute divergence across all fluid cells.
func (f *Fluid) MaxDivergence() float64 {
	return f.pool.maxCells(f.numCells, func(c int) float64 {
		if !f.fluidCell(c) {
			return 0
		}
		return math.Abs(f.divergence(f.coords(c)))
	})
}

// MaxSpeed returns the largest cell-centred speed.
func (f *Fluid) MaxSpeed() float64 {
	return f.pool.maxCells(f.numCells, func(c int) float64 {
		if !f.fluidCell(c) {
			return 0
		}
		u, v := f.centreVelocity(f.coords(c))
		return math.Hypot(u, v)
	})
}

// CFL returns the Courant number of the current velocity for the configured
// timestep. Advection stays stable above 1 but loses accuracy.
func (f *Fluid) CFL() float64 { return f.MaxSpeed() * f.cfg.Dt / f.h }

// TotalDensity sums density over the interior.
func (f *Fluid) TotalDensity() float64 {
	return floats.Sum(f.interiorValues(f.m.cur))
}

// SampleVelocity returns the interpolated velocity at an arbitrary world
// position; cell (i,j) spans [i*h,(i+1)*h] x [j*h,(j+1)*h].
func (f *Fluid) SampleVelocity(x, y float64) (float64, float64) {
	gx, gy := x/f.h, y/f.h
	u := f.sample(f.u.cur, gx, gy-0.5, staggerU)
	v := f.sample(f.v.cur, gx-0.5, gy, staggerV)
	return u, v
}

// Vorticity computes the curl of the velocity field at cell centres.
func (f *Fluid) Vorticity() ScalarField {
	vals := make([]float64, f.numCells)
	f.pool.cells(f.numCells, func(c int) {
		if f.fluidCell(c) {
			vals[c] = f.curl(f.coords(c))
		}
	})
	return f.scalarField(vals)
}

// curl uses central differences of the faces around cell (i,j).
func (f *Fluid) curl(i, j int) float64 {
	n := f.NumY
	u, v := f.u.cur, f.v.cur
	dvdx := (v[(i+1)*n+j] - v[(i-1)*n+j]) * 0.5 / f.h
	dudy := (u[i*n+j+1] - u[i*n+j-1]) * 0.5 / f.h
	return dvdx - dudy
}

// VelocityMagnitude computes |v| at cell centres.
func (f *Fluid) VelocityMagnitude() ScalarField {
	vals := make([]float64, f.numCells)
	f.pool.cells(f.numCells, func(c int) {
		if f.fluidCell(c) {
			u, v := f.centreVelocity(f.coords(c))
			vals[c] = math.Hypot(u, v)
		}
	})
	return f.scalarField(vals)
}

// Reset zeroes every field and rewinds the stepper. Obstacles are kept.
func (f *Fluid) Reset() {
	f.u.reset()
	f.v.reset()
	f.m.reset()
	f.p.reset()
	fill(f.div, 0)
	f.state = Initialized
	f.step = 0
	f.stats = Stats{}
}
