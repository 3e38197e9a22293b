package fluid

import "math"

// relaxation is one linear solve by red-black successive over-relaxation.
// A sweep is two colour passes; each pass reads x.cur only, writes every
// cell of x.next (relaxed or copied) and swaps, so results do not depend on
// the worker count. After each pass boundary refreshes the ghost layer.
type relaxation struct {
	x        *Field
	settings Relax
	omega    float64
	// target returns the Gauss-Seidel value for cell c, or false if c is
	// not an unknown of this solve.
	target   func(c int) (float64, bool)
	boundary func()
	// residual, when set, measures convergence after each sweep instead of
	// the largest per-cell change.
	residual func() float64
}

type relaxResult struct {
	sweeps    int
	residual  float64
	converged bool
}

func (f *Fluid) relax(r relaxation) relaxResult {
	var res relaxResult
	for res.sweeps < r.settings.Iterations {
		change := f.relaxPass(r, 0)
		change = max(change, f.relaxPass(r, 1))
		res.sweeps++

		res.residual = change
		if r.residual != nil {
			res.residual = r.residual()
		}
		if r.settings.Tolerance > 0 && res.residual < r.settings.Tolerance {
			res.converged = true
			return res
		}
	}
	// A zero tolerance asks for a fixed number of sweeps.
	res.converged = r.settings.Tolerance == 0
	return res
}

func (f *Fluid) relaxPass(r relaxation, colour int) float64 {
	x := r.x
	change := f.pool.maxCells(f.numCells, func(c int) float64 {
		i, j := f.coords(c)
		old := x.cur[c]
		if (i+j)&1 != colour {
			x.next[c] = old
			return 0
		}
		gs, ok := r.target(c)
		if !ok {
			x.next[c] = old
			return 0
		}
		val := old + r.omega*(gs-old)
		x.next[c] = val
		return math.Abs(val - old)
	})
	x.swap()
	if r.boundary != nil {
		r.boundary()
	}
	return change
}

// omegaFor returns the over-relaxation factor to use. A periodic axis with
// an odd cell count puts two cells of the same colour next to each other
// across the wrap, where over-relaxation can diverge; those grids fall back
// to plain Gauss-Seidel.
func (f *Fluid) omegaFor(r Relax) float64 {
	b := f.cfg.Boundaries
	if (b.periodicX() && f.cfg.NX%2 == 1) || (b.periodicY() && f.cfg.NY%2 == 1) {
		return math.Min(r.Omega, 1)
	}
	return r.Omega
}
