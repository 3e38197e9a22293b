package fluid

import "math"

// project makes the velocity divergence free. It solves
//
//	lap(p) = rho * div(u) / dt
//
// with Neumann conditions at walls and obstacles, then subtracts
// dt/rho * grad(p) from every open face.
func (f *Fluid) project(step int) []ConvergenceWarning {
	n := f.NumY
	s := f.s
	p := f.p
	div := f.div
	// scale turns a pressure Laplacian into a divergence correction.
	scale := f.cfg.FluidDensity * f.h * f.h / f.cfg.Dt

	f.pool.cells(f.numCells, func(c int) {
		if f.fluidCell(c) {
			div[c] = f.divergence(f.coords(c))
		} else {
			div[c] = 0
		}
	})
	p.reset()

	// remaining returns the divergence cell c keeps after subtracting the
	// gradient of the current pressure.
	remaining := func(c int) float64 {
		pc := p.cur[c]
		flux := s[c-n]*(p.cur[c-n]-pc) + s[c+n]*(p.cur[c+n]-pc) +
			s[c-1]*(p.cur[c-1]-pc) + s[c+1]*(p.cur[c+1]-pc)
		return div[c] - flux/scale
	}

	res := f.relax(relaxation{
		x:        p,
		settings: f.cfg.Pressure,
		omega:    f.omegaFor(f.cfg.Pressure),
		target: func(c int) (float64, bool) {
			if !f.fluidCell(c) {
				return 0, false
			}
			sn := s[c-n] + s[c+n] + s[c-1] + s[c+1]
			if sn == 0 {
				return 0, false
			}
			ps := p.cur
			sum := s[c-n]*ps[c-n] + s[c+n]*ps[c+n] + s[c-1]*ps[c-1] + s[c+1]*ps[c+1]
			return (sum - scale*div[c]) / sn, true
		},
		boundary: func() { f.enforceScalarBoundaries(p.cur) },
		residual: func() float64 {
			return f.pool.maxCells(f.numCells, func(c int) float64 {
				if !f.fluidCell(c) {
					return 0
				}
				return math.Abs(remaining(c))
			})
		},
	})
	f.stats.PressureSweeps = res.sweeps
	f.stats.PressureResidual = res.residual

	f.applyPressureGradient()

	if res.converged {
		return nil
	}
	return []ConvergenceWarning{{
		Step:       step,
		Stage:      StageProject,
		Field:      "pressure",
		Iterations: res.sweeps,
		Residual:   res.residual,
		Tolerance:  f.cfg.Pressure.Tolerance,
	}}
}

// applyPressureGradient updates every open face from the pressure
// difference across it.
func (f *Fluid) applyPressureGradient() {
	n := f.NumY
	k := f.cfg.Dt / (f.cfg.FluidDensity * f.h)
	u, v, p := f.u, f.v, f.p.cur

	f.pool.cells(f.numCells, func(c int) {
		i, j := f.coords(c)
		if f.openU(i, j) {
			u.next[c] = u.cur[c] - k*(p[c]-p[c-n])
		} else {
			u.next[c] = u.cur[c]
		}
		if f.openV(i, j) {
			v.next[c] = v.cur[c] - k*(p[c]-p[c-1])
		} else {
			v.next[c] = v.cur[c]
		}
	})
	u.swap()
	v.swap()
	f.enforceVelocityBoundaries()
}

// Pressure returns a copy of the pressure from the last projection.
func (f *Fluid) Pressure() ScalarField {
	return f.scalarField(f.p.snapshot())
}
