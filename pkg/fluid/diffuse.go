package fluid

// diffuse applies implicit (backward Euler) diffusion to the velocity
// components with the viscosity and to density with the diffusion rate.
// Each cell solves
//
//	x[c] = (x0[c] + k*sum(x[nbrs])) / (1 + 4k),  k = rate*dt/h^2
//
// which is stable for any k.
func (f *Fluid) diffuse(step int) []ConvergenceWarning {
	var warnings []ConvergenceWarning
	report := func(field string, res relaxResult) {
		f.stats.DiffusionSweeps += res.sweeps
		if !res.converged {
			warnings = append(warnings, ConvergenceWarning{
				Step:       step,
				Stage:      StageDiffuse,
				Field:      field,
				Iterations: res.sweeps,
				Residual:   res.residual,
				Tolerance:  f.cfg.Diffuse.Tolerance,
			})
		}
	}

	hh := f.h * f.h
	if k := f.cfg.Viscosity * f.cfg.Dt / hh; k > 0 {
		report("u", f.diffuseFace(f.u, k, f.openU))
		report("v", f.diffuseFace(f.v, k, f.openV))
	}
	if k := f.cfg.Diffusion * f.cfg.Dt / hh; k > 0 {
		report("density", f.diffuseScalar(f.m, k))
	}
	return warnings
}

// diffuseFace relaxes one velocity component. Neighbours across a wall come
// from the ghost layer, so no-slip walls drag the flow and free-slip walls
// do not.
func (f *Fluid) diffuseFace(x *Field, k float64, owned func(i, j int) bool) relaxResult {
	x0 := f.scratch
	copy(x0, x.cur)
	n := f.NumY
	den := 1 + 4*k

	return f.relax(relaxation{
		x:        x,
		settings: f.cfg.Diffuse,
		omega:    f.omegaFor(f.cfg.Diffuse),
		target: func(c int) (float64, bool) {
			if !owned(f.coords(c)) {
				return 0, false
			}
			xs := x.cur
			return (x0[c] + k*(xs[c-n]+xs[c+n]+xs[c-1]+xs[c+1])) / den, true
		},
		boundary: f.enforceVelocityBoundaries,
	})
}

// diffuseScalar relaxes a cell-centred field. Solid neighbours drop out of
// the stencil, which makes walls and obstacles zero-flux and keeps the total
// unchanged.
func (f *Fluid) diffuseScalar(x *Field, k float64) relaxResult {
	x0 := f.scratch
	copy(x0, x.cur)
	n := f.NumY
	s := f.s

	return f.relax(relaxation{
		x:        x,
		settings: f.cfg.Diffuse,
		omega:    f.omegaFor(f.cfg.Diffuse),
		target: func(c int) (float64, bool) {
			if !f.fluidCell(c) {
				return 0, false
			}
			xs := x.cur
			num := x0[c] + k*(s[c-n]*xs[c-n]+s[c+n]*xs[c+n]+s[c-1]*xs[c-1]+s[c+1]*xs[c+1])
			den := 1 + k*(s[c-n]+s[c+n]+s[c-1]+s[c+1])
			return num / den, true
		},
		boundary: func() { f.enforceScalarBoundaries(x.cur) },
	})
}
