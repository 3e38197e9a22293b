package fluid

import "math"

// injectForces adds the configured sources, gravity and vorticity
// confinement to the current buffers.
func (f *Fluid) injectForces() {
	dt := f.cfg.Dt
	n := f.NumY

	for _, src := range f.cfg.Sources {
		i, j := src.X, src.Y
		c := f.idx(i, j)
		if f.s[c] == 0 {
			continue
		}
		amount := dt * src.Strength
		switch src.Field {
		case SourceDensity:
			f.m.cur[c] += amount
		case SourceVelocity:
			// Both faces of the cell move together, so the cell itself
			// stays divergence free.
			if fx := amount * src.Dir[0]; fx != 0 {
				if f.openU(i, j) {
					f.u.cur[c] += fx
				}
				if f.openU(i+1, j) {
					f.u.cur[c+n] += fx
				}
			}
			if fy := amount * src.Dir[1]; fy != 0 {
				if f.openV(i, j) {
					f.v.cur[c] += fy
				}
				if f.openV(i, j+1) {
					f.v.cur[c+1] += fy
				}
			}
		}
	}

	if g := f.cfg.Gravity; g != 0 {
		v := f.v.cur
		f.pool.cells(f.numCells, func(c int) {
			if f.openV(f.coords(c)) {
				v[c] += dt * g
			}
		})
	}

	if f.cfg.Confinement > 0 {
		f.applyVorticityConfinement(dt)
	}

	f.enforceVelocityBoundaries()
	f.enforceScalarBoundaries(f.m.cur)
}

// applyVorticityConfinement pushes flow towards the centre of each eddy,
// restoring small-scale swirl lost to numerical diffusion. The force is
// computed at cell centres and averaged onto faces.
func (f *Fluid) applyVorticityConfinement(dt float64) {
	n := f.NumY
	h := f.h
	curl := f.scratch
	f.pool.cells(f.numCells, func(c int) {
		if f.fluidCell(c) {
			curl[c] = f.curl(f.coords(c))
		} else {
			curl[c] = 0
		}
	})

	eps := 1e-5
	force := func(c int) (float64, float64) {
		if !f.fluidCell(c) {
			return 0, 0
		}
		// gradient of magnitude of curl
		gx := (math.Abs(curl[c+n]) - math.Abs(curl[c-n])) * 0.5 / h
		gy := (math.Abs(curl[c+1]) - math.Abs(curl[c-1])) * 0.5 / h
		mag := math.Hypot(gx, gy) + eps
		w := curl[c]
		return f.cfg.Confinement * gy / mag * w, -f.cfg.Confinement * gx / mag * w
	}

	u, v := f.u, f.v
	f.pool.cells(f.numCells, func(c int) {
		i, j := f.coords(c)
		u.next[c] = u.cur[c]
		v.next[c] = v.cur[c]
		if f.openU(i, j) {
			fl, _ := force(c - n)
			fr, _ := force(c)
			u.next[c] += dt * 0.5 * (fl + fr)
		}
		if f.openV(i, j) {
			_, fb := force(c - 1)
			_, ft := force(c)
			v.next[c] += dt * 0.5 * (fb + ft)
		}
	})
	u.swap()
	v.swap()
}

// ApplyForce adds a velocity impulse to the left and bottom faces of an
// interior fluid cell. Cells outside the interior or solid are ignored.
func (f *Fluid) ApplyForce(i, j int, fx, fy float64) {
	if !f.interior(i, j) {
		return
	}
	c := f.idx(i, j)
	if f.s[c] == 0 {
		return
	}
	if f.openU(i, j) {
		f.u.cur[c] += fx
	}
	if f.openV(i, j) {
		f.v.cur[c] += fy
	}
}

// ApplyForceRadius applies a force impulse with Gaussian falloff over a radius.
func (f *Fluid) ApplyForceRadius(cx, cy int, fx, fy float64, radius int) {
	if radius <= 0 {
		f.ApplyForce(cx, cy, fx, fy)
		return
	}
	r2 := float64(radius * radius)
	for i := cx - radius; i <= cx+radius; i++ {
		for j := cy - radius; j <= cy+radius; j++ {
			dx := float64(i - cx)
			dy := float64(j - cy)
			dist2 := dx*dx + dy*dy
			if dist2 > r2 {
				continue
			}
			// Gaussian falloff: exp(-3 * dist2/r2) so edge is ~5% strength
			weight := math.Exp(-3.0 * dist2 / r2)
			f.ApplyForce(i, j, fx*weight, fy*weight)
		}
	}
}
