package fluid

// enforceBoundaries applies every boundary rule to the current buffers.
func (f *Fluid) enforceBoundaries() {
	f.enforceVelocityBoundaries()
	f.enforceScalarBoundaries(f.m.cur)
	f.enforceScalarBoundaries(f.p.cur)
}

// enforceScalarBoundaries fills the ghost layer of a cell-centred field:
// zero gradient at walls, wrap-around on periodic sides. Pressure uses the
// same rule, which is its Neumann condition.
func (f *Fluid) enforceScalarBoundaries(x []float64) {
	nx, ny := f.NumX-2, f.NumY-2
	n := f.NumY
	b := f.cfg.Boundaries

	f.pool.parallelRange(1, ny+1, func(j int) {
		if b.periodicX() {
			x[j] = x[nx*n+j]
			x[(nx+1)*n+j] = x[n+j]
		} else {
			x[j] = x[n+j]
			x[(nx+1)*n+j] = x[nx*n+j]
		}
	})
	// Rows run over the ghost columns too, which fills the corners.
	f.pool.parallelRange(0, f.NumX, func(i int) {
		if b.periodicY() {
			x[i*n] = x[i*n+ny]
			x[i*n+ny+1] = x[i*n+1]
		} else {
			x[i*n] = x[i*n+1]
			x[i*n+ny+1] = x[i*n+ny]
		}
	})
}

// tangentSign is the ghost factor for a tangential component at a wall.
func tangentSign(p BoundaryPolicy) float64 {
	if p == NoSlip {
		return -1
	}
	return 1
}

// enforceVelocityBoundaries closes every face touching a solid cell, then
// fills the ghost layer: negated tangential velocity for no-slip walls,
// copied for free-slip walls, wrapped for periodic sides.
func (f *Fluid) enforceVelocityBoundaries() {
	nx, ny := f.NumX-2, f.NumY-2
	n := f.NumY
	b := f.cfg.Boundaries
	u, v := f.u.cur, f.v.cur

	// Wall faces sit at i = 1 and i = nx+1 (j = 1 and j = ny+1 for v); the
	// solid ghost layer closes them like any obstacle face.
	f.pool.cells(f.numCells, func(c int) {
		i, j := f.coords(c)
		if i >= 1 && i <= nx+1 && j >= 1 && j <= ny {
			if f.s[c-n] == 0 || f.s[c] == 0 {
				u[c] = 0
			}
		}
		if i >= 1 && i <= nx && j >= 1 && j <= ny+1 {
			if f.s[c-1] == 0 || f.s[c] == 0 {
				v[c] = 0
			}
		}
	})

	f.pool.parallelRange(0, f.NumY, func(j int) {
		if b.periodicX() {
			u[j] = u[nx*n+j]
			u[(nx+1)*n+j] = u[n+j]
			v[j] = v[nx*n+j]
			v[(nx+1)*n+j] = v[n+j]
			return
		}
		u[j] = 0
		v[j] = tangentSign(b.Left) * v[n+j]
		v[(nx+1)*n+j] = tangentSign(b.Right) * v[nx*n+j]
	})

	f.pool.parallelRange(0, f.NumX, func(i int) {
		if b.periodicY() {
			u[i*n] = u[i*n+ny]
			u[i*n+ny+1] = u[i*n+1]
			v[i*n] = v[i*n+ny]
			v[i*n+ny+1] = v[i*n+1]
			return
		}
		v[i*n] = 0
		u[i*n] = tangentSign(b.Bottom) * u[i*n+1]
		u[i*n+ny+1] = tangentSign(b.Top) * u[i*n+ny]
	})
}
