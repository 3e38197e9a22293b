package fluid

import "fmt"

func (f *Fluid) mustInterior(i, j int) {
	if i < 1 || i >= f.NumX-1 {
		panic(fmt.Sprintf("invalid x-index: %d", i))
	}
	if j < 1 || j >= f.NumY-1 {
		panic(fmt.Sprintf("invalid y-index: %d", j))
	}
}

// SetSolid marks an interior cell as solid or fluid.
func (f *Fluid) SetSolid(i, j int, value bool) {
	f.mustInterior(i, j)
	cell := f.idx(i, j)
	if !value {
		f.s[cell] = 1.0
		f.refreshSolidGhosts()
		return
	}
	f.s[cell] = 0.0
	f.m.cur[cell] = 0
	f.p.cur[cell] = 0

	// Zero the four faces around the cell so the wall holds before the
	// next boundary pass.
	n := f.NumY
	f.u.cur[i*n+j] = 0
	f.u.cur[(i+1)*n+j] = 0
	f.v.cur[i*n+j] = 0
	f.v.cur[i*n+j+1] = 0
	f.refreshSolidGhosts()
}

// IsSolid reports whether cell (i,j) blocks flow. Ghost cells of wall sides
// are solid.
func (f *Fluid) IsSolid(i, j int) bool {
	if i < 0 || i >= f.NumX {
		panic(fmt.Sprintf("invalid x-index: %d", i))
	}
	if j < 0 || j >= f.NumY {
		panic(fmt.Sprintf("invalid y-index: %d", j))
	}
	return f.s[f.idx(i, j)] == 0.0
}

// SetCircularObstacle marks interior cells within the given radius as solid.
func (f *Fluid) SetCircularObstacle(cx, cy, radius int) {
	for i := cx - radius; i <= cx+radius; i++ {
		for j := cy - radius; j <= cy+radius; j++ {
			if !f.interior(i, j) {
				continue
			}
			dx := i - cx
			dy := j - cy
			if dx*dx+dy*dy <= radius*radius {
				f.SetSolid(i, j, true)
			}
		}
	}
}

// refreshSolidGhosts derives the ghost layer of the solid mask from the
// boundary policies: walls are solid, periodic ghosts mirror the opposite
// interior column or row.
func (f *Fluid) refreshSolidGhosts() {
	nx, ny := f.NumX-2, f.NumY-2
	n := f.NumY
	for i := 0; i < f.NumX; i++ {
		f.s[i*n] = 0
		f.s[i*n+ny+1] = 0
	}
	for j := 0; j < f.NumY; j++ {
		f.s[j] = 0
		f.s[(nx+1)*n+j] = 0
	}
	b := f.cfg.Boundaries
	if b.periodicX() {
		for j := 1; j <= ny; j++ {
			f.s[j] = f.s[nx*n+j]
			f.s[(nx+1)*n+j] = f.s[n+j]
		}
	}
	if b.periodicY() {
		for i := 0; i < f.NumX; i++ {
			f.s[i*n] = f.s[i*n+ny]
			f.s[i*n+ny+1] = f.s[i*n+1]
		}
	}
}

// SetVelocity overwrites the left and bottom faces of cell (i,j).
func (f *Fluid) SetVelocity(i, j int, u, v float64) {
	f.mustInterior(i, j)
	cell := f.idx(i, j)
	f.u.cur[cell] = u
	f.v.cur[cell] = v
}

// AddDensity adds dye to cell (i,j).
func (f *Fluid) AddDensity(i, j int, amount float64) {
	f.mustInterior(i, j)
	f.m.cur[f.idx(i, j)] += amount
}
