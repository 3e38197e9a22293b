package fluid

import "math"

// stagger locates a field's samples: 0 on an axis means cell centres, 1
// means faces half a cell towards negative.
type stagger struct{ x, y float64 }

var (
	centred  = stagger{0, 0}
	staggerU = stagger{1, 0}
	staggerV = stagger{0, 1}
)

// sample bilinearly interpolates src at (x,y), given in the index space of
// the field (sample (i,j) sits at x=i, y=j). The position is clamped so the
// stencil never leaves the grid; near the edge it blends in ghost values set
// by the last boundary pass.
func (f *Fluid) sample(src []float64, x, y float64, st stagger) float64 {
	n := f.NumY
	x = max(min(x, float64(f.NumX)-1.5+0.5*st.x), 0.5+0.5*st.x)
	y = max(min(y, float64(f.NumY)-1.5+0.5*st.y), 0.5+0.5*st.y)

	x0 := int(math.Floor(x))
	tx := x - float64(x0)
	x1 := min(x0+1, f.NumX-1)

	y0 := int(math.Floor(y))
	ty := y - float64(y0)
	y1 := min(y0+1, f.NumY-1)

	sx := 1.0 - tx
	sy := 1.0 - ty

	return sx*sy*src[x0*n+y0] +
		tx*sy*src[x1*n+y0] +
		tx*ty*src[x1*n+y1] +
		sx*ty*src[x0*n+y1]
}

// advect moves velocity and density one timestep along the velocity at the
// start of the step, tracing every sample backwards with explicit Euler.
// All three fields read the same current buffers and swap together.
func (f *Fluid) advect() {
	dt := f.cfg.Dt
	g := dt / f.h // backtrace distance per unit velocity, in cells
	u, v, m := f.u, f.v, f.m

	f.pool.cells(f.numCells, func(c int) {
		i, j := f.coords(c)

		if f.openU(i, j) {
			uu := u.cur[c]
			vv := f.avgV(v.cur, i, j)
			u.next[c] = f.sample(u.cur, float64(i)-g*uu, float64(j)-g*vv, staggerU)
		} else {
			u.next[c] = u.cur[c]
		}

		if f.openV(i, j) {
			uu := f.avgU(u.cur, i, j)
			vv := v.cur[c]
			v.next[c] = f.sample(v.cur, float64(i)-g*uu, float64(j)-g*vv, staggerV)
		} else {
			v.next[c] = v.cur[c]
		}

		if f.interior(i, j) && f.s[c] != 0 {
			uu, vv := f.centreVelocity(i, j)
			m.next[c] = f.sample(m.cur, float64(i)-g*uu, float64(j)-g*vv, centred)
		} else {
			m.next[c] = m.cur[c]
		}
	})

	u.swap()
	v.swap()
	m.swap()
	f.enforceVelocityBoundaries()
	f.enforceScalarBoundaries(m.cur)
}
