package fluid

import (
	"math"
	"testing"
)

// fillInterior writes a distinct value into every face or cell the solver
// owns, ghost layer excluded.
func fillInterior(f *Fluid, buf []float64, maxI, maxJ int) {
	for i := 1; i <= maxI; i++ {
		for j := 1; j <= maxJ; j++ {
			buf[f.idx(i, j)] = math.Sin(float64(i*31+j*7)) + 2
		}
	}
}

func TestNoSlipBoundaries(t *testing.T) {
	f := mustNew(t, testConfig(6, 5))
	nx, ny := 6, 5
	fillInterior(f, f.u.cur, nx+1, ny)
	fillInterior(f, f.v.cur, nx, ny+1)
	f.enforceVelocityBoundaries()

	u, v := f.u.cur, f.v.cur
	for j := 1; j <= ny; j++ {
		if u[f.idx(1, j)] != 0 || u[f.idx(nx+1, j)] != 0 {
			t.Errorf("row %d: normal velocity through side walls", j)
		}
		if v[f.idx(0, j)] != -v[f.idx(1, j)] || v[f.idx(nx+1, j)] != -v[f.idx(nx, j)] {
			t.Errorf("row %d: tangential ghost not mirrored with opposite sign", j)
		}
	}
	for i := 1; i <= nx; i++ {
		if v[f.idx(i, 1)] != 0 || v[f.idx(i, ny+1)] != 0 {
			t.Errorf("column %d: normal velocity through bottom or top", i)
		}
		if u[f.idx(i, 0)] != -u[f.idx(i, 1)] || u[f.idx(i, ny+1)] != -u[f.idx(i, ny)] {
			t.Errorf("column %d: tangential ghost not mirrored with opposite sign", i)
		}
	}
}

func TestFreeSlipBoundaries(t *testing.T) {
	cfg := testConfig(6, 5)
	cfg.Boundaries = AllSides(FreeSlip)
	f := mustNew(t, cfg)
	nx, ny := 6, 5
	fillInterior(f, f.u.cur, nx+1, ny)
	fillInterior(f, f.v.cur, nx, ny+1)
	f.enforceVelocityBoundaries()

	u, v := f.u.cur, f.v.cur
	for j := 1; j <= ny; j++ {
		if u[f.idx(1, j)] != 0 || u[f.idx(nx+1, j)] != 0 {
			t.Errorf("row %d: normal velocity through side walls", j)
		}
		if v[f.idx(0, j)] != v[f.idx(1, j)] || v[f.idx(nx+1, j)] != v[f.idx(nx, j)] {
			t.Errorf("row %d: tangential ghost not copied", j)
		}
	}
	for i := 2; i <= nx; i++ {
		if u[f.idx(i, 0)] != u[f.idx(i, 1)] || u[f.idx(i, ny+1)] != u[f.idx(i, ny)] {
			t.Errorf("column %d: tangential ghost not copied", i)
		}
	}
}

func TestMixedBoundaries(t *testing.T) {
	cfg := testConfig(4, 4)
	cfg.Boundaries = Boundaries{Left: NoSlip, Right: FreeSlip, Bottom: FreeSlip, Top: NoSlip}
	f := mustNew(t, cfg)
	fillInterior(f, f.v.cur, 4, 5)
	fillInterior(f, f.u.cur, 5, 4)
	f.enforceVelocityBoundaries()

	v, u := f.v.cur, f.u.cur
	if v[f.idx(0, 2)] != -v[f.idx(1, 2)] {
		t.Error("left side should be no-slip")
	}
	if v[f.idx(5, 2)] != v[f.idx(4, 2)] {
		t.Error("right side should be free-slip")
	}
	if u[f.idx(2, 0)] != u[f.idx(2, 1)] {
		t.Error("bottom should be free-slip")
	}
	if u[f.idx(2, 5)] != -u[f.idx(2, 4)] {
		t.Error("top should be no-slip")
	}
}

func TestPeriodicBoundaries(t *testing.T) {
	cfg := testConfig(6, 4)
	cfg.Boundaries = Boundaries{Left: Periodic, Right: Periodic, Bottom: NoSlip, Top: NoSlip}
	f := mustNew(t, cfg)
	nx, ny := 6, 4
	fillInterior(f, f.u.cur, nx, ny)
	fillInterior(f, f.v.cur, nx, ny+1)
	fillInterior(f, f.m.cur, nx, ny)
	f.enforceBoundaries()

	u, v, m := f.u.cur, f.v.cur, f.m.cur
	for j := 1; j <= ny; j++ {
		if u[f.idx(1, j)] == 0 {
			t.Errorf("row %d: periodic side face closed", j)
		}
		if u[f.idx(nx+1, j)] != u[f.idx(1, j)] || u[f.idx(0, j)] != u[f.idx(nx, j)] {
			t.Errorf("row %d: u does not wrap", j)
		}
		if v[f.idx(nx+1, j)] != v[f.idx(1, j)] || v[f.idx(0, j)] != v[f.idx(nx, j)] {
			t.Errorf("row %d: v does not wrap", j)
		}
		if m[f.idx(nx+1, j)] != m[f.idx(1, j)] || m[f.idx(0, j)] != m[f.idx(nx, j)] {
			t.Errorf("row %d: density does not wrap", j)
		}
	}
	for i := 1; i <= nx; i++ {
		if v[f.idx(i, 1)] != 0 || v[f.idx(i, ny+1)] != 0 {
			t.Errorf("column %d: wall faces open", i)
		}
	}
	if f.IsSolid(0, 2) || !f.IsSolid(2, 0) {
		t.Error("periodic ghosts must be fluid, wall ghosts solid")
	}
}

func TestScalarBoundariesZeroGradient(t *testing.T) {
	f := mustNew(t, testConfig(5, 4))
	nx, ny := 5, 4
	fillInterior(f, f.m.cur, nx, ny)
	f.enforceScalarBoundaries(f.m.cur)

	m := f.m.cur
	for j := 1; j <= ny; j++ {
		if m[f.idx(0, j)] != m[f.idx(1, j)] || m[f.idx(nx+1, j)] != m[f.idx(nx, j)] {
			t.Errorf("row %d: ghost does not copy the neighbour", j)
		}
	}
	for i := 1; i <= nx; i++ {
		if m[f.idx(i, 0)] != m[f.idx(i, 1)] || m[f.idx(i, ny+1)] != m[f.idx(i, ny)] {
			t.Errorf("column %d: ghost does not copy the neighbour", i)
		}
	}
	if m[f.idx(0, 0)] != m[f.idx(1, 1)] || m[f.idx(nx+1, ny+1)] != m[f.idx(nx, ny)] {
		t.Error("corners not filled")
	}
}

func TestObstacleFacesClosed(t *testing.T) {
	f := mustNew(t, testConfig(8, 8))
	fillInterior(f, f.u.cur, 9, 8)
	fillInterior(f, f.v.cur, 8, 9)
	f.SetCircularObstacle(4, 4, 1)
	f.enforceVelocityBoundaries()

	for _, c := range [][2]int{{4, 4}, {3, 4}, {5, 4}, {4, 3}, {4, 5}} {
		i, j := c[0], c[1]
		if !f.IsSolid(i, j) {
			t.Fatalf("(%d,%d) should be solid", i, j)
		}
		if f.u.cur[f.idx(i, j)] != 0 || f.u.cur[f.idx(i+1, j)] != 0 ||
			f.v.cur[f.idx(i, j)] != 0 || f.v.cur[f.idx(i, j+1)] != 0 {
			t.Errorf("faces of solid cell (%d,%d) carry flow", i, j)
		}
	}
	if f.IsSolid(3, 3) {
		t.Error("corner outside the radius marked solid")
	}

	f.SetSolid(4, 4, false)
	if f.IsSolid(4, 4) {
		t.Error("SetSolid(false) did not clear the cell")
	}
}

func TestSetSolidPanicsOutsideInterior(t *testing.T) {
	f := mustNew(t, testConfig(4, 4))
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected a panic for a ghost cell")
		}
	}()
	f.SetSolid(0, 2, true)
}
