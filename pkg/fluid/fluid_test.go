package fluid

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"
)

func testConfig(nx, ny int) Config {
	cfg := DefaultConfig()
	cfg.NX, cfg.NY = nx, ny
	return cfg
}

func mustNew(t testing.TB, cfg Config) *Fluid {
	t.Helper()
	f, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

// plumeConfig is a 32x32 box with one source pushing right and adding dye
// at its centre.
func plumeConfig() Config {
	cfg := testConfig(32, 32)
	cfg.H = 1.0
	cfg.Dt = 0.1
	cfg.Viscosity = 0.0001
	cfg.Diffusion = 0.0
	cfg.Steps = 50
	cfg.Boundaries = AllSides(NoSlip)
	cfg.Sources = []Source{
		{X: 16, Y: 16, Field: SourceVelocity, Strength: 1.0, Dir: [2]float64{1, 0}},
		{X: 16, Y: 16, Field: SourceDensity, Strength: 1.0},
	}
	return cfg
}

func TestPlumeScenario(t *testing.T) {
	f := mustNew(t, plumeConfig())
	ctx := context.Background()

	var last Snapshot
	for step := 1; step <= 50; step++ {
		snap, err := f.Advance(ctx)
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if snap.Step != step || snap.Total != 50 {
			t.Fatalf("snapshot keyed %d/%d, want %d/50", snap.Step, snap.Total, step)
		}
		if snap.Stats.MaxDivergence >= 1e-5 {
			t.Errorf("step %d: divergence %g after projection", step, snap.Stats.MaxDivergence)
		}
		for _, w := range snap.Warnings {
			t.Errorf("step %d: unexpected warning: %v", step, w)
		}
		last = snap
	}
	if f.State() != Finished {
		t.Fatalf("state = %v after 50 steps, want finished", f.State())
	}

	d := last.Density
	var total, moment float64
	spread := 0
	for i := 1; i <= 32; i++ {
		for j := 1; j <= 32; j++ {
			m, err := d.Value(i, j)
			if err != nil {
				t.Fatal(err)
			}
			if math.IsNaN(m) || math.IsInf(m, 0) {
				t.Fatalf("non-finite density at (%d,%d)", i, j)
			}
			total += m
			moment += m * float64(i)
			if m > 1e-4 {
				spread++
			}
		}
	}
	if total <= 0 {
		t.Fatal("expected dye in the domain")
	}
	if cx := moment / total; cx <= 16 {
		t.Errorf("expected plume carried downstream of x=16, centroid at %f", cx)
	}
	if spread < 4 {
		t.Errorf("expected plume to spread beyond the source cell, %d cells carry dye", spread)
	}
}

func TestRestStaysAtRest(t *testing.T) {
	cfg := testConfig(8, 8)
	cfg.Steps = 20
	cfg.Diffusion = 0.1
	f := mustNew(t, cfg)

	err := f.Run(context.Background(), ObserverFunc(func(s Snapshot) error {
		for _, field := range [][]float64{s.Velocity.valuesU, s.Velocity.valuesV, s.Density.values, s.Pressure.values} {
			for c, x := range field {
				if x != 0 {
					t.Fatalf("step %d: cell %d moved to %g", s.Step, c, x)
				}
			}
		}
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	if f.Step() != 20 {
		t.Errorf("ran %d steps, want 20", f.Step())
	}
}

func TestDeterministicAcrossWorkers(t *testing.T) {
	run := func(workers int) []Snapshot {
		cfg := plumeConfig()
		cfg.Steps = 10
		cfg.Workers = workers
		cfg.Confinement = 0.5
		cfg.Diffusion = 0.01
		f := mustNew(t, cfg)
		var snaps []Snapshot
		if err := f.Run(context.Background(), ObserverFunc(func(s Snapshot) error {
			snaps = append(snaps, s)
			return nil
		})); err != nil {
			t.Fatal(err)
		}
		return snaps
	}

	want := run(1)
	for _, workers := range []int{2, 3, 8} {
		got := run(workers)
		if len(got) != len(want) {
			t.Fatalf("workers=%d: %d snapshots, want %d", workers, len(got), len(want))
		}
		for k := range want {
			a, b := want[k], got[k]
			if !slices.Equal(a.Velocity.valuesU, b.Velocity.valuesU) ||
				!slices.Equal(a.Velocity.valuesV, b.Velocity.valuesV) ||
				!slices.Equal(a.Density.values, b.Density.values) ||
				!slices.Equal(a.Pressure.values, b.Pressure.values) {
				t.Fatalf("workers=%d: step %d differs from the single worker run", workers, a.Step)
			}
			if a.Stats != b.Stats {
				t.Errorf("workers=%d: step %d stats %+v, want %+v", workers, a.Step, b.Stats, a.Stats)
			}
		}
	}
}

func TestStateMachine(t *testing.T) {
	cfg := testConfig(6, 6)
	cfg.Steps = 2
	f := mustNew(t, cfg)
	ctx := context.Background()

	if f.State() != Initialized {
		t.Fatalf("new fluid is %v", f.State())
	}
	if _, err := f.Advance(ctx); err != nil {
		t.Fatal(err)
	}
	if f.State() != Stepping {
		t.Errorf("after one step state is %v, want stepping", f.State())
	}
	snap, err := f.Advance(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Step != 2 || f.State() != Finished {
		t.Errorf("after last step got step %d state %v", snap.Step, f.State())
	}
	if _, err := f.Advance(ctx); !errors.Is(err, ErrFinished) {
		t.Errorf("advance after finish: %v, want ErrFinished", err)
	}
	if f.Step() != 2 {
		t.Errorf("finished run moved to step %d", f.Step())
	}

	f.Reset()
	if f.State() != Initialized || f.Step() != 0 {
		t.Errorf("reset left state %v step %d", f.State(), f.Step())
	}
}

func TestAdvanceHonoursCancellation(t *testing.T) {
	f := mustNew(t, plumeConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.Advance(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if f.Step() != 0 || f.State() != Initialized {
		t.Errorf("cancelled advance changed state to %v step %d", f.State(), f.Step())
	}
	if err := f.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run: got %v, want context.Canceled", err)
	}
}

func TestInstabilityAbortsRun(t *testing.T) {
	f := mustNew(t, testConfig(8, 8))
	f.SetVelocity(5, 5, math.NaN(), 0)

	_, err := f.Advance(context.Background())
	var ie *InstabilityError
	if !errors.As(err, &ie) {
		t.Fatalf("got %v, want *InstabilityError", err)
	}
	if ie.Step != 1 || ie.Stage != StageForces || ie.Field != "u" || ie.I != 5 || ie.J != 5 {
		t.Errorf("unexpected error details: %+v", ie)
	}
	if _, err := f.Advance(context.Background()); !errors.Is(err, ErrFinished) {
		t.Errorf("advance after failure: %v, want ErrFinished", err)
	}
}

func TestConvergenceWarningReported(t *testing.T) {
	cfg := plumeConfig()
	cfg.Pressure.Iterations = 1
	cfg.Pressure.Tolerance = 1e-12
	f := mustNew(t, cfg)

	snap, err := f.Advance(context.Background())
	if err != nil {
		t.Fatalf("non-convergence must not be fatal: %v", err)
	}
	if len(snap.Warnings) != 1 {
		t.Fatalf("got %d warnings, want exactly one: %v", len(snap.Warnings), snap.Warnings)
	}
	w := snap.Warnings[0]
	if w.Stage != StageProject || w.Step != 1 || w.Iterations != 1 || w.Residual <= w.Tolerance {
		t.Errorf("unexpected warning %+v", w)
	}
	if _, err := f.Advance(context.Background()); err != nil {
		t.Errorf("run should continue after a warning: %v", err)
	}
}

func TestFixedSweepCountNeverWarns(t *testing.T) {
	cfg := plumeConfig()
	cfg.Pressure.Iterations = 5
	cfg.Pressure.Tolerance = 0
	f := mustNew(t, cfg)

	snap, err := f.Advance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Warnings) != 0 {
		t.Errorf("zero tolerance should run fixed sweeps silently, got %v", snap.Warnings)
	}
	if snap.Stats.PressureSweeps != 5 {
		t.Errorf("ran %d pressure sweeps, want 5", snap.Stats.PressureSweeps)
	}
}

func TestRunStopsOnObserverError(t *testing.T) {
	f := mustNew(t, plumeConfig())
	stop := errors.New("stop")
	var steps []int

	err := f.Run(context.Background(),
		Progress(func(step, total int) { steps = append(steps, step) }),
		ObserverFunc(func(s Snapshot) error {
			if s.Step == 3 {
				return stop
			}
			return nil
		}))
	if !errors.Is(err, stop) {
		t.Fatalf("got %v, want observer error", err)
	}
	if !slices.Equal(steps, []int{1, 2, 3}) {
		t.Errorf("progress saw %v", steps)
	}
}

func TestObstacleBlocksFlow(t *testing.T) {
	cfg := plumeConfig()
	cfg.Steps = 20
	cfg.Obstacles = []Obstacle{{X: 22, Y: 16, Radius: 2}}
	f := mustNew(t, cfg)

	if err := f.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	n := f.NumY
	for i := 20; i <= 24; i++ {
		for j := 14; j <= 18; j++ {
			if !f.IsSolid(i, j) {
				continue
			}
			c := i*n + j
			if f.m.cur[c] != 0 {
				t.Errorf("dye inside obstacle cell (%d,%d): %g", i, j, f.m.cur[c])
			}
			if f.u.cur[c] != 0 || f.u.cur[c+n] != 0 || f.v.cur[c] != 0 || f.v.cur[c+1] != 0 {
				t.Errorf("flow through obstacle cell (%d,%d)", i, j)
			}
		}
	}
	if d := f.MaxDivergence(); d >= 1e-5 {
		t.Errorf("divergence %g around obstacle", d)
	}
}
