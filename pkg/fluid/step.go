package fluid

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// State is the lifecycle of a run.
type State int

const (
	Initialized State = iota
	Stepping
	Finished
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Stepping:
		return "stepping"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Stats summarises the last completed step.
type Stats struct {
	MaxDivergence    float64
	MaxSpeed         float64
	TotalDensity     float64
	DiffusionSweeps  int
	PressureSweeps   int
	PressureResidual float64
}

// Snapshot is a read-only copy of the fields after a step. Step counts
// completed steps, from 1 to Total.
type Snapshot struct {
	Step, Total int
	Time        float64
	Velocity    VectorField
	Density     ScalarField
	Pressure    ScalarField
	Stats       Stats
	Warnings    []ConvergenceWarning
}

// State returns where the run is in its lifecycle.
func (f *Fluid) State() State { return f.state }

// Step returns the number of completed steps.
func (f *Fluid) Step() int { return f.step }

// Advance runs one timestep: forces, advection, diffusion, projection and a
// final boundary pass, checking every field for non-finite values after each
// stage. Cancellation is honoured before any work starts. Once the configured
// number of steps is done, or a step failed, Advance returns ErrFinished and
// changes nothing.
func (f *Fluid) Advance(ctx context.Context) (Snapshot, error) {
	if f.state == Finished {
		return Snapshot{}, ErrFinished
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	f.state = Stepping
	step := f.step + 1
	f.stats = Stats{}
	var warnings []ConvergenceWarning

	stages := []struct {
		stage Stage
		run   func()
	}{
		{StageForces, f.injectForces},
		{StageAdvect, f.advect},
		{StageDiffuse, func() { warnings = append(warnings, f.diffuse(step)...) }},
		{StageProject, func() { warnings = append(warnings, f.project(step)...) }},
		{StageBoundary, f.enforceBoundaries},
	}
	for _, st := range stages {
		st.run()
		if err := f.checkFinite(step, st.stage); err != nil {
			f.state = Finished
			return Snapshot{}, err
		}
	}

	f.step = step
	if f.step >= f.cfg.Steps {
		f.state = Finished
	}
	f.stats.MaxDivergence = f.MaxDivergence()
	f.stats.MaxSpeed = f.MaxSpeed()
	f.stats.TotalDensity = f.TotalDensity()
	return Snapshot{
		Step:     step,
		Total:    f.cfg.Steps,
		Time:     float64(step) * f.cfg.Dt,
		Velocity: f.Velocity(),
		Density:  f.Density(),
		Pressure: f.Pressure(),
		Stats:    f.stats,
		Warnings: warnings,
	}, nil
}

// checkFinite returns an InstabilityError for the first NaN or Inf in any
// field.
func (f *Fluid) checkFinite(step int, stage Stage) error {
	for _, fl := range []struct {
		name string
		buf  []float64
	}{{"u", f.u.cur}, {"v", f.v.cur}, {"density", f.m.cur}, {"pressure", f.p.cur}} {
		buf := fl.buf
		c := f.pool.firstCell(len(buf), func(c int) bool {
			return math.IsNaN(buf[c]) || math.IsInf(buf[c], 0)
		})
		if c >= 0 {
			i, j := f.coords(c)
			return &InstabilityError{Step: step, Stage: stage, Field: fl.name, I: i, J: j, Value: buf[c]}
		}
	}
	return nil
}

// Observer receives every snapshot of a run.
type Observer interface {
	Observe(Snapshot) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot) error

func (fn ObserverFunc) Observe(s Snapshot) error { return fn(s) }

// Progress adapts a step counter callback to Observer.
func Progress(fn func(step, total int)) Observer {
	return ObserverFunc(func(s Snapshot) error {
		fn(s.Step, s.Total)
		return nil
	})
}

// Run advances until the configured number of steps is done, handing each
// snapshot to the observers in order. It stops at the first error from a
// step, an observer or ctx.
func (f *Fluid) Run(ctx context.Context, observers ...Observer) error {
	for {
		snap, err := f.Advance(ctx)
		if errors.Is(err, ErrFinished) {
			return nil
		}
		if err != nil {
			return err
		}
		for _, o := range observers {
			if err := o.Observe(snap); err != nil {
				return fmt.Errorf("observer at step %d: %w", snap.Step, err)
			}
		}
	}
}
