package fluid

import (
	"errors"
	"fmt"
)

var (
	// ErrFinished is returned by Advance once the configured number of
	// steps has run, or after a step failed.
	ErrFinished = errors.New("fluid: simulation finished")

	// ErrOutOfRange is wrapped by bounds-checked field accessors.
	ErrOutOfRange = errors.New("fluid: index out of range")
)

// Stage identifies one part of the timestep pipeline.
type Stage int

const (
	StageForces Stage = iota
	StageAdvect
	StageDiffuse
	StageProject
	StageBoundary
)

func (s Stage) String() string {
	switch s {
	case StageForces:
		return "forces"
	case StageAdvect:
		return "advection"
	case StageDiffuse:
		return "diffusion"
	case StageProject:
		return "projection"
	case StageBoundary:
		return "boundary"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// ConfigError describes one invalid configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("fluid: invalid config %s: %s", e.Field, e.Reason)
}

// InstabilityError reports the first non-finite value found after a stage.
type InstabilityError struct {
	Step  int
	Stage Stage
	Field string
	I, J  int
	Value float64
}

func (e *InstabilityError) Error() string {
	return fmt.Sprintf("fluid: non-finite %s value %v at (%d,%d) after %s in step %d",
		e.Field, e.Value, e.I, e.J, e.Stage, e.Step)
}

// ConvergenceWarning is raised when a relaxation solve hits its sweep cap
// without meeting its tolerance. The run continues with the last iterate.
type ConvergenceWarning struct {
	Step       int
	Stage      Stage
	Field      string
	Iterations int
	Residual   float64
	Tolerance  float64
}

func (w ConvergenceWarning) Error() string {
	return fmt.Sprintf("fluid: %s of %s did not converge in step %d: residual %.3g > %.3g after %d sweeps",
		w.Stage, w.Field, w.Step, w.Residual, w.Tolerance, w.Iterations)
}
