package main

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/gabyx/RustoFluid/pkg/fluid"
)

// logFloor keeps exact zeros plottable on a log axis.
const logFloor = 1e-16

// history records the projection quality of every step.
type history struct {
	divergence plotter.XYs
	residual   plotter.XYs
	sweeps     int
}

func (h *history) Observe(s fluid.Snapshot) error {
	x := float64(s.Step)
	h.divergence = append(h.divergence, plotter.XY{X: x, Y: max(s.Stats.MaxDivergence, logFloor)})
	h.residual = append(h.residual, plotter.XY{X: x, Y: max(s.Stats.PressureResidual, logFloor)})
	h.sweeps += s.Stats.PressureSweeps
	return nil
}

// save writes the history chart as an image; the format follows the file
// extension.
func (h *history) save(path string) error {
	p := plot.New()
	p.Title.Text = "Pressure projection"
	p.X.Label.Text = "step"
	p.Y.Label.Text = "max |div u|"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true

	if err := plotutil.AddLinePoints(p,
		"after projection", h.divergence,
		"solver residual", h.residual,
	); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
