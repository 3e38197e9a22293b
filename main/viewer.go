package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/gabyx/RustoFluid/pkg/fluid"
)

const (
	dragForce   = 2.0
	dragRadius  = 3
	dragDensity = 0.5
)

// Viewer advances the fluid once per tick and draws its dye field. Dragging
// with the left mouse button stirs the flow and adds dye.
type Viewer struct {
	ctx       context.Context
	fluid     *fluid.Fluid
	observers []fluid.Observer
	pal       palette
	scale     int

	last   fluid.Snapshot
	pixels []byte

	dragging      bool
	prevX, prevY  int
	width, height int
}

func NewViewer(ctx context.Context, f *fluid.Fluid, observers []fluid.Observer, pal palette, scale int) *Viewer {
	cfg := f.Config()
	return &Viewer{
		ctx:       ctx,
		fluid:     f,
		observers: observers,
		pal:       pal,
		scale:     scale,
		width:     cfg.NX * scale,
		height:    cfg.NY * scale,
	}
}

func (v *Viewer) Update() error {
	if v.ctx.Err() != nil {
		return ebiten.Termination
	}
	v.stir()

	snap, err := v.fluid.Advance(v.ctx)
	switch {
	case errors.Is(err, fluid.ErrFinished):
		// Keep showing the last frame.
		return nil
	case errors.Is(err, context.Canceled):
		return ebiten.Termination
	case err != nil:
		return err
	}
	v.last = snap
	v.pixels = nil
	for _, o := range v.observers {
		if err := o.Observe(snap); err != nil {
			return err
		}
	}
	return nil
}

// stir turns mouse drags into force impulses on the cell under the cursor.
func (v *Viewer) stir() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		v.dragging = false
		return
	}
	x, y := ebiten.CursorPosition()
	if v.dragging {
		cfg := v.fluid.Config()
		i := x/v.scale + 1
		j := cfg.NY - y/v.scale
		if i >= 1 && i <= cfg.NX && j >= 1 && j <= cfg.NY {
			fx := float64(x-v.prevX) * dragForce / float64(v.scale)
			fy := -float64(y-v.prevY) * dragForce / float64(v.scale)
			v.fluid.ApplyForceRadius(i, j, fx, fy, dragRadius)
			if !v.fluid.IsSolid(i, j) {
				v.fluid.AddDensity(i, j, dragDensity)
			}
		}
	}
	v.dragging = true
	v.prevX, v.prevY = x, y
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.last.Step == 0 {
		return
	}
	if v.pixels == nil {
		d := v.last.Density
		v.pixels = render(d.Dense(), min(d.MinValue, 0), d.MaxValue, v.pal, v.scale).Pix
	}
	screen.WritePixels(v.pixels)

	st := v.last.Stats
	ebitenutil.DebugPrint(screen, fmt.Sprintf("step %d/%d  t=%.2f\nmax div %.2e  sweeps %d\nCFL %.2f  FPS %0.2f",
		v.last.Step, v.last.Total, v.last.Time, st.MaxDivergence, st.PressureSweeps,
		st.MaxSpeed*v.fluid.Config().Dt/v.fluid.H(), ebiten.ActualFPS()))
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

func runViewer(v *Viewer) error {
	ebiten.SetWindowSize(v.width, v.height)
	ebiten.SetWindowTitle("FluidSim")
	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
