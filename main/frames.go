package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gabyx/RustoFluid/pkg/fluid"
)

// frameWriter renders the dye field of every n-th snapshot to a PNG file.
// Encoding runs in the background, bounded to one file per CPU.
type frameWriter struct {
	dir   string
	every int
	scale int
	pal   palette
	g     errgroup.Group
}

func newFrameWriter(dir string, every, scale int, pal palette) (*frameWriter, error) {
	if every < 1 {
		return nil, fmt.Errorf("frame interval must be positive, got %d", every)
	}
	if scale < 1 {
		return nil, fmt.Errorf("frame scale must be positive, got %d", scale)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w := &frameWriter{dir: dir, every: every, scale: scale, pal: pal}
	w.g.SetLimit(runtime.GOMAXPROCS(0))
	return w, nil
}

func (w *frameWriter) Observe(s fluid.Snapshot) error {
	if s.Step%w.every != 0 && s.Step != s.Total {
		return nil
	}
	m := s.Density.Dense()
	lo, hi := min(s.Density.MinValue, 0), s.Density.MaxValue
	name := filepath.Join(w.dir, fmt.Sprintf("frame_%05d.png", s.Step))
	w.g.Go(func() error {
		return writePNG(name, render(m, lo, hi, w.pal, w.scale))
	})
	return nil
}

// Close waits for pending frames and returns the first write error.
func (w *frameWriter) Close() error { return w.g.Wait() }

func writePNG(name string, img image.Image) error {
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return out.Close()
}
