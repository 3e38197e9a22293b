package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/mazznoer/colorgrad"
	"gonum.org/v1/gonum/mat"
)

const paletteSize = 256

// palette maps a normalised value in [0,1] to one of paletteSize colours.
type palette []color.RGBA

func newPalette(name string) (palette, error) {
	var cols []color.Color
	switch name {
	case "sci":
		p := make(palette, paletteSize)
		for k := range p {
			p[k] = sciColor(float64(k)/(paletteSize-1), 0, 1)
		}
		return p, nil
	case "viridis":
		cols = colorgrad.Viridis().Colors(paletteSize)
	case "turbo":
		cols = colorgrad.Turbo().Colors(paletteSize)
	case "inferno":
		cols = colorgrad.Inferno().Colors(paletteSize)
	default:
		return nil, fmt.Errorf("unknown palette %q", name)
	}
	p := make(palette, len(cols))
	for k, c := range cols {
		p[k] = color.RGBAModel.Convert(c).(color.RGBA)
	}
	return p, nil
}

// at returns the colour of val within [lo,hi].
func (p palette) at(val, lo, hi float64) color.RGBA {
	t := 0.5
	if d := hi - lo; d > 0 {
		t = (val - lo) / d
	}
	if math.IsNaN(t) {
		t = 0
	}
	k := int(t * float64(len(p)-1))
	return p[min(max(k, 0), len(p)-1)]
}

// sciColor is a blue-cyan-green-yellow-red ramp.
func sciColor(val, minVal, maxVal float64) color.RGBA {
	val = min(max(val, minVal), maxVal-0.0001)
	d := maxVal - minVal
	if d <= 0 {
		val = 0.5
	} else {
		val = (val - minVal) / d
	}
	m := 0.25
	num := math.Floor(val / m)
	s := (val - num*m) / m
	var r, g, b float64

	switch num {
	case 0:
		r = 0.0
		g = s
		b = 1.0
	case 1:
		r = 0.0
		g = 1.0
		b = 1.0 - s
	case 2:
		r = s
		g = 1.0
		b = 0.0
	case 3:
		r = 1.0
		g = 1.0 - s
		b = 0.0
	}

	return color.RGBA{
		R: uint8(255 * r),
		G: uint8(255 * g),
		B: uint8(255 * b),
		A: 0xff,
	}
}

// render draws a cell matrix (row = x cell, column = y cell) with y growing
// upwards, each cell as a scale x scale block.
func render(m mat.Matrix, lo, hi float64, p palette, scale int) *image.RGBA {
	nx, ny := m.Dims()
	img := image.NewRGBA(image.Rect(0, 0, nx*scale, ny*scale))
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			c := p.at(m.At(i, j), lo, hi)
			y0 := (ny - 1 - j) * scale
			for py := y0; py < y0+scale; py++ {
				off := py*img.Stride + i*scale*4
				for px := 0; px < scale; px++ {
					img.Pix[off] = c.R
					img.Pix[off+1] = c.G
					img.Pix[off+2] = c.B
					img.Pix[off+3] = c.A
					off += 4
				}
			}
		}
	}
	return img
}
