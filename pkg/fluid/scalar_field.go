package fluid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ScalarField is a read-only copy of a cell-centred field, ghost layer
// included. MinValue and MaxValue cover the interior only.
type ScalarField struct {
	NumX, NumY         int
	MinValue, MaxValue float64
	values             []float64
}

func (f *Fluid) scalarField(values []float64) ScalarField {
	s := ScalarField{
		NumX:   f.NumX,
		NumY:   f.NumY,
		values: values,
	}
	if in := f.interiorValues(values); len(in) > 0 {
		s.MinValue = floats.Min(in)
		s.MaxValue = floats.Max(in)
	}
	return s
}

func (s ScalarField) Value(i, j int) (float64, error) {
	if i < 0 || i >= s.NumX {
		return 0.0, fmt.Errorf("%w: x index %d, must be between 0 and %d", ErrOutOfRange, i, s.NumX-1)
	}
	if j < 0 || j >= s.NumY {
		return 0.0, fmt.Errorf("%w: y index %d, must be between 0 and %d", ErrOutOfRange, j, s.NumY-1)
	}

	return s.values[i*s.NumY+j], nil
}

// Dense returns the interior as a (NumX-2) x (NumY-2) matrix; row r,
// column k holds cell (r+1, k+1).
func (s ScalarField) Dense() *mat.Dense {
	nx, ny := s.NumX-2, s.NumY-2
	if nx <= 0 || ny <= 0 {
		return nil
	}
	d := mat.NewDense(nx, ny, nil)
	for i := 1; i <= nx; i++ {
		d.SetRow(i-1, s.values[i*s.NumY+1:i*s.NumY+1+ny])
	}
	return d
}

// Sum adds up the interior.
func (s ScalarField) Sum() float64 {
	return mat.Sum(s.Dense())
}
