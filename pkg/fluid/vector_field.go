package fluid

import "fmt"

// VectorField is a read-only copy of the staggered velocity. Value returns
// the raw face values of a cell: u on its left face, v on its bottom face.
type VectorField struct {
	NumX, NumY       int
	valuesU, valuesV []float64
}

func (v VectorField) Value(i, j int) (float64, float64, error) {
	if i < 0 || i >= v.NumX {
		return 0.0, 0.0, fmt.Errorf("%w: x index %d, must be between 0 and %d", ErrOutOfRange, i, v.NumX-1)
	}
	if j < 0 || j >= v.NumY {
		return 0.0, 0.0, fmt.Errorf("%w: y index %d, must be between 0 and %d", ErrOutOfRange, j, v.NumY-1)
	}

	return v.valuesU[i*v.NumY+j], v.valuesV[i*v.NumY+j], nil
}

// Centre returns the velocity averaged to the centre of interior cell (i,j).
func (v VectorField) Centre(i, j int) (float64, float64, error) {
	if i < 1 || i >= v.NumX-1 || j < 1 || j >= v.NumY-1 {
		return 0, 0, fmt.Errorf("%w: (%d,%d) is not an interior cell", ErrOutOfRange, i, j)
	}
	n := v.NumY
	u := (v.valuesU[i*n+j] + v.valuesU[(i+1)*n+j]) * 0.5
	w := (v.valuesV[i*n+j] + v.valuesV[i*n+j+1]) * 0.5
	return u, w, nil
}
