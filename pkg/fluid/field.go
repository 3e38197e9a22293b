package fluid

import "fmt"

// Field is a double-buffered array over every cell of the grid, ghost layer
// included, stored column-major (i*numY + j). Stages read cur, write next,
// and call swap once every cell has been written.
//
// Staggered velocity components use the same layout: u[i,j] is the face
// between cells (i-1,j) and (i,j), v[i,j] the face between (i,j-1) and
// (i,j). The ghost layer provides the extra face per axis.
type Field struct {
	numX, numY int
	cur, next  []float64
}

func newField(numX, numY int) *Field {
	n := numX * numY
	return &Field{
		numX: numX,
		numY: numY,
		cur:  make([]float64, n),
		next: make([]float64, n),
	}
}

// Len returns the number of cells in each buffer.
func (f *Field) Len() int { return len(f.cur) }

func (f *Field) index(i, j int) int { return i*f.numY + j }

func (f *Field) check(i, j int) error {
	if i < 0 || i >= f.numX {
		return fmt.Errorf("%w: x index %d, must be between 0 and %d", ErrOutOfRange, i, f.numX-1)
	}
	if j < 0 || j >= f.numY {
		return fmt.Errorf("%w: y index %d, must be between 0 and %d", ErrOutOfRange, j, f.numY-1)
	}
	return nil
}

// At returns the current value at cell (i,j).
func (f *Field) At(i, j int) (float64, error) {
	if err := f.check(i, j); err != nil {
		return 0, err
	}
	return f.cur[f.index(i, j)], nil
}

// Set writes the current value at cell (i,j).
func (f *Field) Set(i, j int, value float64) error {
	if err := f.check(i, j); err != nil {
		return err
	}
	f.cur[f.index(i, j)] = value
	return nil
}

// swap exchanges the buffers without copying.
func (f *Field) swap() { f.cur, f.next = f.next, f.cur }

func (f *Field) snapshot() []float64 {
	out := make([]float64, len(f.cur))
	copy(out, f.cur)
	return out
}

func (f *Field) reset() {
	fill(f.cur, 0)
	fill(f.next, 0)
}

func fill[T any](slice []T, val T) {
	for i := range slice {
		slice[i] = val
	}
}
