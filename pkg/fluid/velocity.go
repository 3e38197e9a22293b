package fluid

// Velocity returns a copy of the staggered velocity.
func (f *Fluid) Velocity() VectorField {
	return VectorField{
		NumX:    f.NumX,
		NumY:    f.NumY,
		valuesU: f.u.snapshot(),
		valuesV: f.v.snapshot(),
	}
}
