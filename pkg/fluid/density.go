package fluid

// Density returns a copy of the dye field.
func (f *Fluid) Density() ScalarField {
	return f.scalarField(f.m.snapshot())
}
