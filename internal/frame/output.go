package frame

// Output is an immutable snapshot of one compositor output, taken when a
// capture starts. Logical is the output's rectangle in compositor
// logical coordinates; PixelWidth/PixelHeight are the current mode size
// in hardware pixels and may differ from the logical size when the
// output is scaled or rotated.
type Output struct {
	// Global is the compositor-assigned wl_registry name.
	Global uint32
	// Name is the human-readable connector name, e.g. "DP-1".
	Name string

	Logical     Region
	PixelWidth  uint32
	PixelHeight uint32
	Scale       int32
	Transform   Transform
}

// LogicalSize returns the output's size in logical pixels, deriving it
// from the mode and scale when the compositor never sent an explicit
// logical geometry.
func (o Output) LogicalSize() (int32, int32) {
	if o.Logical.Width > 0 && o.Logical.Height > 0 {
		return o.Logical.Width, o.Logical.Height
	}
	w, h := int32(o.PixelWidth), int32(o.PixelHeight)
	if o.Transform.SwapsAxes() {
		w, h = h, w
	}
	if o.Scale > 1 {
		w /= o.Scale
		h /= o.Scale
	}
	return w, h
}
