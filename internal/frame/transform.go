package frame

// Transform is a wl_output transform: how the compositor has rotated or
// flipped the output relative to the buffer contents it hands out.
type Transform int32

const (
	TransformNormal     Transform = 0
	Transform90         Transform = 1
	Transform180        Transform = 2
	Transform270        Transform = 3
	TransformFlipped    Transform = 4
	TransformFlipped90  Transform = 5
	TransformFlipped180 Transform = 6
	TransformFlipped270 Transform = 7
)

func (t Transform) String() string {
	switch t {
	case TransformNormal:
		return "normal"
	case Transform90:
		return "90"
	case Transform180:
		return "180"
	case Transform270:
		return "270"
	case TransformFlipped:
		return "flipped"
	case TransformFlipped90:
		return "flipped-90"
	case TransformFlipped180:
		return "flipped-180"
	case TransformFlipped270:
		return "flipped-270"
	default:
		return "unknown"
	}
}

// Inverse returns the transform that undoes t. Only the pure rotations
// 90 and 270 differ from their own inverse; flipped transforms are
// involutions.
func (t Transform) Inverse() Transform {
	switch t {
	case Transform90:
		return Transform270
	case Transform270:
		return Transform90
	default:
		return t
	}
}

// SwapsAxes reports whether applying t exchanges width and height.
func (t Transform) SwapsAxes() bool {
	switch t {
	case Transform90, Transform270, TransformFlipped90, TransformFlipped270:
		return true
	default:
		return false
	}
}

// Map returns the source coordinate that lands at (dstX, dstY) after
// applying t to a srcW x srcH image. The caller is responsible for
// passing destination coordinates within the transformed bounds
// (width and height swapped when SwapsAxes reports true).
func (t Transform) Map(dstX, dstY, srcW, srcH int) (srcX, srcY int) {
	switch t {
	case TransformNormal:
		return dstX, dstY
	case Transform90:
		// Destination column grows downward along source rows.
		return dstY, srcH - 1 - dstX
	case Transform180:
		return srcW - 1 - dstX, srcH - 1 - dstY
	case Transform270:
		return srcW - 1 - dstY, dstX
	case TransformFlipped:
		return srcW - 1 - dstX, dstY
	case TransformFlipped90:
		return dstY, dstX
	case TransformFlipped180:
		return dstX, srcH - 1 - dstY
	case TransformFlipped270:
		return srcW - 1 - dstY, srcH - 1 - dstX
	default:
		return dstX, dstY
	}
}
