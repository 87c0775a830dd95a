package frame

import (
	"fmt"
	"strconv"
	"strings"
)

// Region is a rectangle in compositor logical coordinates: the space
// outputs are positioned in, after per-output scale and transform have
// been applied.
type Region struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

func (r Region) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Region) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}

// ParseRegion parses the "x,y WxH" form produced by String and by
// selection tools such as slurp.
func ParseRegion(s string) (Region, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return Region{}, fmt.Errorf("region %q: want \"x,y WxH\"", s)
	}
	pos := strings.SplitN(fields[0], ",", 2)
	size := strings.SplitN(fields[1], "x", 2)
	if len(pos) != 2 || len(size) != 2 {
		return Region{}, fmt.Errorf("region %q: want \"x,y WxH\"", s)
	}
	x, err := strconv.ParseInt(pos[0], 10, 32)
	if err != nil {
		return Region{}, fmt.Errorf("region %q: %w", s, err)
	}
	y, err := strconv.ParseInt(pos[1], 10, 32)
	if err != nil {
		return Region{}, fmt.Errorf("region %q: %w", s, err)
	}
	w, err := strconv.ParseInt(size[0], 10, 32)
	if err != nil {
		return Region{}, fmt.Errorf("region %q: %w", s, err)
	}
	h, err := strconv.ParseInt(size[1], 10, 32)
	if err != nil {
		return Region{}, fmt.Errorf("region %q: %w", s, err)
	}
	r := Region{X: int32(x), Y: int32(y), Width: int32(w), Height: int32(h)}
	if r.IsEmpty() {
		return Region{}, fmt.Errorf("region %q is empty", s)
	}
	return r, nil
}

// Intersect returns the overlap of two regions; empty when they are
// disjoint.
func (r Region) Intersect(other Region) Region {
	x1 := max32(r.X, other.X)
	y1 := max32(r.Y, other.Y)
	x2 := min32(r.X+r.Width, other.X+other.Width)
	y2 := min32(r.Y+r.Height, other.Y+other.Height)
	if x2 <= x1 || y2 <= y1 {
		return Region{}
	}
	return Region{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Union returns the smallest region containing both. An empty region is
// the identity.
func (r Region) Union(other Region) Region {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x1 := min32(r.X, other.X)
	y1 := min32(r.Y, other.Y)
	x2 := max32(r.X+r.Width, other.X+other.Width)
	y2 := max32(r.Y+r.Height, other.Y+other.Height)
	return Region{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Contains reports whether the point lies inside the region.
func (r Region) Contains(x, y int32) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
