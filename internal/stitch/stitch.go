// Package stitch merges per-output capture results into one composite
// image positioned in compositor logical space. Outputs never overlap
// in logical space, so each source blits into a disjoint destination.
package stitch

import (
	"errors"
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/example/waycapture/internal/frame"
)

// ErrCompositeFailed is raised when the failure policy aborts the
// composite, or when every source in the request failed.
var ErrCompositeFailed = errors.New("stitch: composite failed")

// Policy decides what a failed source does to the composite.
type Policy int

const (
	// PolicySkip leaves the failed output's region zero-filled.
	PolicySkip Policy = iota
	// PolicyAbort fails the whole composite on any failed source.
	// Single-output requests always use this.
	PolicyAbort
)

// Align decides how a crop rectangle reaching past the outputs is
// handled.
type Align int

const (
	// AlignPad keeps the full crop rectangle, zero-filling the part no
	// output covers.
	AlignPad Align = iota
	// AlignCrop shrinks the result to the covered intersection.
	AlignCrop
)

// Source is one output's terminal capture result. Pixels are RGBA in
// the output's native pixel orientation; nil Pixels marks a failed
// session.
type Source struct {
	Output  frame.Output
	Pixels  *frame.PixelBuffer
	YInvert bool
}

// Failed reports whether the source carries no usable pixels.
func (s Source) Failed() bool { return s.Pixels == nil }

// Options control composition.
type Options struct {
	// Crop restricts the composite to a logical-space rectangle. Nil
	// means the union of all source outputs.
	Crop *frame.Region

	OnFailure Policy
	Align     Align
}

// Composite is the merged result plus the logical-space rectangle it
// covers. The caller owns it outright.
type Composite struct {
	Bounds frame.Region
	Pixels *frame.PixelBuffer
}

// Stitch merges the sources. Every source must already be terminal;
// the caller's barrier guarantees no in-flight buffers are read.
func Stitch(sources []Source, opts Options) (*Composite, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources: %w", ErrCompositeFailed)
	}

	failed := 0
	var union frame.Region
	for _, s := range sources {
		union = union.Union(s.Output.Logical)
		if s.Failed() {
			failed++
		}
	}
	if failed > 0 && opts.OnFailure == PolicyAbort {
		return nil, fmt.Errorf("%d of %d outputs failed: %w", failed, len(sources), ErrCompositeFailed)
	}
	if failed == len(sources) {
		return nil, fmt.Errorf("every output failed: %w", ErrCompositeFailed)
	}

	bounds := union
	if opts.Crop != nil {
		switch opts.Align {
		case AlignCrop:
			bounds = union.Intersect(*opts.Crop)
		default:
			bounds = *opts.Crop
		}
	}
	if bounds.IsEmpty() {
		return nil, fmt.Errorf("crop selects no pixels: %w", ErrCompositeFailed)
	}

	dst := frame.NewPixelBuffer(int(bounds.Width), int(bounds.Height))
	dstImg := dst.ToImage()

	for _, s := range sources {
		if s.Failed() {
			continue
		}
		place := s.Output.Logical.Intersect(bounds)
		if place.IsEmpty() {
			continue
		}
		blit(dstImg, bounds, s)
	}

	return &Composite{Bounds: bounds, Pixels: dst}, nil
}

// blit corrects one source for y-invert, output transform and scale,
// then draws it at its logical position.
func blit(dst *image.RGBA, bounds frame.Region, s Source) {
	pix := s.Pixels
	if s.YInvert {
		pix = pix.Clone()
		pix.FlipVertical()
	}

	// The captured frame is in scanout orientation; the inverse
	// transform brings it back to logical orientation.
	if t := s.Output.Transform; t != frame.TransformNormal {
		pix = pix.Transformed(t.Inverse())
	}

	logical := s.Output.Logical
	dstRect := image.Rect(
		int(logical.X-bounds.X),
		int(logical.Y-bounds.Y),
		int(logical.X-bounds.X+logical.Width),
		int(logical.Y-bounds.Y+logical.Height),
	)
	src := pix.ToImage()

	if int(logical.Width) == src.Rect.Dx() && int(logical.Height) == src.Rect.Dy() {
		xdraw.Draw(dst, dstRect, src, image.Point{}, xdraw.Src)
		return
	}
	// Scale factor correction: pixel size differs from logical size on
	// scaled outputs.
	xdraw.ApproxBiLinear.Scale(dst, dstRect, src, src.Rect, xdraw.Src, nil)
}
