package capture

import (
	"fmt"

	"github.com/example/waycapture/internal/frame"
	"github.com/example/waycapture/internal/stitch"
)

// Request describes one capture. The zero value grabs every output.
type Request struct {
	// Outputs restricts the capture to named outputs; empty means all.
	Outputs []string

	// Crop restricts the composite to a compositor-logical rectangle,
	// typically supplied by an external region selector.
	Crop *frame.Region

	// Cursor overlays the pointer onto captured frames.
	Cursor bool

	// InvertColors renders GPU frames through the inverting shader.
	InvertColors bool

	OnFailure stitch.Policy
	Align     stitch.Align
}

func (e *Engine) selectOutputs(req Request) ([]frame.Output, error) {
	return resolveOutputs(e.reg.Outputs(), req)
}

// resolveOutputs narrows the connected outputs to the requested set.
// With a crop and no explicit names, only outputs intersecting the
// crop are captured.
func resolveOutputs(all []frame.Output, req Request) ([]frame.Output, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: compositor reports no outputs", ErrNoSuchOutput)
	}

	if len(req.Outputs) > 0 {
		outs := make([]frame.Output, 0, len(req.Outputs))
		for _, name := range req.Outputs {
			found := false
			for _, out := range all {
				if out.Name == name {
					outs = append(outs, out)
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("%w: %q", ErrNoSuchOutput, name)
			}
		}
		return outs, nil
	}

	if req.Crop != nil {
		outs := make([]frame.Output, 0, len(all))
		for _, out := range all {
			if !out.Logical.Intersect(*req.Crop).IsEmpty() {
				outs = append(outs, out)
			}
		}
		if len(outs) == 0 {
			return nil, fmt.Errorf("%w: no output intersects %v", ErrNoSuchOutput, *req.Crop)
		}
		return outs, nil
	}
	return all, nil
}
