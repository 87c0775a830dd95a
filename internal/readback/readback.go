// Package readback converts GPU dmabuf captures into CPU pixel
// buffers. Dmabuf memory is not directly mappable, so the buffer is
// imported into EGL as an image, sampled through a minimal shader into
// an offscreen target, and read out with glReadPixels. The EGL context
// lives on a dedicated locked OS thread.
package readback

import (
	"context"
	"errors"

	"github.com/example/waycapture/internal/bufferpool"
	"github.com/example/waycapture/internal/frame"
)

var (
	// ErrUnavailable means no EGL stack is present, either at runtime
	// or because GPU support is compiled out.
	ErrUnavailable = errors.New("readback: egl unavailable")

	// ErrReadbackFailed covers import or draw failures for a specific
	// buffer, typically an unsupported modifier. The capture retries
	// once over shared memory.
	ErrReadbackFailed = errors.New("readback: gpu readback failed")

	// ErrClosed is returned for requests after Close.
	ErrClosed = errors.New("readback: worker closed")
)

// Options tune a single readback.
type Options struct {
	// InvertColors renders through the color-inverting shader variant.
	InvertColors bool
}

// Worker owns one EGL context and serializes readback requests onto
// its thread. Safe for use from multiple goroutines.
type Worker struct {
	jobs chan job
	done chan struct{}
}

type job struct {
	ctx   context.Context
	buf   *bufferpool.DmabufBuffer
	opts  Options
	reply chan result
}

type result struct {
	pix *frame.PixelBuffer
	err error
}

// ReadBack imports the dmabuf and returns its contents as a tightly
// packed RGBA buffer with top-down rows.
func (w *Worker) ReadBack(ctx context.Context, buf *bufferpool.DmabufBuffer, opts Options) (*frame.PixelBuffer, error) {
	j := job{ctx: ctx, buf: buf, opts: opts, reply: make(chan result, 1)}
	select {
	case w.jobs <- j:
	case <-w.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-j.reply:
		return r.pix, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
