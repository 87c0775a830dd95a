// Package capture orchestrates the whole screenshot pipeline: it owns
// the Wayland connection, discovers outputs, drives one capture
// session per output and merges the results into a composite image.
package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/example/waycapture/internal/bufferpool"
	"github.com/example/waycapture/internal/frame"
	"github.com/example/waycapture/internal/readback"
	"github.com/example/waycapture/internal/registry"
	"github.com/example/waycapture/internal/session"
	"github.com/example/waycapture/internal/stitch"
)

// Sentinels callers branch on. The remaining failure taxonomy stays
// inside sessions and surfaces only through the composite policy.
var (
	ErrUnsupportedCompositor = registry.ErrUnsupportedCompositor
	ErrCompositeFailed       = stitch.ErrCompositeFailed
	ErrNoSuchOutput          = errors.New("capture: no such output")
)

// Options configure a connection.
type Options struct {
	// Display selects the Wayland display; empty uses WAYLAND_DISPLAY.
	Display string
	// RenderNode selects the DRM render node for GPU buffers; empty
	// picks the first one. GPU setup failure is not fatal.
	RenderNode string
	// DisableGPU forces the shared-memory path.
	DisableGPU bool

	Logger *log.Logger
}

// Engine is one live connection to the compositor. All capture
// activity is serialized on the connection's event loop; Engine
// methods must not be called concurrently.
type Engine struct {
	display *client.Display
	wlctx   *client.Context
	reg     *registry.Registry

	pool *bufferpool.Pool
	gpu  bufferpool.GPUAllocator
	rb   *readback.Worker

	protocol registry.Protocol
	log      *log.Logger
}

// Connect dials the compositor and discovers its capture capabilities.
// Returns ErrUnsupportedCompositor when no capture protocol is
// advertised.
func Connect(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	display, err := client.Connect(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("connect to compositor: %w", err)
	}
	wlctx := display.Context()

	reg, err := registry.Discover(display, wlctx, logger)
	if err != nil {
		wlctx.Close()
		return nil, err
	}
	protocol, err := reg.CaptureProtocol()
	if err != nil {
		wlctx.Close()
		return nil, err
	}
	logger.Debug("capture protocol selected", "protocol", protocol)

	e := &Engine{
		display:  display,
		wlctx:    wlctx,
		reg:      reg,
		protocol: protocol,
		log:      logger,
	}

	if !opts.DisableGPU && reg.Dmabuf != nil {
		gpu, err := bufferpool.OpenGPU(opts.RenderNode)
		if err != nil {
			logger.Debug("gpu unavailable, using shm only", "err", err)
		} else if rb, err := readback.NewWorker(); err != nil {
			logger.Debug("egl readback unavailable, using shm only", "err", err)
			gpu.Close()
		} else {
			e.gpu = gpu
			e.rb = rb
		}
	}
	e.pool = bufferpool.NewPool(e.gpu, logger)

	return e, nil
}

// Close tears down the connection and every pooled buffer.
func (e *Engine) Close() error {
	var first error
	if e.pool != nil {
		if err := e.pool.Close(); err != nil && first == nil {
			first = err
		}
	}
	if e.rb != nil {
		e.rb.Close()
	}
	if e.gpu != nil {
		if err := e.gpu.Close(); err != nil && first == nil {
			first = err
		}
	}
	if e.wlctx != nil {
		if err := e.wlctx.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Outputs lists the connected outputs, left to right.
func (e *Engine) Outputs() []frame.Output {
	return e.reg.Outputs()
}

// Protocol reports the capture protocol in use.
func (e *Engine) Protocol() registry.Protocol {
	return e.protocol
}

// GPUAvailable reports whether dmabuf capture is wired up.
func (e *Engine) GPUAvailable() bool {
	return e.gpu != nil && e.rb != nil
}

// driver runs one output's protocol exchange against its session.
type driver interface {
	// start issues (or re-issues) the capture request.
	start() error
	// sess returns the session the driver feeds.
	sess() *session.Session
	// cleanup destroys protocol objects the driver created.
	cleanup()
}

// Capture grabs the requested outputs and stitches them. The returned
// composite is the caller's.
func (e *Engine) Capture(ctx context.Context, req Request) (*stitch.Composite, error) {
	outs, err := e.selectOutputs(req)
	if err != nil {
		return nil, err
	}

	policy := req.OnFailure
	if len(outs) == 1 {
		// A single-output request never yields a blank image.
		policy = stitch.PolicyAbort
	}

	drivers := make([]driver, 0, len(outs))
	for _, out := range outs {
		d, err := e.newDriver(out, req)
		if err != nil {
			e.cancelAll(drivers)
			return nil, err
		}
		drivers = append(drivers, d)
	}

	sources, err := e.run(ctx, drivers, req)
	if err != nil {
		e.cancelAll(drivers)
		return nil, err
	}

	comp, err := stitch.Stitch(sources, stitch.Options{
		Crop:      req.Crop,
		OnFailure: policy,
		Align:     req.Align,
	})
	e.releaseAll(drivers)
	if err != nil {
		return nil, err
	}
	return comp, nil
}

func (e *Engine) newDriver(out frame.Output, req Request) (driver, error) {
	proxy, ok := e.reg.Proxy(out.Global)
	if !ok {
		return nil, fmt.Errorf("%w: %s disappeared", ErrNoSuchOutput, out.Name)
	}
	sess := session.New(out, e.pool, e.GPUAvailable(), e.log)
	if e.protocol == registry.ProtocolExtImageCopy {
		return newExtDriver(e, sess, proxy, req), nil
	}
	return newScreencopyDriver(e, sess, proxy, req), nil
}

// run drives every driver to a terminal state, performing GPU readback
// and the one allowed shm retry, and returns the stitch sources in
// output order.
func (e *Engine) run(ctx context.Context, drivers []driver, req Request) ([]stitch.Source, error) {
	sources := make([]stitch.Source, len(drivers))
	pending := drivers

	for len(pending) > 0 {
		for _, d := range pending {
			if err := d.start(); err != nil {
				d.sess().Cancel()
				e.log.Warn("capture start failed", "output", d.sess().Output.Name, "err", err)
			}
		}
		if err := e.dispatchUntilTerminal(ctx, pending); err != nil {
			return nil, err
		}

		var retries []driver
		for _, d := range pending {
			s := d.sess()
			d.cleanup()
			if s.State() != session.StateReady {
				continue
			}
			pix, err := e.resolvePixels(ctx, s, req)
			if err != nil {
				if errors.Is(err, readback.ErrReadbackFailed) {
					if retry, rerr := s.HandleReadbackFailed(); rerr == nil && retry {
						retries = append(retries, d)
						continue
					}
					e.log.Warn("gpu readback failed terminally", "output", s.Output.Name)
					continue
				}
				return nil, err
			}
			idx := e.driverIndex(drivers, d)
			sources[idx].Pixels = pix
			sources[idx].YInvert = s.YInvert()
		}
		pending = retries
	}

	for i, d := range drivers {
		sources[i].Output = d.sess().Output
	}
	return sources, nil
}

// resolvePixels turns a ready session's buffer into RGBA pixels,
// converting shm in place or reading a dmabuf back through the GPU.
func (e *Engine) resolvePixels(ctx context.Context, s *session.Session, req Request) (*frame.PixelBuffer, error) {
	buf := s.Buffer()
	if buf == nil {
		return nil, fmt.Errorf("ready session for %s holds no buffer", s.Output.Name)
	}
	switch buf.Backend() {
	case bufferpool.BackendShm:
		pix, err := frame.ConvertToRGBA(buf.Shm().Data(), buf.Format)
		if err != nil {
			return nil, fmt.Errorf("convert %s frame: %w", s.Output.Name, err)
		}
		if req.InvertColors {
			pix.InvertColors()
		}
		return pix, nil
	case bufferpool.BackendDmabuf:
		return e.rb.ReadBack(ctx, buf.Dmabuf(), readback.Options{InvertColors: req.InvertColors})
	default:
		return nil, fmt.Errorf("unknown buffer backend %v", buf.Backend())
	}
}

// dispatchUntilTerminal pumps the event loop until every listed driver
// reaches a terminal session state.
func (e *Engine) dispatchUntilTerminal(ctx context.Context, drivers []driver) error {
	for {
		done := true
		for _, d := range drivers {
			if !d.sess().Terminal() {
				done = false
				break
			}
		}
		if done {
			return nil
		}
		if err := ctx.Err(); err != nil {
			e.cancelAll(drivers)
			return err
		}
		if err := e.wlctx.Dispatch(); err != nil {
			return fmt.Errorf("wayland dispatch: %w", err)
		}
	}
}

func (e *Engine) driverIndex(drivers []driver, d driver) int {
	for i, x := range drivers {
		if x == d {
			return i
		}
	}
	return -1
}

func (e *Engine) cancelAll(drivers []driver) {
	for _, d := range drivers {
		d.sess().Cancel()
		d.cleanup()
	}
}

func (e *Engine) releaseAll(drivers []driver) {
	for _, d := range drivers {
		d.sess().ReleaseBuffer()
	}
}
