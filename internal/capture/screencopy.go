package capture

import (
	"fmt"

	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/example/waycapture/internal/bufferpool"
	"github.com/example/waycapture/internal/frame"
	"github.com/example/waycapture/internal/session"
	"github.com/example/waycapture/internal/wlproto/wlr_screencopy"
)

// screencopyDriver speaks zwlr_screencopy_manager_v1 for one output.
type screencopyDriver struct {
	eng     *Engine
	session *session.Session
	output  *client.Output
	cursor  int32

	frame   *wlr_screencopy.ZwlrScreencopyFrameV1
	wlBuf   *client.Buffer
	shmPool *client.ShmPool

	shmFormat *frame.Format
	dmaFormat *frame.Format
	yInvert   bool
	damage    frame.Region
}

func newScreencopyDriver(e *Engine, s *session.Session, output *client.Output, req Request) *screencopyDriver {
	cursor := int32(0)
	if req.Cursor {
		cursor = 1
	}
	return &screencopyDriver{eng: e, session: s, output: output, cursor: cursor}
}

func (d *screencopyDriver) sess() *session.Session { return d.session }

func (d *screencopyDriver) start() error {
	d.shmFormat, d.dmaFormat = nil, nil
	d.yInvert = false
	d.damage = frame.Region{}

	fr, err := d.eng.reg.Screencopy.CaptureOutput(d.cursor, d.output)
	if err != nil {
		return fmt.Errorf("capture_output: %w", err)
	}
	d.frame = fr

	fr.SetBufferHandler(func(e wlr_screencopy.ZwlrScreencopyFrameV1BufferEvent) {
		d.shmFormat = &frame.Format{
			Pixel:    frame.PixelFormat(e.Format),
			Width:    e.Width,
			Height:   e.Height,
			Stride:   e.Stride,
			Modifier: frame.ModifierInvalid,
		}
		// Protocol versions before 3 have no buffer_done; the buffer
		// announcement itself is the cue to proceed.
		if d.eng.reg.ScreencopyVersion < 3 {
			d.provision()
		}
	})
	fr.SetLinuxDmabufHandler(func(e wlr_screencopy.ZwlrScreencopyFrameV1LinuxDmabufEvent) {
		d.dmaFormat = &frame.Format{
			Pixel:    frame.FromDRMCode(e.Format),
			Width:    e.Width,
			Height:   e.Height,
			Modifier: frame.ModifierLinear,
		}
	})
	fr.SetBufferDoneHandler(func(wlr_screencopy.ZwlrScreencopyFrameV1BufferDoneEvent) {
		d.provision()
	})
	fr.SetFlagsHandler(func(e wlr_screencopy.ZwlrScreencopyFrameV1FlagsEvent) {
		d.yInvert = e.Flags&uint32(wlr_screencopy.ZwlrScreencopyFrameV1FlagsYInvert) != 0
	})
	fr.SetDamageHandler(func(e wlr_screencopy.ZwlrScreencopyFrameV1DamageEvent) {
		d.damage = d.damage.Union(frame.Region{
			X: int32(e.X), Y: int32(e.Y),
			Width: int32(e.Width), Height: int32(e.Height),
		})
	})
	fr.SetReadyHandler(func(wlr_screencopy.ZwlrScreencopyFrameV1ReadyEvent) {
		if err := d.session.HandleCopyReady(d.yInvert, d.damage); err != nil {
			d.eng.log.Warn("unexpected ready event", "output", d.session.Output.Name, "err", err)
		}
	})
	fr.SetFailedHandler(func(wlr_screencopy.ZwlrScreencopyFrameV1FailedEvent) {
		retry, err := d.session.HandleCopyFailed()
		if err != nil {
			d.eng.log.Warn("unexpected failed event", "output", d.session.Output.Name, "err", err)
			return
		}
		if retry {
			d.cleanup()
			if err := d.start(); err != nil {
				d.eng.log.Warn("capture retry failed", "output", d.session.Output.Name, "err", err)
				d.session.Cancel()
			}
		}
	})
	return nil
}

// provision allocates the session buffer once the compositor has
// announced all acceptable formats, then submits the copy.
func (d *screencopyDriver) provision() {
	f, backend := d.chooseFormat()
	if f == nil {
		d.eng.log.Warn("no usable buffer format announced", "output", d.session.Output.Name)
		d.session.Cancel()
		return
	}

	if err := d.session.HandleBufferAnnounced(*f); err != nil {
		d.eng.log.Warn("buffer allocation failed", "output", d.session.Output.Name, "err", err)
		return
	}

	wlBuf, err := d.makeWlBuffer(backend)
	if err != nil {
		d.eng.log.Warn("wl_buffer creation failed", "output", d.session.Output.Name, "err", err)
		d.session.Cancel()
		return
	}
	d.wlBuf = wlBuf

	if err := d.frame.Copy(wlBuf); err != nil {
		d.eng.log.Warn("copy request failed", "output", d.session.Output.Name, "err", err)
		d.session.Cancel()
		return
	}
	if err := d.session.HandleCopySubmitted(); err != nil {
		d.eng.log.Warn("unexpected submit", "output", d.session.Output.Name, "err", err)
	}
}

// chooseFormat prefers the dmabuf announcement when the GPU path is
// open and the compositor accepts the format linearly.
func (d *screencopyDriver) chooseFormat() (*frame.Format, bufferpool.Backend) {
	if d.session.PrefersDmabuf() && d.dmaFormat != nil &&
		d.eng.reg.DmabufUsable(d.dmaFormat.Pixel.DRMCode()) {
		return d.dmaFormat, bufferpool.BackendDmabuf
	}
	if d.shmFormat != nil && d.shmFormat.Pixel.Supported() {
		return d.shmFormat, bufferpool.BackendShm
	}
	return nil, bufferpool.BackendShm
}

// makeWlBuffer wraps the session's pool buffer in a wl_buffer the
// compositor can copy into.
func (d *screencopyDriver) makeWlBuffer(backend bufferpool.Backend) (*client.Buffer, error) {
	buf := d.session.Buffer()
	f := buf.Format

	if backend == bufferpool.BackendShm || buf.Backend() == bufferpool.BackendShm {
		shm := buf.Shm()
		pool, err := d.eng.reg.Shm.CreatePool(shm.Fd(), int32(shm.Size()))
		if err != nil {
			return nil, fmt.Errorf("create shm pool: %w", err)
		}
		d.shmPool = pool
		wlBuf, err := pool.CreateBuffer(0, int32(f.Width), int32(f.Height), int32(f.Stride), uint32(f.Pixel))
		if err != nil {
			return nil, fmt.Errorf("create shm wl_buffer: %w", err)
		}
		return wlBuf, nil
	}

	dma := buf.Dmabuf()
	params, err := d.eng.reg.Dmabuf.CreateParams()
	if err != nil {
		return nil, fmt.Errorf("create dmabuf params: %w", err)
	}
	defer params.Destroy()

	mod := f.Modifier
	if err := params.Add(dma.Fd, 0, 0, f.Stride, uint32(mod>>32), uint32(mod&0xffffffff)); err != nil {
		return nil, fmt.Errorf("dmabuf params add: %w", err)
	}
	wlBuf, err := params.CreateImmed(int32(f.Width), int32(f.Height), f.Pixel.DRMCode(), 0)
	if err != nil {
		return nil, fmt.Errorf("dmabuf create_immed: %w", err)
	}
	return wlBuf, nil
}

func (d *screencopyDriver) cleanup() {
	if d.frame != nil {
		d.frame.Destroy()
		d.frame = nil
	}
	if d.wlBuf != nil {
		d.wlBuf.Destroy()
		d.wlBuf = nil
	}
	if d.shmPool != nil {
		d.shmPool.Destroy()
		d.shmPool = nil
	}
}

var _ driver = (*screencopyDriver)(nil)
