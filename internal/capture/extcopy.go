package capture

import (
	"encoding/binary"
	"fmt"

	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/example/waycapture/internal/bufferpool"
	"github.com/example/waycapture/internal/frame"
	"github.com/example/waycapture/internal/session"
	extcopy "github.com/example/waycapture/internal/wlproto/ext_image_copy_capture"
)

// extDriver speaks ext_image_copy_capture_v1 for one output. The
// protocol session persists across retries; each capture attempt is a
// fresh frame object.
type extDriver struct {
	eng     *Engine
	session *session.Session
	output  *client.Output
	options uint32

	source  *extcopy.ExtImageCaptureSourceV1
	capSess *extcopy.ExtImageCopyCaptureSessionV1
	frame   *extcopy.ExtImageCopyCaptureFrameV1
	wlBuf   *client.Buffer
	shmPool *client.ShmPool

	width, height uint32
	shmFormats    []uint32
	dmaFormats    []extDmabufFormat
	constraintsOK bool
	damage        frame.Region

	// Constraint events stage here; done swaps the batch in wholesale.
	pendWidth, pendHeight uint32
	pendShm               []uint32
	pendDma               []extDmabufFormat
}

type extDmabufFormat struct {
	fourcc    uint32
	modifiers []uint64
}

func newExtDriver(e *Engine, s *session.Session, output *client.Output, req Request) *extDriver {
	var options uint32
	if req.Cursor {
		options |= uint32(extcopy.ExtImageCopyCaptureManagerV1OptionsPaintCursors)
	}
	return &extDriver{eng: e, session: s, output: output, options: options}
}

func (d *extDriver) sess() *session.Session { return d.session }

func (d *extDriver) start() error {
	d.damage = frame.Region{}

	if d.capSess == nil {
		src, err := d.eng.reg.ExtSource.CreateSource(d.output)
		if err != nil {
			return fmt.Errorf("create capture source: %w", err)
		}
		d.source = src

		cs, err := d.eng.reg.ExtCapture.CreateSession(src, d.options)
		if err != nil {
			return fmt.Errorf("create capture session: %w", err)
		}
		d.capSess = cs

		cs.SetBufferSizeHandler(func(e extcopy.ExtImageCopyCaptureSessionV1BufferSizeEvent) {
			d.pendWidth, d.pendHeight = e.Width, e.Height
		})
		cs.SetShmFormatHandler(func(e extcopy.ExtImageCopyCaptureSessionV1ShmFormatEvent) {
			d.pendShm = append(d.pendShm, e.Format)
		})
		cs.SetDmabufFormatHandler(func(e extcopy.ExtImageCopyCaptureSessionV1DmabufFormatEvent) {
			d.pendDma = append(d.pendDma, extDmabufFormat{
				fourcc:    e.Format,
				modifiers: parseModifiers(e.Modifiers),
			})
		})
		cs.SetDoneHandler(func(extcopy.ExtImageCopyCaptureSessionV1DoneEvent) {
			d.commitConstraints()
			d.provision()
		})
		cs.SetStoppedHandler(func(extcopy.ExtImageCopyCaptureSessionV1StoppedEvent) {
			d.session.Cancel()
		})
		return nil
	}

	// Retry on an established session: the constraints are already
	// known, so provision directly with the backend preference the
	// session holds now.
	if d.constraintsOK {
		d.provision()
	}
	return nil
}

// commitConstraints replaces the active constraint set with the staged
// batch. Each done event carries a complete advertisement, so the
// previous formats are dropped rather than merged; after a
// buffer_constraints failure the re-advertised batch fully supersedes
// the one the failed pick came from.
func (d *extDriver) commitConstraints() {
	d.width, d.height = d.pendWidth, d.pendHeight
	d.shmFormats, d.dmaFormats = d.pendShm, d.pendDma
	d.pendWidth, d.pendHeight = 0, 0
	d.pendShm, d.pendDma = nil, nil
	d.constraintsOK = true
}

// parseModifiers decodes the wire array of native-endian u64 drm
// modifiers.
func parseModifiers(raw []byte) []uint64 {
	mods := make([]uint64, 0, len(raw)/8)
	for i := 0; i+8 <= len(raw); i += 8 {
		mods = append(mods, binary.LittleEndian.Uint64(raw[i:i+8]))
	}
	return mods
}

// provision runs once the session's buffer constraints settle: pick a
// format, allocate, attach and fire the capture.
func (d *extDriver) provision() {
	if d.session.Terminal() || d.session.State() != session.StateRequested {
		return
	}

	f, backend := d.chooseFormat()
	if f == nil {
		d.eng.log.Warn("no usable buffer constraints", "output", d.session.Output.Name)
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

	fr, err := d.capSess.CreateFrame()
	if err != nil {
		d.eng.log.Warn("create frame failed", "output", d.session.Output.Name, "err", err)
		d.session.Cancel()
		return
	}
	d.frame = fr

	fr.SetDamageHandler(func(e extcopy.ExtImageCopyCaptureFrameV1DamageEvent) {
		d.damage = d.damage.Union(frame.Region{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height})
	})
	fr.SetReadyHandler(func(extcopy.ExtImageCopyCaptureFrameV1ReadyEvent) {
		// This protocol never delivers y-inverted frames.
		if err := d.session.HandleCopyReady(false, d.damage); err != nil {
			d.eng.log.Warn("unexpected ready event", "output", d.session.Output.Name, "err", err)
		}
	})
	fr.SetFailedHandler(func(e extcopy.ExtImageCopyCaptureFrameV1FailedEvent) {
		d.handleFailed(extcopy.ExtImageCopyCaptureFrameV1FailureReasonEnum(e.Reason))
	})

	if err := fr.AttachBuffer(wlBuf); err != nil {
		d.eng.log.Warn("attach buffer failed", "output", d.session.Output.Name, "err", err)
		d.session.Cancel()
		return
	}
	if err := fr.DamageBuffer(0, 0, int32(f.Width), int32(f.Height)); err != nil {
		d.eng.log.Warn("damage buffer failed", "output", d.session.Output.Name, "err", err)
	}
	if err := fr.Capture(); err != nil {
		d.eng.log.Warn("capture request failed", "output", d.session.Output.Name, "err", err)
		d.session.Cancel()
		return
	}
	if err := d.session.HandleCopySubmitted(); err != nil {
		d.eng.log.Warn("unexpected submit", "output", d.session.Output.Name, "err", err)
	}
}

func (d *extDriver) handleFailed(reason extcopy.ExtImageCopyCaptureFrameV1FailureReasonEnum) {
	if reason == extcopy.ExtImageCopyCaptureFrameV1FailureReasonStopped {
		d.session.Cancel()
		return
	}
	retry, err := d.session.HandleCopyFailed()
	if err != nil {
		d.eng.log.Warn("unexpected failed event", "output", d.session.Output.Name, "err", err)
		return
	}
	if retry {
		d.destroyFrame()
		// buffer_constraints failures are followed by fresh constraint
		// events and a new done; otherwise re-provision directly.
		if reason != extcopy.ExtImageCopyCaptureFrameV1FailureReasonBufferConstraints {
			d.provision()
		}
	}
}

// chooseFormat prefers a dmabuf constraint with a linear modifier when
// the GPU path is open, then any supported shm format.
func (d *extDriver) chooseFormat() (*frame.Format, bufferpool.Backend) {
	if d.width == 0 || d.height == 0 {
		return nil, bufferpool.BackendShm
	}
	if d.session.PrefersDmabuf() {
		for _, df := range d.dmaFormats {
			if !frame.FromDRMCode(df.fourcc).Supported() {
				continue
			}
			for _, mod := range df.modifiers {
				if mod == frame.ModifierLinear || mod == frame.ModifierInvalid {
					return &frame.Format{
						Pixel:    frame.FromDRMCode(df.fourcc),
						Width:    d.width,
						Height:   d.height,
						Modifier: frame.ModifierLinear,
					}, bufferpool.BackendDmabuf
				}
			}
		}
	}
	for _, sf := range d.shmFormats {
		pf := frame.PixelFormat(sf)
		if !pf.Supported() {
			continue
		}
		return &frame.Format{
			Pixel:    pf,
			Width:    d.width,
			Height:   d.height,
			Stride:   d.width * uint32(pf.BytesPerPixel()),
			Modifier: frame.ModifierInvalid,
		}, bufferpool.BackendShm
	}
	return nil, bufferpool.BackendShm
}

func (d *extDriver) makeWlBuffer(backend bufferpool.Backend) (*client.Buffer, error) {
	buf := d.session.Buffer()
	f := buf.Format

	if buf.Backend() == bufferpool.BackendShm {
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

func (d *extDriver) destroyFrame() {
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

func (d *extDriver) cleanup() {
	d.destroyFrame()
	if d.capSess != nil {
		d.capSess.Destroy()
		d.capSess = nil
	}
	if d.source != nil {
		d.source.Destroy()
		d.source = nil
	}
}

var _ driver = (*extDriver)(nil)
