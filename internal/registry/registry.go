// Package registry discovers the compositor globals the capture engine
// depends on and tracks the set of connected outputs. Required
// protocols missing after the initial roundtrip mean the compositor
// cannot be captured at all.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/example/waycapture/internal/frame"
	"github.com/example/waycapture/internal/wlclient"
	extcopy "github.com/example/waycapture/internal/wlproto/ext_image_copy_capture"
	"github.com/example/waycapture/internal/wlproto/linux_dmabuf"
	"github.com/example/waycapture/internal/wlproto/wlr_screencopy"
)

// ErrUnsupportedCompositor is fatal: the compositor advertises no
// protocol this engine can capture through.
var ErrUnsupportedCompositor = errors.New("registry: compositor advertises no screen capture protocol")

// Protocol identifies which capture protocol a session will speak.
type Protocol int

const (
	ProtocolNone Protocol = iota
	// ProtocolWlrScreencopy is zwlr_screencopy_manager_v1.
	ProtocolWlrScreencopy
	// ProtocolExtImageCopy is ext_image_copy_capture_manager_v1.
	ProtocolExtImageCopy
)

func (p Protocol) String() string {
	switch p {
	case ProtocolWlrScreencopy:
		return "wlr-screencopy"
	case ProtocolExtImageCopy:
		return "ext-image-copy-capture"
	default:
		return "none"
	}
}

// DmabufFormat is one (fourcc, modifier) pair the compositor accepts
// for dmabuf buffers.
type DmabufFormat struct {
	Fourcc   uint32
	Modifier uint64
}

// boundOutput pairs the wl_output proxy with the descriptor being
// filled by its events.
type boundOutput struct {
	proxy *client.Output
	desc  frame.Output
	done  bool
}

// Registry holds every bound global for one connection. Bind events
// run on the connection's dispatch goroutine; the mutex only guards
// the output map against readers on other goroutines.
type Registry struct {
	ctx *client.Context
	reg *client.Registry
	log *log.Logger

	Shm               *client.Shm
	Screencopy        *wlr_screencopy.ZwlrScreencopyManagerV1
	ScreencopyVersion uint32
	ExtSource     *extcopy.ExtOutputImageCaptureSourceManagerV1
	ExtCapture    *extcopy.ExtImageCopyCaptureManagerV1
	Dmabuf        *linux_dmabuf.ZwpLinuxDmabufV1
	DmabufFormats []DmabufFormat

	mu      sync.Mutex
	outputs map[uint32]*boundOutput
}

// Discover binds the capture-relevant globals and runs the roundtrips
// needed for output geometry to settle. The returned registry is
// usable until the connection closes.
func Discover(display *client.Display, ctx *client.Context, logger *log.Logger) (*Registry, error) {
	if logger == nil {
		logger = log.Default()
	}
	reg, err := display.GetRegistry()
	if err != nil {
		return nil, fmt.Errorf("get registry: %w", err)
	}

	r := &Registry{
		ctx:     ctx,
		reg:     reg,
		log:     logger,
		outputs: make(map[uint32]*boundOutput),
	}

	reg.SetGlobalHandler(r.handleGlobal)
	reg.SetGlobalRemoveHandler(func(e client.RegistryGlobalRemoveEvent) {
		r.mu.Lock()
		delete(r.outputs, e.Name)
		r.mu.Unlock()
	})

	// First roundtrip delivers the globals, second the per-output
	// geometry and the dmabuf format list.
	if err := wlclient.Roundtrip(display, ctx); err != nil {
		return nil, fmt.Errorf("registry roundtrip: %w", err)
	}
	if err := wlclient.Roundtrip(display, ctx); err != nil {
		return nil, fmt.Errorf("output roundtrip: %w", err)
	}

	if _, err := r.CaptureProtocol(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) handleGlobal(e client.RegistryGlobalEvent) {
	switch e.Interface {
	case "wl_shm":
		shm := client.NewShm(r.ctx)
		if err := r.reg.Bind(e.Name, e.Interface, wlclient.ClampVersion(e.Version, 1), shm); err == nil {
			r.Shm = shm
		}

	case wlr_screencopy.ZwlrScreencopyManagerV1InterfaceName:
		mgr := wlr_screencopy.NewZwlrScreencopyManagerV1(r.ctx)
		version := wlclient.ClampVersion(e.Version, 3)
		if err := r.reg.Bind(e.Name, e.Interface, version, mgr); err == nil {
			r.Screencopy = mgr
			r.ScreencopyVersion = version
		}

	case extcopy.ExtOutputImageCaptureSourceManagerV1InterfaceName:
		mgr := extcopy.NewExtOutputImageCaptureSourceManagerV1(r.ctx)
		if err := r.reg.Bind(e.Name, e.Interface, wlclient.ClampVersion(e.Version, 1), mgr); err == nil {
			r.ExtSource = mgr
		}

	case extcopy.ExtImageCopyCaptureManagerV1InterfaceName:
		mgr := extcopy.NewExtImageCopyCaptureManagerV1(r.ctx)
		if err := r.reg.Bind(e.Name, e.Interface, wlclient.ClampVersion(e.Version, 1), mgr); err == nil {
			r.ExtCapture = mgr
		}

	case linux_dmabuf.ZwpLinuxDmabufV1InterfaceName:
		dmabuf := linux_dmabuf.NewZwpLinuxDmabufV1(r.ctx)
		if err := r.reg.Bind(e.Name, e.Interface, wlclient.ClampVersion(e.Version, 3), dmabuf); err == nil {
			r.Dmabuf = dmabuf
			dmabuf.SetModifierHandler(func(e linux_dmabuf.ZwpLinuxDmabufV1ModifierEvent) {
				mod := uint64(e.ModifierHi)<<32 | uint64(e.ModifierLo)
				r.DmabufFormats = append(r.DmabufFormats, DmabufFormat{Fourcc: e.Format, Modifier: mod})
			})
		}

	case "wl_output":
		out := client.NewOutput(r.ctx)
		if err := r.reg.Bind(e.Name, e.Interface, wlclient.ClampVersion(e.Version, 4), out); err != nil {
			return
		}
		bo := &boundOutput{proxy: out, desc: frame.Output{Global: e.Name, Scale: 1}}
		r.mu.Lock()
		r.outputs[e.Name] = bo
		r.mu.Unlock()
		r.watchOutput(bo)
	}
}

func (r *Registry) watchOutput(bo *boundOutput) {
	out := bo.proxy
	out.SetGeometryHandler(func(e client.OutputGeometryEvent) {
		r.mu.Lock()
		bo.desc.Logical.X, bo.desc.Logical.Y = e.X, e.Y
		bo.desc.Transform = frame.Transform(e.Transform)
		r.mu.Unlock()
	})
	out.SetModeHandler(func(e client.OutputModeEvent) {
		if e.Flags&uint32(client.OutputModeCurrent) == 0 {
			return
		}
		r.mu.Lock()
		bo.desc.PixelWidth = uint32(e.Width)
		bo.desc.PixelHeight = uint32(e.Height)
		r.mu.Unlock()
	})
	out.SetScaleHandler(func(e client.OutputScaleEvent) {
		r.mu.Lock()
		bo.desc.Scale = e.Factor
		r.mu.Unlock()
	})
	out.SetNameHandler(func(e client.OutputNameEvent) {
		r.mu.Lock()
		bo.desc.Name = e.Name
		r.mu.Unlock()
	})
	out.SetDoneHandler(func(client.OutputDoneEvent) {
		r.mu.Lock()
		bo.done = true
		if bo.desc.Logical.Width == 0 || bo.desc.Logical.Height == 0 {
			w, h := bo.desc.LogicalSize()
			bo.desc.Logical.Width, bo.desc.Logical.Height = w, h
		}
		r.mu.Unlock()
	})
}

// CaptureProtocol picks the protocol sessions will use. The ext
// protocol wins when both are advertised since it is the standardized
// successor.
func (r *Registry) CaptureProtocol() (Protocol, error) {
	if r.ExtCapture != nil && r.ExtSource != nil {
		return ProtocolExtImageCopy, nil
	}
	if r.Screencopy != nil {
		return ProtocolWlrScreencopy, nil
	}
	return ProtocolNone, ErrUnsupportedCompositor
}

// DmabufUsable reports whether the compositor accepts dmabuf buffers
// for the given fourcc with a linear layout.
func (r *Registry) DmabufUsable(fourcc uint32) bool {
	if r.Dmabuf == nil {
		return false
	}
	for _, f := range r.DmabufFormats {
		if f.Fourcc != fourcc {
			continue
		}
		if f.Modifier == frame.ModifierLinear || f.Modifier == frame.ModifierInvalid {
			return true
		}
	}
	return false
}

// Outputs returns descriptor snapshots sorted by logical position,
// left to right then top to bottom.
func (r *Registry) Outputs() []frame.Output {
	r.mu.Lock()
	outs := make([]frame.Output, 0, len(r.outputs))
	for _, bo := range r.outputs {
		outs = append(outs, bo.desc)
	}
	r.mu.Unlock()

	sort.Slice(outs, func(i, j int) bool {
		if outs[i].Logical.X != outs[j].Logical.X {
			return outs[i].Logical.X < outs[j].Logical.X
		}
		return outs[i].Logical.Y < outs[j].Logical.Y
	})
	return outs
}

// OutputByName finds a descriptor by its compositor-assigned name.
func (r *Registry) OutputByName(name string) (frame.Output, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bo := range r.outputs {
		if bo.desc.Name == name {
			return bo.desc, true
		}
	}
	return frame.Output{}, false
}

// Proxy returns the wl_output proxy for a descriptor, needed when
// issuing capture requests against that output.
func (r *Registry) Proxy(global uint32) (*client.Output, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bo, ok := r.outputs[global]
	if !ok {
		return nil, false
	}
	return bo.proxy, true
}
