// Package ext_image_copy_capture contains client bindings for the
// ext-image-copy-capture-v1 and ext-image-capture-source-v1 protocols.
//
// Hand-maintained in the go-wayland scanner output style.
package ext_image_copy_capture

import (
	"github.com/rajveermalviya/go-wayland/wayland/client"
)

const (
	ExtOutputImageCaptureSourceManagerV1InterfaceName = "ext_output_image_capture_source_manager_v1"
	ExtImageCaptureSourceV1InterfaceName              = "ext_image_capture_source_v1"
	ExtImageCopyCaptureManagerV1InterfaceName         = "ext_image_copy_capture_manager_v1"
	ExtImageCopyCaptureSessionV1InterfaceName         = "ext_image_copy_capture_session_v1"
	ExtImageCopyCaptureFrameV1InterfaceName           = "ext_image_copy_capture_frame_v1"
)

// ExtOutputImageCaptureSourceManagerV1 : image capture source manager for outputs
//
// A manager for creating image capture source objects for wl_output objects.
type ExtOutputImageCaptureSourceManagerV1 struct {
	client.BaseProxy
}

// NewExtOutputImageCaptureSourceManagerV1 : image capture source manager for outputs
func NewExtOutputImageCaptureSourceManagerV1(ctx *client.Context) *ExtOutputImageCaptureSourceManagerV1 {
	extOutputImageCaptureSourceManagerV1 := &ExtOutputImageCaptureSourceManagerV1{}
	ctx.Register(extOutputImageCaptureSourceManagerV1)
	return extOutputImageCaptureSourceManagerV1
}

// CreateSource : create source object for output
//
// Creates a source object for an output. Images captured from this source
// will show the same content as the output.
func (i *ExtOutputImageCaptureSourceManagerV1) CreateSource(output *client.Output) (*ExtImageCaptureSourceV1, error) {
	source := NewExtImageCaptureSourceV1(i.Context())
	const opcode = 0
	const _reqBufLen = 8 + 4 + 4
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], source.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], output.ID())
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return source, err
}

// Destroy : delete this object
func (i *ExtOutputImageCaptureSourceManagerV1) Destroy() error {
	defer i.Context().Unregister(i)
	const opcode = 1
	const _reqBufLen = 8
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return err
}

func (i *ExtOutputImageCaptureSourceManagerV1) Dispatch(opcode uint32, fd int, data []byte) {}

// ExtImageCaptureSourceV1 : opaque image capture source object
//
// The image capture source object is an opaque descriptor for a capturable
// resource.
type ExtImageCaptureSourceV1 struct {
	client.BaseProxy
}

// NewExtImageCaptureSourceV1 : opaque image capture source object
func NewExtImageCaptureSourceV1(ctx *client.Context) *ExtImageCaptureSourceV1 {
	extImageCaptureSourceV1 := &ExtImageCaptureSourceV1{}
	ctx.Register(extImageCaptureSourceV1)
	return extImageCaptureSourceV1
}

// Destroy : delete this object
func (i *ExtImageCaptureSourceV1) Destroy() error {
	defer i.Context().Unregister(i)
	const opcode = 0
	const _reqBufLen = 8
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return err
}

func (i *ExtImageCaptureSourceV1) Dispatch(opcode uint32, fd int, data []byte) {}

// ExtImageCopyCaptureManagerV1OptionsEnum : session creation options
type ExtImageCopyCaptureManagerV1OptionsEnum uint32

const (
	// ExtImageCopyCaptureManagerV1OptionsPaintCursors : paint cursors onto captured frames
	ExtImageCopyCaptureManagerV1OptionsPaintCursors ExtImageCopyCaptureManagerV1OptionsEnum = 1
)

// ExtImageCopyCaptureManagerV1 : manager to inform clients and begin capturing
type ExtImageCopyCaptureManagerV1 struct {
	client.BaseProxy
}

// NewExtImageCopyCaptureManagerV1 : manager to inform clients and begin capturing
func NewExtImageCopyCaptureManagerV1(ctx *client.Context) *ExtImageCopyCaptureManagerV1 {
	extImageCopyCaptureManagerV1 := &ExtImageCopyCaptureManagerV1{}
	ctx.Register(extImageCopyCaptureManagerV1)
	return extImageCopyCaptureManagerV1
}

// CreateSession : capture image capture source
//
// Create a capturing session for an image capture source.
func (i *ExtImageCopyCaptureManagerV1) CreateSession(source *ExtImageCaptureSourceV1, options uint32) (*ExtImageCopyCaptureSessionV1, error) {
	session := NewExtImageCopyCaptureSessionV1(i.Context())
	const opcode = 0
	const _reqBufLen = 8 + 4 + 4 + 4
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], session.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], source.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], options)
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return session, err
}

// Destroy : destroy the manager
func (i *ExtImageCopyCaptureManagerV1) Destroy() error {
	defer i.Context().Unregister(i)
	const opcode = 2
	const _reqBufLen = 8
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return err
}

func (i *ExtImageCopyCaptureManagerV1) Dispatch(opcode uint32, fd int, data []byte) {}

// ExtImageCopyCaptureSessionV1 : image copy capture session
//
// This object represents an active image copy capture session.
//
// After a capture session is created, buffer constraint events will be
// emitted from the compositor to tell the client which buffer types and
// formats are supported for reading from the session. The compositor may
// re-send buffer constraint events whenever they change.
type ExtImageCopyCaptureSessionV1 struct {
	client.BaseProxy
	bufferSizeHandler   ExtImageCopyCaptureSessionV1BufferSizeHandlerFunc
	shmFormatHandler    ExtImageCopyCaptureSessionV1ShmFormatHandlerFunc
	dmabufDeviceHandler ExtImageCopyCaptureSessionV1DmabufDeviceHandlerFunc
	dmabufFormatHandler ExtImageCopyCaptureSessionV1DmabufFormatHandlerFunc
	doneHandler         ExtImageCopyCaptureSessionV1DoneHandlerFunc
	stoppedHandler      ExtImageCopyCaptureSessionV1StoppedHandlerFunc
}

// NewExtImageCopyCaptureSessionV1 : image copy capture session
func NewExtImageCopyCaptureSessionV1(ctx *client.Context) *ExtImageCopyCaptureSessionV1 {
	extImageCopyCaptureSessionV1 := &ExtImageCopyCaptureSessionV1{}
	ctx.Register(extImageCopyCaptureSessionV1)
	return extImageCopyCaptureSessionV1
}

// CreateFrame : create a frame
//
// Create a capture frame for this session.
func (i *ExtImageCopyCaptureSessionV1) CreateFrame() (*ExtImageCopyCaptureFrameV1, error) {
	frame := NewExtImageCopyCaptureFrameV1(i.Context())
	const opcode = 0
	const _reqBufLen = 8 + 4
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], frame.ID())
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return frame, err
}

// Destroy : delete this object
func (i *ExtImageCopyCaptureSessionV1) Destroy() error {
	defer i.Context().Unregister(i)
	const opcode = 1
	const _reqBufLen = 8
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return err
}

// ExtImageCopyCaptureSessionV1BufferSizeEvent : image capture source dimensions
//
// Provides the dimensions of the source image in buffer pixel coordinates.
// The client must attach buffers that match this size.
type ExtImageCopyCaptureSessionV1BufferSizeEvent struct {
	Width  uint32
	Height uint32
}
type ExtImageCopyCaptureSessionV1BufferSizeHandlerFunc func(ExtImageCopyCaptureSessionV1BufferSizeEvent)

// SetBufferSizeHandler : sets handler for ExtImageCopyCaptureSessionV1BufferSizeEvent
func (i *ExtImageCopyCaptureSessionV1) SetBufferSizeHandler(f ExtImageCopyCaptureSessionV1BufferSizeHandlerFunc) {
	i.bufferSizeHandler = f
}

// ExtImageCopyCaptureSessionV1ShmFormatEvent : shm buffer format
//
// Provides the format that must be used for shm buffers.
type ExtImageCopyCaptureSessionV1ShmFormatEvent struct {
	Format uint32
}
type ExtImageCopyCaptureSessionV1ShmFormatHandlerFunc func(ExtImageCopyCaptureSessionV1ShmFormatEvent)

// SetShmFormatHandler : sets handler for ExtImageCopyCaptureSessionV1ShmFormatEvent
func (i *ExtImageCopyCaptureSessionV1) SetShmFormatHandler(f ExtImageCopyCaptureSessionV1ShmFormatHandlerFunc) {
	i.shmFormatHandler = f
}

// ExtImageCopyCaptureSessionV1DmabufDeviceEvent : dma-buf device
//
// This event advertises the device buffers must be allocated on for
// dma-buf buffers. The device is a dev_t value.
type ExtImageCopyCaptureSessionV1DmabufDeviceEvent struct {
	Device []byte
}
type ExtImageCopyCaptureSessionV1DmabufDeviceHandlerFunc func(ExtImageCopyCaptureSessionV1DmabufDeviceEvent)

// SetDmabufDeviceHandler : sets handler for ExtImageCopyCaptureSessionV1DmabufDeviceEvent
func (i *ExtImageCopyCaptureSessionV1) SetDmabufDeviceHandler(f ExtImageCopyCaptureSessionV1DmabufDeviceHandlerFunc) {
	i.dmabufDeviceHandler = f
}

// ExtImageCopyCaptureSessionV1DmabufFormatEvent : dma-buf format
//
// Provides the format that must be used for dma-buf buffers, together
// with the list of supported modifiers (an array of unsigned 64-bit
// values).
type ExtImageCopyCaptureSessionV1DmabufFormatEvent struct {
	Format    uint32
	Modifiers []byte
}
type ExtImageCopyCaptureSessionV1DmabufFormatHandlerFunc func(ExtImageCopyCaptureSessionV1DmabufFormatEvent)

// SetDmabufFormatHandler : sets handler for ExtImageCopyCaptureSessionV1DmabufFormatEvent
func (i *ExtImageCopyCaptureSessionV1) SetDmabufFormatHandler(f ExtImageCopyCaptureSessionV1DmabufFormatHandlerFunc) {
	i.dmabufFormatHandler = f
}

// ExtImageCopyCaptureSessionV1DoneEvent : all constraints have been sent
//
// This event is sent once when all buffer constraint events have been
// sent. The compositor must always end a batch of buffer constraint
// events with this event, regardless of whether it sends the initial
// constraints or an update.
type ExtImageCopyCaptureSessionV1DoneEvent struct{}
type ExtImageCopyCaptureSessionV1DoneHandlerFunc func(ExtImageCopyCaptureSessionV1DoneEvent)

// SetDoneHandler : sets handler for ExtImageCopyCaptureSessionV1DoneEvent
func (i *ExtImageCopyCaptureSessionV1) SetDoneHandler(f ExtImageCopyCaptureSessionV1DoneHandlerFunc) {
	i.doneHandler = f
}

// ExtImageCopyCaptureSessionV1StoppedEvent : session is no longer available
//
// This event indicates that the capture session has stopped and is no
// longer available. This can happen in a number of cases, e.g. when the
// underlying source is destroyed.
type ExtImageCopyCaptureSessionV1StoppedEvent struct{}
type ExtImageCopyCaptureSessionV1StoppedHandlerFunc func(ExtImageCopyCaptureSessionV1StoppedEvent)

// SetStoppedHandler : sets handler for ExtImageCopyCaptureSessionV1StoppedEvent
func (i *ExtImageCopyCaptureSessionV1) SetStoppedHandler(f ExtImageCopyCaptureSessionV1StoppedHandlerFunc) {
	i.stoppedHandler = f
}

func (i *ExtImageCopyCaptureSessionV1) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.bufferSizeHandler == nil {
			return
		}
		var e ExtImageCopyCaptureSessionV1BufferSizeEvent
		l := 0
		e.Width = client.Uint32(data[l : l+4])
		l += 4
		e.Height = client.Uint32(data[l : l+4])
		l += 4
		i.bufferSizeHandler(e)
	case 1:
		if i.shmFormatHandler == nil {
			return
		}
		var e ExtImageCopyCaptureSessionV1ShmFormatEvent
		l := 0
		e.Format = client.Uint32(data[l : l+4])
		l += 4
		i.shmFormatHandler(e)
	case 2:
		if i.dmabufDeviceHandler == nil {
			return
		}
		var e ExtImageCopyCaptureSessionV1DmabufDeviceEvent
		l := 0
		deviceLen := int(client.Uint32(data[l : l+4]))
		l += 4
		e.Device = make([]byte, deviceLen)
		copy(e.Device, data[l:l+deviceLen])
		l += client.PaddedLen(deviceLen)
		i.dmabufDeviceHandler(e)
	case 3:
		if i.dmabufFormatHandler == nil {
			return
		}
		var e ExtImageCopyCaptureSessionV1DmabufFormatEvent
		l := 0
		e.Format = client.Uint32(data[l : l+4])
		l += 4
		modifiersLen := int(client.Uint32(data[l : l+4]))
		l += 4
		e.Modifiers = make([]byte, modifiersLen)
		copy(e.Modifiers, data[l:l+modifiersLen])
		l += client.PaddedLen(modifiersLen)
		i.dmabufFormatHandler(e)
	case 4:
		if i.doneHandler == nil {
			return
		}
		var e ExtImageCopyCaptureSessionV1DoneEvent
		i.doneHandler(e)
	case 5:
		if i.stoppedHandler == nil {
			return
		}
		var e ExtImageCopyCaptureSessionV1StoppedEvent
		i.stoppedHandler(e)
	}
}

// ExtImageCopyCaptureFrameV1FailureReasonEnum : reason a frame capture failed
type ExtImageCopyCaptureFrameV1FailureReasonEnum uint32

const (
	// ExtImageCopyCaptureFrameV1FailureReasonUnknown : an unknown runtime error has occurred
	ExtImageCopyCaptureFrameV1FailureReasonUnknown ExtImageCopyCaptureFrameV1FailureReasonEnum = 0
	// ExtImageCopyCaptureFrameV1FailureReasonBufferConstraints : the buffer submitted can't be used
	ExtImageCopyCaptureFrameV1FailureReasonBufferConstraints ExtImageCopyCaptureFrameV1FailureReasonEnum = 1
	// ExtImageCopyCaptureFrameV1FailureReasonStopped : the session has stopped
	ExtImageCopyCaptureFrameV1FailureReasonStopped ExtImageCopyCaptureFrameV1FailureReasonEnum = 2
)

// ExtImageCopyCaptureFrameV1 : image capture frame
//
// This object represents an image capture frame.
//
// The client should attach a buffer, damage the buffer, and then send a
// capture request.
type ExtImageCopyCaptureFrameV1 struct {
	client.BaseProxy
	transformHandler        ExtImageCopyCaptureFrameV1TransformHandlerFunc
	damageHandler           ExtImageCopyCaptureFrameV1DamageHandlerFunc
	presentationTimeHandler ExtImageCopyCaptureFrameV1PresentationTimeHandlerFunc
	readyHandler            ExtImageCopyCaptureFrameV1ReadyHandlerFunc
	failedHandler           ExtImageCopyCaptureFrameV1FailedHandlerFunc
}

// NewExtImageCopyCaptureFrameV1 : image capture frame
func NewExtImageCopyCaptureFrameV1(ctx *client.Context) *ExtImageCopyCaptureFrameV1 {
	extImageCopyCaptureFrameV1 := &ExtImageCopyCaptureFrameV1{}
	ctx.Register(extImageCopyCaptureFrameV1)
	return extImageCopyCaptureFrameV1
}

// Destroy : delete this object
func (i *ExtImageCopyCaptureFrameV1) Destroy() error {
	defer i.Context().Unregister(i)
	const opcode = 0
	const _reqBufLen = 8
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return err
}

// AttachBuffer : attach buffer to session
//
// Attach a buffer to the session. The wl_buffer.release request is
// unused.
func (i *ExtImageCopyCaptureFrameV1) AttachBuffer(buffer *client.Buffer) error {
	const opcode = 1
	const _reqBufLen = 8 + 4
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], buffer.ID())
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return err
}

// DamageBuffer : damage buffer
//
// Apply damage to the buffer which is to be captured next. This request
// may be sent multiple times to describe a region.
func (i *ExtImageCopyCaptureFrameV1) DamageBuffer(x, y, width, height int32) error {
	const opcode = 2
	const _reqBufLen = 8 + 4 + 4 + 4 + 4
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(x))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(y))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(width))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(height))
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return err
}

// Capture : capture a frame
//
// Capture a frame. Unless this is the first successful captured frame of
// the session, the compositor may wait an indefinite amount of time for
// the source content to change before performing the copy.
func (i *ExtImageCopyCaptureFrameV1) Capture() error {
	const opcode = 3
	const _reqBufLen = 8
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return err
}

// ExtImageCopyCaptureFrameV1TransformEvent : buffer transform
//
// This event is sent before the ready event and holds the transform that
// the compositor has applied to the buffer contents.
type ExtImageCopyCaptureFrameV1TransformEvent struct {
	Transform uint32
}
type ExtImageCopyCaptureFrameV1TransformHandlerFunc func(ExtImageCopyCaptureFrameV1TransformEvent)

// SetTransformHandler : sets handler for ExtImageCopyCaptureFrameV1TransformEvent
func (i *ExtImageCopyCaptureFrameV1) SetTransformHandler(f ExtImageCopyCaptureFrameV1TransformHandlerFunc) {
	i.transformHandler = f
}

// ExtImageCopyCaptureFrameV1DamageEvent : buffer damaged region
//
// This event is sent before the ready event. It may be generated multiple
// times to describe a region.
type ExtImageCopyCaptureFrameV1DamageEvent struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}
type ExtImageCopyCaptureFrameV1DamageHandlerFunc func(ExtImageCopyCaptureFrameV1DamageEvent)

// SetDamageHandler : sets handler for ExtImageCopyCaptureFrameV1DamageEvent
func (i *ExtImageCopyCaptureFrameV1) SetDamageHandler(f ExtImageCopyCaptureFrameV1DamageHandlerFunc) {
	i.damageHandler = f
}

// ExtImageCopyCaptureFrameV1PresentationTimeEvent : presentation time of the frame
type ExtImageCopyCaptureFrameV1PresentationTimeEvent struct {
	TvSecHi uint32
	TvSecLo uint32
	TvNsec  uint32
}
type ExtImageCopyCaptureFrameV1PresentationTimeHandlerFunc func(ExtImageCopyCaptureFrameV1PresentationTimeEvent)

// SetPresentationTimeHandler : sets handler for ExtImageCopyCaptureFrameV1PresentationTimeEvent
func (i *ExtImageCopyCaptureFrameV1) SetPresentationTimeHandler(f ExtImageCopyCaptureFrameV1PresentationTimeHandlerFunc) {
	i.presentationTimeHandler = f
}

// ExtImageCopyCaptureFrameV1ReadyEvent : frame is available for reading
//
// Called as soon as the frame is copied, indicating it is available for
// reading.
type ExtImageCopyCaptureFrameV1ReadyEvent struct{}
type ExtImageCopyCaptureFrameV1ReadyHandlerFunc func(ExtImageCopyCaptureFrameV1ReadyEvent)

// SetReadyHandler : sets handler for ExtImageCopyCaptureFrameV1ReadyEvent
func (i *ExtImageCopyCaptureFrameV1) SetReadyHandler(f ExtImageCopyCaptureFrameV1ReadyHandlerFunc) {
	i.readyHandler = f
}

// ExtImageCopyCaptureFrameV1FailedEvent : capture failed
//
// This event indicates that the attempted frame copy has failed.
type ExtImageCopyCaptureFrameV1FailedEvent struct {
	Reason uint32
}
type ExtImageCopyCaptureFrameV1FailedHandlerFunc func(ExtImageCopyCaptureFrameV1FailedEvent)

// SetFailedHandler : sets handler for ExtImageCopyCaptureFrameV1FailedEvent
func (i *ExtImageCopyCaptureFrameV1) SetFailedHandler(f ExtImageCopyCaptureFrameV1FailedHandlerFunc) {
	i.failedHandler = f
}

func (i *ExtImageCopyCaptureFrameV1) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.transformHandler == nil {
			return
		}
		var e ExtImageCopyCaptureFrameV1TransformEvent
		l := 0
		e.Transform = client.Uint32(data[l : l+4])
		l += 4
		i.transformHandler(e)
	case 1:
		if i.damageHandler == nil {
			return
		}
		var e ExtImageCopyCaptureFrameV1DamageEvent
		l := 0
		e.X = int32(client.Uint32(data[l : l+4]))
		l += 4
		e.Y = int32(client.Uint32(data[l : l+4]))
		l += 4
		e.Width = int32(client.Uint32(data[l : l+4]))
		l += 4
		e.Height = int32(client.Uint32(data[l : l+4]))
		l += 4
		i.damageHandler(e)
	case 2:
		if i.presentationTimeHandler == nil {
			return
		}
		var e ExtImageCopyCaptureFrameV1PresentationTimeEvent
		l := 0
		e.TvSecHi = client.Uint32(data[l : l+4])
		l += 4
		e.TvSecLo = client.Uint32(data[l : l+4])
		l += 4
		e.TvNsec = client.Uint32(data[l : l+4])
		l += 4
		i.presentationTimeHandler(e)
	case 3:
		if i.readyHandler == nil {
			return
		}
		var e ExtImageCopyCaptureFrameV1ReadyEvent
		i.readyHandler(e)
	case 4:
		if i.failedHandler == nil {
			return
		}
		var e ExtImageCopyCaptureFrameV1FailedEvent
		l := 0
		e.Reason = client.Uint32(data[l : l+4])
		l += 4
		i.failedHandler(e)
	}
}
