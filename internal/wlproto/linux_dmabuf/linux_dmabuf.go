// Package linux_dmabuf contains client bindings for the
// linux-dmabuf-unstable-v1 protocol, version 3.
//
// Hand-maintained in the go-wayland scanner output style.
package linux_dmabuf

import (
	"github.com/rajveermalviya/go-wayland/wayland/client"
	"golang.org/x/sys/unix"
)

const (
	ZwpLinuxDmabufV1InterfaceName       = "zwp_linux_dmabuf_v1"
	ZwpLinuxBufferParamsV1InterfaceName = "zwp_linux_buffer_params_v1"
)

// ZwpLinuxDmabufV1 : factory for creating dmabuf-based wl_buffers
//
// Following the attach of a dmabuf to a surface, the compositor will
// import the dmabuf and advertise which pixel formats and modifiers it
// supports through the modifier event.
type ZwpLinuxDmabufV1 struct {
	client.BaseProxy
	formatHandler   ZwpLinuxDmabufV1FormatHandlerFunc
	modifierHandler ZwpLinuxDmabufV1ModifierHandlerFunc
}

// NewZwpLinuxDmabufV1 : factory for creating dmabuf-based wl_buffers
func NewZwpLinuxDmabufV1(ctx *client.Context) *ZwpLinuxDmabufV1 {
	zwpLinuxDmabufV1 := &ZwpLinuxDmabufV1{}
	ctx.Register(zwpLinuxDmabufV1)
	return zwpLinuxDmabufV1
}

// Destroy : unbind the factory
func (i *ZwpLinuxDmabufV1) Destroy() error {
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

// CreateParams : create a temporary object for buffer parameters
//
// This temporary object is used to collect multiple dmabuf handles into
// a single batch to create a wl_buffer.
func (i *ZwpLinuxDmabufV1) CreateParams() (*ZwpLinuxBufferParamsV1, error) {
	paramsId := NewZwpLinuxBufferParamsV1(i.Context())
	const opcode = 1
	const _reqBufLen = 8 + 4
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], paramsId.ID())
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return paramsId, err
}

// ZwpLinuxDmabufV1FormatEvent : supported buffer format
//
// This event advertises one buffer format that the server supports.
// Deprecated since version 3, replaced by the modifier event.
type ZwpLinuxDmabufV1FormatEvent struct {
	Format uint32
}
type ZwpLinuxDmabufV1FormatHandlerFunc func(ZwpLinuxDmabufV1FormatEvent)

// SetFormatHandler : sets handler for ZwpLinuxDmabufV1FormatEvent
func (i *ZwpLinuxDmabufV1) SetFormatHandler(f ZwpLinuxDmabufV1FormatHandlerFunc) {
	i.formatHandler = f
}

// ZwpLinuxDmabufV1ModifierEvent : supported buffer format modifier
//
// This event advertises the formats that the server supports, along
// with the modifiers supported for each format.
type ZwpLinuxDmabufV1ModifierEvent struct {
	Format     uint32
	ModifierHi uint32
	ModifierLo uint32
}
type ZwpLinuxDmabufV1ModifierHandlerFunc func(ZwpLinuxDmabufV1ModifierEvent)

// SetModifierHandler : sets handler for ZwpLinuxDmabufV1ModifierEvent
func (i *ZwpLinuxDmabufV1) SetModifierHandler(f ZwpLinuxDmabufV1ModifierHandlerFunc) {
	i.modifierHandler = f
}

func (i *ZwpLinuxDmabufV1) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.formatHandler == nil {
			return
		}
		var e ZwpLinuxDmabufV1FormatEvent
		l := 0
		e.Format = client.Uint32(data[l : l+4])
		l += 4
		i.formatHandler(e)
	case 1:
		if i.modifierHandler == nil {
			return
		}
		var e ZwpLinuxDmabufV1ModifierEvent
		l := 0
		e.Format = client.Uint32(data[l : l+4])
		l += 4
		e.ModifierHi = client.Uint32(data[l : l+4])
		l += 4
		e.ModifierLo = client.Uint32(data[l : l+4])
		l += 4
		i.modifierHandler(e)
	}
}

// ZwpLinuxBufferParamsV1 : parameters for creating a dmabuf-based wl_buffer
//
// This temporary object is a collection of dmabufs and other parameters
// that together form a single logical buffer.
type ZwpLinuxBufferParamsV1 struct {
	client.BaseProxy
	createdHandler ZwpLinuxBufferParamsV1CreatedHandlerFunc
	failedHandler  ZwpLinuxBufferParamsV1FailedHandlerFunc
}

// NewZwpLinuxBufferParamsV1 : parameters for creating a dmabuf-based wl_buffer
func NewZwpLinuxBufferParamsV1(ctx *client.Context) *ZwpLinuxBufferParamsV1 {
	zwpLinuxBufferParamsV1 := &ZwpLinuxBufferParamsV1{}
	ctx.Register(zwpLinuxBufferParamsV1)
	return zwpLinuxBufferParamsV1
}

// Destroy : delete this object, used or not
func (i *ZwpLinuxBufferParamsV1) Destroy() error {
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

// Add : add a dmabuf to the temporary set
//
// This request adds one dmabuf to the set in this zwp_linux_buffer_params_v1.
//
//	fd: dmabuf fd
//	planeIdx: plane index
//	offset: offset in bytes
//	stride: stride in bytes
//	modifierHi: high 32 bits of layout modifier
//	modifierLo: low 32 bits of layout modifier
func (i *ZwpLinuxBufferParamsV1) Add(fd int, planeIdx, offset, stride, modifierHi, modifierLo uint32) error {
	const opcode = 1
	const _reqBufLen = 8 + 4 + 4 + 4 + 4 + 4
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], planeIdx)
	l += 4
	client.PutUint32(_reqBuf[l:l+4], offset)
	l += 4
	client.PutUint32(_reqBuf[l:l+4], stride)
	l += 4
	client.PutUint32(_reqBuf[l:l+4], modifierHi)
	l += 4
	client.PutUint32(_reqBuf[l:l+4], modifierLo)
	l += 4
	oob := unix.UnixRights(fd)
	err := i.Context().WriteMsg(_reqBuf[:], oob)
	return err
}

// Create : create a wl_buffer from the given dmabufs
//
// This asks for creation of a wl_buffer from the added dmabuf buffers.
// The result is reported through the created or failed event.
func (i *ZwpLinuxBufferParamsV1) Create(width, height int32, format, flags uint32) error {
	const opcode = 2
	const _reqBufLen = 8 + 4 + 4 + 4 + 4
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(width))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(height))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], format)
	l += 4
	client.PutUint32(_reqBuf[l:l+4], flags)
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return err
}

// CreateImmed : immediately create a wl_buffer from the given dmabufs
//
// This asks for immediate creation of a wl_buffer by importing the added
// dmabufs. No event is sent; any import failure is a protocol error.
func (i *ZwpLinuxBufferParamsV1) CreateImmed(width, height int32, format, flags uint32) (*client.Buffer, error) {
	bufferId := client.NewBuffer(i.Context())
	const opcode = 3
	const _reqBufLen = 8 + 4 + 4 + 4 + 4 + 4
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], bufferId.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(width))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(height))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], format)
	l += 4
	client.PutUint32(_reqBuf[l:l+4], flags)
	l += 4
	err := i.Context().WriteMsg(_reqBuf[:], nil)
	return bufferId, err
}

// ZwpLinuxBufferParamsV1CreatedEvent : buffer creation succeeded
type ZwpLinuxBufferParamsV1CreatedEvent struct {
	Buffer *client.Buffer
}
type ZwpLinuxBufferParamsV1CreatedHandlerFunc func(ZwpLinuxBufferParamsV1CreatedEvent)

// SetCreatedHandler : sets handler for ZwpLinuxBufferParamsV1CreatedEvent
func (i *ZwpLinuxBufferParamsV1) SetCreatedHandler(f ZwpLinuxBufferParamsV1CreatedHandlerFunc) {
	i.createdHandler = f
}

// ZwpLinuxBufferParamsV1FailedEvent : buffer creation failed
type ZwpLinuxBufferParamsV1FailedEvent struct{}
type ZwpLinuxBufferParamsV1FailedHandlerFunc func(ZwpLinuxBufferParamsV1FailedEvent)

// SetFailedHandler : sets handler for ZwpLinuxBufferParamsV1FailedEvent
func (i *ZwpLinuxBufferParamsV1) SetFailedHandler(f ZwpLinuxBufferParamsV1FailedHandlerFunc) {
	i.failedHandler = f
}

func (i *ZwpLinuxBufferParamsV1) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.createdHandler == nil {
			return
		}
		var e ZwpLinuxBufferParamsV1CreatedEvent
		l := 0
		buffer := client.NewBuffer(i.Context())
		buffer.SetID(client.Uint32(data[l : l+4]))
		l += 4
		e.Buffer = buffer
		i.createdHandler(e)
	case 1:
		if i.failedHandler == nil {
			return
		}
		var e ZwpLinuxBufferParamsV1FailedEvent
		i.failedHandler(e)
	}
}
