// Package bufferpool allocates and recycles the pixel buffers that
// capture frames are copied into. Two backends exist: shared-memory
// buffers the compositor writes into directly, and GPU dmabuf buffers
// allocated through GBM for zero-copy capture paths.
package bufferpool

import (
	"errors"
	"fmt"

	"github.com/example/waycapture/internal/frame"
)

// Backend selects how a buffer's storage is allocated.
type Backend int

const (
	// BackendShm is CPU shared memory backed by a sealed memfd.
	BackendShm Backend = iota
	// BackendDmabuf is GPU memory exported as a dmabuf fd.
	BackendDmabuf
)

func (b Backend) String() string {
	switch b {
	case BackendShm:
		return "shm"
	case BackendDmabuf:
		return "dmabuf"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

var (
	// ErrGPUUnavailable is returned when no GPU device can be opened,
	// either because none exists or because GPU support is compiled out.
	ErrGPUUnavailable = errors.New("bufferpool: gpu device unavailable")

	// ErrBufferInUse is returned when a buffer is released twice or
	// closed while still held by the pool.
	ErrBufferInUse = errors.New("bufferpool: buffer already released")
)

// Buffer is a single allocated capture target. Exactly one of the
// backend fields is populated, according to Backend.
type Buffer struct {
	Format  frame.Format
	backend Backend

	shm    *ShmBuffer
	dmabuf *DmabufBuffer

	released bool
}

// Backend reports which storage backend the buffer uses.
func (b *Buffer) Backend() Backend { return b.backend }

// Shm returns the shared-memory storage, or nil for dmabuf buffers.
func (b *Buffer) Shm() *ShmBuffer { return b.shm }

// Dmabuf returns the GPU storage, or nil for shm buffers.
func (b *Buffer) Dmabuf() *DmabufBuffer { return b.dmabuf }

// Close releases the underlying storage. The buffer must not be held
// by a pool when closed.
func (b *Buffer) Close() error {
	switch b.backend {
	case BackendShm:
		if b.shm != nil {
			return b.shm.Close()
		}
	case BackendDmabuf:
		if b.dmabuf != nil {
			return b.dmabuf.Close()
		}
	}
	return nil
}
