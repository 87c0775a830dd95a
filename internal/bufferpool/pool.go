package bufferpool

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/example/waycapture/internal/frame"
)

type poolKey struct {
	backend  Backend
	pixel    frame.PixelFormat
	width    uint32
	height   uint32
	stride   uint32
	modifier uint64
}

func keyFor(backend Backend, f frame.Format) poolKey {
	return poolKey{
		backend:  backend,
		pixel:    f.Pixel,
		width:    f.Width,
		height:   f.Height,
		stride:   f.Stride,
		modifier: f.Modifier,
	}
}

// Pool recycles capture buffers across frames. At most one idle buffer
// is retained per (backend, format, size) key; a release under an
// occupied key frees the older buffer. The pool is confined to the
// capture event loop and is not safe for concurrent use.
type Pool struct {
	gpu  GPUAllocator
	idle map[poolKey]*Buffer
	live int
	log  *log.Logger
}

// NewPool builds a pool. gpu may be nil, in which case dmabuf
// acquisitions fail with ErrGPUUnavailable.
func NewPool(gpu GPUAllocator, logger *log.Logger) *Pool {
	if logger == nil {
		logger = log.Default()
	}
	return &Pool{
		gpu:  gpu,
		idle: make(map[poolKey]*Buffer),
		log:  logger,
	}
}

// Acquire returns a buffer matching the format exactly, reusing an
// idle buffer when one is parked under the same key.
func (p *Pool) Acquire(backend Backend, f frame.Format) (*Buffer, error) {
	key := keyFor(backend, f)
	if buf, ok := p.idle[key]; ok {
		delete(p.idle, key)
		buf.released = false
		p.live++
		return buf, nil
	}

	buf, err := p.allocate(backend, f)
	if err != nil {
		return nil, err
	}
	p.live++
	return buf, nil
}

func (p *Pool) allocate(backend Backend, f frame.Format) (*Buffer, error) {
	switch backend {
	case BackendShm:
		shm, err := NewShmBuffer(f)
		if err != nil {
			return nil, err
		}
		return &Buffer{Format: f, backend: BackendShm, shm: shm}, nil

	case BackendDmabuf:
		if p.gpu == nil {
			return nil, ErrGPUUnavailable
		}
		dma, err := p.gpu.Allocate(f)
		if err != nil {
			return nil, fmt.Errorf("dmabuf allocate: %w", err)
		}
		// The driver picks stride and modifier; carry them on the
		// buffer so protocol import uses the real layout.
		return &Buffer{Format: dma.Format, backend: BackendDmabuf, dmabuf: dma}, nil

	default:
		return nil, fmt.Errorf("bufferpool: unknown backend %v", backend)
	}
}

// Release parks the buffer for reuse. If another idle buffer already
// occupies the same key the older one is freed, keeping steady-state
// memory bounded to one buffer per output per backend.
func (p *Pool) Release(buf *Buffer) error {
	if buf == nil {
		return nil
	}
	if buf.released {
		return ErrBufferInUse
	}
	buf.released = true
	p.live--

	key := keyFor(buf.backend, buf.Format)
	if old, ok := p.idle[key]; ok {
		if err := old.Close(); err != nil {
			p.log.Warn("closing displaced pool buffer", "backend", old.backend, "err", err)
		}
	}
	p.idle[key] = buf
	return nil
}

// Discard frees the buffer without parking it, used when the buffer's
// format no longer matches what the compositor announces.
func (p *Pool) Discard(buf *Buffer) error {
	if buf == nil {
		return nil
	}
	if buf.released {
		return ErrBufferInUse
	}
	buf.released = true
	p.live--
	return buf.Close()
}

// Live reports how many buffers are currently acquired.
func (p *Pool) Live() int { return p.live }

// Close frees every idle buffer. Acquired buffers are the caller's to
// release first; closing with live buffers outstanding is reported.
func (p *Pool) Close() error {
	var first error
	for key, buf := range p.idle {
		delete(p.idle, key)
		if err := buf.Close(); err != nil && first == nil {
			first = err
		}
	}
	if p.live > 0 && first == nil {
		first = fmt.Errorf("bufferpool: %d buffers still acquired at close", p.live)
	}
	return first
}
