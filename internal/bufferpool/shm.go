package bufferpool

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/example/waycapture/internal/frame"
)

// ShmBuffer is an anonymous shared-memory region mapped into this
// process. The fd is passed to the compositor as a wl_shm_pool; the
// mapping gives us direct access to the pixels once a copy completes.
type ShmBuffer struct {
	fd   int
	data []byte
	size int
}

// NewShmBuffer allocates a sealed memfd of f.SizeBytes() bytes and
// maps it read-write.
func NewShmBuffer(f frame.Format) (*ShmBuffer, error) {
	size := int(f.SizeBytes())
	if size <= 0 {
		return nil, fmt.Errorf("shm buffer: invalid size for %dx%d stride %d", f.Width, f.Height, f.Stride)
	}

	fd, err := unix.MemfdCreate("waycapture-shm", unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("ftruncate shm buffer: %w", err)
	}
	// Sealing shrink protects the compositor from us truncating the
	// pool out from under it.
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_ADD_SEALS, unix.F_SEAL_SHRINK|unix.F_SEAL_SEAL); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("seal shm buffer: %w", err)
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mmap shm buffer: %w", err)
	}

	return &ShmBuffer{fd: fd, data: data, size: size}, nil
}

// Fd returns the memfd backing the buffer.
func (s *ShmBuffer) Fd() int { return s.fd }

// Data returns the mapped pixel bytes.
func (s *ShmBuffer) Data() []byte { return s.data }

// Size returns the allocation size in bytes.
func (s *ShmBuffer) Size() int { return s.size }

// Close unmaps the region and closes the fd.
func (s *ShmBuffer) Close() error {
	var first error
	if s.data != nil {
		if err := unix.Munmap(s.data); err != nil && first == nil {
			first = fmt.Errorf("munmap shm buffer: %w", err)
		}
		s.data = nil
	}
	if s.fd >= 0 {
		if err := unix.Close(s.fd); err != nil && first == nil {
			first = fmt.Errorf("close shm fd: %w", err)
		}
		s.fd = -1
	}
	return first
}
