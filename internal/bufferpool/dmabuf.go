package bufferpool

import "github.com/example/waycapture/internal/frame"

// DmabufBuffer is GPU memory exported as a dmabuf fd, suitable for
// zwp_linux_buffer_params_v1 import and for EGLImage readback. The
// allocating device installs a destroy hook that releases the
// underlying buffer object together with the fd.
type DmabufBuffer struct {
	Fd       int
	Format   frame.Format
	PlaneIdx uint32

	destroy func() error
}

// Close releases the GPU buffer object and its exported fd.
func (d *DmabufBuffer) Close() error {
	if d.destroy == nil {
		return nil
	}
	fn := d.destroy
	d.destroy = nil
	return fn()
}

// GPUAllocator produces dmabuf buffers on a render node. Open one with
// OpenGPU; builds without GPU support report ErrGPUUnavailable.
type GPUAllocator interface {
	// Allocate creates a linear GPU buffer for the given format. The
	// returned buffer's Format carries the stride and modifier the
	// driver actually chose.
	Allocate(f frame.Format) (*DmabufBuffer, error)
	Close() error
}
