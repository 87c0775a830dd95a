//go:build !linux || !cgo

package bufferpool

// OpenGPU is unavailable without cgo GBM support; callers fall back to
// shared-memory buffers.
func OpenGPU(path string) (GPUAllocator, error) {
	return nil, ErrGPUUnavailable
}
