//go:build !linux || !cgo

package readback

// NewWorker is unavailable without cgo EGL support; captures stay on
// the shared-memory path.
func NewWorker() (*Worker, error) {
	return nil, ErrUnavailable
}

// Close is a no-op on the stub worker.
func (w *Worker) Close() error { return nil }
