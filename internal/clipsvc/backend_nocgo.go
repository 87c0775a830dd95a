//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipsvc

import (
	"errors"
	"os"
)

var (
	errNoDisplay   = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")
	errCGODisabled = errors.New("clipboard support requires cgo")
)

// SystemBackend reports clipboard support as unavailable in cgo-less
// builds.
type SystemBackend struct{}

func (SystemBackend) Init() error {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return errNoDisplay
	}
	return errCGODisabled
}

func (SystemBackend) Write(string, []byte) (<-chan struct{}, error) {
	return nil, errCGODisabled
}
