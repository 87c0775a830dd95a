//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipsvc

import "fmt"

// SystemBackend reports clipboard support as unavailable on this
// platform.
type SystemBackend struct{}

func (SystemBackend) Init() error {
	return fmt.Errorf("clipboard is not supported on this platform")
}

func (SystemBackend) Write(string, []byte) (<-chan struct{}, error) {
	return nil, fmt.Errorf("clipboard is not supported on this platform")
}
