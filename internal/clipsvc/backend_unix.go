//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipsvc

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.design/x/clipboard"
)

var errNoDisplay = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")

// SystemBackend publishes offers through the desktop clipboard.
type SystemBackend struct{}

func (SystemBackend) Init() error {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return errNoDisplay
	}
	return clipboard.Init()
}

func (SystemBackend) Write(mime string, data []byte) (<-chan struct{}, error) {
	format := clipboard.FmtText
	if strings.HasPrefix(mime, "image/") {
		// The clipboard library serves every image offer as image/png,
		// so other encodings would be announced under the wrong type.
		if mime != "image/png" {
			return nil, fmt.Errorf("clipboard images must be image/png, got %s", mime)
		}
		format = clipboard.FmtImage
	}
	return clipboard.Write(format, data), nil
}
