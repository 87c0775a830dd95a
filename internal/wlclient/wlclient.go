// Package wlclient provides small helpers on top of the go-wayland client.
package wlclient

import (
	"fmt"

	"github.com/rajveermalviya/go-wayland/wayland/client"
)

// Roundtrip blocks until the compositor has processed every request sent
// so far. The passed context must belong to the passed display.
func Roundtrip(display *client.Display, ctx *client.Context) error {
	callback, err := display.Sync()
	if err != nil {
		return fmt.Errorf("display sync: %w", err)
	}

	done := false
	callback.SetDoneHandler(func(client.CallbackDoneEvent) {
		done = true
	})
	for !done {
		if err := ctx.Dispatch(); err != nil {
			return fmt.Errorf("dispatch: %w", err)
		}
	}
	return nil
}

// ClampVersion caps the version announced by the compositor to the
// highest one the client bindings understand.
func ClampVersion(announced, supported uint32) uint32 {
	if announced > supported {
		return supported
	}
	return announced
}
