//go:build linux && cgo

package readback

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/example/waycapture/internal/bufferpool"
	"github.com/example/waycapture/internal/frame"
)

// fillRows paints each row of a mapped linear dmabuf a solid color.
func fillRows(data []byte, f frame.Format, rows [][4]byte) {
	for y, c := range rows {
		row := data[y*int(f.Stride):]
		for x := 0; x < int(f.Width); x++ {
			copy(row[x*4:x*4+4], c[:])
		}
	}
}

// Rows must come back in the same order they sit in the dmabuf; offscreen
// readback has no display-orientation flip. Needs a render node and a
// working EGL stack, skipped otherwise.
func TestReadBackPreservesRowOrder(t *testing.T) {
	w, err := NewWorker()
	if err != nil {
		t.Skipf("no EGL stack: %v", err)
	}
	t.Cleanup(func() { w.Close() })

	gpu, err := bufferpool.OpenGPU("")
	if err != nil {
		t.Skipf("no render node: %v", err)
	}
	t.Cleanup(func() { gpu.Close() })

	buf, err := gpu.Allocate(frame.Format{Pixel: frame.FormatABGR8888, Width: 2, Height: 2})
	if err != nil {
		t.Skipf("allocate: %v", err)
	}
	t.Cleanup(func() { buf.Close() })

	data, err := unix.Mmap(buf.Fd, 0, buf.Format.SizeBytes(),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		t.Skipf("mmap dmabuf: %v", err)
	}
	defer unix.Munmap(data)

	red := [4]byte{0xff, 0x00, 0x00, 0xff}
	blue := [4]byte{0x00, 0x00, 0xff, 0xff}
	fillRows(data, buf.Format, [][4]byte{red, blue})

	pix, err := w.ReadBack(context.Background(), buf, Options{})
	if err != nil {
		if errors.Is(err, ErrReadbackFailed) {
			t.Skipf("driver rejected import: %v", err)
		}
		t.Fatalf("readback: %v", err)
	}

	if !bytes.Equal(pix.Pix[0:4], red[:]) {
		t.Errorf("top row = %v, want red %v", pix.Pix[0:4], red)
	}
	second := pix.Stride()
	if !bytes.Equal(pix.Pix[second:second+4], blue[:]) {
		t.Errorf("bottom row = %v, want blue %v", pix.Pix[second:second+4], blue)
	}
}
