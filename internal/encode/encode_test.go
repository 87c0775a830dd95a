package encode

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/example/waycapture/internal/frame"
)

func gradient(w, h int) *frame.PixelBuffer {
	p := frame.NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			p.Pix[i] = byte(x * 37)
			p.Pix[i+1] = byte(y * 53)
			p.Pix[i+2] = byte((x + y) * 11)
			p.Pix[i+3] = 0xff
		}
	}
	return p
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"png", PNG, true},
		{".png", PNG, true},
		{"jpg", JPEG, true},
		{"JPEG", JPEG, true},
		{"ppm", PPM, true},
		{"qoi", QOI, true},
		{"webp", PNG, false},
		{"", PNG, false},
	}
	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("ParseFormat(%q) err = %v", tc.in, err)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	if f, err := FormatForPath("/tmp/shot.qoi"); err != nil || f != QOI {
		t.Errorf("qoi path: %v %v", f, err)
	}
	if f, err := FormatForPath("noext"); err != nil || f != PNG {
		t.Errorf("extension-less path: %v %v", f, err)
	}
	if _, err := FormatForPath("shot.tiff"); err == nil {
		t.Error("tiff should be rejected")
	}
}

func TestEncodePNGRoundtrip(t *testing.T) {
	pix := gradient(9, 5)
	var buf bytes.Buffer
	if err := Encode(&buf, pix, PNG, Options{}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 9 || img.Bounds().Dy() != 5 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	r, g, b, _ := img.At(3, 2).RGBA()
	if byte(r>>8) != 3*37 || byte(g>>8) != 2*53 || byte(b>>8) != 5*11 {
		t.Errorf("pixel (3,2) = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestEncodeJPEG(t *testing.T) {
	pix := gradient(16, 16)
	var buf bytes.Buffer
	if err := Encode(&buf, pix, JPEG, Options{JPEGQuality: 90}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := jpeg.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 16, 16) {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestEncodePPM(t *testing.T) {
	pix := frame.NewPixelBuffer(2, 1)
	copy(pix.Pix, []byte{10, 20, 30, 255, 40, 50, 60, 255})

	var buf bytes.Buffer
	if err := Encode(&buf, pix, PPM, Options{}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := append([]byte("P6\n2 1\n255\n"), 10, 20, 30, 40, 50, 60)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("ppm = %q, want %q", buf.Bytes(), want)
	}
}

func TestEncodeQOIHeaderAndRuns(t *testing.T) {
	pix := frame.NewPixelBuffer(8, 4)
	for i := 0; i < len(pix.Pix); i += 4 {
		pix.Pix[i], pix.Pix[i+1], pix.Pix[i+2], pix.Pix[i+3] = 1, 2, 3, 255
	}

	var buf bytes.Buffer
	if err := Encode(&buf, pix, QOI, Options{}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.Bytes()

	if string(out[:4]) != "qoif" {
		t.Fatalf("magic = %q", out[:4])
	}
	if binary.BigEndian.Uint32(out[4:8]) != 8 || binary.BigEndian.Uint32(out[8:12]) != 4 {
		t.Errorf("dimensions = %d x %d", binary.BigEndian.Uint32(out[4:8]), binary.BigEndian.Uint32(out[8:12]))
	}
	if out[12] != 4 || out[13] != 0 {
		t.Errorf("channels/colorspace = %d/%d", out[12], out[13])
	}
	if !bytes.Equal(out[len(out)-8:], []byte{0, 0, 0, 0, 0, 0, 0, 1}) {
		t.Error("missing stream end marker")
	}

	// 32 identical pixels: one luma op (2 bytes) plus one run op.
	body := out[14 : len(out)-8]
	if len(body) != 3 {
		t.Errorf("solid image body = %d bytes (% x), want luma op + run op", len(body), body)
	}
	if body[2]&0xc0 != qoiOpRun || int(body[2]&0x3f)+1 != 31 {
		t.Errorf("run op = %#x, want a 31-pixel run", body[2])
	}
}

func TestEncodeQOIDistinctPixels(t *testing.T) {
	pix := gradient(5, 3)
	var buf bytes.Buffer
	if err := Encode(&buf, pix, QOI, Options{}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if buf.Len() <= 22 {
		t.Errorf("suspiciously small qoi output: %d bytes", buf.Len())
	}
}

func TestMIMETags(t *testing.T) {
	if PNG.MIME() != "image/png" || JPEG.MIME() != "image/jpeg" {
		t.Error("wrong mime tags")
	}
}

func TestDefaultFileName(t *testing.T) {
	at := time.Date(2026, 8, 28, 14, 30, 5, 0, time.UTC)
	got := DefaultFileName(JPEG, at)
	want := "2026-08-28-143005_waycapture.jpg"
	if got != want {
		t.Errorf("name = %q, want %q", got, want)
	}
}
