package frame

import (
	"bytes"
	"testing"
)

func TestParseRegion(t *testing.T) {
	r, err := ParseRegion("10,-20 300x200")
	if err != nil {
		t.Fatalf("ParseRegion failed: %v", err)
	}
	want := Region{X: 10, Y: -20, Width: 300, Height: 200}
	if r != want {
		t.Errorf("got %+v, want %+v", r, want)
	}
	// Round trip through String.
	r2, err := ParseRegion(r.String())
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if r2 != r {
		t.Errorf("round trip mismatch: %+v vs %+v", r2, r)
	}
}

func TestParseRegionInvalid(t *testing.T) {
	for _, s := range []string{"", "10,20", "10 20 30x40", "a,b 3x4", "0,0 0x5", "0,0 5x-1"} {
		if _, err := ParseRegion(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestRegionIntersect(t *testing.T) {
	a := Region{X: 0, Y: 0, Width: 100, Height: 100}
	b := Region{X: 50, Y: 50, Width: 100, Height: 100}
	got := a.Intersect(b)
	want := Region{X: 50, Y: 50, Width: 50, Height: 50}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !a.Intersect(Region{X: 200, Y: 0, Width: 10, Height: 10}).IsEmpty() {
		t.Error("disjoint regions should intersect to empty")
	}
}

func TestRegionUnion(t *testing.T) {
	a := Region{X: 0, Y: 0, Width: 10, Height: 10}
	b := Region{X: 20, Y: 5, Width: 10, Height: 10}
	got := a.Union(b)
	want := Region{X: 0, Y: 0, Width: 30, Height: 15}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if a.Union(Region{}) != a {
		t.Error("empty region should be union identity")
	}
}

func TestDRMCodeRoundTrip(t *testing.T) {
	for _, f := range []PixelFormat{FormatARGB8888, FormatXRGB8888, FormatABGR8888, FormatXBGR8888} {
		if got := FromDRMCode(f.DRMCode()); got != f {
			t.Errorf("%s: round trip gave %s", f, got)
		}
	}
	// Legacy wl_shm codes must not come back as raw fourccs.
	if FromDRMCode(0x34325241) != FormatARGB8888 {
		t.Error("AR24 should map to the legacy ARGB8888 code")
	}
}

func TestConvertToRGBA(t *testing.T) {
	// One XRGB8888 pixel: little-endian B,G,R,X in memory.
	f := Format{Pixel: FormatXRGB8888, Width: 1, Height: 1, Stride: 4}
	pix, err := ConvertToRGBA([]byte{0x30, 0x20, 0x10, 0x00}, f)
	if err != nil {
		t.Fatalf("ConvertToRGBA failed: %v", err)
	}
	if !bytes.Equal(pix.Pix, []byte{0x10, 0x20, 0x30, 0xff}) {
		t.Errorf("unexpected pixels: %x", pix.Pix)
	}

	// Stride padding is skipped.
	f = Format{Pixel: FormatABGR8888, Width: 1, Height: 2, Stride: 8}
	data := []byte{
		1, 2, 3, 4, 0, 0, 0, 0,
		5, 6, 7, 8, 0, 0, 0, 0,
	}
	pix, err = ConvertToRGBA(data, f)
	if err != nil {
		t.Fatalf("ConvertToRGBA failed: %v", err)
	}
	if !bytes.Equal(pix.Pix, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("unexpected pixels: %x", pix.Pix)
	}
}

func TestConvertToRGBAShortBuffer(t *testing.T) {
	f := Format{Pixel: FormatXRGB8888, Width: 2, Height: 2, Stride: 8}
	if _, err := ConvertToRGBA(make([]byte, 8), f); err == nil {
		t.Error("expected error for short buffer")
	}
}

func TestFlipVertical(t *testing.T) {
	p := NewPixelBuffer(1, 3)
	for y := 0; y < 3; y++ {
		p.Pix[y*4] = byte(y)
	}
	p.FlipVertical()
	if p.Pix[0] != 2 || p.Pix[4] != 1 || p.Pix[8] != 0 {
		t.Errorf("rows not reversed: %x", p.Pix)
	}
}

func TestInvertColors(t *testing.T) {
	p := NewPixelBuffer(1, 1)
	copy(p.Pix, []byte{0, 100, 255, 128})
	p.InvertColors()
	if !bytes.Equal(p.Pix, []byte{255, 155, 0, 128}) {
		t.Errorf("unexpected pixels: %v", p.Pix)
	}
}

func TestTransformed(t *testing.T) {
	// 2x1 buffer: pixel A then pixel B.
	p := NewPixelBuffer(2, 1)
	p.Pix[0] = 0xaa
	p.Pix[4] = 0xbb

	r := p.Transformed(Transform90)
	if r.Width != 1 || r.Height != 2 {
		t.Fatalf("90 rotation should swap axes, got %dx%d", r.Width, r.Height)
	}
	// After a 90 rotation the left pixel ends up at the bottom.
	if r.Pix[0] != 0xaa || r.Pix[4] != 0xbb {
		t.Errorf("unexpected rotation result: %x %x", r.Pix[0], r.Pix[4])
	}

	fl := p.Transformed(TransformFlipped)
	if fl.Pix[0] != 0xbb || fl.Pix[4] != 0xaa {
		t.Errorf("unexpected flip result: %x %x", fl.Pix[0], fl.Pix[4])
	}

	if p.Transformed(TransformNormal) != p {
		t.Error("normal transform should return the receiver")
	}
}

func TestTransformInverse(t *testing.T) {
	for tr := TransformNormal; tr <= TransformFlipped270; tr++ {
		p := NewPixelBuffer(3, 2)
		for i := range p.Pix {
			p.Pix[i] = byte(i)
		}
		round := p.Transformed(tr).Transformed(tr.Inverse())
		if !bytes.Equal(round.Pix, p.Pix) {
			t.Errorf("%s: inverse does not undo transform", tr)
		}
	}
}
