package frame

import (
	"errors"
	"fmt"
	"image"
)

var errShortBuffer = errors.New("pixel data shorter than format describes")

// PixelBuffer holds CPU-readable pixels in RGBA byte order, row-major
// with no padding between rows. It is the only pixel representation the
// stitcher and the encoder boundary ever see.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer allocates a zero-filled buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// Stride returns the byte length of one row.
func (p *PixelBuffer) Stride() int {
	return p.Width * 4
}

// ToImage wraps the buffer as an image.RGBA without copying.
func (p *PixelBuffer) ToImage() *image.RGBA {
	return &image.RGBA{
		Pix:    p.Pix,
		Stride: p.Stride(),
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}

// Clone returns an independent copy of the buffer.
func (p *PixelBuffer) Clone() *PixelBuffer {
	c := &PixelBuffer{Width: p.Width, Height: p.Height, Pix: make([]byte, len(p.Pix))}
	copy(c.Pix, p.Pix)
	return c
}

// InvertColors flips the RGB channels in place, leaving alpha alone.
func (p *PixelBuffer) InvertColors() {
	for i := 0; i < len(p.Pix); i += 4 {
		p.Pix[i] = 255 - p.Pix[i]
		p.Pix[i+1] = 255 - p.Pix[i+1]
		p.Pix[i+2] = 255 - p.Pix[i+2]
	}
}

// FlipVertical reverses the row order in place. Used to correct frames
// the compositor delivered with the y-invert flag set.
func (p *PixelBuffer) FlipVertical() {
	stride := p.Stride()
	tmp := make([]byte, stride)
	for y := 0; y < p.Height/2; y++ {
		top := p.Pix[y*stride : (y+1)*stride]
		bottom := p.Pix[(p.Height-1-y)*stride : (p.Height-y)*stride]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// Transformed returns a copy of p with the transform applied as a
// coordinate remap. TransformNormal returns p unchanged.
func (p *PixelBuffer) Transformed(t Transform) *PixelBuffer {
	if t == TransformNormal {
		return p
	}
	dstW, dstH := p.Width, p.Height
	if t.SwapsAxes() {
		dstW, dstH = dstH, dstW
	}
	dst := NewPixelBuffer(dstW, dstH)
	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			sx, sy := t.Map(x, y, p.Width, p.Height)
			si := (sy*p.Width + sx) * 4
			di := (y*dstW + x) * 4
			copy(dst.Pix[di:di+4], p.Pix[si:si+4])
		}
	}
	return dst
}

// ConvertToRGBA reads raw compositor pixel data laid out per f and
// returns it as tightly packed RGBA. Formats without alpha get an
// opaque alpha channel.
func ConvertToRGBA(data []byte, f Format) (*PixelBuffer, error) {
	bpp := f.Pixel.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("convert %s: unsupported pixel format", f.Pixel)
	}
	w, h, stride := int(f.Width), int(f.Height), int(f.Stride)
	if len(data) < stride*h {
		return nil, fmt.Errorf("convert %s: %w", f.Pixel, errShortBuffer)
	}

	out := NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		row := data[y*stride:]
		dst := out.Pix[y*w*4:]
		switch f.Pixel {
		case FormatARGB8888, FormatXRGB8888:
			// Little-endian words store B,G,R,A in memory.
			for x := 0; x < w; x++ {
				s, d := x*4, x*4
				dst[d+0] = row[s+2]
				dst[d+1] = row[s+1]
				dst[d+2] = row[s+0]
				dst[d+3] = alphaOr(row[s+3], f.Pixel)
			}
		case FormatABGR8888, FormatXBGR8888:
			for x := 0; x < w; x++ {
				s, d := x*4, x*4
				dst[d+0] = row[s+0]
				dst[d+1] = row[s+1]
				dst[d+2] = row[s+2]
				dst[d+3] = alphaOr(row[s+3], f.Pixel)
			}
		case FormatRGB888:
			for x := 0; x < w; x++ {
				s, d := x*3, x*4
				dst[d+0] = row[s+2]
				dst[d+1] = row[s+1]
				dst[d+2] = row[s+0]
				dst[d+3] = 0xff
			}
		case FormatBGR888:
			for x := 0; x < w; x++ {
				s, d := x*3, x*4
				dst[d+0] = row[s+0]
				dst[d+1] = row[s+1]
				dst[d+2] = row[s+2]
				dst[d+3] = 0xff
			}
		case FormatXBGR2101010, FormatABGR2101010:
			for x := 0; x < w; x++ {
				s, d := x*4, x*4
				v := uint32(row[s]) | uint32(row[s+1])<<8 | uint32(row[s+2])<<16 | uint32(row[s+3])<<24
				dst[d+0] = uint8(v & 0x3ff >> 2)
				dst[d+1] = uint8(v >> 10 & 0x3ff >> 2)
				dst[d+2] = uint8(v >> 20 & 0x3ff >> 2)
				if f.Pixel == FormatABGR2101010 {
					// 2-bit alpha scaled to 8 bits.
					dst[d+3] = uint8(v >> 30 * 0x55)
				} else {
					dst[d+3] = 0xff
				}
			}
		}
	}
	return out, nil
}

func alphaOr(a byte, f PixelFormat) byte {
	if f.HasAlpha() {
		return a
	}
	return 0xff
}
