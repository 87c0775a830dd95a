// Package encode serializes composite images to file formats. The
// capture engine itself only passes a format tag through; this package
// is the codec collaborator behind that tag.
package encode

import (
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"time"

	"github.com/example/waycapture/internal/frame"
)

// Format is an output encoding tag.
type Format int

const (
	PNG Format = iota
	JPEG
	PPM
	QOI
)

// DefaultJPEGQuality matches the stdlib default.
const DefaultJPEGQuality = jpeg.DefaultQuality

// ParseFormat maps a file extension or tag name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "ppm":
		return PPM, nil
	case "qoi":
		return QOI, nil
	case "webp", "jxl":
		return PNG, fmt.Errorf("image format %q is recognized but not supported", s)
	default:
		return PNG, fmt.Errorf("unknown image format %q", s)
	}
}

// FormatForPath derives the format from a file name's extension,
// defaulting to PNG when there is none.
func FormatForPath(path string) (Format, error) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return PNG, nil
	}
	return ParseFormat(path[i:])
}

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case PPM:
		return "ppm"
	case QOI:
		return "qoi"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Ext returns the conventional file extension.
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	return f.String()
}

// MIME returns the media type served to clipboard requesters.
func (f Format) MIME() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	case PPM:
		return "image/x-portable-pixmap"
	case QOI:
		return "image/qoi"
	default:
		return "application/octet-stream"
	}
}

// Options tune lossy encoders.
type Options struct {
	// JPEGQuality in 1..100; zero means DefaultJPEGQuality.
	JPEGQuality int
}

// Encode writes the pixel buffer to w in the tagged format.
func Encode(w io.Writer, pix *frame.PixelBuffer, f Format, opts Options) error {
	switch f {
	case PNG:
		return png.Encode(w, pix.ToImage())
	case JPEG:
		q := opts.JPEGQuality
		if q == 0 {
			q = DefaultJPEGQuality
		}
		return jpeg.Encode(w, pix.ToImage(), &jpeg.Options{Quality: q})
	case PPM:
		return encodePPM(w, pix)
	case QOI:
		return encodeQOI(w, pix)
	default:
		return fmt.Errorf("unknown image format %v", f)
	}
}

// encodePPM writes binary P6, dropping alpha.
func encodePPM(w io.Writer, pix *frame.PixelBuffer) error {
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", pix.Width, pix.Height); err != nil {
		return err
	}
	row := make([]byte, pix.Width*3)
	for y := 0; y < pix.Height; y++ {
		src := pix.Pix[y*pix.Stride():]
		for x := 0; x < pix.Width; x++ {
			row[x*3] = src[x*4]
			row[x*3+1] = src[x*4+1]
			row[x*3+2] = src[x*4+2]
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// DefaultFileName builds the timestamped name used when the caller
// gives no explicit path.
func DefaultFileName(f Format, now time.Time) string {
	return fmt.Sprintf("%s_waycapture.%s", now.Format("2006-01-02-150405"), f.Ext())
}
