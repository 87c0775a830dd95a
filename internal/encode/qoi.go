package encode

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/example/waycapture/internal/frame"
)

// QOI op codes.
const (
	qoiOpIndex = 0x00
	qoiOpDiff  = 0x40
	qoiOpLuma  = 0x80
	qoiOpRun   = 0xc0
	qoiOpRGB   = 0xfe
	qoiOpRGBA  = 0xff
)

type qoiPixel struct{ r, g, b, a byte }

func qoiHash(p qoiPixel) int {
	return (int(p.r)*3 + int(p.g)*5 + int(p.b)*7 + int(p.a)*11) % 64
}

// encodeQOI implements the QOI 1.0 format with 4 channels and the
// sRGB colorspace tag.
func encodeQOI(w io.Writer, pix *frame.PixelBuffer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("qoif"); err != nil {
		return err
	}
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[0:4], uint32(pix.Width))
	binary.BigEndian.PutUint32(dims[4:8], uint32(pix.Height))
	if _, err := bw.Write(dims[:]); err != nil {
		return err
	}
	if _, err := bw.Write([]byte{4, 0}); err != nil {
		return err
	}

	var index [64]qoiPixel
	prev := qoiPixel{a: 255}
	run := 0

	flushRun := func() error {
		for run > 0 {
			n := run
			if n > 62 {
				n = 62
			}
			if err := bw.WriteByte(byte(qoiOpRun | (n - 1))); err != nil {
				return err
			}
			run -= n
		}
		return nil
	}

	data := pix.Pix
	for i := 0; i+3 < len(data); i += 4 {
		cur := qoiPixel{r: data[i], g: data[i+1], b: data[i+2], a: data[i+3]}

		if cur == prev {
			run++
			prev = cur
			continue
		}
		if err := flushRun(); err != nil {
			return err
		}

		h := qoiHash(cur)
		switch {
		case index[h] == cur:
			if err := bw.WriteByte(byte(qoiOpIndex | h)); err != nil {
				return err
			}

		case cur.a == prev.a:
			dr := int8(cur.r - prev.r)
			dg := int8(cur.g - prev.g)
			db := int8(cur.b - prev.b)
			drg := dr - dg
			dbg := db - dg
			if dr >= -2 && dr <= 1 && dg >= -2 && dg <= 1 && db >= -2 && db <= 1 {
				op := byte(qoiOpDiff) | byte(dr+2)<<4 | byte(dg+2)<<2 | byte(db+2)
				if err := bw.WriteByte(op); err != nil {
					return err
				}
			} else if dg >= -32 && dg <= 31 && drg >= -8 && drg <= 7 && dbg >= -8 && dbg <= 7 {
				if err := bw.WriteByte(byte(qoiOpLuma) | byte(dg+32)); err != nil {
					return err
				}
				if err := bw.WriteByte(byte(drg+8)<<4 | byte(dbg+8)); err != nil {
					return err
				}
			} else {
				if _, err := bw.Write([]byte{qoiOpRGB, cur.r, cur.g, cur.b}); err != nil {
					return err
				}
			}

		default:
			if _, err := bw.Write([]byte{qoiOpRGBA, cur.r, cur.g, cur.b, cur.a}); err != nil {
				return err
			}
		}

		index[h] = cur
		prev = cur
	}
	if err := flushRun(); err != nil {
		return err
	}

	if _, err := bw.Write([]byte{0, 0, 0, 0, 0, 0, 0, 1}); err != nil {
		return err
	}
	return bw.Flush()
}
