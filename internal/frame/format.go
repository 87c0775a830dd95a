package frame

import "fmt"

// PixelFormat identifies a wl_shm / DRM fourcc pixel format. The two
// legacy wl_shm codes (0 and 1) alias their fourcc equivalents on the
// wire, so both are listed here.
type PixelFormat uint32

const (
	FormatARGB8888 PixelFormat = 0
	FormatXRGB8888 PixelFormat = 1

	// DRM fourcc codes, as used by linux-dmabuf and wl_shm >= v1.
	FormatXBGR8888    PixelFormat = 0x34324258
	FormatABGR8888    PixelFormat = 0x34324241
	FormatBGR888      PixelFormat = 0x34324742
	FormatRGB888      PixelFormat = 0x34324752
	FormatXBGR2101010 PixelFormat = 0x30334258
	FormatABGR2101010 PixelFormat = 0x30334241
)

// ModifierInvalid is the DRM modifier value meaning "no modifier
// negotiated"; implicit layout is assumed.
const ModifierInvalid uint64 = 0x00ffffffffffffff

// ModifierLinear is the DRM modifier for linear (CPU-readable) layout.
const ModifierLinear uint64 = 0

func (f PixelFormat) String() string {
	switch f {
	case FormatARGB8888:
		return "ARGB8888"
	case FormatXRGB8888:
		return "XRGB8888"
	case FormatXBGR8888:
		return "XBGR8888"
	case FormatABGR8888:
		return "ABGR8888"
	case FormatBGR888:
		return "BGR888"
	case FormatRGB888:
		return "RGB888"
	case FormatXBGR2101010:
		return "XBGR2101010"
	case FormatABGR2101010:
		return "ABGR2101010"
	default:
		return fmt.Sprintf("PixelFormat(%#x)", uint32(f))
	}
}

// BytesPerPixel returns the storage size of one pixel, or 0 for formats
// this engine cannot read.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatARGB8888, FormatXRGB8888, FormatXBGR8888, FormatABGR8888,
		FormatXBGR2101010, FormatABGR2101010:
		return 4
	case FormatBGR888, FormatRGB888:
		return 3
	default:
		return 0
	}
}

// Supported reports whether the engine can convert this format to RGBA.
func (f PixelFormat) Supported() bool {
	return f.BytesPerPixel() != 0
}

// DRMCode returns the DRM fourcc for the format. The legacy wl_shm
// codes 0 and 1 are translated; fourcc-valued formats map to themselves.
func (f PixelFormat) DRMCode() uint32 {
	switch f {
	case FormatARGB8888:
		return 0x34325241 // 'AR24'
	case FormatXRGB8888:
		return 0x34325258 // 'XR24'
	default:
		return uint32(f)
	}
}

// FromDRMCode maps a DRM fourcc to the wl_shm-style PixelFormat,
// translating the two codes wl_shm numbers differently.
func FromDRMCode(fourcc uint32) PixelFormat {
	switch fourcc {
	case 0x34325241: // 'AR24'
		return FormatARGB8888
	case 0x34325258: // 'XR24'
		return FormatXRGB8888
	default:
		return PixelFormat(fourcc)
	}
}

// HasAlpha reports whether the format carries a real alpha channel.
func (f PixelFormat) HasAlpha() bool {
	switch f {
	case FormatARGB8888, FormatABGR8888, FormatABGR2101010:
		return true
	default:
		return false
	}
}

// Format describes the buffer layout negotiated by the compositor for
// one output. Stride and size are in bytes. Modifier is only meaningful
// for dmabuf-backed buffers.
type Format struct {
	Pixel    PixelFormat
	Width    uint32
	Height   uint32
	Stride   uint32
	Modifier uint64
}

// SizeBytes returns the byte size of a buffer holding this format.
func (f Format) SizeBytes() int {
	return int(f.Stride) * int(f.Height)
}

func (f Format) String() string {
	return fmt.Sprintf("%s %dx%d stride %d", f.Pixel, f.Width, f.Height, f.Stride)
}
