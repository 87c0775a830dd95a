package registry

import (
	"errors"
	"testing"

	"github.com/example/waycapture/internal/frame"
	extcopy "github.com/example/waycapture/internal/wlproto/ext_image_copy_capture"
	"github.com/example/waycapture/internal/wlproto/linux_dmabuf"
	"github.com/example/waycapture/internal/wlproto/wlr_screencopy"
)

func TestCaptureProtocolSelection(t *testing.T) {
	tests := []struct {
		name string
		reg  Registry
		want Protocol
		err  error
	}{
		{
			name: "nothing advertised",
			want: ProtocolNone,
			err:  ErrUnsupportedCompositor,
		},
		{
			name: "screencopy only",
			reg:  Registry{Screencopy: &wlr_screencopy.ZwlrScreencopyManagerV1{}},
			want: ProtocolWlrScreencopy,
		},
		{
			name: "ext capture preferred over screencopy",
			reg: Registry{
				Screencopy: &wlr_screencopy.ZwlrScreencopyManagerV1{},
				ExtSource:  &extcopy.ExtOutputImageCaptureSourceManagerV1{},
				ExtCapture: &extcopy.ExtImageCopyCaptureManagerV1{},
			},
			want: ProtocolExtImageCopy,
		},
		{
			name: "ext capture manager without source manager falls back",
			reg: Registry{
				Screencopy: &wlr_screencopy.ZwlrScreencopyManagerV1{},
				ExtCapture: &extcopy.ExtImageCopyCaptureManagerV1{},
			},
			want: ProtocolWlrScreencopy,
		},
	}
	for i := range tests {
		tc := &tests[i]
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.reg.CaptureProtocol()
			if got != tc.want {
				t.Errorf("protocol = %v, want %v", got, tc.want)
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("err = %v, want %v", err, tc.err)
			}
		})
	}
}

func TestDmabufUsable(t *testing.T) {
	r := Registry{
		Dmabuf: &linux_dmabuf.ZwpLinuxDmabufV1{},
		DmabufFormats: []DmabufFormat{
			{Fourcc: frame.FormatXRGB8888.DRMCode(), Modifier: frame.ModifierLinear},
			{Fourcc: 0x3231564e, Modifier: 0x0100000000000001}, // NV12, tiled
		},
	}

	if !r.DmabufUsable(frame.FormatXRGB8888.DRMCode()) {
		t.Error("linear XRGB8888 should be usable")
	}
	if r.DmabufUsable(0x3231564e) {
		t.Error("tiled-only format should not be usable")
	}
	if r.DmabufUsable(0x12345678) {
		t.Error("unlisted format should not be usable")
	}

	none := Registry{DmabufFormats: []DmabufFormat{{Fourcc: 1, Modifier: 0}}}
	if none.DmabufUsable(1) {
		t.Error("without the dmabuf global nothing is usable")
	}
}

func TestOutputsSortedByPosition(t *testing.T) {
	r := Registry{outputs: map[uint32]*boundOutput{
		7: {desc: frame.Output{Global: 7, Name: "DP-2", Logical: frame.Region{X: 1920, Y: 0, Width: 1280, Height: 1080}}},
		3: {desc: frame.Output{Global: 3, Name: "DP-1", Logical: frame.Region{X: 0, Y: 0, Width: 1920, Height: 1080}}},
		9: {desc: frame.Output{Global: 9, Name: "HDMI-1", Logical: frame.Region{X: 0, Y: 1080, Width: 1920, Height: 1080}}},
	}}

	got := r.Outputs()
	want := []string{"DP-1", "HDMI-1", "DP-2"}
	if len(got) != len(want) {
		t.Fatalf("got %d outputs, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("outputs[%d] = %s, want %s", i, got[i].Name, name)
		}
	}
}

func TestOutputByName(t *testing.T) {
	r := Registry{outputs: map[uint32]*boundOutput{
		3: {desc: frame.Output{Global: 3, Name: "DP-1"}},
	}}

	if out, ok := r.OutputByName("DP-1"); !ok || out.Global != 3 {
		t.Errorf("OutputByName(DP-1) = %+v, %v", out, ok)
	}
	if _, ok := r.OutputByName("DP-9"); ok {
		t.Error("unknown output reported as present")
	}
}
