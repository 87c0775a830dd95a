package capture

import (
	"testing"

	"github.com/example/waycapture/internal/bufferpool"
	"github.com/example/waycapture/internal/frame"
	"github.com/example/waycapture/internal/registry"
	"github.com/example/waycapture/internal/session"
	"github.com/example/waycapture/internal/wlproto/linux_dmabuf"
)

func testEngine(dmabufFormats ...registry.DmabufFormat) *Engine {
	reg := &registry.Registry{}
	if len(dmabufFormats) > 0 {
		reg.Dmabuf = &linux_dmabuf.ZwpLinuxDmabufV1{}
		reg.DmabufFormats = dmabufFormats
	}
	return &Engine{reg: reg}
}

func testSession(t *testing.T, preferDmabuf bool) *session.Session {
	t.Helper()
	pool := bufferpool.NewPool(nil, nil)
	t.Cleanup(func() { pool.Close() })
	out := frame.Output{Name: "DP-1", Logical: frame.Region{Width: 64, Height: 64}}
	return session.New(out, pool, preferDmabuf, nil)
}

func TestScreencopyChoosesDmabufWhenUsable(t *testing.T) {
	eng := testEngine(registry.DmabufFormat{
		Fourcc:   frame.FormatXRGB8888.DRMCode(),
		Modifier: frame.ModifierLinear,
	})
	d := &screencopyDriver{
		eng:     eng,
		session: testSession(t, true),
		shmFormat: &frame.Format{
			Pixel: frame.FormatXRGB8888, Width: 64, Height: 64, Stride: 256,
		},
		dmaFormat: &frame.Format{
			Pixel: frame.FormatXRGB8888, Width: 64, Height: 64, Modifier: frame.ModifierLinear,
		},
	}

	f, backend := d.chooseFormat()
	if f == nil || backend != bufferpool.BackendDmabuf {
		t.Errorf("chose %v/%v, want the dmabuf announcement", f, backend)
	}
}

func TestScreencopyFallsBackToShm(t *testing.T) {
	tests := []struct {
		name string
		d    func(t *testing.T) *screencopyDriver
	}{
		{
			name: "no dmabuf announcement",
			d: func(t *testing.T) *screencopyDriver {
				return &screencopyDriver{
					eng:     testEngine(),
					session: testSession(t, true),
					shmFormat: &frame.Format{
						Pixel: frame.FormatARGB8888, Width: 64, Height: 64, Stride: 256,
					},
				}
			},
		},
		{
			name: "session no longer prefers dmabuf",
			d: func(t *testing.T) *screencopyDriver {
				return &screencopyDriver{
					eng: testEngine(registry.DmabufFormat{
						Fourcc:   frame.FormatXRGB8888.DRMCode(),
						Modifier: frame.ModifierLinear,
					}),
					session: testSession(t, false),
					shmFormat: &frame.Format{
						Pixel: frame.FormatXRGB8888, Width: 64, Height: 64, Stride: 256,
					},
					dmaFormat: &frame.Format{
						Pixel: frame.FormatXRGB8888, Width: 64, Height: 64,
					},
				}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, backend := tc.d(t).chooseFormat()
			if f == nil || backend != bufferpool.BackendShm {
				t.Errorf("chose %v/%v, want shm", f, backend)
			}
		})
	}
}

func TestScreencopyRejectsUnknownFormats(t *testing.T) {
	d := &screencopyDriver{
		eng:     testEngine(),
		session: testSession(t, false),
		shmFormat: &frame.Format{
			Pixel: frame.PixelFormat(0x3231564e), // NV12
			Width: 64, Height: 64, Stride: 96,
		},
	}
	if f, _ := d.chooseFormat(); f != nil {
		t.Errorf("accepted unsupported shm format: %v", f)
	}
}

func TestExtChoosesLinearDmabuf(t *testing.T) {
	d := &extDriver{
		eng:     testEngine(),
		session: testSession(t, true),
		width:   64, height: 64,
		shmFormats: []uint32{uint32(frame.FormatXRGB8888)},
		dmaFormats: []extDmabufFormat{
			{fourcc: frame.FormatXRGB8888.DRMCode(), modifiers: []uint64{0x0100000000000005, frame.ModifierLinear}},
		},
	}

	f, backend := d.chooseFormat()
	if f == nil || backend != bufferpool.BackendDmabuf {
		t.Fatalf("chose %v/%v, want dmabuf", f, backend)
	}
	if f.Modifier != frame.ModifierLinear {
		t.Errorf("modifier = %#x, want linear", f.Modifier)
	}
}

func TestExtNeedsBufferSizeFirst(t *testing.T) {
	d := &extDriver{
		eng:        testEngine(),
		session:    testSession(t, false),
		shmFormats: []uint32{uint32(frame.FormatXRGB8888)},
	}
	if f, _ := d.chooseFormat(); f != nil {
		t.Errorf("chose %v before buffer_size arrived", f)
	}
}

func TestExtShmStrideDerived(t *testing.T) {
	d := &extDriver{
		eng:     testEngine(),
		session: testSession(t, false),
		width:   100, height: 50,
		shmFormats: []uint32{uint32(frame.FormatARGB8888)},
	}
	f, backend := d.chooseFormat()
	if f == nil || backend != bufferpool.BackendShm {
		t.Fatalf("chose %v/%v, want shm", f, backend)
	}
	if f.Stride != 400 {
		t.Errorf("stride = %d, want width*4", f.Stride)
	}
}

func TestExtConstraintBatchReplacesPrevious(t *testing.T) {
	d := &extDriver{
		eng:     testEngine(),
		session: testSession(t, false),
	}

	d.pendWidth, d.pendHeight = 64, 64
	d.pendShm = []uint32{uint32(frame.FormatXRGB8888)}
	d.commitConstraints()

	f, _ := d.chooseFormat()
	if f == nil || f.Pixel != frame.FormatXRGB8888 {
		t.Fatalf("first batch chose %v, want XRGB8888", f)
	}

	// The compositor re-advertises after a buffer_constraints failure;
	// the old formats must not survive into the new pick.
	d.pendWidth, d.pendHeight = 128, 128
	d.pendShm = []uint32{uint32(frame.FormatABGR8888)}
	d.commitConstraints()

	f, _ = d.chooseFormat()
	if f == nil {
		t.Fatal("second batch chose nothing")
	}
	if f.Pixel != frame.FormatABGR8888 {
		t.Errorf("second batch chose %v, want ABGR8888 only", f.Pixel)
	}
	if f.Width != 128 || f.Height != 128 {
		t.Errorf("size = %dx%d, want the re-advertised 128x128", f.Width, f.Height)
	}
	if len(d.pendShm) != 0 || len(d.pendDma) != 0 {
		t.Error("staged formats not cleared after commit")
	}
}

func TestParseModifiers(t *testing.T) {
	raw := []byte{
		0, 0, 0, 0, 0, 0, 0, 0, // linear
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00, // invalid
	}
	mods := parseModifiers(raw)
	if len(mods) != 2 || mods[0] != frame.ModifierLinear || mods[1] != frame.ModifierInvalid {
		t.Errorf("mods = %#x", mods)
	}
}
