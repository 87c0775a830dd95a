package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/waycapture/internal/capture"
	"github.com/example/waycapture/internal/clipsvc"
	"github.com/example/waycapture/internal/config"
	"github.com/example/waycapture/internal/frame"
	"github.com/example/waycapture/internal/stitch"
)

type fakeEngine struct {
	comp    *stitch.Composite
	capErr  error
	outputs []frame.Output
}

func (f *fakeEngine) Capture(context.Context, capture.Request) (*stitch.Composite, error) {
	return f.comp, f.capErr
}
func (f *fakeEngine) Outputs() []frame.Output { return f.outputs }
func (f *fakeEngine) GPUAvailable() bool      { return false }
func (f *fakeEngine) Close() error            { return nil }

func swapConnect(t *testing.T, eng engine, err error) {
	original := connectFn
	connectFn = func(capture.Options) (engine, error) { return eng, err }
	t.Cleanup(func() { connectFn = original })
}

func testComposite() *stitch.Composite {
	return &stitch.Composite{
		Bounds: frame.Region{Width: 2, Height: 2},
		Pixels: frame.NewPixelBuffer(2, 2),
	}
}

func TestShotRunConnectError(t *testing.T) {
	sentinel := errors.New("boom")
	swapConnect(t, nil, sentinel)

	cmd := &shotCmd{stdout: true, format: "png", onFailure: "skip", align: "pad"}
	err := cmd.Run()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if want := "capture failed"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to contain %q, got %v", want, err)
	}
}

func TestShotRunWritesFile(t *testing.T) {
	swapConnect(t, &fakeEngine{comp: testComposite()}, nil)

	path := filepath.Join(t.TempDir(), "out.png")
	cmd := &shotCmd{output: path, format: "png", quality: 90, onFailure: "skip", align: "pad"}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Fatalf("output is not a PNG (%d bytes)", len(data))
	}
}

func TestParseShotStdoutConflict(t *testing.T) {
	r := &root{program: "waycapture"}
	r.config = testConfig()
	_, err := parseShotCmd([]string{"-stdout", "-output", "x.png"}, r)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "-stdout cannot be used"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseShotFormatFromPath(t *testing.T) {
	r := &root{program: "waycapture"}
	r.config = testConfig()
	cmd, err := parseShotCmd([]string{"-output", "shot.jpg"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cmd.format != "jpg" {
		t.Fatalf("expected format inferred from path, got %q", cmd.format)
	}

	// An explicit -format wins over the extension.
	cmd, err = parseShotCmd([]string{"-format", "png", "-output", "shot.jpg"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cmd.format != "png" {
		t.Fatalf("expected explicit format to win, got %q", cmd.format)
	}
}

func TestShotRequestInvalidRegion(t *testing.T) {
	cmd := &shotCmd{format: "png", region: "nonsense", onFailure: "skip", align: "pad"}
	if _, err := cmd.request(); err == nil {
		t.Fatalf("expected region parse error")
	}
}

func TestShotRequestPolicies(t *testing.T) {
	cmd := &shotCmd{format: "png", onFailure: "abort", align: "crop"}
	req, err := cmd.request()
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if req.OnFailure != stitch.PolicyAbort || req.Align != stitch.AlignCrop {
		t.Fatalf("unexpected request: %+v", req)
	}

	cmd.onFailure = "retry"
	if _, err := cmd.request(); err == nil {
		t.Fatalf("expected error for bad on-failure value")
	}
}

type fakeClipBackend struct {
	mime string
	data []byte
}

func (f *fakeClipBackend) Init() error { return nil }
func (f *fakeClipBackend) Write(mime string, data []byte) (<-chan struct{}, error) {
	f.mime = mime
	f.data = data
	return make(chan struct{}), nil
}

func swapClipService(t *testing.T, b clipsvc.Backend) {
	original := newClipService
	newClipService = func() *clipsvc.Service { return clipsvc.New(b, nil) }
	t.Cleanup(func() { newClipService = original })
}

// The clipboard serves image offers as image/png, so copy must publish
// PNG bytes even when the configured file format is something else.
func TestCopyRunPublishesPNG(t *testing.T) {
	swapConnect(t, &fakeEngine{comp: testComposite()}, nil)
	backend := &fakeClipBackend{}
	swapClipService(t, backend)

	r := &root{program: "waycapture"}
	r.config = testConfig()
	r.config.Format = "jpg"
	cmd, err := parseCopyCmd(nil, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if backend.mime != "image/png" {
		t.Errorf("published %q, want image/png", backend.mime)
	}
	if len(backend.data) < 8 || string(backend.data[1:4]) != "PNG" {
		t.Errorf("payload is not a PNG (%d bytes)", len(backend.data))
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errors.New("generic"), exitFailure},
		{capture.ErrUnsupportedCompositor, exitUnsupported},
		{capture.ErrCompositeFailed, exitComposite},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func testConfig() *config.Config {
	return config.New()
}
