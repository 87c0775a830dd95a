package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/example/waycapture/internal/capture"
	"github.com/example/waycapture/internal/encode"
	"github.com/example/waycapture/internal/frame"
	"github.com/example/waycapture/internal/stitch"
)

// Swapped out by tests.
var connectFn = func(opts capture.Options) (engine, error) {
	return capture.Connect(opts)
}

// engine is the slice of capture.Engine the commands drive.
type engine interface {
	Capture(ctx context.Context, req capture.Request) (*stitch.Composite, error)
	Outputs() []frame.Output
	GPUAvailable() bool
	Close() error
}

type shotCmd struct {
	output     string
	stdout     bool
	format     string
	quality    int
	region     string
	cursor     bool
	noGPU      bool
	renderNode string
	display    string
	invert     bool
	onFailure  string
	align      string
	outputs    []string
	*root
	fs *flag.FlagSet
}

func (s *shotCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseShotCmd(args []string, r *root) (*shotCmd, error) {
	fs := flag.NewFlagSet("shot", flag.ExitOnError)
	s := &shotCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	cfg := r.config
	fs.StringVar(&s.output, "output", "", "write the capture to this file path (default: timestamped name)")
	fs.BoolVar(&s.stdout, "stdout", false, "write encoded image data to stdout")
	fs.StringVar(&s.format, "format", cfg.Format, "image format: png, jpg, ppm, or qoi")
	fs.IntVar(&s.quality, "quality", cfg.JPEGQuality, "JPEG quality between 1 and 100")
	fs.StringVar(&s.region, "region", "", "capture rectangle \"x,y WxH\" in logical coordinates (slurp output)")
	fs.BoolVar(&s.cursor, "cursor", cfg.Capture.Cursor, "overlay the pointer on the capture")
	fs.BoolVar(&s.noGPU, "no-gpu", !cfg.Capture.GPU, "force the shared-memory capture path")
	fs.StringVar(&s.renderNode, "render-node", cfg.Capture.RenderNode, "DRM render node for GPU buffers")
	fs.StringVar(&s.display, "display", "", "Wayland display name (default $WAYLAND_DISPLAY)")
	fs.BoolVar(&s.invert, "invert", false, "invert colors of the capture")
	fs.StringVar(&s.onFailure, "on-failure", cfg.Composite.OnFailure, "failed output handling: skip or abort")
	fs.StringVar(&s.align, "align", cfg.Composite.Align, "out-of-bounds region handling: pad or crop")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if s.stdout && s.output != "" {
		return nil, fmt.Errorf("-stdout cannot be used with -output")
	}
	// An explicit -format wins; otherwise the output extension decides.
	formatSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "format" {
			formatSet = true
		}
	})
	if !formatSet && s.output != "" {
		if format, err := encode.FormatForPath(s.output); err == nil {
			s.format = format.String()
		}
	}
	s.outputs = fs.Args()
	return s, nil
}

// request translates the parsed flags into a capture request.
func (s *shotCmd) request() (capture.Request, error) {
	req := capture.Request{
		Outputs:      s.outputs,
		Cursor:       s.cursor,
		InvertColors: s.invert,
	}
	if strings.TrimSpace(s.region) != "" {
		r, err := frame.ParseRegion(s.region)
		if err != nil {
			return capture.Request{}, err
		}
		req.Crop = &r
	}
	switch s.onFailure {
	case "skip":
		req.OnFailure = stitch.PolicySkip
	case "abort":
		req.OnFailure = stitch.PolicyAbort
	default:
		return capture.Request{}, fmt.Errorf("on-failure must be skip or abort, got %q", s.onFailure)
	}
	switch s.align {
	case "pad":
		req.Align = stitch.AlignPad
	case "crop":
		req.Align = stitch.AlignCrop
	default:
		return capture.Request{}, fmt.Errorf("align must be pad or crop, got %q", s.align)
	}
	return req, nil
}

func (s *shotCmd) grab() (*stitch.Composite, encode.Format, error) {
	format, err := encode.ParseFormat(s.format)
	if err != nil {
		return nil, 0, err
	}
	req, err := s.request()
	if err != nil {
		return nil, 0, err
	}

	eng, err := connectFn(capture.Options{
		Display:    s.display,
		RenderNode: s.renderNode,
		DisableGPU: s.noGPU,
	})
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if cerr := eng.Close(); cerr != nil {
			log.Warn("close capture engine", "err", cerr)
		}
	}()

	comp, err := eng.Capture(context.Background(), req)
	if err != nil {
		return nil, 0, err
	}
	return comp, format, nil
}

func (s *shotCmd) describe() string {
	if len(s.outputs) > 0 {
		return strings.Join(s.outputs, ", ")
	}
	if strings.TrimSpace(s.region) != "" {
		return fmt.Sprintf("region %s", strings.TrimSpace(s.region))
	}
	return "all outputs"
}

func (s *shotCmd) Run() error {
	comp, format, err := s.grab()
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	if s.root != nil {
		s.root.notifyCapture(s.describe(), comp.Pixels.ToImage())
	}

	opts := encode.Options{JPEGQuality: s.quality}
	if s.stdout {
		if err := encode.Encode(os.Stdout, comp.Pixels, format, opts); err != nil {
			return fmt.Errorf("write %s to stdout: %w", format, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s data to stdout\n", format)
		return nil
	}

	path := s.output
	if path == "" {
		path = encode.DefaultFileName(format, time.Now())
		if s.root != nil && s.root.config.SaveDir != "" {
			path = filepath.Join(s.root.config.SaveDir, path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Warn("close output file", "path", path, "err", cerr)
		}
	}()
	if err := encode.Encode(f, comp.Pixels, format, opts); err != nil {
		return fmt.Errorf("write %s to %q: %w", format, path, err)
	}

	saved := path
	if abs, err := filepath.Abs(path); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	if s.root != nil {
		s.root.notifySave(saved)
	}
	return nil
}
