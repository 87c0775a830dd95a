package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/example/waycapture/internal/clipsvc"
	"github.com/example/waycapture/internal/encode"
)

var newClipService = func() *clipsvc.Service {
	return clipsvc.New(clipsvc.SystemBackend{}, log.Default())
}

type copyCmd struct {
	shot    *shotCmd
	persist bool
	fs      *flag.FlagSet
	*root
}

func (c *copyCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCopyCmd(args []string, r *root) (*copyCmd, error) {
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	cfg := r.config
	s := &shotCmd{root: r, fs: fs}
	c := &copyCmd{shot: s, root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&s.region, "region", "", "capture rectangle \"x,y WxH\" in logical coordinates (slurp output)")
	fs.BoolVar(&s.cursor, "cursor", cfg.Capture.Cursor, "overlay the pointer on the capture")
	fs.BoolVar(&s.noGPU, "no-gpu", !cfg.Capture.GPU, "force the shared-memory capture path")
	fs.StringVar(&s.renderNode, "render-node", cfg.Capture.RenderNode, "DRM render node for GPU buffers")
	fs.StringVar(&s.display, "display", "", "Wayland display name (default $WAYLAND_DISPLAY)")
	fs.BoolVar(&s.invert, "invert", false, "invert colors of the capture")
	fs.BoolVar(&c.persist, "persist", false, "keep running until another client takes the clipboard")
	// Clipboard offers are served as image/png, so the payload is
	// always PNG here; -format only applies when writing files.
	s.format = encode.PNG.String()
	s.quality = cfg.JPEGQuality
	s.onFailure = cfg.Composite.OnFailure
	s.align = cfg.Composite.Align
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	s.outputs = fs.Args()
	return c, nil
}

func (c *copyCmd) Run() error {
	comp, format, err := c.shot.grab()
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	if c.root != nil {
		c.root.notifyCapture(c.shot.describe(), comp.Pixels.ToImage())
	}

	var buf bytes.Buffer
	if err := encode.Encode(&buf, comp.Pixels, format, encode.Options{JPEGQuality: c.shot.quality}); err != nil {
		return fmt.Errorf("encode %s for clipboard: %w", format, err)
	}

	svc := newClipService()
	offer, err := svc.Publish(format.MIME(), buf.Bytes())
	if err != nil {
		return fmt.Errorf("copy %s to clipboard: %w", format, err)
	}
	detail := c.shot.describe()
	fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
	if c.root != nil {
		c.root.notifyCopy(detail)
	}

	if !c.persist {
		return nil
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := svc.Wait(ctx, offer.Seq); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
