package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/example/waycapture/internal/capture"
)

type outputsCmd struct {
	display string
	*root
	fs *flag.FlagSet
}

func (o *outputsCmd) FlagSet() *flag.FlagSet {
	return o.fs
}

func parseOutputsCmd(args []string, r *root) (*outputsCmd, error) {
	fs := flag.NewFlagSet("outputs", flag.ExitOnError)
	cmd := &outputsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.display, "display", "", "Wayland display name (default $WAYLAND_DISPLAY)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (o *outputsCmd) Run() error {
	eng, err := connectFn(capture.Options{Display: o.display, DisableGPU: true})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := eng.Close(); cerr != nil {
			log.Warn("close capture engine", "err", cerr)
		}
	}()

	outs := eng.Outputs()
	if len(outs) == 0 {
		fmt.Fprintln(os.Stdout, "no outputs available")
		return nil
	}
	for _, out := range outs {
		w, h := out.LogicalSize()
		fmt.Fprintf(os.Stdout, "%s: %dx%d at %d,%d scale %d transform %s\n",
			out.Name, w, h, out.Logical.X, out.Logical.Y, out.Scale, out.Transform)
	}
	return nil
}
