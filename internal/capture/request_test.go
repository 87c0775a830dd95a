package capture

import (
	"errors"
	"testing"

	"github.com/example/waycapture/internal/frame"
)

func layout() []frame.Output {
	return []frame.Output{
		{Name: "DP-1", Logical: frame.Region{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{Name: "DP-2", Logical: frame.Region{X: 1920, Y: 0, Width: 1280, Height: 1080}},
	}
}

func TestResolveOutputsAll(t *testing.T) {
	outs, err := resolveOutputs(layout(), Request{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(outs) != 2 {
		t.Errorf("got %d outputs, want all", len(outs))
	}
}

func TestResolveOutputsByName(t *testing.T) {
	outs, err := resolveOutputs(layout(), Request{Outputs: []string{"DP-2"}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(outs) != 1 || outs[0].Name != "DP-2" {
		t.Errorf("outs = %+v", outs)
	}

	if _, err := resolveOutputs(layout(), Request{Outputs: []string{"HDMI-9"}}); !errors.Is(err, ErrNoSuchOutput) {
		t.Errorf("unknown name: got %v, want ErrNoSuchOutput", err)
	}
}

func TestResolveOutputsByCrop(t *testing.T) {
	crop := frame.Region{X: 2000, Y: 100, Width: 300, Height: 300}
	outs, err := resolveOutputs(layout(), Request{Crop: &crop})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(outs) != 1 || outs[0].Name != "DP-2" {
		t.Errorf("crop inside DP-2 selected %+v", outs)
	}

	spanning := frame.Region{X: 1800, Y: 0, Width: 400, Height: 400}
	outs, err = resolveOutputs(layout(), Request{Crop: &spanning})
	if err != nil {
		t.Fatalf("resolve spanning: %v", err)
	}
	if len(outs) != 2 {
		t.Errorf("spanning crop selected %d outputs, want both", len(outs))
	}

	outside := frame.Region{X: 9000, Y: 9000, Width: 10, Height: 10}
	if _, err := resolveOutputs(layout(), Request{Crop: &outside}); !errors.Is(err, ErrNoSuchOutput) {
		t.Errorf("crop outside outputs: got %v", err)
	}
}

func TestResolveOutputsEmpty(t *testing.T) {
	if _, err := resolveOutputs(nil, Request{}); !errors.Is(err, ErrNoSuchOutput) {
		t.Errorf("no outputs: got %v", err)
	}
}
