package config

import (
	"fmt"
	"strings"
)

// Capture holds buffer and protocol settings.
type Capture struct {
	// GPU enables dmabuf capture when the compositor and hardware
	// support it. Disabled, captures always go through shared memory.
	GPU bool
	// RenderNode pins the DRM render node, e.g. /dev/dri/renderD128.
	// Empty means the first usable node.
	RenderNode string
	// Cursor overlays the pointer on captures.
	Cursor bool
}

// Composite holds multi-output merge settings.
type Composite struct {
	// Align is "pad" or "crop": whether a selection reaching past the
	// outputs is zero-padded or trimmed to covered pixels.
	Align string
	// OnFailure is "skip" or "abort": whether a failed output zeroes
	// its area or fails the whole composite.
	OnFailure string
}

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
}

// Config holds the application configuration.
type Config struct {
	SaveDir     string
	Format      string
	JPEGQuality int
	Capture     Capture
	Composite   Composite
	Notify      Notify
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Format:      "png",
		JPEGQuality: 90,
		Capture: Capture{
			GPU: true,
		},
		Composite: Composite{
			Align:     "pad",
			OnFailure: "skip",
		},
		Notify: Notify{
			Capture: false,
			Save:    false,
			Copy:    false,
		},
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "format = %s\n", c.Format)
	fmt.Fprintf(&sb, "jpeg_quality = %d\n", c.JPEGQuality)
	sb.WriteString("\n")

	// Capture section
	sb.WriteString("[capture]\n")
	fmt.Fprintf(&sb, "gpu = %v\n", c.Capture.GPU)
	if c.Capture.RenderNode != "" {
		fmt.Fprintf(&sb, "render_node = %s\n", c.Capture.RenderNode)
	}
	fmt.Fprintf(&sb, "cursor = %v\n", c.Capture.Cursor)
	sb.WriteString("\n")

	// Composite section
	sb.WriteString("[composite]\n")
	fmt.Fprintf(&sb, "align = %s\n", c.Composite.Align)
	fmt.Fprintf(&sb, "on_failure = %s\n", c.Composite.OnFailure)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	return sb.String()
}
