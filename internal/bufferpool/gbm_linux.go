//go:build linux && cgo

package bufferpool

/*
#cgo pkg-config: gbm
#include <gbm.h>
#include <unistd.h>
*/
import "C"

import (
	"fmt"
	"path/filepath"
	"sort"

	"golang.org/x/sys/unix"

	"github.com/example/waycapture/internal/frame"
)

type gbmDevice struct {
	fd   int
	dev  *C.struct_gbm_device
	path string
}

// OpenGPU opens a GBM device on the given DRM render node. An empty
// path selects the first /dev/dri/renderD* node present.
func OpenGPU(path string) (GPUAllocator, error) {
	if path == "" {
		var err error
		path, err = defaultRenderNode()
		if err != nil {
			return nil, err
		}
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open render node %s: %w", path, err)
	}
	dev := C.gbm_create_device(C.int(fd))
	if dev == nil {
		unix.Close(fd)
		return nil, fmt.Errorf("gbm_create_device on %s failed", path)
	}
	return &gbmDevice{fd: fd, dev: dev, path: path}, nil
}

func defaultRenderNode() (string, error) {
	nodes, err := filepath.Glob("/dev/dri/renderD*")
	if err != nil || len(nodes) == 0 {
		return "", fmt.Errorf("no DRM render node: %w", ErrGPUUnavailable)
	}
	sort.Strings(nodes)
	return nodes[0], nil
}

func (g *gbmDevice) Allocate(f frame.Format) (*DmabufBuffer, error) {
	fourcc := f.Pixel.DRMCode()
	bo := C.gbm_bo_create(g.dev, C.uint32_t(f.Width), C.uint32_t(f.Height),
		C.uint32_t(fourcc), C.GBM_BO_USE_RENDERING|C.GBM_BO_USE_LINEAR)
	if bo == nil {
		return nil, fmt.Errorf("gbm_bo_create %s %dx%d: allocation failed", f.Pixel, f.Width, f.Height)
	}

	fd := int(C.gbm_bo_get_fd(bo))
	if fd < 0 {
		C.gbm_bo_destroy(bo)
		return nil, fmt.Errorf("gbm_bo_get_fd: export failed for %s", f.Pixel)
	}

	got := f
	got.Stride = uint32(C.gbm_bo_get_stride(bo))
	got.Modifier = uint64(C.gbm_bo_get_modifier(bo))

	return &DmabufBuffer{
		Fd:     fd,
		Format: got,
		destroy: func() error {
			C.gbm_bo_destroy(bo)
			if err := unix.Close(fd); err != nil {
				return fmt.Errorf("close dmabuf fd: %w", err)
			}
			return nil
		},
	}, nil
}

func (g *gbmDevice) Close() error {
	if g.dev != nil {
		C.gbm_device_destroy(g.dev)
		g.dev = nil
	}
	if g.fd >= 0 {
		err := unix.Close(g.fd)
		g.fd = -1
		if err != nil {
			return fmt.Errorf("close render node: %w", err)
		}
	}
	return nil
}
