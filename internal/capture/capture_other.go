//go:build !linux

package capture

import (
	"github.com/camstream/camstreamd/internal/config"
	"github.com/camstream/camstreamd/internal/streamerr"
)

// open fails unconditionally on non-Linux platforms: V4L2 capture is
// Linux-specific, same split as this module's teacher's media_other.go.
func open(cfg config.Config) (FrameSource, error) {
	return nil, &streamerr.CameraError{
		Device: cfg.Device,
		Op:     "open",
		Err:    errUnsupportedPlatform,
	}
}

var errUnsupportedPlatform = platformError("V4L2 capture is only available on linux")

type platformError string

func (e platformError) Error() string { return string(e) }
