// Package capture owns the V4L2 device for one stream generation and
// produces the raw frames a Segment Producer encodes or passes through.
package capture

import (
	"context"

	"github.com/camstream/camstreamd/internal/config"
)

// FrameSource is an infinite lazy sequence of raw frames from one open
// device. NextFrame blocks until a frame is available, ctx is done, or
// capture fails. Close releases the device; it must be called exactly
// once regardless of how the generation ended.
type FrameSource interface {
	NextFrame(ctx context.Context) ([]byte, error)
	Close() error
}

// Open opens cfg.Device with the requested pixel format, resolution,
// and control overrides. cfg.Interval is not applied to the device; it
// captures at the frame interval its driver already has set. Unknown
// control names are logged and ignored rather than failing capture.
func Open(cfg config.Config) (FrameSource, error) {
	return open(cfg)
}
