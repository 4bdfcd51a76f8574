// Package encode wraps a capture.FrameSource with either a software
// H.264 encoder or passthrough (for devices that already emit H.264),
// producing one fmp4.MediaSegment every 60 frames.
package encode

import (
	"context"

	"github.com/camstream/camstreamd/internal/fmp4"
)

// segmentFrameCount is the fixed GOP alignment this module emits: one
// MediaSegment per 60 samples, per spec.md §3/§4.D.
const segmentFrameCount = 60

// Producer emits one MediaSegment per call to NextSegment, accumulating
// segmentFrameCount frames from the underlying FrameSource. Headers
// returns the codec-prefix bytes (SPS/PPS bitstream) snapshotted once
// at producer construction; empty for the hardware passthrough variant.
type Producer interface {
	NextSegment(ctx context.Context) (*fmp4.MediaSegment, error)
	Headers() []byte
	// Parameters returns this generation's raw SPS and PPS NAL units
	// (NAL header byte included, no start code or length prefix), for
	// an InitSegment's avcC. Both are nil when the producer has none
	// of its own to report.
	Parameters() (sps, pps []byte)
	Close() error
}
