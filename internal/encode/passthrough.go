package encode

import (
	"context"

	"github.com/camstream/camstreamd/internal/capture"
	"github.com/camstream/camstreamd/internal/config"
	"github.com/camstream/camstreamd/internal/fmp4"
)

// PassthroughProducer is used when config.Format is already H264: the
// device emits length-prefixed NAL units directly, so each frame's byte
// length becomes one sample_sizes entry with no transcoding.
type PassthroughProducer struct {
	cfg    config.Config
	source capture.FrameSource
}

func NewPassthroughProducer(cfg config.Config, source capture.FrameSource) *PassthroughProducer {
	return &PassthroughProducer{cfg: cfg, source: source}
}

func (p *PassthroughProducer) Headers() []byte { return nil }

// Parameters returns no SPS/PPS: a device already emitting H264 is
// never asked to surface its own parameter sets, so the init segment
// falls back to fmp4's baseline avcC constants.
func (p *PassthroughProducer) Parameters() (sps, pps []byte) { return nil, nil }

func (p *PassthroughProducer) NextSegment(ctx context.Context) (*fmp4.MediaSegment, error) {
	var payload []byte
	sizes := make([]uint32, 0, segmentFrameCount)
	for i := 0; i < segmentFrameCount; i++ {
		frame, err := p.source.NextFrame(ctx)
		if err != nil {
			return nil, err
		}
		payload = append(payload, frame...)
		sizes = append(sizes, uint32(len(frame)))
	}
	return fmp4.NewMediaSegment(p.cfg, sizes, fmp4.NewSamplePayload(payload)), nil
}

func (p *PassthroughProducer) Close() error {
	return p.source.Close()
}
