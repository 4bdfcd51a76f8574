package encode

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/pion/mediadevices/pkg/codec"
	"github.com/pion/mediadevices/pkg/codec/x264"
	"github.com/pion/mediadevices/pkg/frame"
	"github.com/pion/mediadevices/pkg/io/video"
	"github.com/pion/mediadevices/pkg/prop"

	"github.com/camstream/camstreamd/internal/capture"
	"github.com/camstream/camstreamd/internal/config"
	"github.com/camstream/camstreamd/internal/fmp4"
	"github.com/camstream/camstreamd/internal/streamerr"
)

// encodeBitrate, per spec.md §4.D: Preset=Superfast, Tune=None,
// bitrate=896000, high profile, max_keyframe_interval=60,
// scenecut_threshold=0.
const encodeBitrate = 896_000

// sourceFrameFormat maps a config Format to the pkg/frame decoder that
// turns raw V4L2 bytes into an image.Image the x264 encoder can read.
func sourceFrameFormat(cfg config.Config) (frame.Format, error) {
	switch strings.ToUpper(cfg.FormatName) {
	case "YUYV":
		return frame.FormatYUYV, nil
	case "YV12":
		return frame.FormatYUV420, nil
	case "RGB3":
		return frame.FormatRGBA, nil
	case "BGR3":
		return frame.FormatRGBA, nil
	default:
		return "", fmt.Errorf("encode: no frame decoder for format %q", cfg.FormatName)
	}
}

// X264Producer encodes raw frames from a capture.FrameSource to H.264
// in software, used whenever config.format is not already H264.
type X264Producer struct {
	cfg       config.Config
	source    capture.FrameSource
	encoder   codec.ReadCloser
	headers   []byte
	sps, pps  []byte
	timestamp int64 // in units of timescale = interval.den
}

// NewX264Producer builds the encoder described in spec.md §4.D and
// retrieves its codec headers once, immediately at startup.
func NewX264Producer(cfg config.Config, source capture.FrameSource) (*X264Producer, error) {
	decodeFormat, err := sourceFrameFormat(cfg)
	if err != nil {
		return nil, &streamerr.EncodingError{Op: "frame format", Err: err}
	}
	decoder, err := frame.NewDecoder(decodeFormat)
	if err != nil {
		return nil, &streamerr.EncodingError{Op: "frame decoder", Err: err}
	}

	width, height := int(cfg.Resolution.Width), int(cfg.Resolution.Height)

	p := &X264Producer{cfg: cfg, source: source}

	reader := video.ReaderFunc(func() (img image.Image, release func(), err error) {
		raw, err := source.NextFrame(context.Background())
		if err != nil {
			return nil, nil, err
		}
		return decoder.Decode(raw, width, height)
	})

	params, err := x264.NewParams()
	if err != nil {
		return nil, &streamerr.EncodingError{Op: "x264 params", Err: err}
	}
	params.BitRate = encodeBitrate
	params.KeyFrameInterval = segmentFrameCount
	params.Preset = x264.PresetSuperfast
	params.Tune = x264.TuneNone
	params.Profile = x264.ProfileHigh

	encoder, err := params.BuildVideoEncoder(reader, prop.Media{
		Video: prop.Video{
			Width:  width,
			Height: height,
		},
	})
	if err != nil {
		return nil, &streamerr.EncodingError{Op: "build encoder", Err: err}
	}
	p.encoder = encoder

	raw, release, err := encoder.Read()
	if err != nil {
		encoder.Close()
		return nil, &streamerr.EncodingError{Op: "read encoder headers", Err: err}
	}
	p.headers = annexBToAVCC(raw)
	p.sps, p.pps = splitParameterSets(raw)
	if release != nil {
		release()
	}

	return p, nil
}

func (p *X264Producer) Headers() []byte { return p.headers }

// Parameters returns the raw SPS and PPS NAL units (NAL header byte
// included, no start code or length prefix) this encoder's first
// Read call surfaced, for InitSegment's avcC.
func (p *X264Producer) Parameters() (sps, pps []byte) { return p.sps, p.pps }

// splitParameterSets scans an Annex-B byte stream for the first NAL
// units of type 7 (SPS) and type 8 (PPS), the shape x264's header read
// always returns.
func splitParameterSets(annexB []byte) (sps, pps []byte) {
	for _, nal := range splitAnnexB(annexB) {
		if len(nal) == 0 {
			continue
		}
		switch nal[0] & 0x1F {
		case 7:
			if sps == nil {
				sps = append([]byte(nil), nal...)
			}
		case 8:
			if pps == nil {
				pps = append([]byte(nil), nal...)
			}
		}
	}
	return sps, pps
}

func (p *X264Producer) NextSegment(ctx context.Context) (*fmp4.MediaSegment, error) {
	var payload []byte
	sizes := make([]uint32, 0, segmentFrameCount)
	for i := 0; i < segmentFrameCount; i++ {
		raw, release, err := p.encoder.Read()
		if err != nil {
			return nil, &streamerr.EncodingError{Op: "encode", Err: err}
		}
		avcc := annexBToAVCC(raw)
		payload = append(payload, avcc...)
		sizes = append(sizes, uint32(len(avcc)))
		if release != nil {
			release()
		}
		p.timestamp += int64(p.cfg.Interval.Num)
	}
	return fmp4.NewMediaSegment(p.cfg, sizes, fmp4.NewSamplePayload(payload)), nil
}

func (p *X264Producer) Close() error {
	if err := p.encoder.Close(); err != nil {
		return err
	}
	return p.source.Close()
}

// annexBToAVCC rewrites Annex-B start-code-delimited NAL units into
// AVCC 4-byte-length-prefixed samples, since the x264 encoder emits the
// former and this module's muxer requires the latter.
func annexBToAVCC(annexB []byte) []byte {
	nals := splitAnnexB(annexB)
	out := make([]byte, 0, len(annexB)+4*len(nals))
	var lenBuf [4]byte
	for _, nal := range nals {
		n := uint32(len(nal))
		lenBuf[0] = byte(n >> 24)
		lenBuf[1] = byte(n >> 16)
		lenBuf[2] = byte(n >> 8)
		lenBuf[3] = byte(n)
		out = append(out, lenBuf[:]...)
		out = append(out, nal...)
	}
	return out
}

// splitAnnexB splits a byte stream on 3- or 4-byte start codes
// (0x000001 or 0x00000001), returning each NAL unit's payload bytes.
func splitAnnexB(data []byte) [][]byte {
	var nals [][]byte
	start := -1
	i := 0
	for i < len(data) {
		if i+3 <= len(data) && data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 {
			if start >= 0 {
				nals = append(nals, data[start:i])
			}
			i += 3
			start = i
			continue
		}
		if i+4 <= len(data) && data[i] == 0 && data[i+1] == 0 && data[i+2] == 0 && data[i+3] == 1 {
			if start >= 0 {
				nals = append(nals, data[start:i])
			}
			i += 4
			start = i
			continue
		}
		i++
	}
	if start >= 0 && start < len(data) {
		nals = append(nals, data[start:])
	}
	return nals
}
