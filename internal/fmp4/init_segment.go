package fmp4

import (
	"io"
	"time"

	"github.com/camstream/camstreamd/internal/bmff"
	"github.com/camstream/camstreamd/internal/config"
)

// InitSegment is the ftyp+moov pair every subscriber receives exactly
// once, before any MediaSegment.
type InitSegment struct {
	FileType bmff.FileType
	Movie    bmff.Movie
}

func (s InitSegment) Size() uint64 {
	return s.FileType.Size() + s.Movie.Size()
}

func (s InitSegment) WriteTo(w io.Writer) (int64, error) {
	n, err := s.FileType.WriteTo(w)
	if err != nil {
		return n, err
	}
	n2, err := s.Movie.WriteTo(w)
	return n + n2, err
}

// defaultSampleFlags is the non-keyframe sample flags word ("not an
// I-frame", no dependency override): 0x01010000.
const defaultSampleFlags = 0x01010000

// NewInitSegment builds an InitSegment from cfg, with creation_time and
// modification_time set to now (UTC). track_id is always 1; timescale
// equals cfg.Interval.Den. sps and pps are this generation's actual AVC
// parameter sets, as produced by the Segment Producer's own encoder
// (encode.Producer.Parameters) -- passing either as empty falls back to
// avcConfig's baseline constants rather than building an avcC no decoder
// can use.
func NewInitSegment(cfg config.Config, sps, pps []byte) *InitSegment {
	now := time.Now().UTC()
	matrix := bmff.MatrixFor(cfg.Rotation)

	track := bmff.Track{
		Header: bmff.TrackHeader{
			CreationTime:     now,
			ModificationTime: now,
			TrackID:          1,
			DurationScaled:   0,
			Width:            cfg.Resolution.Width,
			Height:           cfg.Resolution.Height,
			Matrix:           matrix,
		},
		Media: bmff.Media{
			Header: bmff.MediaHeader{
				CreationTime:     now,
				ModificationTime: now,
				Timescale:        cfg.Interval.Den,
				DurationScaled:   0,
				Language:         [3]byte{'u', 'n', 'd'},
			},
			Handler: bmff.NewVideoHandlerRef(),
			Info: bmff.MediaInfo{
				Table: bmff.SampleTable{
					Description: bmff.SampleDescription{
						Entry: bmff.Avc1SampleEntry{
							Width:  uint16(cfg.Resolution.Width),
							Height: uint16(cfg.Resolution.Height),
							Config: avcConfig(sps, pps),
						},
					},
				},
			},
		},
	}

	movie := bmff.Movie{
		Header: bmff.MovieHeader{
			CreationTime:     now,
			ModificationTime: now,
			Timescale:        cfg.Interval.Den,
			DurationSeconds:  0,
			Matrix:           matrix,
			NextTrackID:      2,
		},
		Track: track,
		Extend: bmff.MovieExtends{
			Trex: bmff.TrackExtends{
				TrackID:                       1,
				DefaultSampleDescriptionIndex: 1,
				DefaultSampleDuration:         cfg.Interval.Num,
				DefaultSampleSize:             0,
				DefaultSampleFlags:            defaultSampleFlags,
			},
		},
	}

	return &InitSegment{
		FileType: bmff.NewFileType(),
		Movie:    movie,
	}
}
