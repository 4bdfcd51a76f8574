package fmp4

import (
	"io"

	"github.com/camstream/camstreamd/internal/bmff"
	"github.com/camstream/camstreamd/internal/config"
)

// keyframeFlags marks the first sample of every MediaSegment as the
// GOP-aligned keyframe.
const keyframeFlags = 0x02000000

// MediaSegment is one produced batch of 60 samples: a moof/mdat pair
// whose tfhd.base_data_offset and mfhd.sequence_number are placeholders
// until a Streaming Session rewrites them per subscriber. Every field
// is fixed at construction and never mutated afterward, so the same
// *MediaSegment can be handed to every subscriber's channel without
// synchronization: WriteTo computes each subscriber's view (offset,
// sequence number, and an optional codec-header prefix) locally,
// grounded on mp4-stream::MediaSegment being #[derive(Clone)] so each
// subscriber works from its own copy of the moof/headers fields while
// sharing only the Arc'd sample bytes
// (_examples/original_source/crates/mp4-stream/src/lib.rs:257-301) --
// this module reaches the same isolation without the per-subscriber
// clone by never writing the per-subscriber fields back into the
// shared struct at all.
type MediaSegment struct {
	defaultSampleDuration uint32
	dataOffset            int32

	sampleSizes []uint32
	payload     *SamplePayload
}

// NewMediaSegment builds a MediaSegment from cfg, the per-sample byte
// lengths observed during encode/passthrough, and the concatenated
// sample bytes. base_data_offset and sequence_number are left as
// placeholders; WriteTo supplies them per subscriber.
func NewMediaSegment(cfg config.Config, sampleSizes []uint32, payload *SamplePayload) *MediaSegment {
	seg := &MediaSegment{
		defaultSampleDuration: cfg.Interval.Num,
		sampleSizes:           sampleSizes,
		payload:               payload,
	}
	seg.dataOffset = int32(seg.moofSize()) + 8 // +8: the mdat header
	return seg
}

func (s *MediaSegment) moofSize() uint64 {
	return s.buildFragment(0, 0, 0).Size()
}

// buildFragment returns a fresh bmff.MovieFragment for one subscriber's
// view of this segment: baseDataOffset and sequenceNumber are that
// subscriber's own, and headerLen (if nonzero) is added to the first
// sample's size to account for a headers prefix WriteTo will inline
// into mdat without touching s.sampleSizes itself.
func (s *MediaSegment) buildFragment(baseDataOffset uint64, sequenceNumber uint32, headerLen uint32) bmff.MovieFragment {
	base := baseDataOffset
	dur := s.defaultSampleDuration
	flags := uint32(defaultSampleFlags)
	firstFlags := uint32(keyframeFlags)
	dataOffset := s.dataOffset

	sizes := make([]uint32, len(s.sampleSizes))
	copy(sizes, s.sampleSizes)
	if headerLen > 0 && len(sizes) > 0 {
		sizes[0] += headerLen
	}

	return bmff.MovieFragment{
		Header: bmff.MovieFragmentHeader{SequenceNumber: sequenceNumber},
		Fragment: bmff.TrackFragment{
			Header: bmff.TrackFragmentHeader{
				TrackID:               1,
				BaseDataOffset:        &base,
				DefaultSampleDuration: &dur,
				DefaultSampleFlags:    &flags,
			},
			Run: bmff.TrackRun{
				DataOffset:       &dataOffset,
				FirstSampleFlags: &firstFlags,
				SampleSizes:      sizes,
			},
		},
	}
}

// RetainPayload increments the reference count of this segment's sample
// payload. The Hub calls this once per subscriber a segment is broadcast
// to, so the payload outlives every subscriber still reading it.
func (s *MediaSegment) RetainPayload() {
	s.payload.Retain()
}

// ReleasePayload decrements the reference count of this segment's sample
// payload. A Streaming Session calls this once it has finished writing
// this segment to its subscriber.
func (s *MediaSegment) ReleasePayload() {
	s.payload.Release()
}

// Size returns this segment's on-wire byte length (moof + mdat) with no
// headers prefix inlined. Stable across subscribers: only
// base_data_offset, sequence_number, and a per-subscriber headers
// prefix vary, and none of those affect this base size.
func (s *MediaSegment) Size() uint64 {
	return s.moofSize() + (bmff.MediaData{Payload: s.payload.Bytes()}).Size()
}

// WriteTo serializes this segment for one subscriber: baseDataOffset
// and sequenceNumber are rewritten into tfhd/mfhd per the Streaming
// Session rewrite rule, and headers, when non-empty, is inlined ahead
// of the first sample's bytes in mdat and folded into that sample's
// size in trun -- both computed fresh from s's immutable fields, so
// one subscriber's headers never appear in another subscriber's copy
// of this same *MediaSegment.
func (s *MediaSegment) WriteTo(w io.Writer, baseDataOffset uint64, sequenceNumber uint32, headers []byte) (int64, error) {
	fragment := s.buildFragment(baseDataOffset, sequenceNumber, uint32(len(headers)))

	n, err := fragment.WriteTo(w)
	if err != nil {
		return n, err
	}
	n2, err := (bmff.MediaData{Prefix: headers, Payload: s.payload.Bytes()}).WriteTo(w)
	return n + n2, err
}
