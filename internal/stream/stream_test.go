package stream

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/uuid"

	"github.com/camstream/camstreamd/internal/config"
	"github.com/camstream/camstreamd/internal/fmp4"
	"github.com/camstream/camstreamd/internal/hub"
)

func testStreamConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate(): %v", err)
	}
	return cfg
}

func testSub(headers []byte, ch chan *fmp4.MediaSegment) hub.Subscription {
	return hub.Subscription{ID: uuid.New(), Headers: headers, Segments: ch}
}

func TestFirstPullReturnsInitSegment(t *testing.T) {
	cfg := testStreamConfig(t)
	ch := make(chan *fmp4.MediaSegment, 1)
	s := New(cfg, testSub(nil, ch))

	b, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}

	want := fmp4.NewInitSegment(cfg, nil, nil)
	var buf bytes.Buffer
	if _, err := want.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if uint64(len(b)) != want.Size() {
		t.Fatalf("expected init segment of %d bytes, got %d", want.Size(), len(b))
	}
	// ftyp box: size(4) + 'ftyp'(4) + major_brand 'isom'(4)
	if !bytes.Equal(b[4:8], []byte("ftyp")) {
		t.Fatalf("expected ftyp box at start, got %q", b[4:8])
	}
}

func TestSequenceNumbersStartAtOneAndIncrement(t *testing.T) {
	cfg := testStreamConfig(t)
	ch := make(chan *fmp4.MediaSegment, 2)
	s := New(cfg, testSub(nil, ch))

	if _, err := s.Next(context.Background()); err != nil {
		t.Fatalf("init pull: %v", err)
	}

	seg1 := fmp4.NewMediaSegment(cfg, []uint32{1}, fmp4.NewSamplePayload([]byte{0xAA}))
	seg2 := fmp4.NewMediaSegment(cfg, []uint32{1}, fmp4.NewSamplePayload([]byte{0xBB}))
	ch <- seg1
	ch <- seg2

	b1, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("first media pull: %v", err)
	}
	if seq := mfhdSequenceNumber(t, b1); seq != 1 {
		t.Fatalf("expected sequence_number 1, got %d", seq)
	}

	b2, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("second media pull: %v", err)
	}
	if seq := mfhdSequenceNumber(t, b2); seq != 2 {
		t.Fatalf("expected sequence_number 2, got %d", seq)
	}
}

func TestBaseDataOffsetAccumulatesAcrossFragments(t *testing.T) {
	cfg := testStreamConfig(t)
	ch := make(chan *fmp4.MediaSegment, 2)
	s := New(cfg, testSub(nil, ch))

	initBytes, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("init pull: %v", err)
	}

	seg1 := fmp4.NewMediaSegment(cfg, []uint32{1}, fmp4.NewSamplePayload([]byte{0xAA}))
	ch <- seg1
	frag1, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("first media pull: %v", err)
	}

	if got := baseDataOffset(t, frag1); got != uint64(len(initBytes)) {
		t.Fatalf("expected base_data_offset %d, got %d", len(initBytes), got)
	}

	seg2 := fmp4.NewMediaSegment(cfg, []uint32{1}, fmp4.NewSamplePayload([]byte{0xBB}))
	ch <- seg2
	frag2, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("second media pull: %v", err)
	}
	want := uint64(len(initBytes) + len(frag1))
	if got := baseDataOffset(t, frag2); got != want {
		t.Fatalf("expected base_data_offset %d, got %d", want, got)
	}
}

func TestHeadersPrependedExactlyOnceToFirstFragment(t *testing.T) {
	cfg := testStreamConfig(t)
	ch := make(chan *fmp4.MediaSegment, 1)
	headers := []byte{0x67, 0x42, 0x00, 0x1f}
	s := New(cfg, testSub(headers, ch))

	if _, err := s.Next(context.Background()); err != nil {
		t.Fatalf("init pull: %v", err)
	}

	payload := []byte{0x11, 0x22}
	seg := fmp4.NewMediaSegment(cfg, []uint32{uint32(len(payload))}, fmp4.NewSamplePayload(payload))
	ch <- seg

	frag, err := s.Next(context.Background())
	if err != nil {
		t.Fatalf("media pull: %v", err)
	}
	if n := bytes.Count(frag, headers); n != 1 {
		t.Fatalf("expected header bytes to appear exactly once in the fragment, found %d times", n)
	}
}

func TestClosedChannelEndsStreamWithEOF(t *testing.T) {
	cfg := testStreamConfig(t)
	ch := make(chan *fmp4.MediaSegment)
	s := New(cfg, testSub(nil, ch))

	if _, err := s.Next(context.Background()); err != nil {
		t.Fatalf("init pull: %v", err)
	}
	close(ch)

	if _, err := s.Next(context.Background()); err != io.EOF {
		t.Fatalf("expected io.EOF after channel close, got %v", err)
	}
}

func TestNextRespectsContextCancellation(t *testing.T) {
	cfg := testStreamConfig(t)
	ch := make(chan *fmp4.MediaSegment)
	s := New(cfg, testSub(nil, ch))

	if _, err := s.Next(context.Background()); err != nil {
		t.Fatalf("init pull: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Next(ctx); err == nil {
		t.Fatal("expected an error from a canceled context")
	}
}

// mfhdSequenceNumber extracts mfhd.sequence_number from a serialized
// moof+mdat fragment: fullbox header (size,type,version,flags) then the
// big-endian u32 sequence_number.
func mfhdSequenceNumber(t *testing.T, fragment []byte) uint32 {
	t.Helper()
	// moof box header (8) -> mfhd box header (8) -> mfhd fullbox version+flags (4)
	off := 8 + 8 + 4
	if len(fragment) < off+4 {
		t.Fatalf("fragment too short to contain mfhd.sequence_number: %d bytes", len(fragment))
	}
	return uint32(fragment[off])<<24 | uint32(fragment[off+1])<<16 | uint32(fragment[off+2])<<8 | uint32(fragment[off+3])
}

// baseDataOffset extracts tfhd.base_data_offset from a serialized
// moof+mdat fragment, assuming a single traf/tfhd with only
// base_data_offset + default_sample_duration + default_sample_flags
// present (the shape MediaSegment.buildFragment always produces).
func baseDataOffset(t *testing.T, fragment []byte) uint64 {
	t.Helper()
	// moof(8) + mfhd(8+4+4=16) + traf(8) + tfhd header(8) + fullbox(4) + track_id(4)
	off := 8 + 16 + 8 + 8 + 4 + 4
	if len(fragment) < off+8 {
		t.Fatalf("fragment too short to contain tfhd.base_data_offset: %d bytes", len(fragment))
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(fragment[off+i])
	}
	return v
}
