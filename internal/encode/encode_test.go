package encode

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/camstream/camstreamd/internal/config"
)

// fakeSource yields a fixed sequence of frames, then errors once exhausted.
type fakeSource struct {
	frames [][]byte
	next   int
	closed bool
}

func (s *fakeSource) NextFrame(ctx context.Context) ([]byte, error) {
	if s.next >= len(s.frames) {
		return nil, errors.New("fakeSource: exhausted")
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate(): %v", err)
	}
	return cfg
}

func TestPassthroughProducerAccumulatesSegmentFrameCountFrames(t *testing.T) {
	frames := make([][]byte, 0, segmentFrameCount)
	for i := 0; i < segmentFrameCount; i++ {
		frames = append(frames, bytes.Repeat([]byte{byte(i)}, i+1))
	}
	src := &fakeSource{frames: frames}
	p := NewPassthroughProducer(testConfig(t), src)

	seg, err := p.NextSegment(context.Background())
	if err != nil {
		t.Fatalf("NextSegment: %v", err)
	}
	if seg == nil {
		t.Fatal("NextSegment returned nil segment")
	}
	if src.next != segmentFrameCount {
		t.Fatalf("expected %d frames pulled, got %d", segmentFrameCount, src.next)
	}
}

func TestPassthroughProducerHeadersEmpty(t *testing.T) {
	p := NewPassthroughProducer(testConfig(t), &fakeSource{})
	if h := p.Headers(); h != nil {
		t.Fatalf("expected nil headers for passthrough, got %v", h)
	}
	if sps, pps := p.Parameters(); sps != nil || pps != nil {
		t.Fatalf("expected nil SPS/PPS for passthrough, got sps=%v pps=%v", sps, pps)
	}
}

func TestPassthroughProducerClosePropagatesToSource(t *testing.T) {
	src := &fakeSource{}
	p := NewPassthroughProducer(testConfig(t), src)
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !src.closed {
		t.Fatal("expected underlying source to be closed")
	}
}

func TestPassthroughProducerPropagatesSourceError(t *testing.T) {
	p := NewPassthroughProducer(testConfig(t), &fakeSource{})
	if _, err := p.NextSegment(context.Background()); err == nil {
		t.Fatal("expected error from exhausted source")
	}
}

func TestSplitAnnexBFourByteStartCodes(t *testing.T) {
	data := []byte{0, 0, 0, 1, 0x67, 0xaa, 0, 0, 0, 1, 0x68, 0xbb, 0xcc}
	nals := splitAnnexB(data)
	if len(nals) != 2 {
		t.Fatalf("expected 2 NALs, got %d", len(nals))
	}
	if !bytes.Equal(nals[0], []byte{0x67, 0xaa}) {
		t.Fatalf("unexpected first NAL: %x", nals[0])
	}
	if !bytes.Equal(nals[1], []byte{0x68, 0xbb, 0xcc}) {
		t.Fatalf("unexpected second NAL: %x", nals[1])
	}
}

func TestSplitAnnexBThreeByteStartCodes(t *testing.T) {
	data := []byte{0, 0, 1, 0x41, 0xff, 0, 0, 1, 0x41, 0x00}
	nals := splitAnnexB(data)
	if len(nals) != 2 {
		t.Fatalf("expected 2 NALs, got %d", len(nals))
	}
	if !bytes.Equal(nals[0], []byte{0x41, 0xff}) {
		t.Fatalf("unexpected first NAL: %x", nals[0])
	}
	if !bytes.Equal(nals[1], []byte{0x41, 0x00}) {
		t.Fatalf("unexpected second NAL: %x", nals[1])
	}
}

func TestSplitAnnexBMixedStartCodes(t *testing.T) {
	data := []byte{0, 0, 0, 1, 0x67, 0, 0, 1, 0x68, 0xaa}
	nals := splitAnnexB(data)
	if len(nals) != 2 {
		t.Fatalf("expected 2 NALs, got %d", len(nals))
	}
	if !bytes.Equal(nals[0], []byte{0x67}) {
		t.Fatalf("unexpected first NAL: %x", nals[0])
	}
	if !bytes.Equal(nals[1], []byte{0x68, 0xaa}) {
		t.Fatalf("unexpected second NAL: %x", nals[1])
	}
}

func TestAnnexBToAVCCLengthPrefixesMatchNALSize(t *testing.T) {
	data := []byte{0, 0, 0, 1, 0x67, 0x11, 0x22, 0, 0, 0, 1, 0x68, 0x33}
	avcc := annexBToAVCC(data)

	firstLen := uint32(avcc[0])<<24 | uint32(avcc[1])<<16 | uint32(avcc[2])<<8 | uint32(avcc[3])
	if firstLen != 3 {
		t.Fatalf("expected first length-prefix 3, got %d", firstLen)
	}
	if !bytes.Equal(avcc[4:7], []byte{0x67, 0x11, 0x22}) {
		t.Fatalf("unexpected first NAL bytes: %x", avcc[4:7])
	}

	secondLenOffset := 7
	secondLen := uint32(avcc[secondLenOffset])<<24 | uint32(avcc[secondLenOffset+1])<<16 |
		uint32(avcc[secondLenOffset+2])<<8 | uint32(avcc[secondLenOffset+3])
	if secondLen != 2 {
		t.Fatalf("expected second length-prefix 2, got %d", secondLen)
	}
	if !bytes.Equal(avcc[secondLenOffset+4:], []byte{0x68, 0x33}) {
		t.Fatalf("unexpected second NAL bytes: %x", avcc[secondLenOffset+4:])
	}
}

func TestSplitParameterSetsPicksFirstSPSAndPPS(t *testing.T) {
	// SPS (type 7), PPS (type 8), then an IDR slice (type 5) that must
	// not be mistaken for either.
	data := []byte{
		0, 0, 0, 1, 0x67, 0x42, 0x00, 0x1f,
		0, 0, 0, 1, 0x68, 0xce, 0x3c, 0x80,
		0, 0, 0, 1, 0x65, 0x11, 0x22,
	}
	sps, pps := splitParameterSets(data)
	if !bytes.Equal(sps, []byte{0x67, 0x42, 0x00, 0x1f}) {
		t.Fatalf("unexpected SPS: %x", sps)
	}
	if !bytes.Equal(pps, []byte{0x68, 0xce, 0x3c, 0x80}) {
		t.Fatalf("unexpected PPS: %x", pps)
	}
}

func TestSplitParameterSetsEmptyWithoutAny(t *testing.T) {
	data := []byte{0, 0, 0, 1, 0x65, 0x11, 0x22}
	sps, pps := splitParameterSets(data)
	if sps != nil || pps != nil {
		t.Fatalf("expected no SPS/PPS in a stream with only slice NALs, got sps=%x pps=%x", sps, pps)
	}
}

func TestSourceFrameFormatRejectsUnknownFormat(t *testing.T) {
	cfg := testConfig(t)
	cfg.FormatName = "NOPE"
	if _, err := sourceFrameFormat(cfg); err == nil {
		t.Fatal("expected error for unknown format name")
	}
}

func TestSourceFrameFormatKnownNames(t *testing.T) {
	for _, name := range []string{"YUYV", "YV12", "RGB3", "BGR3"} {
		cfg := testConfig(t)
		cfg.FormatName = name
		if _, err := sourceFrameFormat(cfg); err != nil {
			t.Fatalf("format %q: unexpected error: %v", name, err)
		}
	}
}
