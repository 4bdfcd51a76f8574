package bmff

import (
	"bytes"
	"testing"
	"time"
)

// sizeMatchesWrite is the generic check behind testable property 1 in
// SPEC_FULL.md §8: serializing a box produces exactly Size() bytes.
func sizeMatchesWrite(t *testing.T, b Box) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if uint64(n) != b.Size() {
		t.Fatalf("WriteTo returned %d bytes, Size() reports %d", n, b.Size())
	}
	if uint64(buf.Len()) != b.Size() {
		t.Fatalf("buffer holds %d bytes, Size() reports %d", buf.Len(), b.Size())
	}
	return buf.Bytes()
}

func TestFileTypeSizeAndMajorBrand(t *testing.T) {
	ft := NewFileType()
	raw := sizeMatchesWrite(t, ft)
	if !bytes.Equal(raw[4:8], []byte("ftyp")) {
		t.Fatalf("expected ftyp type, got %q", raw[4:8])
	}
	if !bytes.Equal(raw[8:12], []byte("isom")) {
		t.Fatalf("expected major_brand isom, got %q", raw[8:12])
	}
}

func TestFourCCRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatH264, FormatYUYV, FormatYV12, FormatRGB3, FormatBGR3} {
		cc := f.FourCC()
		got, ok := FormatFromFourCC(cc)
		if !ok {
			t.Fatalf("FormatFromFourCC(%q) not found", cc)
		}
		if got != f {
			t.Fatalf("round trip mismatch: %v -> %q -> %v", f, cc, got)
		}
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	for _, r := range []Rotation{Rotate0, Rotate90, Rotate180, Rotate270} {
		m := MatrixFor(r)
		got, ok := RotationFromMatrix(m)
		if !ok || got != r {
			t.Fatalf("round trip mismatch for rotation %v: got %v, ok=%v", r, got, ok)
		}
	}
	identity := MatrixFor(Rotate0)
	want := Matrix{1, 0, 0, 0, 1, 0, 0, 0, w1}
	if identity != want {
		t.Fatalf("Rotate0 matrix = %v, want %v", identity, want)
	}
}

func TestLanguagePackRoundTrip(t *testing.T) {
	lang := [3]byte{'e', 'n', 'g'}
	packed := packLanguage(lang)
	got := unpackLanguage(packed)
	if got != lang {
		t.Fatalf("language round trip = %q, want %q", got, lang)
	}
}

func TestMovieHeaderVersionPromotion(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC() // comfortably within 32-bit range post-epoch shift
	mh := MovieHeader{
		CreationTime:     now,
		ModificationTime: now,
		Timescale:        30,
		DurationSeconds:  0,
		Matrix:           MatrixFor(Rotate0),
		NextTrackID:      2,
	}
	if mh.version() != 0 {
		t.Fatalf("expected version 0 for a recent timestamp, got %d", mh.version())
	}
	sizeMatchesWrite(t, mh)
}

func TestAvcConfigurationRecordSize(t *testing.T) {
	rec := AvcConfigurationRecord{
		ProfileIDC:        0x64,
		ConstraintSetFlag: 0,
		LevelIDC:          0x1f,
		SPS:               []byte{0x01, 0x02, 0x03},
		PPS:               []byte{0x04, 0x05},
	}
	raw := sizeMatchesWrite(t, rec)
	if raw[8] != 1 {
		t.Fatalf("configurationVersion = %d, want 1", raw[8])
	}
	if raw[12]&0x03 != lengthSizeMinusOne {
		t.Fatalf("lengthSizeMinusOne bits = %d, want %d", raw[12]&0x03, lengthSizeMinusOne)
	}
}

func TestTrackRunFlagsReflectPresentFields(t *testing.T) {
	off := int32(100)
	flags := uint32(0x02000000)
	run := TrackRun{
		DataOffset:       &off,
		FirstSampleFlags: &flags,
		SampleSizes:      []uint32{10, 20, 30},
	}
	want := uint32(trunDataOffsetPresent | trunFirstSampleFlagsPresent | trunSampleSizePresent)
	if run.flags() != want {
		t.Fatalf("trun flags = %#x, want %#x", run.flags(), want)
	}
	sizeMatchesWrite(t, run)

	bare := TrackRun{SampleSizes: []uint32{1}}
	if bare.flags() != trunSampleSizePresent {
		t.Fatalf("bare trun flags = %#x, want %#x", bare.flags(), trunSampleSizePresent)
	}
}

func TestTrackFragmentHeaderFlags(t *testing.T) {
	base := uint64(1024)
	dur := uint32(1)
	sampleFlags := uint32(0x01010000)
	h := TrackFragmentHeader{
		TrackID:               1,
		BaseDataOffset:        &base,
		DefaultSampleDuration: &dur,
		DefaultSampleFlags:    &sampleFlags,
	}
	want := uint32(tfhdBaseDataOffsetPresent | tfhdDefaultSampleDurationPresent | tfhdDefaultSampleFlagsPresent)
	if h.flags() != want {
		t.Fatalf("tfhd flags = %#x, want %#x", h.flags(), want)
	}
	sizeMatchesWrite(t, h)
}

func TestLargeMdatUses64BitHeader(t *testing.T) {
	// Force the largesize branch without allocating 4GiB: exercise the
	// header-writing path directly rather than the full payload.
	var buf bytes.Buffer
	n, err := writeHeader(&buf, 0x100000000, bt("mdat"))
	if err != nil {
		t.Fatalf("writeHeader: %v", err)
	}
	if n != 16 {
		t.Fatalf("largesize header wrote %d bytes, want 16", n)
	}
	if buf.Bytes()[0] != 0 || buf.Bytes()[1] != 0 || buf.Bytes()[2] != 0 || buf.Bytes()[3] != 1 {
		t.Fatalf("largesize marker u32 != 1: %v", buf.Bytes()[0:4])
	}
}
