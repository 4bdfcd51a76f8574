package bmff

import "io"

// tfhd flag bits, set implicitly by which optional fields are present.
const (
	tfhdBaseDataOffsetPresent         = 0x000001
	tfhdSampleDescriptionIndexPresent = 0x000002
	tfhdDefaultSampleDurationPresent  = 0x000008
	tfhdDefaultSampleSizePresent      = 0x000010
	tfhdDefaultSampleFlagsPresent     = 0x000020
)

// TrackFragmentHeader is the tfhd box. base_data_offset and the default_*
// fields are all pointer-optional so presence (and therefore the
// flags word) follows directly from which fields this MediaSegment set,
// per spec.md §4.A.
type TrackFragmentHeader struct {
	TrackID                uint32
	BaseDataOffset         *uint64
	SampleDescriptionIndex *uint32
	DefaultSampleDuration  *uint32
	DefaultSampleSize      *uint32
	DefaultSampleFlags     *uint32
}

func (t TrackFragmentHeader) flags() uint32 {
	var f uint32
	if t.BaseDataOffset != nil {
		f |= tfhdBaseDataOffsetPresent
	}
	if t.SampleDescriptionIndex != nil {
		f |= tfhdSampleDescriptionIndexPresent
	}
	if t.DefaultSampleDuration != nil {
		f |= tfhdDefaultSampleDurationPresent
	}
	if t.DefaultSampleSize != nil {
		f |= tfhdDefaultSampleSizePresent
	}
	if t.DefaultSampleFlags != nil {
		f |= tfhdDefaultSampleFlagsPresent
	}
	return f
}

func (t TrackFragmentHeader) bodySize() uint64 {
	size := uint64(4) // track_ID
	if t.BaseDataOffset != nil {
		size += 8
	}
	if t.SampleDescriptionIndex != nil {
		size += 4
	}
	if t.DefaultSampleDuration != nil {
		size += 4
	}
	if t.DefaultSampleSize != nil {
		size += 4
	}
	if t.DefaultSampleFlags != nil {
		size += 4
	}
	return size
}

func (t TrackFragmentHeader) Size() uint64 {
	return headerSize(0) + fullBoxHeaderSize + t.bodySize()
}

func (t TrackFragmentHeader) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, t.Size(), bt("tfhd"))
	if err != nil {
		return n, err
	}
	n2, err := writeFullBoxHeader(w, 0, t.flags())
	n += n2
	if err != nil {
		return n, err
	}
	body := make([]byte, t.bodySize())
	off := 0
	putU32(body[off:off+4], t.TrackID)
	off += 4
	if t.BaseDataOffset != nil {
		putU64(body[off:off+8], *t.BaseDataOffset)
		off += 8
	}
	if t.SampleDescriptionIndex != nil {
		putU32(body[off:off+4], *t.SampleDescriptionIndex)
		off += 4
	}
	if t.DefaultSampleDuration != nil {
		putU32(body[off:off+4], *t.DefaultSampleDuration)
		off += 4
	}
	if t.DefaultSampleSize != nil {
		putU32(body[off:off+4], *t.DefaultSampleSize)
		off += 4
	}
	if t.DefaultSampleFlags != nil {
		putU32(body[off:off+4], *t.DefaultSampleFlags)
		off += 4
	}
	n3, err := w.Write(body)
	return n + int64(n3), err
}
