package bmff

import "io"

// trun flag bits this module ever sets.
const (
	trunDataOffsetPresent      = 0x000001
	trunFirstSampleFlagsPresent = 0x000004
	trunSampleSizePresent      = 0x000200
)

// TrackRun is the trun box for exactly one MediaSegment's samples.
// SampleSizes has one entry per sample (spec.md invariant:
// len(SampleSizes) == number of samples concatenated in the paired mdat).
// FirstSampleFlags marks sample 0 as the keyframe (0x02000000).
type TrackRun struct {
	DataOffset       *int32
	FirstSampleFlags *uint32
	SampleSizes      []uint32
}

func (t TrackRun) flags() uint32 {
	f := uint32(trunSampleSizePresent)
	if t.DataOffset != nil {
		f |= trunDataOffsetPresent
	}
	if t.FirstSampleFlags != nil {
		f |= trunFirstSampleFlagsPresent
	}
	return f
}

func (t TrackRun) bodySize() uint64 {
	size := uint64(4) // sample_count
	if t.DataOffset != nil {
		size += 4
	}
	if t.FirstSampleFlags != nil {
		size += 4
	}
	size += uint64(len(t.SampleSizes)) * 4
	return size
}

func (t TrackRun) Size() uint64 {
	return headerSize(0) + fullBoxHeaderSize + t.bodySize()
}

func (t TrackRun) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, t.Size(), bt("trun"))
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
	putU32(body[off:off+4], uint32(len(t.SampleSizes)))
	off += 4
	if t.DataOffset != nil {
		putS32(body[off:off+4], *t.DataOffset)
		off += 4
	}
	if t.FirstSampleFlags != nil {
		putU32(body[off:off+4], *t.FirstSampleFlags)
		off += 4
	}
	for _, sz := range t.SampleSizes {
		putU32(body[off:off+4], sz)
		off += 4
	}
	n3, err := w.Write(body)
	return n + int64(n3), err
}
