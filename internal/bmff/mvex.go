package bmff

import "io"

// MovieExtendsHeader is the mehd box, declaring the fragmented
// duration. MovieExtends does not include it: the live stream has no
// known total duration, so mvex carries only trex.
type MovieExtendsHeader struct {
	DurationScaled uint64
}

func (m MovieExtendsHeader) version() uint8 {
	return timeVersion(0, 0, m.DurationScaled)
}

func (m MovieExtendsHeader) bodySize() uint64 {
	if m.version() == 1 {
		return 8
	}
	return 4
}

func (m MovieExtendsHeader) Size() uint64 {
	return headerSize(0) + fullBoxHeaderSize + m.bodySize()
}

func (m MovieExtendsHeader) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, m.Size(), bt("mehd"))
	if err != nil {
		return n, err
	}
	v := m.version()
	n2, err := writeFullBoxHeader(w, v, 0)
	n += n2
	if err != nil {
		return n, err
	}
	body := make([]byte, m.bodySize())
	if v == 1 {
		putU64(body, m.DurationScaled)
	} else {
		putU32(body, uint32(m.DurationScaled))
	}
	n3, err := w.Write(body)
	return n + int64(n3), err
}

// TrackExtends is the trex box: per-track defaults that let fragments
// omit values in tfhd/trun. This is what makes an empty stts/stsc/stsz/
// stco valid for streaming playback.
type TrackExtends struct {
	TrackID                       uint32
	DefaultSampleDescriptionIndex uint32
	DefaultSampleDuration         uint32
	DefaultSampleSize             uint32
	DefaultSampleFlags            uint32
}

func (t TrackExtends) bodySize() uint64 { return 4 * 5 }

func (t TrackExtends) Size() uint64 {
	return headerSize(0) + fullBoxHeaderSize + t.bodySize()
}

func (t TrackExtends) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, t.Size(), bt("trex"))
	if err != nil {
		return n, err
	}
	n2, err := writeFullBoxHeader(w, 0, 0)
	n += n2
	if err != nil {
		return n, err
	}
	body := make([]byte, t.bodySize())
	putU32(body[0:4], t.TrackID)
	putU32(body[4:8], t.DefaultSampleDescriptionIndex)
	putU32(body[8:12], t.DefaultSampleDuration)
	putU32(body[12:16], t.DefaultSampleSize)
	putU32(body[16:20], t.DefaultSampleFlags)
	n3, err := w.Write(body)
	return n + int64(n3), err
}

// MovieExtends is the mvex box: trex, one per track.
type MovieExtends struct {
	Trex TrackExtends
}

func (m MovieExtends) children() []Box {
	return []Box{m.Trex}
}

func (m MovieExtends) Size() uint64 {
	total := headerSize(0)
	for _, c := range m.children() {
		total += c.Size()
	}
	return total
}

func (m MovieExtends) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, m.Size(), bt("mvex"))
	if err != nil {
		return n, err
	}
	for _, c := range m.children() {
		nc, err := c.WriteTo(w)
		n += nc
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
