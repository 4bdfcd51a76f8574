package bmff

import "io"

// Track is the trak box: tkhd, mdia. This module emits exactly one,
// track_id=1, the video track.
type Track struct {
	Header TrackHeader
	Media  Media
}

func (t Track) children() []Box {
	return []Box{t.Header, t.Media}
}

func (t Track) Size() uint64 {
	total := headerSize(0)
	for _, c := range t.children() {
		total += c.Size()
	}
	return total
}

func (t Track) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, t.Size(), bt("trak"))
	if err != nil {
		return n, err
	}
	for _, c := range t.children() {
		nc, err := c.WriteTo(w)
		n += nc
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
