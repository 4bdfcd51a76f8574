package bmff

import "io"

// TrackFragment is the traf box: exactly one tfhd and one trun, per
// spec.md §3 MediaSegment.
type TrackFragment struct {
	Header TrackFragmentHeader
	Run    TrackRun
}

func (t TrackFragment) children() []Box {
	return []Box{t.Header, t.Run}
}

func (t TrackFragment) Size() uint64 {
	total := headerSize(0)
	for _, c := range t.children() {
		total += c.Size()
	}
	return total
}

func (t TrackFragment) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, t.Size(), bt("traf"))
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
