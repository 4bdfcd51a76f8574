package bmff

import "io"

// MovieFragment is the moof box: mfhd, exactly one traf.
type MovieFragment struct {
	Header    MovieFragmentHeader
	Fragment  TrackFragment
}

func (m MovieFragment) children() []Box {
	return []Box{m.Header, m.Fragment}
}

func (m MovieFragment) Size() uint64 {
	total := headerSize(0)
	for _, c := range m.children() {
		total += c.Size()
	}
	return total
}

func (m MovieFragment) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, m.Size(), bt("moof"))
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
