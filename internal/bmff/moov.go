package bmff

import "io"

// Movie is the moov box: mvhd, one trak, mvex.
type Movie struct {
	Header MovieHeader
	Track  Track
	Extend MovieExtends
}

func (m Movie) children() []Box {
	return []Box{m.Header, m.Track, m.Extend}
}

func (m Movie) Size() uint64 {
	total := headerSize(0)
	for _, c := range m.children() {
		total += c.Size()
	}
	return total
}

func (m Movie) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, m.Size(), bt("moov"))
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
