package bmff

import "io"

// MediaInfo is the minf box: vmhd, dinf, stbl.
type MediaInfo struct {
	Table SampleTable
}

func (m MediaInfo) children() []Box {
	return []Box{VideoMediaHeader{}, DataInfo{}, m.Table}
}

func (m MediaInfo) Size() uint64 {
	total := headerSize(0)
	for _, c := range m.children() {
		total += c.Size()
	}
	return total
}

func (m MediaInfo) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, m.Size(), bt("minf"))
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
