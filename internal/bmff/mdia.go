package bmff

import "io"

// Media is the mdia box: mdhd, hdlr, minf.
type Media struct {
	Header  MediaHeader
	Handler HandlerRef
	Info    MediaInfo
}

func (m Media) children() []Box {
	return []Box{m.Header, m.Handler, m.Info}
}

func (m Media) Size() uint64 {
	total := headerSize(0)
	for _, c := range m.children() {
		total += c.Size()
	}
	return total
}

func (m Media) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, m.Size(), bt("mdia"))
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
