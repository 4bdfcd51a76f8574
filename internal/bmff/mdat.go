package bmff

import "io"

// MediaData is the mdat box: the concatenated encoded sample bytes for
// one MediaSegment. Payload is shared (reference-counted) across
// subscribers; MediaData itself never mutates it. Prefix, when set, is
// written immediately before Payload and counted in Size, so a caller
// can inline codec headers ahead of the first sample's bytes without
// ever touching the shared Payload slice.
type MediaData struct {
	Prefix  []byte
	Payload []byte
}

// shortSize is the box size counted with the 8-byte header; writeHeader
// takes this value and switches to the 16-byte largesize form past 32 bits.
func (m MediaData) shortSize() uint64 {
	return headerSize(0) + uint64(len(m.Prefix)) + uint64(len(m.Payload))
}

func (m MediaData) Size() uint64 {
	s := m.shortSize()
	if s > 0xFFFFFFFF {
		s += 8 // the largesize field
	}
	return s
}

func (m MediaData) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, m.shortSize(), bt("mdat"))
	if err != nil {
		return n, err
	}
	var n2 int
	if len(m.Prefix) > 0 {
		n2, err = w.Write(m.Prefix)
		if err != nil {
			return n + int64(n2), err
		}
	}
	n3, err := w.Write(m.Payload)
	return n + int64(n2) + int64(n3), err
}
