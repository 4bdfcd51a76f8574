package bmff

import "io"

// HandlerRef is the hdlr box declaring the media handler type; this
// module always writes the video handler ("vide").
type HandlerRef struct {
	HandlerType string // 4 chars, e.g. "vide"
	Name        string // human-readable, NUL-terminated on the wire
}

func NewVideoHandlerRef() HandlerRef {
	return HandlerRef{HandlerType: "vide", Name: "VideoHandler"}
}

func (h HandlerRef) bodySize() uint64 {
	// pre_defined(4) + handler_type(4) + reserved(12) + name + NUL
	return 4 + 4 + 12 + uint64(len(h.Name)) + 1
}

func (h HandlerRef) Size() uint64 {
	return headerSize(0) + fullBoxHeaderSize + h.bodySize()
}

func (h HandlerRef) WriteTo(w io.Writer) (int64, error) {
	total := h.Size()
	n, err := writeHeader(w, total, bt("hdlr"))
	if err != nil {
		return n, err
	}
	n2, err := writeFullBoxHeader(w, 0, 0)
	n += n2
	if err != nil {
		return n, err
	}
	body := make([]byte, h.bodySize())
	off := 4 // pre_defined = 0
	var ht [4]byte
	copy(ht[:], h.HandlerType)
	copy(body[off:off+4], ht[:])
	off += 4
	off += 12 // reserved
	copy(body[off:], h.Name)
	// trailing byte is already zero (NUL terminator)
	n3, err := w.Write(body)
	return n + int64(n3), err
}
