package bmff

import "io"

// MovieFragmentHeader is the mfhd box: the per-subscriber monotonic
// sequence number (spec.md invariant: seq_k = k, starting at 1).
type MovieFragmentHeader struct {
	SequenceNumber uint32
}

func (m MovieFragmentHeader) Size() uint64 {
	return headerSize(0) + fullBoxHeaderSize + 4
}

func (m MovieFragmentHeader) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, m.Size(), bt("mfhd"))
	if err != nil {
		return n, err
	}
	n2, err := writeFullBoxHeader(w, 0, 0)
	n += n2
	if err != nil {
		return n, err
	}
	var body [4]byte
	putU32(body[:], m.SequenceNumber)
	n3, err := w.Write(body[:])
	return n + int64(n3), err
}
