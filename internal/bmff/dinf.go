package bmff

import "io"

// dataEntryURL is the "url " box inside dref, with the self-contained
// flag set (flags=1) so it carries no location string.
type dataEntryURL struct{}

func (dataEntryURL) Size() uint64 { return headerSize(0) + fullBoxHeaderSize }

func (d dataEntryURL) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, d.Size(), bt("url "))
	if err != nil {
		return n, err
	}
	n2, err := writeFullBoxHeader(w, 0, 1)
	return n + n2, err
}

// DataRef is the dref box: one self-contained "url " entry.
type DataRef struct{}

func (d DataRef) entry() dataEntryURL { return dataEntryURL{} }

func (d DataRef) Size() uint64 {
	return headerSize(0) + fullBoxHeaderSize + 4 + d.entry().Size()
}

func (d DataRef) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, d.Size(), bt("dref"))
	if err != nil {
		return n, err
	}
	n2, err := writeFullBoxHeader(w, 0, 0)
	n += n2
	if err != nil {
		return n, err
	}
	var cnt [4]byte
	putU32(cnt[:], 1)
	n3, err := w.Write(cnt[:])
	n += int64(n3)
	if err != nil {
		return n, err
	}
	n4, err := d.entry().WriteTo(w)
	return n + n4, err
}

// DataInfo is the dinf box wrapping DataRef.
type DataInfo struct{}

func (d DataInfo) ref() DataRef { return DataRef{} }

func (d DataInfo) Size() uint64 {
	return headerSize(0) + d.ref().Size()
}

func (d DataInfo) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, d.Size(), bt("dinf"))
	if err != nil {
		return n, err
	}
	n2, err := d.ref().WriteTo(w)
	return n + n2, err
}
