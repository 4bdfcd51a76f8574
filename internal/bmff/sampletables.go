package bmff

import "io"

// emptyTable is stts, stsc, stsz, and stco: in the streaming init segment
// all four are emitted empty because mvex/trex supply per-fragment
// defaults (spec.md §9 Open Questions). stsz additionally carries a
// sample_size(4)+sample_count(4) pair even when empty.
type emptyTable struct {
	name     string
	extraU32 int // additional zeroed u32 fields beyond entry_count (stsz needs one: sample_size)
}

func (e emptyTable) Size() uint64 {
	return headerSize(0) + fullBoxHeaderSize + 4 + uint64(e.extraU32)*4
}

func (e emptyTable) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, e.Size(), bt(e.name))
	if err != nil {
		return n, err
	}
	n2, err := writeFullBoxHeader(w, 0, 0)
	n += n2
	if err != nil {
		return n, err
	}
	body := make([]byte, 4+e.extraU32*4)
	n3, err := w.Write(body)
	return n + int64(n3), err
}

func newSTTS() Box { return emptyTable{name: "stts"} }
func newSTSC() Box { return emptyTable{name: "stsc"} }
func newSTCO() Box { return emptyTable{name: "stco"} }

// stsz has sample_size before entry_count; stsz{sample_size=0, count=0}
// means "use per-sample sizes from an accompanying table", which is
// vacuous here since there is no such table in a streaming init segment.
func newSTSZ() Box { return emptyTable{name: "stsz", extraU32: 1} }

// SampleTable is the stbl box: stsd plus the four empty tables above.
type SampleTable struct {
	Description SampleDescription
}

func (s SampleTable) children() []Box {
	return []Box{s.Description, newSTTS(), newSTSC(), newSTSZ(), newSTCO()}
}

func (s SampleTable) Size() uint64 {
	total := headerSize(0)
	for _, c := range s.children() {
		total += c.Size()
	}
	return total
}

func (s SampleTable) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, s.Size(), bt("stbl"))
	if err != nil {
		return n, err
	}
	for _, c := range s.children() {
		nc, err := c.WriteTo(w)
		n += nc
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
