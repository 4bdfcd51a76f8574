package bmff

import (
	"io"
	"time"
)

// MediaHeader is the mdhd box: media timescale, duration, and packed
// ISO-639-2 language code.
type MediaHeader struct {
	CreationTime     time.Time
	ModificationTime time.Time
	Timescale        uint32
	DurationScaled   uint64
	Language         [3]byte // e.g. {'u','n','d'}
}

func (m MediaHeader) version() uint8 {
	return timeVersion(mp4Time(m.CreationTime), mp4Time(m.ModificationTime), m.DurationScaled)
}

func (m MediaHeader) bodySize() uint64 {
	v := m.version()
	timeFieldSize := uint64(4)
	durationSize := uint64(4)
	if v == 1 {
		timeFieldSize, durationSize = 8, 8
	}
	// creation+modification + timescale(4) + duration + language(2) + pre_defined(2)
	return 2*timeFieldSize + 4 + durationSize + 2 + 2
}

func (m MediaHeader) Size() uint64 {
	return headerSize(0) + fullBoxHeaderSize + m.bodySize()
}

func (m MediaHeader) WriteTo(w io.Writer) (int64, error) {
	total := m.Size()
	n, err := writeHeader(w, total, bt("mdhd"))
	if err != nil {
		return n, err
	}
	v := m.version()
	n2, err := writeFullBoxHeader(w, v, 0)
	n += n2
	if err != nil {
		return n, err
	}
	body := make([]byte, m.bodySize())
	off := 0
	putTime := func(x uint64) {
		if v == 1 {
			putU64(body[off:off+8], x)
			off += 8
		} else {
			putU32(body[off:off+4], uint32(x))
			off += 4
		}
	}
	putTime(mp4Time(m.CreationTime))
	putTime(mp4Time(m.ModificationTime))
	putU32(body[off:off+4], m.Timescale)
	off += 4
	putTime(m.DurationScaled)
	putU16(body[off:off+2], packLanguage(m.Language))
	off += 2
	off += 2 // pre_defined
	n3, err := w.Write(body)
	return n + int64(n3), err
}
