package bmff

import (
	"io"
	"time"
)

// MovieHeader is the mvhd box: one per moov, declaring the movie
// timescale and the rotation matrix applied to every track.
type MovieHeader struct {
	CreationTime     time.Time
	ModificationTime time.Time
	Timescale        uint32
	DurationSeconds  float64
	Matrix           Matrix
	NextTrackID      uint32
}

func (m MovieHeader) version() uint8 {
	return timeVersion(mp4Time(m.CreationTime), mp4Time(m.ModificationTime),
		scaledDuration(m.DurationSeconds, m.Timescale))
}

func (m MovieHeader) bodySize() uint64 {
	v := m.version()
	timeFieldSize := uint64(4)
	if v == 1 {
		timeFieldSize = 8
	}
	durationSize := timeFieldSize
	// creation_time, modification_time, duration share width; timescale
	// is always 4 bytes.
	fixed := timeFieldSize*2 + 4 + durationSize
	// rate(4) + volume(2) + reserved(2) + reserved(8) + matrix(36) +
	// predefined(24) + next_track_id(4)
	fixed += 4 + 2 + 2 + 8 + 36 + 24 + 4
	return fixed
}

func (m MovieHeader) Size() uint64 {
	return headerSize(0) + fullBoxHeaderSize + m.bodySize()
}

func (m MovieHeader) WriteTo(w io.Writer) (int64, error) {
	total := m.Size()
	n, err := writeHeader(w, total, bt("mvhd"))
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
	putTime := func(t uint64) {
		if v == 1 {
			putU64(body[off:off+8], t)
			off += 8
		} else {
			putU32(body[off:off+4], uint32(t))
			off += 4
		}
	}
	putTime(mp4Time(m.CreationTime))
	putTime(mp4Time(m.ModificationTime))
	putU32(body[off:off+4], m.Timescale)
	off += 4
	putTime(scaledDuration(m.DurationSeconds, m.Timescale))
	putU32(body[off:off+4], 0x00010000) // rate = 1.0
	off += 4
	putU16(body[off:off+2], 0x0100) // volume = 1.0
	off += 2
	off += 2 + 8 // reserved
	m.Matrix.writeTo(body[off : off+36])
	off += 36
	off += 24 // predefined
	putU32(body[off:off+4], m.NextTrackID)
	off += 4
	n3, err := w.Write(body)
	return n + int64(n3), err
}
