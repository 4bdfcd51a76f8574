package bmff

import (
	"io"
	"time"
)

// TrackHeader is the tkhd box for the single video track (track_id=1)
// this module ever emits.
type TrackHeader struct {
	CreationTime     time.Time
	ModificationTime time.Time
	TrackID          uint32
	DurationScaled   uint64 // in the movie's timescale units; 0 for a live stream
	Width, Height    uint32 // 16.16 fixed-point pixel dimensions
	Matrix           Matrix
}

const tkhdEnabledFlags = 0x000007 // track enabled, in movie, in preview

func (t TrackHeader) version() uint8 {
	return timeVersion(mp4Time(t.CreationTime), mp4Time(t.ModificationTime), t.DurationScaled)
}

func (t TrackHeader) bodySize() uint64 {
	v := t.version()
	timeFieldSize := uint64(4)
	durationSize := uint64(4)
	if v == 1 {
		timeFieldSize = 8
		durationSize = 8
	}
	// creation+modification(2*timeFieldSize) + track_id(4) + reserved(4) +
	// duration(durationSize) + reserved(8) + layer(2) + alternate_group(2) +
	// volume(2) + reserved(2) + matrix(36) + width(4) + height(4)
	return 2*timeFieldSize + 4 + 4 + durationSize + 8 + 2 + 2 + 2 + 2 + 36 + 4 + 4
}

func (t TrackHeader) Size() uint64 {
	return headerSize(0) + fullBoxHeaderSize + t.bodySize()
}

func (t TrackHeader) WriteTo(w io.Writer) (int64, error) {
	total := t.Size()
	n, err := writeHeader(w, total, bt("tkhd"))
	if err != nil {
		return n, err
	}
	v := t.version()
	n2, err := writeFullBoxHeader(w, v, tkhdEnabledFlags)
	n += n2
	if err != nil {
		return n, err
	}
	body := make([]byte, t.bodySize())
	off := 0
	putTime := func(x uint64, wide bool) {
		if wide {
			putU64(body[off:off+8], x)
			off += 8
		} else {
			putU32(body[off:off+4], uint32(x))
			off += 4
		}
	}
	putTime(mp4Time(t.CreationTime), v == 1)
	putTime(mp4Time(t.ModificationTime), v == 1)
	putU32(body[off:off+4], t.TrackID)
	off += 4
	off += 4 // reserved
	putTime(t.DurationScaled, v == 1)
	off += 8 // reserved
	off += 2 // layer = 0
	off += 2 // alternate_group = 0
	off += 2 // volume = 0 (video track)
	off += 2 // reserved
	t.Matrix.writeTo(body[off : off+36])
	off += 36
	putU32(body[off:off+4], t.Width<<16)
	off += 4
	putU32(body[off:off+4], t.Height<<16)
	off += 4
	n3, err := w.Write(body)
	return n + int64(n3), err
}
