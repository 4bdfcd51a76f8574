package fmp4

import "sync/atomic"

// SamplePayload is the concatenated encoded bitstream of one
// MediaSegment's samples, shared read-only across every subscriber so
// broadcasting a segment to N subscribers never copies the bytes N
// times. refs starts at 1, owned by whoever constructs the payload;
// each subscriber that retains a reference to the segment must Retain
// before handing it off to another goroutine and Release once it has
// finished reading Bytes().
type SamplePayload struct {
	bytes []byte
	refs  int32
}

// NewSamplePayload wraps b with an initial reference count of 1.
func NewSamplePayload(b []byte) *SamplePayload {
	return &SamplePayload{bytes: b, refs: 1}
}

// Retain increments the reference count and returns p, so callers can
// write `held := payload.Retain()`.
func (p *SamplePayload) Retain() *SamplePayload {
	atomic.AddInt32(&p.refs, 1)
	return p
}

// Release decrements the reference count. Once it reaches zero the
// backing slice is dropped so the garbage collector can reclaim it;
// Bytes must not be called again on this handle afterward.
func (p *SamplePayload) Release() {
	if atomic.AddInt32(&p.refs, -1) == 0 {
		p.bytes = nil
	}
}

// Bytes returns the underlying buffer. Callers must not mutate it:
// every retained reference observes the same backing array.
func (p *SamplePayload) Bytes() []byte {
	return p.bytes
}
