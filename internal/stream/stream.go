// Package stream turns one hub.Subscription into the lazy byte sequence
// described in spec.md §4.F: an init segment followed by media
// fragments, each rewritten with this subscriber's own cumulative byte
// offset and sequence number.
package stream

import (
	"bytes"
	"context"
	"io"

	"github.com/camstream/camstreamd/internal/config"
	"github.com/camstream/camstreamd/internal/fmp4"
	"github.com/camstream/camstreamd/internal/hub"
	"github.com/camstream/camstreamd/internal/streamerr"
)

// Session is the per-subscriber pull state from spec.md §4.F: an
// init segment taken at most once, a cumulative byte size, a next
// sequence number starting at 1, and a pending-headers flag cleared on
// the first media fragment. Grounded on call.webmSession.subscribeMedia's
// "replay the init artifact first, then forward live data" shape,
// generalized so each subscriber owns its state independently instead of
// sharing one session-wide cache.
type Session struct {
	sub hub.Subscription

	initSegment *fmp4.InitSegment
	initSent    bool

	headersPending bool

	cumulativeByteSize uint64
	nextSequenceNumber uint32
}

// New builds a Session for sub under cfg, the Config in effect when the
// subscriber joined. cfg must be the same generation's Config the Hub
// used to build sub's headers; the Streaming Session never re-reads the
// Config store itself.
func New(cfg config.Config, sub hub.Subscription) *Session {
	return &Session{
		sub:                sub,
		initSegment:        fmp4.NewInitSegment(cfg, sub.SPS, sub.PPS),
		headersPending:     len(sub.Headers) > 0,
		nextSequenceNumber: 1,
	}
}

// ID returns the subscriber identity the Hub assigned at subscribe time.
func (s *Session) ID() string { return s.sub.ID.String() }

// Next returns the next chunk of bytes in this subscriber's stream. The
// first call always returns the serialized init segment. Subsequent
// calls await the next MediaSegment from the Hub, rewriting its
// base_data_offset and sequence_number for this subscriber before
// serializing it. Next returns io.EOF, with no error, once the Hub ends
// this subscriber's generation (config change or producer restart);
// it returns ctx.Err() if ctx ends first.
func (s *Session) Next(ctx context.Context) ([]byte, error) {
	if !s.initSent {
		return s.writeInitSegment()
	}

	select {
	case seg, ok := <-s.sub.Segments:
		if !ok {
			return nil, io.EOF
		}
		return s.writeMediaSegment(seg)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Session) writeInitSegment() ([]byte, error) {
	s.initSent = true
	var buf bytes.Buffer
	if _, err := s.initSegment.WriteTo(&buf); err != nil {
		return nil, &streamerr.IoError{Op: "write init segment", Err: err}
	}
	s.cumulativeByteSize += uint64(buf.Len())
	return buf.Bytes(), nil
}

func (s *Session) writeMediaSegment(seg *fmp4.MediaSegment) ([]byte, error) {
	var headers []byte
	if s.headersPending {
		headers = s.sub.Headers
		s.headersPending = false
	}

	var buf bytes.Buffer
	_, err := seg.WriteTo(&buf, s.cumulativeByteSize, s.nextSequenceNumber, headers)
	seg.ReleasePayload()
	if err != nil {
		return nil, &streamerr.IoError{Op: "write media segment", Err: err}
	}

	s.nextSequenceNumber++
	s.cumulativeByteSize += uint64(buf.Len())
	return buf.Bytes(), nil
}

// Close detaches this subscriber from the Hub. Safe to call more than
// once; safe to call even if the subscriber's generation has already
// ended on its own.
func (s *Session) Close() {
	s.sub.Cancel()
}
