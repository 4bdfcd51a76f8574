// Package hub owns the single, long-lived generation loop described in
// spec.md §4.E: it opens one Frame Source and Segment Producer per
// Config generation and fans out every produced MediaSegment to however
// many subscribers are currently attached, on one dedicated OS thread.
package hub

import (
	"context"
	"log"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/camstream/camstreamd/internal/capture"
	"github.com/camstream/camstreamd/internal/config"
	"github.com/camstream/camstreamd/internal/encode"
	"github.com/camstream/camstreamd/internal/fmp4"
	"github.com/camstream/camstreamd/internal/streamerr"
)

// subscriberBuffer is the per-subscriber segment channel depth. A slow
// subscriber that falls this far behind drops segments rather than
// stalling the Hub's broadcast, per spec.md §4.E step d.
const subscriberBuffer = 8

// unsubscribeBuffer bounds how many pending cancellations the Hub can
// queue before a Cancel call is dropped; sized well above any realistic
// concurrent subscriber count so a Cancel reliably lands.
const unsubscribeBuffer = 256

// Subscription is handed back to a caller of Hub.Subscribe. ID identifies
// this subscriber for logging; Headers are the encoder's codec-prefix
// bytes snapshotted at the start of the current generation; SPS/PPS are
// that same generation's raw AVC parameter sets for InitSegment's avcC;
// Config is the exact Config the Hub used to build all three, so a
// caller never needs to re-read the Config store itself and risk it
// disagreeing with this generation. Segments delivers every MediaSegment
// broadcast from this point on, except those dropped while its
// subscriberBuffer slots are full, closing when the generation ends
// (config change, producer failure, or Hub stop).
type Subscription struct {
	ID       uuid.UUID
	Headers  []byte
	SPS, PPS []byte
	Config   config.Config
	Segments <-chan *fmp4.MediaSegment

	cancel func()
}

// Cancel detaches this subscription. The Hub reaps it on its next
// broadcast without blocking any other subscriber.
func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

type subscribeRequest struct {
	reply chan Subscription
}

// Hub is the single subscription fan-out point for one stream. The zero
// value is not usable; construct with New.
type Hub struct {
	subscribeCh   chan subscribeRequest
	unsubscribeCh chan chan *fmp4.MediaSegment
	stopped       chan struct{}

	openSource  func(cfg config.Config) (capture.FrameSource, error)
	newProducer func(cfg config.Config, source capture.FrameSource) (encode.Producer, error)
}

// New constructs a Hub. Run must be called exactly once, on its own
// goroutine, to start the generation loop.
func New() *Hub {
	return &Hub{
		subscribeCh:   make(chan subscribeRequest),
		unsubscribeCh: make(chan chan *fmp4.MediaSegment, unsubscribeBuffer),
		stopped:       make(chan struct{}),
		openSource:    capture.Open,
		newProducer:   newProducer,
	}
}

// newProducer selects the Segment Producer variant for cfg, per
// spec.md §4.D: hardware passthrough when the device already emits
// H264, software encode otherwise.
func newProducer(cfg config.Config, source capture.FrameSource) (encode.Producer, error) {
	if strings.EqualFold(cfg.FormatName, "H264") {
		return encode.NewPassthroughProducer(cfg, source), nil
	}
	return encode.NewX264Producer(cfg, source)
}

// Subscribe registers a new subscriber with the Hub's generation loop and
// blocks until it replies or ctx is done. It returns streamerr.ChannelClosed
// if the Hub has already stopped.
func (h *Hub) Subscribe(ctx context.Context) (Subscription, error) {
	reply := make(chan Subscription, 1)
	select {
	case h.subscribeCh <- subscribeRequest{reply: reply}:
	case <-h.stopped:
		return Subscription{}, &streamerr.ChannelClosed{}
	case <-ctx.Done():
		return Subscription{}, ctx.Err()
	}

	select {
	case sub := <-reply:
		return sub, nil
	case <-h.stopped:
		return Subscription{}, &streamerr.ChannelClosed{}
	case <-ctx.Done():
		return Subscription{}, ctx.Err()
	}
}

// Run executes the generation loop until ctx is done or a generation
// fails to start (capture open or producer construction). It locks the calling goroutine to its OS
// thread for its whole lifetime, per spec.md §5: V4L2 capture and x264
// encoding block synchronously and must not share a thread the Go
// scheduler multiplexes onto cooperative-side work. Run is grounded on
// call.Manager's single-owner dispatch loop, generalized from routing
// signaling envelopes to one session to broadcasting segments to N.
func (h *Hub) Run(ctx context.Context, initial config.Config, updates <-chan config.Config) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(h.stopped)

	cfg := initial
	for {
		if ctx.Err() != nil {
			return
		}

		source, err := h.openSource(cfg)
		if err != nil {
			log.Printf("hub: open capture: %v", err)
			return
		}
		producer, err := h.newProducer(cfg, source)
		if err != nil {
			log.Printf("hub: build producer: %v", err)
			source.Close()
			return
		}
		headers := producer.Headers()
		sps, pps := producer.Parameters()

		next, ok := h.runGeneration(ctx, cfg, producer, headers, sps, pps, updates)
		producer.Close()
		if !ok {
			return
		}
		cfg = next
	}
}

type segmentResult struct {
	seg *fmp4.MediaSegment
	err error
}

// runGeneration runs steps 2a-2d of spec.md §4.E for one Config
// generation. It returns the Config to start the next generation with,
// and false when the Hub should stop entirely (ctx done).
//
// The producer's blocking NextSegment call runs on its own goroutine,
// reporting back on a result channel the select below also watches
// alongside the config/subscribe/unsubscribe channels — so a subscribe
// or config update is serviced the moment it arrives rather than only
// at the next segment boundary, while still broadcasting segments to
// subscribers strictly in producer order. The same "spawn a goroutine,
// race it against ctx.Done() via select" shape the v4l2 capture path
// uses for WaitForFrame/ReadFrame.
func (h *Hub) runGeneration(
	ctx context.Context,
	cfg config.Config,
	producer encode.Producer,
	headers []byte,
	sps, pps []byte,
	updates <-chan config.Config,
) (config.Config, bool) {
	subs := make(map[chan *fmp4.MediaSegment]struct{})
	defer func() {
		for ch := range subs {
			close(ch)
		}
	}()

	for {
		results := make(chan segmentResult, 1)
		go func() {
			seg, err := producer.NextSegment(ctx)
			results <- segmentResult{seg: seg, err: err}
		}()

		result, restart, cfg2, alive := h.waitForSegment(ctx, subs, cfg, headers, sps, pps, updates, results)
		if !alive {
			return config.Config{}, false
		}
		if restart {
			return cfg2, true
		}
		if result.err != nil {
			log.Printf("hub: producer error, restarting generation: %v", result.err)
			return cfg, true
		}

		// 2d: broadcast by reference-counted clone to every subscriber.
		for ch := range subs {
			result.seg.RetainPayload()
			select {
			case ch <- result.seg:
			default:
				result.seg.ReleasePayload()
			}
		}
	}
}

// waitForSegment services 2a/2b (config and subscribe polling, now
// genuinely concurrent rather than merely non-blocking) until results
// delivers the next segment or ctx ends.
func (h *Hub) waitForSegment(
	ctx context.Context,
	subs map[chan *fmp4.MediaSegment]struct{},
	cfg config.Config,
	headers []byte,
	sps, pps []byte,
	updates <-chan config.Config,
	results chan segmentResult,
) (res segmentResult, restart bool, nextCfg config.Config, alive bool) {
	for {
		select {
		case <-ctx.Done():
			return segmentResult{}, false, config.Config{}, false

		case next := <-updates:
			return segmentResult{}, true, next, true

		case req := <-h.subscribeCh:
			ch := make(chan *fmp4.MediaSegment, subscriberBuffer)
			subs[ch] = struct{}{}
			req.reply <- Subscription{
				ID:       uuid.New(),
				Headers:  headers,
				SPS:      sps,
				PPS:      pps,
				Config:   cfg,
				Segments: ch,
				cancel:   h.cancelFunc(ch),
			}

		case ch := <-h.unsubscribeCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case r := <-results:
			return r, false, config.Config{}, true
		}
	}
}

// cancelFunc returns the Cancel closure handed back in a Subscription. It
// is safe to call more than once and safe to call after the generation
// that created ch has already ended.
func (h *Hub) cancelFunc(ch chan *fmp4.MediaSegment) func() {
	var done bool
	return func() {
		if done {
			return
		}
		done = true
		select {
		case h.unsubscribeCh <- ch:
		default:
		}
	}
}
