// Package streamerr defines the error taxonomy shared across the
// capture, encode, hub, stream, and capability packages, in the
// teacher's sentinel-plus-wrapped-cause style.
package streamerr

import "fmt"

// IoError wraps any underlying byte-sink or file error surfaced to the
// caller pulling bytes from a Streaming Session.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string { return fmt.Sprintf("fmp4 io: %s: %v", e.Op, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// CameraError covers device open, control enumeration, or capture start
// failure. Fatal to the current generation.
type CameraError struct {
	Device string
	Op     string
	Err    error
}

func (e *CameraError) Error() string {
	return fmt.Sprintf("camera %s: %s: %v", e.Device, e.Op, e.Err)
}
func (e *CameraError) Unwrap() error { return e.Err }

// EncodingError covers encoder setup or per-frame encode failure. Same
// generation-fatal policy as CameraError.
type EncodingError struct {
	Op  string
	Err error
}

func (e *EncodingError) Error() string { return fmt.Sprintf("encode: %s: %v", e.Op, e.Err) }
func (e *EncodingError) Unwrap() error { return e.Err }

// ConfigRejected is returned only by Capability Discovery, never by the
// Hub, naming the first predicate of spec order that a Config violates.
type ConfigRejected struct {
	Predicate string
	Reason    string
}

func (e *ConfigRejected) Error() string {
	return fmt.Sprintf("config rejected: %s: %s", e.Predicate, e.Reason)
}

// ChannelClosed reports a subscription request whose Hub end is gone;
// the HTTP layer surfaces this as 503 Service Unavailable.
type ChannelClosed struct{}

func (e *ChannelClosed) Error() string { return "stream channel closed" }
