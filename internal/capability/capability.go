// Package capability implements spec.md §4.G: enumerating what a
// device can actually do, and validating a Config against that
// enumeration before the Hub ever opens it. Validation is pure and
// platform-independent; enumeration is delegated to a build-tagged
// discover function the same way package capture splits Open across
// capture_linux.go/capture_other.go.
package capability

import (
	"github.com/camstream/camstreamd/internal/bmff"
	"github.com/camstream/camstreamd/internal/config"
	"github.com/camstream/camstreamd/internal/streamerr"
)

// DeviceCapabilities is everything one device reports: the formats,
// resolutions, and intervals its driver supports, plus the control
// names package capture can apply. Controls is the same fixed list
// (capture.NamedControls) for every device; the driver's own control
// list is not queried.
type DeviceCapabilities struct {
	Modes    map[bmff.Format]map[config.Resolution][]config.Rational
	Controls map[string]struct{}
}

// Capabilities maps a device path to what it supports, the exact shape
// spec.md §4.G's enumerate() returns.
type Capabilities map[string]DeviceCapabilities

// Enumerate probes every attached device this platform can see and
// reports its Capabilities. On non-Linux platforms it always fails;
// V4L2 enumeration is Linux-specific, same split as package capture.
func Enumerate() (Capabilities, error) {
	return enumerate()
}

// Validate checks cfg against caps in the exact predicate order
// spec.md §4.G specifies, returning a ConfigRejected naming the first
// one violated. It does no device I/O; caps must already be the result
// of a prior Enumerate call (or, in tests, a hand-built fixture).
func Validate(cfg config.Config, caps Capabilities) error {
	dev, ok := caps[cfg.Device]
	if !ok {
		return &streamerr.ConfigRejected{
			Predicate: "device",
			Reason:    "device " + cfg.Device + " is not among the enumerated devices",
		}
	}

	resolutions, ok := dev.Modes[cfg.Format]
	if !ok {
		return &streamerr.ConfigRejected{
			Predicate: "format",
			Reason:    "device " + cfg.Device + " does not support this format",
		}
	}

	intervals, ok := resolutions[cfg.Resolution]
	if !ok {
		return &streamerr.ConfigRejected{
			Predicate: "resolution",
			Reason:    "device " + cfg.Device + " does not support this resolution for this format",
		}
	}

	if !containsInterval(intervals, cfg.Interval) {
		return &streamerr.ConfigRejected{
			Predicate: "interval",
			Reason:    "device " + cfg.Device + " does not support this interval for this format/resolution",
		}
	}

	for name := range cfg.Controls {
		if _, ok := dev.Controls[name]; !ok {
			return &streamerr.ConfigRejected{
				Predicate: "controls",
				Reason:    "device " + cfg.Device + " has no control named " + name,
			}
		}
	}

	return nil
}

func containsInterval(intervals []config.Rational, want config.Rational) bool {
	for _, iv := range intervals {
		if iv == want {
			return true
		}
	}
	return false
}
