//go:build linux

package capability

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/blackjack/webcam"

	"github.com/camstream/camstreamd/internal/bmff"
	"github.com/camstream/camstreamd/internal/capture"
	"github.com/camstream/camstreamd/internal/config"
)

// enumerate opens every /dev/videoN node in turn and asks the driver
// what it supports, the same github.com/blackjack/webcam binding
// package capture uses to open the device the Hub actually captures
// from, so capability discovery can never disagree with what capture
// would negotiate.
func enumerate() (Capabilities, error) {
	paths, err := videoDevicePaths()
	if err != nil {
		return nil, err
	}

	caps := make(Capabilities, len(paths))
	for _, path := range paths {
		dev, err := probeDevice(path)
		if err != nil {
			continue
		}
		caps[path] = dev
	}
	return caps, nil
}

func videoDevicePaths() ([]string, error) {
	entries, err := os.ReadDir("/dev")
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if matched, _ := filepath.Match("video[0-9]*", e.Name()); matched {
			paths = append(paths, filepath.Join("/dev", e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func probeDevice(path string) (DeviceCapabilities, error) {
	cam, err := webcam.Open(path)
	if err != nil {
		return DeviceCapabilities{}, err
	}
	defer cam.Close()

	modes := make(map[bmff.Format]map[config.Resolution][]config.Rational)
	for pf := range cam.GetSupportedFormats() {
		format, ok := bmff.FormatFromFourCC(fourCCBytes(pf))
		if !ok {
			continue
		}
		resolutions := make(map[config.Resolution][]config.Rational)
		for _, fs := range cam.GetSupportedFrameSizes(pf) {
			res := config.Resolution{Width: fs.MaxWidth, Height: fs.MaxHeight}
			resolutions[res] = frameIntervals(cam, pf, fs.MaxWidth, fs.MaxHeight)
		}
		modes[format] = resolutions
	}

	controls := make(map[string]struct{}, len(capture.NamedControls))
	for name := range capture.NamedControls {
		controls[name] = struct{}{}
	}

	return DeviceCapabilities{Modes: modes, Controls: controls}, nil
}

func frameIntervals(cam *webcam.Camera, pf webcam.PixelFormat, w, h uint32) []config.Rational {
	rates, err := cam.GetSupportedFramerates(pf, w, h)
	if err != nil {
		return nil
	}
	out := make([]config.Rational, 0, len(rates))
	for _, r := range rates {
		out = append(out, config.Rational{Num: r.Numerator, Den: r.Denominator})
	}
	return out
}

func fourCCBytes(pf webcam.PixelFormat) [4]byte {
	v := uint32(pf)
	return [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
