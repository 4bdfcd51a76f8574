//go:build linux

package capture

import (
	"testing"

	"github.com/camstream/camstreamd/internal/bmff"
)

func TestV4L2FourCCMatchesBmffFourCC(t *testing.T) {
	cases := []struct {
		format bmff.Format
		want   uint32
	}{
		{bmff.FormatH264, 0x34363248}, // "H264" little-endian packed
		{bmff.FormatYUYV, 0x56595559}, // "YUYV" little-endian packed
	}
	for _, c := range cases {
		got := uint32(v4l2FourCC(c.format))
		if got != c.want {
			t.Fatalf("v4l2FourCC(%v) = %#x, want %#x", c.format, got, c.want)
		}
	}
}

func TestNamedControlsCoverDocumentedNames(t *testing.T) {
	for _, name := range []string{"brightness", "contrast", "saturation", "hue", "gain", "sharpness", "exposure"} {
		if _, ok := NamedControls[name]; !ok {
			t.Fatalf("NamedControls missing documented control %q", name)
		}
	}
}
