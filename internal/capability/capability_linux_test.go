//go:build linux

package capability

import (
	"testing"

	"github.com/blackjack/webcam"

	"github.com/camstream/camstreamd/internal/bmff"
)

func TestFourCCBytesRoundTripsThroughBmffFormat(t *testing.T) {
	for _, want := range []bmff.Format{bmff.FormatH264, bmff.FormatYUYV, bmff.FormatYV12, bmff.FormatRGB3, bmff.FormatBGR3} {
		cc := want.FourCC()
		pf := webcam.PixelFormat(uint32(cc[0]) | uint32(cc[1])<<8 | uint32(cc[2])<<16 | uint32(cc[3])<<24)
		got, ok := bmff.FormatFromFourCC(fourCCBytes(pf))
		if !ok || got != want {
			t.Fatalf("fourCCBytes round trip for %v: got %v ok=%v", want, got, ok)
		}
	}
}
