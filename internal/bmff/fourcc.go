package bmff

import "fmt"

// Format identifies a pixel or codec FourCC as carried in a Config. The
// five variants are the only ones this module's capture/encode pipeline
// ever produces or accepts.
type Format uint32

const (
	FormatH264 Format = iota
	FormatYUYV
	FormatYV12
	FormatRGB3
	FormatBGR3
)

var formatFourCC = map[Format][4]byte{
	FormatH264: {'H', '2', '6', '4'},
	FormatYUYV: {'Y', 'U', 'Y', 'V'},
	FormatYV12: {'Y', 'V', '1', '2'},
	FormatRGB3: {'R', 'G', 'B', '3'},
	FormatBGR3: {'B', 'G', 'R', '3'},
}

// FourCC returns the 4-byte ASCII code for f.
func (f Format) FourCC() [4]byte {
	cc, ok := formatFourCC[f]
	if !ok {
		panic(fmt.Sprintf("bmff: unknown Format %d", f))
	}
	return cc
}

// FormatFromFourCC is the inverse of FourCC; round-tripping any of the
// five known codes through FourCC and FormatFromFourCC is the identity.
func FormatFromFourCC(cc [4]byte) (Format, bool) {
	for f, known := range formatFourCC {
		if known == cc {
			return f, true
		}
	}
	return 0, false
}

func (f Format) String() string {
	cc := f.FourCC()
	return string(cc[:])
}
