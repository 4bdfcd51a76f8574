// Package fmp4 composes bmff box trees into the two values a live stream
// is built from: one InitSegment per generation, and one MediaSegment per
// 60-frame batch of encoded samples.
package fmp4

import "github.com/camstream/camstreamd/internal/bmff"

// defaultSPS and defaultPPS are the bit-exact AVC parameter sets for the
// baseline high-profile preset (profile_idc=0x64, level_idc=0x1f) this
// module's encoder always targets.
var (
	defaultSPS = []byte{
		0x67, 0x64, 0x00, 0x1f, 0xac, 0xd9, 0x80, 0x50, 0x05, 0xbb, 0x01, 0x6a,
		0x02, 0x02, 0x02, 0x80, 0x00, 0x00, 0x03, 0x00, 0x80, 0x00, 0x00, 0x1e,
		0x07, 0x8c, 0x18, 0xcd,
	}
	defaultPPS = []byte{0x68, 0xe9, 0x7b, 0x2c, 0x8b}
)

const (
	avcProfileHigh = 0x64
	avcLevel31     = 0x1f
)

// avcConfig builds the avcC box body from sps/pps, the generation's
// actual AVC parameter sets as produced by encode.Producer.Parameters.
// Either falls back to this module's baseline constants when empty,
// which happens for the hardware passthrough producer: a device that
// already emits H264 is never asked to surface its own parameter sets,
// so the init segment advertises the same baseline profile/level the
// rest of the module assumes.
func avcConfig(sps, pps []byte) bmff.AvcConfigurationRecord {
	if len(sps) == 0 {
		sps = defaultSPS
	}
	if len(pps) == 0 {
		pps = defaultPPS
	}
	return bmff.AvcConfigurationRecord{
		ProfileIDC:        avcProfileHigh,
		ConstraintSetFlag: 0,
		LevelIDC:          avcLevel31,
		SPS:               sps,
		PPS:               pps,
	}
}
