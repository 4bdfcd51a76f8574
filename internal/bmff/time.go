package bmff

import "time"

// mp4Epoch is 1904-01-01 UTC, the ISO-BMFF reference epoch for
// creation_time/modification_time fields.
var mp4Epoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

// mp4Time converts a UTC time.Time to seconds since the ISO-BMFF epoch.
func mp4Time(t time.Time) uint64 {
	return uint64(t.Sub(mp4Epoch).Seconds())
}

// timeVersion implements the version promotion rule: version 1 iff any
// of creation, modification, or the scaled duration exceeds 2^32-1;
// version 0 otherwise. Field widths (4 vs 8 bytes for the time fields,
// 4 vs 8 bytes for duration) switch accordingly by the caller.
func timeVersion(creation, modification, durationScaled uint64) uint8 {
	const max32 = 0xFFFFFFFF
	if creation > max32 || modification > max32 || durationScaled > max32 {
		return 1
	}
	return 0
}

// scaledDuration rounds a duration in seconds to units of timescale, per
// spec.md §4.A: duration_scaled = round(duration_seconds * timescale).
func scaledDuration(durationSeconds float64, timescale uint32) uint64 {
	return uint64(durationSeconds*float64(timescale) + 0.5)
}

// packLanguage encodes 3 ISO-639-2 lowercase letters as mdhd's
// 0b0 aaaaa bbbbb ccccc bitfield; letter value = byte - 0x60.
func packLanguage(lang [3]byte) uint16 {
	a := uint16(lang[0] - 0x60)
	b := uint16(lang[1] - 0x60)
	c := uint16(lang[2] - 0x60)
	return (a << 10) | (b << 5) | c
}

// unpackLanguage is the inverse of packLanguage.
func unpackLanguage(v uint16) [3]byte {
	a := byte((v>>10)&0x1F) + 0x60
	b := byte((v>>5)&0x1F) + 0x60
	c := byte(v&0x1F) + 0x60
	return [3]byte{a, b, c}
}
