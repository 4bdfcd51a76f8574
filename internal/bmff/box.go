// Package bmff implements byte-exact ISO/IEC 14496-12 (ISO-BMFF) box
// serialization for the fragmented-MP4 init and media segments this
// module emits. Every type here is a pure value: it holds exactly its
// semantic fields (no redundant length prefix) and knows how to measure
// and write itself.
package bmff

import "io"

// Box is anything that can report its own on-wire size and serialize
// itself. size() and WriteTo must agree exactly: WriteTo always writes
// Size() bytes, never more, never fewer.
type Box interface {
	// Size returns the total on-wire byte length, including the 8-byte
	// size|type header (or 16-byte largesize header) and, for full
	// boxes, the 4-byte version+flags field.
	Size() uint64
	WriteTo(w io.Writer) (int64, error)
}

// boxType is a 4-byte ISO-BMFF box type code, e.g. "ftyp", "moov".
type boxType [4]byte

func bt(s string) boxType {
	var t boxType
	copy(t[:], s)
	return t
}

// writeHeader writes the size|type (or 1|type|largesize) header per the
// framing rule in spec.md §4.A: sizes that fit in 32 bits use the short
// form; anything larger switches to the 64-bit largesize form.
func writeHeader(w io.Writer, totalSize uint64, t boxType) (int64, error) {
	if totalSize <= 0xFFFFFFFF {
		var hdr [8]byte
		putU32(hdr[0:4], uint32(totalSize))
		copy(hdr[4:8], t[:])
		n, err := w.Write(hdr[:])
		return int64(n), err
	}
	var hdr [16]byte
	putU32(hdr[0:4], 1)
	copy(hdr[4:8], t[:])
	putU64(hdr[8:16], totalSize+8) // +8: the largesize field itself
	n, err := w.Write(hdr[:])
	return int64(n), err
}

// headerSize returns how many bytes writeHeader will emit for totalSize.
func headerSize(totalSize uint64) uint64 {
	if totalSize <= 0xFFFFFFFF {
		return 8
	}
	return 16
}

// fullBoxHeaderSize is the version+flags field every "full box" carries
// immediately after its size|type header.
const fullBoxHeaderSize = 4

func writeFullBoxHeader(w io.Writer, version uint8, flags uint32) (int64, error) {
	var b [4]byte
	b[0] = version
	b[1] = byte(flags >> 16)
	b[2] = byte(flags >> 8)
	b[3] = byte(flags)
	n, err := w.Write(b[:])
	return int64(n), err
}

func putU16(b []byte, v uint16) { b[0] = byte(v >> 8); b[1] = byte(v) }
func putU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
func putU64(b []byte, v uint64) {
	putU32(b[0:4], uint32(v>>32))
	putU32(b[4:8], uint32(v))
}
func putS32(b []byte, v int32) { putU32(b, uint32(v)) }

// writeAll writes each chunk in order, returning the number of bytes
// written and stopping at the first error.
func writeAll(w io.Writer, chunks ...[]byte) (int64, error) {
	var total int64
	for _, c := range chunks {
		n, err := w.Write(c)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
