package bmff

import "io"

// AvcConfigurationRecord is the avcC box body: the AVCDecoderConfigurationRecord
// carrying exactly one SPS and one PPS, per spec.md §4.A.
type AvcConfigurationRecord struct {
	ProfileIDC        uint8
	ConstraintSetFlag uint8
	LevelIDC          uint8
	SPS               []byte
	PPS               []byte
}

// lengthSizeMinusOne is always 3 (4-byte NAL length prefixes) for the
// samples this module produces.
const lengthSizeMinusOne = 3

func (a AvcConfigurationRecord) bodySize() uint64 {
	// version(1) + profile(1) + constraint(1) + level(1) + lengthSize-byte(1) +
	// numSPS-byte(1) + sps_len(2) + sps + numPPS-byte(1) + pps_len(2) + pps
	return 1 + 1 + 1 + 1 + 1 + 1 + 2 + uint64(len(a.SPS)) + 1 + 2 + uint64(len(a.PPS))
}

func (a AvcConfigurationRecord) Size() uint64 {
	return headerSize(0) + a.bodySize()
}

func (a AvcConfigurationRecord) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, a.Size(), bt("avcC"))
	if err != nil {
		return n, err
	}
	body := make([]byte, 0, a.bodySize())
	body = append(body, 1, a.ProfileIDC, a.ConstraintSetFlag, a.LevelIDC)
	body = append(body, 0xFC|lengthSizeMinusOne) // 6 reserved bits + lengthSizeMinusOne
	body = append(body, 0xE0|1)                  // 3 reserved bits + numOfSPS=1
	var spsLen [2]byte
	putU16(spsLen[:], uint16(len(a.SPS)))
	body = append(body, spsLen[:]...)
	body = append(body, a.SPS...)
	body = append(body, 1) // numOfPPS = 1
	var ppsLen [2]byte
	putU16(ppsLen[:], uint16(len(a.PPS)))
	body = append(body, ppsLen[:]...)
	body = append(body, a.PPS...)
	n2, err := w.Write(body)
	return n + int64(n2), err
}

// Avc1SampleEntry is the avc1 box: a visual sample entry wrapping an
// AvcConfigurationRecord.
type Avc1SampleEntry struct {
	Width, Height uint16
	Config        AvcConfigurationRecord
}

func (e Avc1SampleEntry) bodySize() uint64 {
	// reserved(6) + data_reference_index(2) + pre_defined(2) + reserved(2) +
	// pre_defined(12) + width(2) + height(2) + horizresolution(4) +
	// vertresolution(4) + reserved(4) + frame_count(2) + compressorname(32) +
	// depth(2) + pre_defined(2) = 78 fixed bytes, then avcC.
	return 78 + e.Config.Size()
}

func (e Avc1SampleEntry) Size() uint64 {
	return headerSize(0) + e.bodySize()
}

func (e Avc1SampleEntry) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, e.Size(), bt("avc1"))
	if err != nil {
		return n, err
	}
	body := make([]byte, 78)
	off := 6                    // reserved
	putU16(body[off:off+2], 1)  // data_reference_index = 1
	off += 2
	off += 2 + 2 // pre_defined, reserved
	off += 12    // pre_defined[3]
	putU16(body[off:off+2], e.Width)
	off += 2
	putU16(body[off:off+2], e.Height)
	off += 2
	putU32(body[off:off+4], 0x00480000) // horizresolution = 72 dpi
	off += 4
	putU32(body[off:off+4], 0x00480000) // vertresolution = 72 dpi
	off += 4
	off += 4                   // reserved
	putU16(body[off:off+2], 1) // frame_count = 1
	off += 2
	off += 32                       // compressorname (empty Pascal string)
	putU16(body[off:off+2], 0x0018) // depth = 24
	off += 2
	putU16(body[off:off+2], 0xFFFF) // pre_defined = -1
	off += 2
	n2, err := w.Write(body)
	n += int64(n2)
	if err != nil {
		return n, err
	}
	n3, err := e.Config.WriteTo(w)
	return n + n3, err
}

// SampleDescription is the stsd box wrapping exactly one Avc1SampleEntry.
type SampleDescription struct {
	Entry Avc1SampleEntry
}

func (s SampleDescription) Size() uint64 {
	return headerSize(0) + fullBoxHeaderSize + 4 + s.Entry.Size()
}

func (s SampleDescription) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, s.Size(), bt("stsd"))
	if err != nil {
		return n, err
	}
	n2, err := writeFullBoxHeader(w, 0, 0)
	n += n2
	if err != nil {
		return n, err
	}
	var cnt [4]byte
	putU32(cnt[:], 1)
	n3, err := w.Write(cnt[:])
	n += int64(n3)
	if err != nil {
		return n, err
	}
	n4, err := s.Entry.WriteTo(w)
	return n + n4, err
}
