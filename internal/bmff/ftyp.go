package bmff

import "io"

// CompatibleBrands lists every compatible brand this module ever writes:
// isom, iso6, iso2, avc1, mp41.
var CompatibleBrands = []string{"isom", "iso6", "iso2", "avc1", "mp41"}

// FileType is the ftyp box: major brand, minor version, compatible
// brand list.
type FileType struct {
	MajorBrand       string
	MinorVersion     uint32
	CompatibleBrands []string
}

// NewFileType builds the ftyp box this module emits for every init
// segment: major_brand "isom", the brands in CompatibleBrands.
func NewFileType() FileType {
	return FileType{
		MajorBrand:       "isom",
		MinorVersion:     0x200,
		CompatibleBrands: CompatibleBrands,
	}
}

func (f FileType) Size() uint64 {
	return headerSize(0) + 4 + 4 + uint64(4*len(f.CompatibleBrands))
}

func (f FileType) WriteTo(w io.Writer) (int64, error) {
	total := f.Size()
	n, err := writeHeader(w, total, bt("ftyp"))
	if err != nil {
		return n, err
	}
	body := make([]byte, 0, total-headerSize(0))
	var brand4 [4]byte
	copy(brand4[:], f.MajorBrand)
	body = append(body, brand4[:]...)
	var mv [4]byte
	putU32(mv[:], f.MinorVersion)
	body = append(body, mv[:]...)
	for _, b := range f.CompatibleBrands {
		var cb [4]byte
		copy(cb[:], b)
		body = append(body, cb[:]...)
	}
	n2, err := w.Write(body)
	return n + int64(n2), err
}
