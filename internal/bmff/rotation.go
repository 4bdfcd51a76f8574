package bmff

// Rotation is one of the four orientations a Config may request. mvhd and
// tkhd both carry a 3x3 16.16 fixed-point transform matrix reflecting it.
type Rotation uint8

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// Matrix is the 9-entry row-major transform ISO-BMFF stores in mvhd/tkhd,
// held here as the raw two's-complement bit patterns the spec's constant
// table defines — not a general-purpose fixed-point type.
type Matrix [9]int32

const w1 = 0x4000 // w-column unity constant shared by every rotation

var matrixByRotation = map[Rotation]Matrix{
	Rotate0:   {1, 0, 0, 0, 1, 0, 0, 0, w1},
	Rotate90:  {0, 1, 0, -w1, 0, 0, 0, 0, w1},
	Rotate180: {-w1, 0, 0, 0, w1, 0, 0, 0, w1},
	Rotate270: {0, -w1, 0, 1, 0, 0, 0, 0, w1},
}

// MatrixFor returns the fixed transform matrix for r.
func MatrixFor(r Rotation) Matrix {
	m, ok := matrixByRotation[r]
	if !ok {
		panic("bmff: unknown Rotation")
	}
	return m
}

// RotationFromMatrix is the inverse of MatrixFor; MatrixFor(r) fed back
// through this always yields r, and RotationFromMatrix(MatrixFor(Rotate0))
// is the identity transform's rotation, Rotate0.
func RotationFromMatrix(m Matrix) (Rotation, bool) {
	for r, known := range matrixByRotation {
		if known == m {
			return r, true
		}
	}
	return 0, false
}

func (m Matrix) writeTo(b []byte) {
	for i, v := range m {
		putS32(b[i*4:i*4+4], v)
	}
}
