package block

import (
	"fmt"

	"github.com/taurusgroup/psi-psu/pkg/protoerr"
)

// BitMatrix is a rows×cols matrix of bits, stored row-major: bit (r,c)
// lives at byte r*cols/8 + c/8, bit position c%8 counted MSB-first (mask
// 0x80>>(c%8)). This exact addressing is a hard interface contract — the
// OT-extension key derivation is brittle to byte-endian choice here.
type BitMatrix struct {
	Rows, Cols int
	Data       []byte
}

// NewBitMatrix allocates a zeroed Rows×Cols matrix. rows and cols must both
// be multiples of 8.
func NewBitMatrix(rows, cols int) (*BitMatrix, error) {
	if err := checkDims8(rows, cols); err != nil {
		return nil, err
	}
	return &BitMatrix{Rows: rows, Cols: cols, Data: make([]byte, rows*cols/8)}, nil
}

func checkDims8(rows, cols int) error {
	if rows%8 != 0 || cols%8 != 0 {
		return fmt.Errorf("block: dimensions must be multiples of 8, got rows=%d cols=%d: %w", rows, cols, protoerr.ErrDimension)
	}
	return nil
}

func checkDims16(rows, cols int) error {
	if rows%16 != 0 || cols%16 != 0 {
		return fmt.Errorf("block: dimensions must be multiples of 16 for the vectorized path, got rows=%d cols=%d: %w", rows, cols, protoerr.ErrDimension)
	}
	return nil
}

// GetBit reads bit (r,c), MSB-first within its byte.
func (m *BitMatrix) GetBit(r, c int) bool {
	idx := r*m.Cols/8 + c/8
	mask := byte(0x80) >> uint(c%8)
	return m.Data[idx]&mask != 0
}

// SetBit sets or clears bit (r,c), MSB-first within its byte.
func (m *BitMatrix) SetBit(r, c int, v bool) {
	idx := r*m.Cols/8 + c/8
	mask := byte(0x80) >> uint(c%8)
	if v {
		m.Data[idx] |= mask
	} else {
		m.Data[idx] &^= mask
	}
}

// Row returns row r as a freshly-copied byte slice of length Cols/8.
func (m *BitMatrix) Row(r int) []byte {
	start := r * m.Cols / 8
	out := make([]byte, m.Cols/8)
	copy(out, m.Data[start:start+m.Cols/8])
	return out
}

// Transpose produces T(M) such that T(M)[c,r] = M[r,c] bit-exact, per the
// row-major, MSB-first addressing convention documented on BitMatrix.
// rows and cols must be multiples of 8 unconditionally; dimensions that are
// additionally multiples of 16 take the vectorized fast path, otherwise the
// scalar path is used. Both paths are bit-identical — the fast path exists
// to let a platform-intrinsic implementation specialize the 16-aligned case
// without changing the contract.
func Transpose(m *BitMatrix) (*BitMatrix, error) {
	if err := checkDims8(m.Rows, m.Cols); err != nil {
		return nil, err
	}
	out, err := NewBitMatrix(m.Cols, m.Rows)
	if err != nil {
		return nil, err
	}

	if checkDims16(m.Rows, m.Cols) == nil {
		transposeFast(m, out)
	} else {
		transposeScalar(m, out)
	}
	return out, nil
}

func transposeScalar(m, out *BitMatrix) {
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			out.SetBit(c, r, m.GetBit(r, c))
		}
	}
}

// transposeFast is identical to transposeScalar but processes rows 16 bits
// at a time, the natural unit for a SIMD bit-transpose kernel; here it is
// still expressed bit-by-bit since there is no portable Go SIMD primitive,
// but the loop shape keeps the 16-aligned block boundaries explicit.
func transposeFast(m, out *BitMatrix) {
	for r0 := 0; r0 < m.Rows; r0 += 16 {
		for c0 := 0; c0 < m.Cols; c0 += 16 {
			for dr := 0; dr < 16; dr++ {
				r := r0 + dr
				for dc := 0; dc < 16; dc++ {
					c := c0 + dc
					out.SetBit(c, r, m.GetBit(r, c))
				}
			}
		}
	}
}
