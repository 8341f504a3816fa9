package block

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomMatrix(t *testing.T, rows, cols int) *BitMatrix {
	m, err := NewBitMatrix(rows, cols)
	require.NoError(t, err)
	_, err = rand.Read(m.Data)
	require.NoError(t, err)
	return m
}

func TestTransposeInvolution(t *testing.T) {
	for _, dims := range [][2]int{{16, 16}, {128, 128}, {32, 128}, {8, 8}, {8, 24}} {
		m := randomMatrix(t, dims[0], dims[1])
		tm, err := Transpose(m)
		require.NoError(t, err)
		assert.Equal(t, m.Cols, tm.Rows)
		assert.Equal(t, m.Rows, tm.Cols)

		back, err := Transpose(tm)
		require.NoError(t, err)
		assert.Equal(t, m.Data, back.Data)
	}
}

func TestTransposeBitExact(t *testing.T) {
	m := randomMatrix(t, 16, 32)
	tm, err := Transpose(m)
	require.NoError(t, err)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			assert.Equal(t, m.GetBit(r, c), tm.GetBit(c, r))
		}
	}
}

func TestTransposeRejectsBadDims(t *testing.T) {
	_, err := NewBitMatrix(7, 8)
	assert.Error(t, err)

	m := &BitMatrix{Rows: 7, Cols: 8, Data: make([]byte, 7)}
	_, err = Transpose(m)
	assert.Error(t, err)
}

func TestTransposeFastMatchesScalarPath(t *testing.T) {
	// 16x16 takes the fast path; 8x8 forces the scalar path. Both obey the
	// same bit-addressing contract.
	fast := randomMatrix(t, 16, 16)
	tFast, err := Transpose(fast)
	require.NoError(t, err)

	// The scalar input is the top-left 8x8 corner of the fast input, so the
	// two transposes must agree on that corner.
	scalar, err := NewBitMatrix(8, 8)
	require.NoError(t, err)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			scalar.SetBit(r, c, fast.GetBit(r, c))
		}
	}
	tScalar, err := Transpose(scalar)
	require.NoError(t, err)

	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			assert.Equal(t, scalar.GetBit(r, c), tScalar.GetBit(c, r))
			assert.Equal(t, tFast.GetBit(c, r), tScalar.GetBit(c, r))
		}
	}
}
