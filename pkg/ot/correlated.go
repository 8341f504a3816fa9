package ot

import (
	"crypto/rand"
	"fmt"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/hash"
	"github.com/taurusgroup/psi-psu/pkg/protoerr"
)

// CheckParameters enforces the ALSZ extension's dimension contract: N and
// lambda must each be a multiple of 128.
func CheckParameters(n, lambda int) error {
	if n%128 != 0 || lambda%128 != 0 {
		return fmt.Errorf("ot: CheckParameters: N=%d lambda=%d must be multiples of 128: %w", n, lambda, protoerr.ErrDimension)
	}
	return nil
}

// randomSeed samples a fresh random block, used for T_seed/U_seed and the
// base-OT key pairs.
func randomSeed() block.Block {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("ot: randomSeed: %v", err))
	}
	b, _ := block.FromBytes(buf[:])
	return b
}

// expandRow derives an nBits-bit pseudorandom row from a Block seed via the
// blake3-backed PRG in pkg/hash, packed MSB-first per byte to match
// block.BitMatrix's addressing convention.
func expandRow(seed block.Block, nBits int) []byte {
	h := hash.New()
	_ = h.WriteAny(seed.ToBytes())
	return hash.ToBytes(h, nBits/8)
}

// packChoiceBits packs a boolean choice vector into a BitMatrix-compatible
// byte row, MSB-first per byte.
func packChoiceBits(choices []bool) []byte {
	out := make([]byte, (len(choices)+7)/8)
	for i, c := range choices {
		if c {
			out[i/8] |= 0x80 >> uint(i%8)
		}
	}
	return out
}

// xorBytes computes the bytewise XOR of equal-length buffers.
func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// rowMatrix builds a Rows×Cols BitMatrix directly from its row-major byte
// rows, each already Cols/8 bytes long — the natural layout PRG expansion
// produces, one row per base-OT seed.
func rowMatrix(rows [][]byte, cols int) *block.BitMatrix {
	data := make([]byte, 0, len(rows)*cols/8)
	for _, r := range rows {
		data = append(data, r...)
	}
	return &block.BitMatrix{Rows: len(rows), Cols: cols, Data: data}
}

// packBlockAsRow packs a 16-byte Block into a λ-bit row, MSB-first per
// byte, the same way T/U/Q rows are packed. Nothing in this package calls
// it: ExtendSend packs s with packChoiceBits directly.
func packBlockAsRow(b block.Block, lambda int) []byte {
	choices := make([]bool, lambda)
	for i := 0; i < lambda; i++ {
		byteIdx := i / 8
		bitIdx := i % 8
		choices[i] = b[byteIdx]&(0x80>>uint(bitIdx)) != 0
	}
	return packChoiceBits(choices)
}
