// Package block implements the 128-bit opaque value type and the
// bit-matrix transpose primitive the OT-extension subsystem is built on.
package block

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/taurusgroup/psi-psu/pkg/protoerr"
)

// Block is a 128-bit opaque value, the unit of exchange for OT payloads and
// PRG seeds.
type Block [16]byte

// Zero is the all-zero block, the sentinel value PSU transfers in place of
// a Sender element the Receiver already has.
var Zero = Block{}

// AllOnes is the all-one-bits block.
var AllOnes = Block{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// FromU64Pair builds a Block from two big-endian 64-bit halves, hi first.
func FromU64Pair(hi, lo uint64) Block {
	var b Block
	binary.BigEndian.PutUint64(b[:8], hi)
	binary.BigEndian.PutUint64(b[8:], lo)
	return b
}

// ToBytes returns the block's 16-byte big-endian representation.
func (b Block) ToBytes() []byte {
	out := make([]byte, 16)
	copy(out, b[:])
	return out
}

// FromBytes reads a Block from exactly 16 bytes.
func FromBytes(data []byte) (Block, error) {
	var b Block
	if len(data) != 16 {
		return b, fmt.Errorf("block: FromBytes: want 16 bytes, got %d: %w", len(data), protoerr.ErrDimension)
	}
	copy(b[:], data)
	return b, nil
}

// MarshalBinary implements encoding.BinaryMarshaler, letting cbor (and
// anything else that checks for it) encode a Block as a plain byte string
// instead of an array of sixteen individually-tagged integers.
func (b Block) MarshalBinary() ([]byte, error) {
	return b.ToBytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (b *Block) UnmarshalBinary(data []byte) error {
	decoded, err := FromBytes(data)
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}

// Xor computes the bitwise XOR of two blocks.
func (b Block) Xor(other Block) Block {
	var out Block
	for i := range out {
		out[i] = b[i] ^ other[i]
	}
	return out
}

// And computes the bitwise AND of two blocks.
func (b Block) And(other Block) Block {
	var out Block
	for i := range out {
		out[i] = b[i] & other[i]
	}
	return out
}

// Eq reports whether the two blocks are bit-identical.
func (b Block) Eq(other Block) bool {
	return b == other
}

// IsZero reports whether b is the all-zero block, the PSU sentinel check.
func (b Block) IsZero() bool {
	return b == Zero
}

// String renders the block as big-endian hex.
func (b Block) String() string {
	return hex.EncodeToString(b[:])
}

// XorVec computes the elementwise XOR of two equal-length block vectors.
func XorVec(a, b []Block) ([]Block, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("block: XorVec: length mismatch %d != %d: %w", len(a), len(b), protoerr.ErrDimension)
	}
	out := make([]Block, len(a))
	for i := range a {
		out[i] = a[i].Xor(b[i])
	}
	return out, nil
}

// AndVec computes the elementwise AND of two equal-length block vectors.
func AndVec(a, b []Block) ([]Block, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("block: AndVec: length mismatch %d != %d: %w", len(a), len(b), protoerr.ErrDimension)
	}
	out := make([]Block, len(a))
	for i := range a {
		out[i] = a[i].And(b[i])
	}
	return out, nil
}

// EqVec reports whether two block vectors are equal elementwise.
func EqVec(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}
