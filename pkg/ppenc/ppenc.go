// Package ppenc encodes the fixed-order uint64 fields of a protocol's
// public-parameters record into its canonical wire form. It uses
// cronokirby/saferith's Nat for the conversion, the teacher's bignum type
// for anything that crosses a wire boundary (pkg/math/curve marshals
// scalars through the same type), even though every field here fits in a
// machine word — consistency of encoding matters more than the width.
package ppenc

import (
	"encoding/binary"
	"fmt"

	"github.com/cronokirby/saferith"

	"github.com/taurusgroup/psi-psu/pkg/protoerr"
)

// FieldBytes is the fixed width of every encoded PP field.
const FieldBytes = 8

// EncodeUint64s appends the canonical 8-byte big-endian encoding of each
// field, in order, via saferith.Nat.
func EncodeUint64s(fields ...uint64) []byte {
	out := make([]byte, 0, FieldBytes*len(fields))
	for _, f := range fields {
		nat := new(saferith.Nat).SetUint64(f)
		buf := nat.Bytes()
		padded := make([]byte, FieldBytes)
		copy(padded[FieldBytes-len(buf):], buf)
		out = append(out, padded...)
	}
	return out
}

// DecodeUint64s splits data into n fixed-width fields and recovers their
// values via saferith.Nat, failing unless data is exactly FieldBytes*n
// bytes long.
func DecodeUint64s(data []byte, n int) ([]uint64, error) {
	if len(data) != FieldBytes*n {
		return nil, fmt.Errorf("ppenc: want %d bytes for %d fields, got %d: %w", FieldBytes*n, n, len(data), protoerr.ErrDimension)
	}
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		chunk := data[i*FieldBytes : (i+1)*FieldBytes]
		nat := new(saferith.Nat).SetBytes(chunk)
		buf := nat.Bytes()
		padded := make([]byte, FieldBytes)
		copy(padded[FieldBytes-len(buf):], buf)
		out[i] = binary.BigEndian.Uint64(padded)
	}
	return out, nil
}
