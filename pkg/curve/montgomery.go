package curve

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

// MontgomeryPoint is a curve25519 x-coordinate, the type spec.md §3 calls
// for. Unlike P256's Point, it supports only scalar multiplication — the
// single x25519_scalar_mul primitive the cwPRF needs — not general group
// addition, matching the Montgomery ladder's actual interface.
type MontgomeryPoint [curve25519.PointSize]byte

// MontgomeryBasepoint is the fixed curve25519 base point (u = 9).
var MontgomeryBasepoint = montgomeryBasepoint()

func montgomeryBasepoint() MontgomeryPoint {
	var p MontgomeryPoint
	copy(p[:], curve25519.Basepoint)
	return p
}

// MontgomeryScalar is a 32-byte curve25519 scalar (clamped per RFC 7748
// by the underlying ScalarMult call, the same convention x/crypto/curve25519
// uses).
type MontgomeryScalar [curve25519.ScalarSize]byte

// RandomMontgomeryScalar samples a uniformly random 256-bit scalar.
func RandomMontgomeryScalar() MontgomeryScalar {
	var s MontgomeryScalar
	if _, err := rand.Read(s[:]); err != nil {
		panic(fmt.Sprintf("curve: failed to sample randomness: %v", err))
	}
	return s
}

// ScalarMul computes scalar·point, the x25519_scalar_mul primitive.
func ScalarMul(scalar MontgomeryScalar, point MontgomeryPoint) MontgomeryPoint {
	var out MontgomeryPoint
	curve25519.ScalarMult((*[32]byte)(&out), (*[32]byte)(&scalar), (*[32]byte)(&point))
	return out
}

// ScalarBaseMul computes scalar·G for the fixed curve25519 base point.
func ScalarBaseMul(scalar MontgomeryScalar) MontgomeryPoint {
	return ScalarMul(scalar, MontgomeryBasepoint)
}
