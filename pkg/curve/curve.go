// Package curve wraps the elliptic-curve groups used by the protocol suite
// behind a small interface, the way the teacher's pkg/math/curve wraps
// secp256k1. The backend here is circl's constant-time P256 implementation
// (github.com/cloudflare/circl/group) rather than a hand-rolled scalar
// field: curve arithmetic is an external collaborator per the design, so
// this package's job is the Curve/Scalar/Point contract, not the field
// implementation.
package curve

import "encoding"

// Curve is a prime-order group with a fixed generator.
type Curve interface {
	NewPoint() Point
	NewScalar() Scalar
	// Generator returns the fixed base point g.
	Generator() Point
	// RandomScalar samples a uniformly random non-zero scalar.
	RandomScalar() Scalar
	// PointByteLen is the length in bytes of a compressed point encoding.
	PointByteLen() int
	// ScalarByteLen is the length in bytes of a scalar encoding.
	ScalarByteLen() int
	Name() string
}

// Scalar is an element of Z_q for the group's order q.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Negate() Scalar
	Mul(Scalar) Scalar
	Invert() Scalar
	Equal(Scalar) bool
	IsZero() bool
	// Act computes p^s, i.e. s acting on the given point p.
	Act(Point) Point
	// ActOnBase computes g^s.
	ActOnBase() Point
}

// Point is an element of the group.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	Equal(Point) bool
	IsIdentity() bool
}
