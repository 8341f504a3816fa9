package curve

import (
	"crypto/rand"
	"fmt"

	circl "github.com/cloudflare/circl/group"
)

// P256 is the short-Weierstrass NIST-P256-style prime order group the
// specification calls for. It is backed by circl's constant-time
// implementation, the same library _examples/hpicrypto-mppj uses for its
// group abstraction.
var P256 Curve = p256Curve{}

const p256PointByteLen = 33
const p256ScalarByteLen = 32

type p256Curve struct{}

func (p256Curve) NewPoint() Point   { return &p256Point{e: circl.P256.NewElement()} }
func (p256Curve) NewScalar() Scalar { return &p256Scalar{s: circl.P256.NewScalar()} }
func (p256Curve) Generator() Point  { return &p256Point{e: circl.P256.Generator()} }
func (p256Curve) RandomScalar() Scalar {
	return &p256Scalar{s: circl.P256.RandomScalar(rand.Reader)}
}
func (p256Curve) PointByteLen() int  { return p256PointByteLen }
func (p256Curve) ScalarByteLen() int { return p256ScalarByteLen }
func (p256Curve) Name() string       { return "P256" }

type p256Scalar struct {
	s circl.Scalar
}

func castScalar(g Scalar) *p256Scalar {
	out, ok := g.(*p256Scalar)
	if !ok {
		panic(fmt.Sprintf("curve: not a P256 scalar: %T", g))
	}
	return out
}

func castPoint(g Point) *p256Point {
	out, ok := g.(*p256Point)
	if !ok {
		panic(fmt.Sprintf("curve: not a P256 point: %T", g))
	}
	return out
}

func (s *p256Scalar) Curve() Curve { return P256 }

func (s *p256Scalar) MarshalBinary() ([]byte, error) { return s.s.MarshalBinary() }

func (s *p256Scalar) UnmarshalBinary(data []byte) error {
	s.s = circl.P256.NewScalar()
	return s.s.UnmarshalBinary(data)
}

func (s *p256Scalar) Add(other Scalar) Scalar {
	out := circl.P256.NewScalar()
	out.Add(s.s, castScalar(other).s)
	return &p256Scalar{s: out}
}

func (s *p256Scalar) Sub(other Scalar) Scalar {
	neg := circl.P256.NewScalar()
	neg.Neg(castScalar(other).s)
	out := circl.P256.NewScalar()
	out.Add(s.s, neg)
	return &p256Scalar{s: out}
}

func (s *p256Scalar) Negate() Scalar {
	out := circl.P256.NewScalar()
	out.Neg(s.s)
	return &p256Scalar{s: out}
}

func (s *p256Scalar) Mul(other Scalar) Scalar {
	out := circl.P256.NewScalar()
	out.Mul(s.s, castScalar(other).s)
	return &p256Scalar{s: out}
}

func (s *p256Scalar) Invert() Scalar {
	out := s.s.Copy()
	out.Inv(s.s)
	return &p256Scalar{s: out}
}

func (s *p256Scalar) Equal(other Scalar) bool {
	return s.s.IsEqual(castScalar(other).s)
}

func (s *p256Scalar) IsZero() bool {
	return s.s.IsEqual(circl.P256.NewScalar())
}

func (s *p256Scalar) Act(p Point) Point {
	out := circl.P256.NewElement()
	out.Mul(castPoint(p).e, s.s)
	return &p256Point{e: out}
}

func (s *p256Scalar) ActOnBase() Point {
	out := circl.P256.NewElement()
	out.MulGen(s.s)
	return &p256Point{e: out}
}

type p256Point struct {
	e circl.Element
}

func (p *p256Point) Curve() Curve { return P256 }

func (p *p256Point) MarshalBinary() ([]byte, error) { return p.e.MarshalBinaryCompress() }

func (p *p256Point) UnmarshalBinary(data []byte) error {
	p.e = circl.P256.NewElement()
	return p.e.UnmarshalBinary(data)
}

func (p *p256Point) Add(other Point) Point {
	out := circl.P256.NewElement()
	out.Add(p.e, castPoint(other).e)
	return &p256Point{e: out}
}

func (p *p256Point) Sub(other Point) Point {
	neg := circl.P256.NewElement()
	neg.Neg(castPoint(other).e)
	out := circl.P256.NewElement()
	out.Add(p.e, neg)
	return &p256Point{e: out}
}

func (p *p256Point) Negate() Point {
	out := circl.P256.NewElement()
	out.Neg(p.e)
	return &p256Point{e: out}
}

func (p *p256Point) Equal(other Point) bool {
	return p.e.IsEqual(castPoint(other).e)
}

func (p *p256Point) IsIdentity() bool {
	return p.e.IsIdentity()
}
