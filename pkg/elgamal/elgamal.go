// Package elgamal implements twisted ElGamal encryption over the group
// abstraction in pkg/curve, adapted from the teacher's internal/elgamal
// package. Twisted ElGamal fixes a second generator h alongside the usual
// g so that plaintext and randomness each get their own base, the shape
// pkg/zk/ptk proves knowledge of.
package elgamal

import (
	"fmt"
	"io"

	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/hash"
	"github.com/taurusgroup/psi-psu/pkg/protoerr"
)

type (
	PublicKey = curve.Point
	SecretKey = curve.Scalar
)

// Params fixes the generators (g, h) shared by every ciphertext under a
// given public key. g is always the curve's standard generator; h is
// derived deterministically from g so both parties agree on it without a
// trusted setup.
type Params struct {
	G, H curve.Point
}

// Setup derives Params for a curve: g is the curve's generator, h is
// g hashed-and-rehashed into a second independent generator.
func Setup(c curve.Curve) *Params {
	g := c.Generator()
	label := hash.BytesWithDomain{TheDomain: "elgamal.h", Bytes: []byte("twisted-elgamal-second-generator")}
	h := hash.New().Fork(label)
	_ = h.WriteAny(g)
	hScalar := hash.ToScalar(h.Digest(), c)
	return &Params{G: g, H: hScalar.Act(g)}
}

// KeyGen samples a fresh secret key and its corresponding public key pk =
// g^sk.
func KeyGen(pp *Params) (PublicKey, SecretKey) {
	c := pp.G.Curve()
	sk := c.RandomScalar()
	pk := sk.Act(pp.G)
	return pk, sk
}

// Ciphertext is the twisted ElGamal pair (X = pk^r, Y = g^r · h^v).
type Ciphertext struct {
	X, Y curve.Point
}

func (ct *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, p := range []curve.Point{ct.X, ct.Y} {
		buf, err := p.MarshalBinary()
		if err != nil {
			return total, err
		}
		n, err := w.Write(buf)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (*Ciphertext) Domain() string { return "twisted-elgamal-ciphertext" }

// Encrypt computes (X, Y) = (pk^r, g^r·h^v) for a fresh random r, returning
// the randomness alongside the ciphertext since the plaintext-knowledge
// proof needs it as a witness.
func Encrypt(pp *Params, pk PublicKey, v curve.Scalar) (*Ciphertext, curve.Scalar) {
	c := pp.G.Curve()
	r := c.RandomScalar()
	X := r.Act(pk)
	Y := r.Act(pp.G).Add(v.Act(pp.H))
	return &Ciphertext{X: X, Y: Y}, r
}

// Valid reports whether ct has well-formed, non-identity components.
func (ct *Ciphertext) Valid() bool {
	return ct != nil && ct.X != nil && ct.Y != nil && !ct.X.IsIdentity() && !ct.Y.IsIdentity()
}

// Add homomorphically combines two ciphertexts encrypted under the same
// key and generators: Add(Enc(v1,r1), Enc(v2,r2)) = Enc(v1+v2, r1+r2).
func (ct *Ciphertext) Add(other *Ciphertext) *Ciphertext {
	return &Ciphertext{X: ct.X.Add(other.X), Y: ct.Y.Add(other.Y)}
}

// Empty returns the identity ciphertext over the given curve, used as a
// zero value before an Add accumulation.
func Empty(c curve.Curve) *Ciphertext {
	return &Ciphertext{X: c.NewPoint(), Y: c.NewPoint()}
}

// Serialize encodes (X, Y) as their concatenated compressed encodings.
func (ct *Ciphertext) Serialize() ([]byte, error) {
	xb, err := ct.X.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("elgamal: serialize X: %w", err)
	}
	yb, err := ct.Y.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("elgamal: serialize Y: %w", err)
	}
	return append(xb, yb...), nil
}

// Deserialize decodes a ciphertext produced by Serialize for the given
// curve, whose fixed-length compressed point encoding determines the split
// point.
func Deserialize(c curve.Curve, data []byte) (*Ciphertext, error) {
	n := c.PointByteLen()
	if len(data) != 2*n {
		return nil, fmt.Errorf("elgamal: Deserialize: want %d bytes, got %d: %w", 2*n, len(data), protoerr.ErrSerialization)
	}
	X := c.NewPoint()
	if err := X.UnmarshalBinary(data[:n]); err != nil {
		return nil, fmt.Errorf("elgamal: Deserialize: X: %w", err)
	}
	Y := c.NewPoint()
	if err := Y.UnmarshalBinary(data[n:]); err != nil {
		return nil, fmt.Errorf("elgamal: Deserialize: Y: %w", err)
	}
	return &Ciphertext{X: X, Y: Y}, nil
}
