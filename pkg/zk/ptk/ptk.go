// Package ptk proves knowledge of a twisted-ElGamal ciphertext's plaintext
// and randomness, the two-witness counterpart to pkg/zk/dleq.
package ptk

import (
	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/elgamal"
	"github.com/taurusgroup/psi-psu/pkg/hash"
)

// Proof is a non-interactive proof of knowledge of (v, r) such that
// X = pk^r and Y = g^r·h^v.
type Proof struct {
	A, B   curve.Point
	Z1, Z2 curve.Scalar
}

func challenge(transcript *hash.Hash, pp *elgamal.Params, pk curve.Point, ct *elgamal.Ciphertext, A, B curve.Point) curve.Scalar {
	t := transcript.Clone()
	_ = t.WriteAny(pk, pp.G, pp.H, ct.X, ct.Y, A, B)
	return hash.ChallengeScalar(t, pk.Curve())
}

// Prove constructs a proof that (v, r) is a valid opening of ct under pk,
// mutating transcript by appending the prover's commitments.
func Prove(transcript *hash.Hash, pp *elgamal.Params, pk curve.Point, ct *elgamal.Ciphertext, v, r curve.Scalar) *Proof {
	c := pk.Curve()
	a := c.RandomScalar()
	b := c.RandomScalar()

	A := a.Act(pk)
	B := a.Act(pp.G).Add(b.Act(pp.H))

	e := challenge(transcript, pp, pk, ct, A, B)
	_ = transcript.WriteAny(A, B)

	z1 := e.Mul(r).Add(a)
	z2 := e.Mul(v).Add(b)
	return &Proof{A: A, B: B, Z1: z1, Z2: z2}
}

// Verify checks pk^z1 == A·X^e and g^z1·h^z2 == B·Y^e.
func Verify(transcript *hash.Hash, pp *elgamal.Params, pk curve.Point, ct *elgamal.Ciphertext, proof *Proof) bool {
	if proof == nil || proof.A == nil || proof.B == nil || proof.Z1 == nil || proof.Z2 == nil {
		return false
	}
	if !ct.Valid() {
		return false
	}

	e := challenge(transcript, pp, pk, ct, proof.A, proof.B)
	_ = transcript.WriteAny(proof.A, proof.B)

	lhs1 := proof.Z1.Act(pk)
	rhs1 := proof.A.Add(e.Act(ct.X))
	if !lhs1.Equal(rhs1) {
		return false
	}

	lhs2 := proof.Z1.Act(pp.G).Add(proof.Z2.Act(pp.H))
	rhs2 := proof.B.Add(e.Act(ct.Y))
	return lhs2.Equal(rhs2)
}
