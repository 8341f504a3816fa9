// Package dleq proves knowledge of a discrete log shared between two bases:
// w such that h1 = g1^w and h2 = g2^w. It generalizes the teacher's
// single-base Schnorr proof (pkg/zk/sch) from one base/point pair to two.
package dleq

import (
	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/hash"
)

// Proof is a non-interactive Fiat–Shamir proof that the prover knows w with
// h1 = g1^w and h2 = g2^w.
type Proof struct {
	A1, A2 curve.Point
	Z      curve.Scalar
}

// challenge derives e = H(transcript ‖ g1 ‖ g2 ‖ h1 ‖ h2 ‖ A1 ‖ A2). The
// transcript is caller-controlled: Prove and Verify only ever append, never
// prepend, so callers may bind additional protocol context beforehand.
func challenge(transcript *hash.Hash, g1, g2, h1, h2, A1, A2 curve.Point) curve.Scalar {
	t := transcript.Clone()
	_ = t.WriteAny(g1, g2, h1, h2, A1, A2)
	return hash.ChallengeScalar(t, g1.Curve())
}

// Prove constructs a proof that w satisfies h1 = g1^w, h2 = g2^w. transcript
// is mutated by appending the prover's commitments, matching the ordering
// Verify expects.
func Prove(transcript *hash.Hash, g1, g2, h1, h2 curve.Point, w curve.Scalar) *Proof {
	c := g1.Curve()
	a := c.RandomScalar()
	A1 := a.Act(g1)
	A2 := a.Act(g2)

	e := challenge(transcript, g1, g2, h1, h2, A1, A2)
	_ = transcript.WriteAny(A1, A2)

	z := e.Mul(w).Add(a)
	return &Proof{A1: A1, A2: A2, Z: z}
}

// Verify checks g1^z == A1·h1^e and g2^z == A2·h2^e.
func Verify(transcript *hash.Hash, g1, g2, h1, h2 curve.Point, proof *Proof) bool {
	if proof == nil || proof.A1 == nil || proof.A2 == nil || proof.Z == nil {
		return false
	}
	if g1.IsIdentity() || g2.IsIdentity() || h1.IsIdentity() || h2.IsIdentity() {
		return false
	}

	e := challenge(transcript, g1, g2, h1, h2, proof.A1, proof.A2)
	_ = transcript.WriteAny(proof.A1, proof.A2)

	lhs1 := proof.Z.Act(g1)
	rhs1 := proof.A1.Add(e.Act(h1))
	if !lhs1.Equal(rhs1) {
		return false
	}

	lhs2 := proof.Z.Act(g2)
	rhs2 := proof.A2.Add(e.Act(h2))
	return lhs2.Equal(rhs2)
}
