package dleq

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/hash"
)

func setup(t *testing.T) (curve.Point, curve.Point, curve.Scalar, curve.Point, curve.Point) {
	c := curve.P256
	g1 := c.Generator()
	a := c.RandomScalar()
	g2 := a.Act(g1)

	w := c.RandomScalar()
	h1 := w.Act(g1)
	h2 := w.Act(g2)
	return g1, g2, w, h1, h2
}

func TestProveVerify(t *testing.T) {
	g1, g2, w, h1, h2 := setup(t)

	proof := Prove(hash.New(), g1, g2, h1, h2, w)
	assert.True(t, Verify(hash.New(), g1, g2, h1, h2, proof))
}

func TestVerifyFailsOnWrongWitness(t *testing.T) {
	g1, g2, _, h1, h2 := setup(t)
	c := g1.Curve()

	wrong := c.RandomScalar()
	proof := Prove(hash.New(), g1, g2, h1, h2, wrong)
	assert.False(t, Verify(hash.New(), g1, g2, h1, h2, proof))
}

func TestVerifyFailsOnMismatchedTranscript(t *testing.T) {
	g1, g2, w, h1, h2 := setup(t)

	proof := Prove(hash.New(), g1, g2, h1, h2, w)

	other := hash.New()
	_ = other.WriteAny([]byte("unexpected context"))
	assert.False(t, Verify(other, g1, g2, h1, h2, proof))
}

func TestVerifyRejectsNilProof(t *testing.T) {
	g1, g2, _, h1, h2 := setup(t)
	assert.False(t, Verify(hash.New(), g1, g2, h1, h2, nil))
}
