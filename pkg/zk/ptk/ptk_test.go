package ptk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/elgamal"
	"github.com/taurusgroup/psi-psu/pkg/hash"
)

func TestProveVerify(t *testing.T) {
	pp := elgamal.Setup(curve.P256)
	pk, _ := elgamal.KeyGen(pp)
	v := curve.P256.RandomScalar()
	ct, r := elgamal.Encrypt(pp, pk, v)

	proof := Prove(hash.New(), pp, pk, ct, v, r)
	assert.True(t, Verify(hash.New(), pp, pk, ct, proof))
}

func TestVerifyFailsOnWrongWitness(t *testing.T) {
	pp := elgamal.Setup(curve.P256)
	pk, _ := elgamal.KeyGen(pp)
	v := curve.P256.RandomScalar()
	ct, r := elgamal.Encrypt(pp, pk, v)

	wrongV := curve.P256.RandomScalar()
	proof := Prove(hash.New(), pp, pk, ct, wrongV, r)
	assert.False(t, Verify(hash.New(), pp, pk, ct, proof))
}

func TestVerifyRejectsNilProof(t *testing.T) {
	pp := elgamal.Setup(curve.P256)
	pk, _ := elgamal.KeyGen(pp)
	v := curve.P256.RandomScalar()
	ct, _ := elgamal.Encrypt(pp, pk, v)

	assert.False(t, Verify(hash.New(), pp, pk, ct, nil))
}
