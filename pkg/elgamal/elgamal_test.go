package elgamal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taurusgroup/psi-psu/pkg/curve"
)

func TestEncryptValid(t *testing.T) {
	pp := Setup(curve.P256)
	pk, _ := KeyGen(pp)

	v := curve.P256.RandomScalar()
	ct, _ := Encrypt(pp, pk, v)
	assert.True(t, ct.Valid())
}

func TestSerializeRoundTrip(t *testing.T) {
	pp := Setup(curve.P256)
	pk, _ := KeyGen(pp)
	v := curve.P256.RandomScalar()
	ct, _ := Encrypt(pp, pk, v)

	buf, err := ct.Serialize()
	require.NoError(t, err)

	ct2, err := Deserialize(curve.P256, buf)
	require.NoError(t, err)
	assert.True(t, ct.X.Equal(ct2.X))
	assert.True(t, ct.Y.Equal(ct2.Y))
}

func TestHomomorphicAdd(t *testing.T) {
	pp := Setup(curve.P256)
	pk, sk := KeyGen(pp)
	_ = sk

	v1 := curve.P256.RandomScalar()
	v2 := curve.P256.RandomScalar()
	ct1, r1 := Encrypt(pp, pk, v1)
	ct2, r2 := Encrypt(pp, pk, v2)

	sum := ct1.Add(ct2)

	vSum := v1.Add(v2)
	rSum := r1.Add(r2)
	X := rSum.Act(pk)
	Y := rSum.Act(pp.G).Add(vSum.Act(pp.H))

	assert.True(t, sum.X.Equal(X))
	assert.True(t, sum.Y.Equal(Y))
}

func TestSetupDeterministic(t *testing.T) {
	pp1 := Setup(curve.P256)
	pp2 := Setup(curve.P256)
	assert.True(t, pp1.H.Equal(pp2.H))
}
