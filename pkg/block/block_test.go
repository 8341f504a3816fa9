package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXorAndEq(t *testing.T) {
	a := FromU64Pair(1, 2)
	b := FromU64Pair(3, 4)
	x := a.Xor(b)
	assert.True(t, x.Xor(b).Eq(a))
	assert.True(t, a.And(AllOnes).Eq(a))
	assert.True(t, a.And(Zero).Eq(Zero))
}

func TestToFromBytes(t *testing.T) {
	a := FromU64Pair(0x0102030405060708, 0x1112131415161718)
	buf := a.ToBytes()
	require.Len(t, buf, 16)
	b, err := FromBytes(buf)
	require.NoError(t, err)
	assert.True(t, a.Eq(b))

	_, err = FromBytes(buf[:10])
	assert.Error(t, err)
}

func TestVecOps(t *testing.T) {
	a := []Block{FromU64Pair(0, 1), FromU64Pair(0, 2)}
	b := []Block{FromU64Pair(0, 1), FromU64Pair(0, 3)}
	assert.False(t, EqVec(a, b))
	assert.True(t, EqVec(a, a))

	_, err := XorVec(a, b[:1])
	assert.Error(t, err)

	x, err := XorVec(a, b)
	require.NoError(t, err)
	assert.True(t, x[0].IsZero())
}
