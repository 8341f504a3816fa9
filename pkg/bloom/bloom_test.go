package bloom

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSaltsDeterministic(t *testing.T) {
	a := DeriveSalts(10, 0xA5A5A5A5)
	b := DeriveSalts(10, 0xA5A5A5A5)
	assert.Equal(t, a, b)

	c := DeriveSalts(10, 1)
	assert.NotEqual(t, a, c)
}

func TestInsertContain(t *testing.T) {
	bf := New(10000, 1e-3)
	inserted := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s := fmt.Sprintf("elem-%d", i)
		bf.Insert([]byte(s))
		inserted[s] = true
	}
	for s := range inserted {
		assert.True(t, bf.Contain([]byte(s)))
	}

	falsePositives := 0
	trials := 5000
	for i := 0; i < trials; i++ {
		s := fmt.Sprintf("absent-%d", i)
		if bf.Contain([]byte(s)) {
			falsePositives++
		}
	}
	assert.Less(t, float64(falsePositives)/float64(trials), 0.05)
}

func TestSerializeRoundTrip(t *testing.T) {
	bf := New(10000, 1e-3)
	for c := byte('a'); c <= 'z'; c++ {
		bf.Insert([]byte{c})
	}

	buf := bf.Serialize()
	bf2, err := Deserialize(buf)
	require.NoError(t, err)

	assert.Equal(t, bf.K, bf2.K)
	assert.Equal(t, bf.Seed, bf2.Seed)
	assert.Equal(t, bf.M, bf2.M)
	for c := byte('a'); c <= 'z'; c++ {
		assert.True(t, bf2.Contain([]byte{c}))
	}
}

func TestDeserializeRejectsBadLength(t *testing.T) {
	_, err := Deserialize([]byte{0, 1, 2})
	assert.Error(t, err)
}
