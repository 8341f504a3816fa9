package testset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConsistency(t *testing.T) {
	c, err := Generate(64, 64, 16)
	require.NoError(t, err)

	assert.Equal(t, uint64(16), c.IntersectionN)
	assert.Equal(t, uint64(112), c.UnionN)
	assert.Len(t, c.X, 64)
	assert.Len(t, c.Y, 64)
	assert.Len(t, c.Indication, 64)

	var ones int
	for _, b := range c.Indication {
		if b == 1 {
			ones++
		}
	}
	assert.Equal(t, 16, ones)
}

func TestCaseRoundTrip(t *testing.T) {
	c, err := Generate(8, 8, 2)
	require.NoError(t, err)

	data, err := c.MarshalBinary()
	require.NoError(t, err)

	got, err := UnmarshalCase(data)
	require.NoError(t, err)

	assert.Equal(t, c, got)
}

func TestGenerateRejectsOverlapTooLarge(t *testing.T) {
	_, err := Generate(4, 4, 5)
	assert.Error(t, err)
}
