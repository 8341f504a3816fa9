package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/pool"
)

func TestExtensionPPRoundTrip(t *testing.T) {
	pp := NewExtensionPP(128)
	data, err := pp.MarshalBinary()
	require.NoError(t, err)
	got, err := UnmarshalExtensionPP(data)
	require.NoError(t, err)
	assert.Equal(t, pp, got)
}

func TestExtendOTCorrectness(t *testing.T) {
	const lambda = 128
	const n = 256

	s := make([]bool, lambda)
	for j := range s {
		s[j] = j%3 == 0
	}
	r := make([]bool, n)
	for i := range r {
		r[i] = i%5 == 0
	}
	messages := make([][2]block.Block, n)
	for i := range messages {
		messages[i] = [2]block.Block{
			block.FromU64Pair(uint64(i), 1),
			block.FromU64Pair(uint64(i), 2),
		}
	}

	sender, receiver := pipeChans()
	defer sender.Close()
	defer receiver.Close()

	p := pool.NewPool(0)
	defer p.TearDown()

	c := curve.P256

	var g errgroup.Group
	g.Go(func() error { return ExtendSend(sender, c, s, messages, p) })
	var results []block.Block
	g.Go(func() error {
		var err error
		results, err = ExtendReceive(receiver, c, r, lambda, p)
		return err
	})
	require.NoError(t, g.Wait())

	require.Len(t, results, n)
	for i := 0; i < n; i++ {
		idx := 0
		if r[i] {
			idx = 1
		}
		assert.True(t, results[i].Eq(messages[i][idx]), "index %d", i)
	}
}

func TestCheckParametersRejectsNonMultipleOf128(t *testing.T) {
	assert.Error(t, CheckParameters(100, 128))
	assert.Error(t, CheckParameters(128, 100))
	assert.NoError(t, CheckParameters(256, 128))
}
