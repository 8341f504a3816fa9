package psu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/pool"
)

func TestMqrpmtIndicationVector(t *testing.T) {
	const n = 16
	Y := make([]block.Block, n)
	for i := range Y {
		Y[i] = block.FromU64Pair(1, uint64(i))
	}
	X := make([]block.Block, n)
	for i := 0; i < n/2; i++ {
		X[i] = Y[i]
	}
	for i := n / 2; i < n; i++ {
		X[i] = block.FromU64Pair(2, uint64(i))
	}

	a, b := pipe()
	defer a.Close()
	defer b.Close()
	p := pool.NewPool(0)
	defer p.TearDown()

	var g errgroup.Group
	g.Go(func() error { return mqrpmtSend(a, X, uint64(len(Y)), p) })
	var bits []bool
	g.Go(func() error {
		var err error
		bits, err = mqrpmtReceive(b, Y, uint64(len(X)), p)
		return err
	})
	require.NoError(t, g.Wait())

	require.Len(t, bits, n)
	for i := 0; i < n/2; i++ {
		assert.True(t, bits[i], "index %d should be flagged present", i)
	}
	for i := n / 2; i < n; i++ {
		assert.False(t, bits[i], "index %d should be flagged absent", i)
	}
}
