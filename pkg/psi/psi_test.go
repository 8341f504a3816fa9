package psi

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/channel"
	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/pool"
)

func pipe() (*channel.Chan, *channel.Chan) {
	a, b := net.Pipe()
	return channel.Wrap(a), channel.Wrap(b)
}

func TestApplyCommutative(t *testing.T) {
	k1 := curve.RandomMontgomeryScalar()
	k2 := curve.RandomMontgomeryScalar()
	x := block.FromU64Pair(1, 2)

	left := ApplyToPoint(k1, Apply(k2, x))
	right := ApplyToPoint(k2, Apply(k1, x))
	assert.Equal(t, left, right)
}

func TestSetupTruncationLength(t *testing.T) {
	pp := Setup(1, 1)
	assert.Equal(t, uint64(5), pp.Tau) // ceil((40+0+0)/8)

	pp2 := Setup(1024, 1024)
	assert.Equal(t, uint64(8), pp2.Tau) // ceil((40+10+10)/8)
}

func TestPPRoundTrip(t *testing.T) {
	pp := Setup(16, 16)
	data, err := pp.MarshalBinary()
	require.NoError(t, err)
	got, err := UnmarshalPP(data)
	require.NoError(t, err)
	assert.Equal(t, pp, got)
}

func TestEmptyIntersection(t *testing.T) {
	X := []block.Block{block.FromU64Pair(0, 1)}
	Y := []block.Block{block.FromU64Pair(0, 2)}
	pp := Setup(uint64(len(X)), uint64(len(Y)))

	a, b := pipe()
	defer a.Close()
	defer b.Close()
	p := pool.NewPool(0)
	defer p.TearDown()

	var g errgroup.Group
	g.Go(func() error { return Send(a, pp, Y, p) })
	var got []block.Block
	g.Go(func() error {
		var err error
		got, err = Receive(b, pp, X, p)
		return err
	})
	require.NoError(t, g.Wait())
	assert.Empty(t, got)
}

func TestFullOverlapIntersection(t *testing.T) {
	const n = 16
	X := make([]block.Block, n)
	Y := make([]block.Block, n)
	for i := 0; i < n; i++ {
		X[i] = block.FromU64Pair(0, uint64(i))
		Y[i] = block.FromU64Pair(0, uint64(i))
	}
	pp := Setup(uint64(n), uint64(n))

	a, b := pipe()
	defer a.Close()
	defer b.Close()
	p := pool.NewPool(0)
	defer p.TearDown()

	var g errgroup.Group
	g.Go(func() error { return Send(a, pp, Y, p) })
	var got []block.Block
	g.Go(func() error {
		var err error
		got, err = Receive(b, pp, X, p)
		return err
	})
	require.NoError(t, g.Wait())
	assert.ElementsMatch(t, X, got)
}
