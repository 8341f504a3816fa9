package channel

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/curve"
)

func pipe() (*Chan, *Chan) {
	a, b := net.Pipe()
	return Wrap(a), Wrap(b)
}

func TestSendRecvBytes(t *testing.T) {
	a, b := pipe()
	defer a.Close()
	defer b.Close()

	var g errgroup.Group
	g.Go(func() error { return a.SendBytes([]byte("hello")) })
	var got []byte
	g.Go(func() error {
		var err error
		got, err = b.RecvBytes()
		return err
	})
	require.NoError(t, g.Wait())
	assert.Equal(t, []byte("hello"), got)
}

func TestSendRecvBlocks(t *testing.T) {
	a, b := pipe()
	defer a.Close()
	defer b.Close()

	blocks := []block.Block{block.FromU64Pair(1, 2), block.FromU64Pair(3, 4)}

	var g errgroup.Group
	g.Go(func() error { return a.SendBlocks(blocks) })
	var got []block.Block
	g.Go(func() error {
		var err error
		got, err = b.RecvBlocks()
		return err
	})
	require.NoError(t, g.Wait())
	assert.True(t, block.EqVec(blocks, got))
}

func TestSendRecvPointsAndScalars(t *testing.T) {
	a, b := pipe()
	defer a.Close()
	defer b.Close()

	c := curve.P256
	scalars := []curve.Scalar{c.RandomScalar(), c.RandomScalar()}
	points := []curve.Point{scalars[0].ActOnBase(), scalars[1].ActOnBase()}

	var g errgroup.Group
	g.Go(func() error { return a.SendScalars(scalars) })
	var gotScalars []curve.Scalar
	g.Go(func() error {
		var err error
		gotScalars, err = b.RecvScalars(c)
		return err
	})
	require.NoError(t, g.Wait())
	require.Len(t, gotScalars, 2)
	for i := range scalars {
		assert.True(t, scalars[i].Equal(gotScalars[i]))
	}

	var g2 errgroup.Group
	g2.Go(func() error { return a.SendPoints(points) })
	var gotPoints []curve.Point
	g2.Go(func() error {
		var err error
		gotPoints, err = b.RecvPoints(c)
		return err
	})
	require.NoError(t, g2.Wait())
	require.Len(t, gotPoints, 2)
	for i := range points {
		assert.True(t, points[i].Equal(gotPoints[i]))
	}
}

func TestSendRecvStrings(t *testing.T) {
	a, b := pipe()
	defer a.Close()
	defer b.Close()

	values := []string{"alpha", "", "beta-gamma"}

	var g errgroup.Group
	g.Go(func() error { return a.SendStrings(values) })
	var got []string
	g.Go(func() error {
		var err error
		got, err = b.RecvStrings()
		return err
	})
	require.NoError(t, g.Wait())
	assert.Equal(t, values, got)
}
