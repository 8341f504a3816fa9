package psu

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

// TestHalfOverlapPSU exercises a variant of scenario S3 at a scale that
// keeps the test fast: half the Sender set already present in Receiver's
// set, result should be exactly the union with no duplicates beyond the
// shared half.
func TestHalfOverlapPSU(t *testing.T) {
	const n = 128 // must be a multiple of 128 per CheckParameters

	Y := make([]block.Block, n)
	for i := 0; i < n; i++ {
		Y[i] = block.FromU64Pair(1, uint64(i))
	}

	X := make([]block.Block, n)
	for i := 0; i < n/2; i++ {
		X[i] = Y[i] // shared half
	}
	for i := n / 2; i < n; i++ {
		X[i] = block.FromU64Pair(2, uint64(i)) // disjoint half
	}

	a, b := pipe()
	defer a.Close()
	defer b.Close()
	p := pool.NewPool(0)
	defer p.TearDown()

	c := curve.P256

	var g errgroup.Group
	g.Go(func() error { return Send(a, c, X, uint64(len(Y)), p) })
	var union []block.Block
	g.Go(func() error {
		var err error
		union, err = Receive(b, c, Y, uint64(len(X)), p)
		return err
	})
	require.NoError(t, g.Wait())

	want := make(map[block.Block]struct{})
	for _, v := range Y {
		want[v] = struct{}{}
	}
	for _, v := range X {
		want[v] = struct{}{}
	}
	got := make(map[block.Block]struct{})
	for _, v := range union {
		got[v] = struct{}{}
	}
	assert.Equal(t, want, got)
	assert.Len(t, union, len(want))
}
