package ot

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

func pipeChans() (*channel.Chan, *channel.Chan) {
	a, b := net.Pipe()
	return channel.Wrap(a), channel.Wrap(b)
}

func TestBaseOTCorrectness(t *testing.T) {
	c := curve.P256
	n := 8
	messages := make([][2]block.Block, n)
	choices := make([]bool, n)
	for i := 0; i < n; i++ {
		messages[i] = [2]block.Block{block.FromU64Pair(uint64(i), 0), block.FromU64Pair(0, uint64(i)+1000)}
		choices[i] = i%2 == 0
	}

	sender, receiver := pipeChans()
	defer sender.Close()
	defer receiver.Close()

	p := pool.NewPool(0)
	defer p.TearDown()

	var g errgroup.Group
	g.Go(func() error { return BaseOTSend(sender, c, messages, p) })
	var results []block.Block
	g.Go(func() error {
		var err error
		results, err = BaseOTReceive(receiver, c, choices, p)
		return err
	})
	require.NoError(t, g.Wait())

	require.Len(t, results, n)
	for i := 0; i < n; i++ {
		idx := 0
		if choices[i] {
			idx = 1
		}
		assert.True(t, results[i].Eq(messages[i][idx]), "index %d", i)
	}
}
