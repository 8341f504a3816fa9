package psu

import (
	"crypto/rand"
	"fmt"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/channel"
	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/ot"
	"github.com/taurusgroup/psi-psu/pkg/pool"
	"github.com/taurusgroup/psi-psu/pkg/protoerr"
)

// Send runs the Sender side of PSU: Sender holds X, learns only |Y|
// (via the fixed set-size exchange both sides must already agree on), and
// contributes its elements to Receiver's union via OT extension without
// ever learning which of its elements Receiver already had.
func Send(ch *channel.Chan, c curve.Curve, X []block.Block, nR uint64, p *pool.Pool) error {
	n := len(X)
	if err := ot.CheckParameters(n, 128); err != nil {
		return fmt.Errorf("psu: Send: %w", err)
	}
	ch.Log().Info().Int("nx", n).Uint64("nr", nR).Msg("psu: sender starting")

	if err := mqrpmtSend(ch, X, nR, p); err != nil {
		return fmt.Errorf("psu: Send: mqRPMT: %w", err)
	}

	s := make([]bool, 128)
	for j := range s {
		s[j] = randomBit()
	}

	messages := make([][2]block.Block, n)
	for i := range messages {
		messages[i] = [2]block.Block{X[i], block.Zero}
	}
	if err := ot.ExtendSend(ch, c, s, messages, p); err != nil {
		return fmt.Errorf("psu: Send: OT extension: %w", err)
	}
	ch.Log().Info().Msg("psu: sender done")
	return nil
}

// Receive runs the Receiver side of PSU: Receiver holds Y, learns the bit
// vector b from mqRPMT, uses it as its OT-extension choice vector (b[i]=1
// selects the zero sentinel — X[i] is already in Y — b[i]=0 selects
// X[i] itself), and returns X ∪ Y.
func Receive(ch *channel.Chan, c curve.Curve, Y []block.Block, nX uint64, p *pool.Pool) ([]block.Block, error) {
	if err := ot.CheckParameters(int(nX), 128); err != nil {
		return nil, fmt.Errorf("psu: Receive: %w", err)
	}
	ch.Log().Info().Int("ny", len(Y)).Uint64("nx", nX).Msg("psu: receiver starting")

	b, err := mqrpmtReceive(ch, Y, nX, p)
	if err != nil {
		return nil, fmt.Errorf("psu: Receive: mqRPMT: %w", err)
	}

	selected, err := ot.ExtendReceive(ch, c, b, 128, p)
	if err != nil {
		return nil, fmt.Errorf("psu: Receive: OT extension: %w", err)
	}
	if len(selected) != len(b) {
		return nil, fmt.Errorf("psu: Receive: |selected|=%d does not match |b|=%d: %w", len(selected), len(b), protoerr.ErrDimension)
	}

	union := make([]block.Block, len(Y))
	copy(union, Y)
	for i, blk := range selected {
		if b[i] {
			continue
		}
		if blk.IsZero() {
			continue
		}
		union = append(union, blk)
	}
	ch.Log().Info().Int("union", len(union)).Msg("psu: receiver done")
	return union, nil
}

func randomBit() bool {
	var buf [1]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("psu: randomBit: %v", err))
	}
	return buf[0]&1 == 1
}
