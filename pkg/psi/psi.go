package psi

import (
	"encoding/binary"
	"fmt"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/channel"
	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/hash"
	"github.com/taurusgroup/psi-psu/pkg/pool"
	"github.com/taurusgroup/psi-psu/pkg/protoerr"
)

// H2Curve25519 hashes a block to a curve25519 u-coordinate. Every 32-byte
// string is a valid Montgomery ladder input, so no rejection sampling or
// Elligator map is needed — an extendable-output hash of the block already
// lands in the right 32-byte space.
func H2Curve25519(x block.Block) curve.MontgomeryPoint {
	h := hash.New()
	_ = h.WriteAny(x.ToBytes())
	var p curve.MontgomeryPoint
	copy(p[:], hash.ToBytes(h, len(p)))
	return p
}

// Apply computes F_k(x) = x25519(k, H2Curve25519(x)), the cwPRF's action
// on a fresh input block.
func Apply(k curve.MontgomeryScalar, x block.Block) curve.MontgomeryPoint {
	return curve.ScalarMul(k, H2Curve25519(x))
}

// ApplyToPoint re-applies the cwPRF's scalar action to a point that is
// itself the output of a previous application, the step that realizes
// commutativity: F_k2(F_k1(x)) = ScalarMul(k2, F_k1(x)).
func ApplyToPoint(k curve.MontgomeryScalar, p curve.MontgomeryPoint) curve.MontgomeryPoint {
	return curve.ScalarMul(k, p)
}

// SendMontgomeryPoints sends a length-prefixed vector of curve25519 points,
// the wire shape every cwPRF-based protocol (psi, psu's mqRPMT) exchanges.
func SendMontgomeryPoints(ch *channel.Chan, pts []curve.MontgomeryPoint) error {
	buf := make([]byte, 4+32*len(pts))
	binary.BigEndian.PutUint32(buf[:4], uint32(len(pts)))
	for i, p := range pts {
		copy(buf[4+32*i:4+32*(i+1)], p[:])
	}
	return ch.SendBytes(buf)
}

// RecvMontgomeryPoints receives a vector sent by SendMontgomeryPoints.
func RecvMontgomeryPoints(ch *channel.Chan) ([]curve.MontgomeryPoint, error) {
	buf, err := ch.RecvBytes()
	if err != nil {
		return nil, err
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("psi: recvMontgomeryPoints: truncated header: %w", protoerr.ErrSerialization)
	}
	n := binary.BigEndian.Uint32(buf[:4])
	if len(buf) != 4+32*int(n) {
		return nil, fmt.Errorf("psi: recvMontgomeryPoints: length mismatch: %w", protoerr.ErrSerialization)
	}
	out := make([]curve.MontgomeryPoint, n)
	for i := range out {
		copy(out[i][:], buf[4+32*i:4+32*(i+1)])
	}
	return out, nil
}

func sendTruncated(ch *channel.Chan, values [][]byte, tau int) error {
	buf := make([]byte, 4+tau*len(values))
	binary.BigEndian.PutUint32(buf[:4], uint32(len(values)))
	for i, v := range values {
		copy(buf[4+tau*i:4+tau*(i+1)], v)
	}
	return ch.SendBytes(buf)
}

func recvTruncated(ch *channel.Chan, tau int) ([][]byte, error) {
	buf, err := ch.RecvBytes()
	if err != nil {
		return nil, err
	}
	if len(buf) < 4 {
		return nil, fmt.Errorf("psi: recvTruncated: truncated header: %w", protoerr.ErrSerialization)
	}
	n := binary.BigEndian.Uint32(buf[:4])
	if len(buf) != 4+tau*int(n) {
		return nil, fmt.Errorf("psi: recvTruncated: length mismatch: %w", protoerr.ErrSerialization)
	}
	out := make([][]byte, n)
	for i := range out {
		out[i] = append([]byte(nil), buf[4+tau*i:4+tau*(i+1)]...)
	}
	return out, nil
}

// Truncate returns the first tau bytes of a curve25519 point encoding,
// the collision-bounded comparison value both psi and mqRPMT hash into a
// set or Bloom filter instead of comparing full points.
func Truncate(p curve.MontgomeryPoint, tau uint64) []byte {
	return p[:tau]
}

// Send runs the Sender side of cwPRF PSI, holding Y and learning nothing.
// Message order is fixed: send, receive, send.
func Send(ch *channel.Chan, pp *PP, Y []block.Block, p *pool.Pool) error {
	if uint64(len(Y)) != pp.NR {
		return fmt.Errorf("psi: Send: |Y|=%d does not match PP.NR=%d: %w", len(Y), pp.NR, protoerr.ErrDimension)
	}

	ch.Log().Info().Uint64("ns", pp.NS).Uint64("nr", pp.NR).Msg("psi: sender starting")

	k1 := curve.RandomMontgomeryScalar()

	yEncResults := p.Parallelize(len(Y), func(i int) interface{} { return Apply(k1, Y[i]) })
	yEnc := make([]curve.MontgomeryPoint, len(Y))
	for i, r := range yEncResults {
		yEnc[i] = r.(curve.MontgomeryPoint)
	}
	if err := SendMontgomeryPoints(ch, yEnc); err != nil {
		return fmt.Errorf("psi: Send: %w", err)
	}
	ch.Log().Debug().Msg("psi: sender sent F_k1(Y)")

	xEnc, err := RecvMontgomeryPoints(ch)
	if err != nil {
		return fmt.Errorf("psi: Send: %w", err)
	}
	if uint64(len(xEnc)) != pp.NS {
		return fmt.Errorf("psi: Send: |X|=%d does not match PP.NS=%d: %w", len(xEnc), pp.NS, protoerr.ErrDimension)
	}
	ch.Log().Debug().Msg("psi: sender received F_k2(X)")

	zResults := p.Parallelize(len(xEnc), func(i int) interface{} {
		z := ApplyToPoint(k1, xEnc[i])
		return Truncate(z, pp.Tau)
	})
	z := make([][]byte, len(xEnc))
	for i, r := range zResults {
		z[i] = r.([]byte)
	}
	if err := sendTruncated(ch, z, int(pp.Tau)); err != nil {
		return fmt.Errorf("psi: Send: %w", err)
	}
	ch.Log().Info().Msg("psi: sender done")
	return nil
}

// Receive runs the Receiver side of cwPRF PSI, holding X and learning
// X ∩ Y. Message order is fixed: receive, send, receive.
func Receive(ch *channel.Chan, pp *PP, X []block.Block, p *pool.Pool) ([]block.Block, error) {
	if uint64(len(X)) != pp.NS {
		return nil, fmt.Errorf("psi: Receive: |X|=%d does not match PP.NS=%d: %w", len(X), pp.NS, protoerr.ErrDimension)
	}

	ch.Log().Info().Uint64("ns", pp.NS).Uint64("nr", pp.NR).Msg("psi: receiver starting")

	yEnc, err := RecvMontgomeryPoints(ch)
	if err != nil {
		return nil, fmt.Errorf("psi: Receive: %w", err)
	}
	if uint64(len(yEnc)) != pp.NR {
		return nil, fmt.Errorf("psi: Receive: |Y|=%d does not match PP.NR=%d: %w", len(yEnc), pp.NR, protoerr.ErrDimension)
	}
	ch.Log().Debug().Msg("psi: receiver received F_k1(Y)")

	k2 := curve.RandomMontgomeryScalar()

	xEncResults := p.Parallelize(len(X), func(i int) interface{} { return Apply(k2, X[i]) })
	xEnc := make([]curve.MontgomeryPoint, len(X))
	for i, r := range xEncResults {
		xEnc[i] = r.(curve.MontgomeryPoint)
	}
	if err := SendMontgomeryPoints(ch, xEnc); err != nil {
		return nil, fmt.Errorf("psi: Receive: %w", err)
	}
	ch.Log().Debug().Msg("psi: receiver sent F_k2(X)")

	wResults := p.Parallelize(len(yEnc), func(j int) interface{} {
		w := ApplyToPoint(k2, yEnc[j])
		return string(Truncate(w, pp.Tau))
	})
	S := make(map[string]struct{}, len(wResults))
	for _, r := range wResults {
		S[r.(string)] = struct{}{}
	}

	z, err := recvTruncated(ch, int(pp.Tau))
	if err != nil {
		return nil, fmt.Errorf("psi: Receive: %w", err)
	}
	if len(z) != len(X) {
		return nil, fmt.Errorf("psi: Receive: |Z|=%d does not match |X|=%d: %w", len(z), len(X), protoerr.ErrDimension)
	}

	var intersection []block.Block
	for i, zi := range z {
		if _, ok := S[string(zi)]; ok {
			intersection = append(intersection, X[i])
		}
	}
	ch.Log().Info().Int("intersection", len(intersection)).Msg("psi: receiver done")
	return intersection, nil
}
