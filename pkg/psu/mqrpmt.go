// Package psu implements multi-query reverse private membership test
// (mqRPMT) and its composition with OT extension into private set union,
// grounded on pkg/psi's cwPRF primitives plus a pkg/bloom.Filter playing
// the role spec.md assigns it: Sender arranges the doubly-applied,
// truncated values of Receiver's set into a filter, and Receiver tests the
// doubly-applied values of Sender's elements against it without Sender
// ever seeing the result.
package psu

import (
	"fmt"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/bloom"
	"github.com/taurusgroup/psi-psu/pkg/channel"
	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/pool"
	"github.com/taurusgroup/psi-psu/pkg/protoerr"
	"github.com/taurusgroup/psi-psu/pkg/psi"
)

// mqRPMTFalsePositiveRate is the target false-positive rate of the Bloom
// filter Sender builds over Receiver's doubly-applied set; it dominates PSU's 2^-σ failure
// term (invariant 2 in spec.md §8), so it is pinned to 2^-σ with σ=psi.Sigma.
const mqRPMTFalsePositiveRate = 1.0 / (1 << psi.Sigma)

// mqrpmtSend runs the Sender side of mqRPMT: Sender holds X (the query
// set) and learns nothing; Receiver ends up with the bit vector.
//
// Message order: send F_k1(X), receive F_k2(Y), send Bloom filter.
func mqrpmtSend(ch *channel.Chan, X []block.Block, nR uint64, p *pool.Pool) error {
	ch.Log().Info().Int("nx", len(X)).Uint64("nr", nR).Msg("psu: mqrpmt sender starting")

	k1 := curve.RandomMontgomeryScalar()

	xEncResults := p.Parallelize(len(X), func(i int) interface{} { return psi.Apply(k1, X[i]) })
	xEnc := make([]curve.MontgomeryPoint, len(X))
	for i, r := range xEncResults {
		xEnc[i] = r.(curve.MontgomeryPoint)
	}
	if err := psi.SendMontgomeryPoints(ch, xEnc); err != nil {
		return fmt.Errorf("psu: mqrpmtSend: %w", err)
	}

	yEnc, err := psi.RecvMontgomeryPoints(ch)
	if err != nil {
		return fmt.Errorf("psu: mqrpmtSend: %w", err)
	}
	if uint64(len(yEnc)) != nR {
		return fmt.Errorf("psu: mqrpmtSend: |Y|=%d does not match expected %d: %w", len(yEnc), nR, protoerr.ErrDimension)
	}

	tau := truncationLenFor(uint64(len(X)), nR)

	filter := bloom.New(nR, mqRPMTFalsePositiveRate)
	zResults := p.Parallelize(len(yEnc), func(j int) interface{} {
		z := psi.ApplyToPoint(k1, yEnc[j])
		return psi.Truncate(z, tau)
	})
	for _, r := range zResults {
		filter.Insert(r.([]byte))
	}

	if err := ch.SendBytes(filter.Serialize()); err != nil {
		return fmt.Errorf("psu: mqrpmtSend: %w", err)
	}
	ch.Log().Info().Msg("psu: mqrpmt sender done")
	return nil
}

// mqrpmtReceive runs the Receiver side of mqRPMT: Receiver holds Y and
// learns, for each i, whether X[i] ∈ Y, without learning X itself.
//
// Message order: receive F_k1(X), send F_k2(Y), receive Bloom filter.
func mqrpmtReceive(ch *channel.Chan, Y []block.Block, nX uint64, p *pool.Pool) ([]bool, error) {
	ch.Log().Info().Int("ny", len(Y)).Uint64("nx", nX).Msg("psu: mqrpmt receiver starting")

	xEnc, err := psi.RecvMontgomeryPoints(ch)
	if err != nil {
		return nil, fmt.Errorf("psu: mqrpmtReceive: %w", err)
	}
	if uint64(len(xEnc)) != nX {
		return nil, fmt.Errorf("psu: mqrpmtReceive: |X|=%d does not match expected %d: %w", len(xEnc), nX, protoerr.ErrDimension)
	}

	k2 := curve.RandomMontgomeryScalar()

	yEncResults := p.Parallelize(len(Y), func(j int) interface{} { return psi.Apply(k2, Y[j]) })
	yEnc := make([]curve.MontgomeryPoint, len(Y))
	for j, r := range yEncResults {
		yEnc[j] = r.(curve.MontgomeryPoint)
	}
	if err := psi.SendMontgomeryPoints(ch, yEnc); err != nil {
		return nil, fmt.Errorf("psu: mqrpmtReceive: %w", err)
	}

	filterBuf, err := ch.RecvBytes()
	if err != nil {
		return nil, fmt.Errorf("psu: mqrpmtReceive: %w", err)
	}
	filter, err := bloom.Deserialize(filterBuf)
	if err != nil {
		return nil, fmt.Errorf("psu: mqrpmtReceive: %w", err)
	}

	tau := truncationLenFor(nX, uint64(len(Y)))

	results := p.Parallelize(len(xEnc), func(i int) interface{} {
		w := psi.ApplyToPoint(k2, xEnc[i])
		return filter.Contain(psi.Truncate(w, tau))
	})
	b := make([]bool, len(xEnc))
	for i, r := range results {
		b[i] = r.(bool)
	}
	ch.Log().Info().Msg("psu: mqrpmt receiver done")
	return b, nil
}

// truncationLenFor mirrors psi.Setup's τ formula so mqRPMT's own truncated
// comparison values carry the same 2^-σ collision bound as cwPRF PSI's.
func truncationLenFor(nS, nR uint64) uint64 {
	return psi.Setup(nS, nR).Tau
}
