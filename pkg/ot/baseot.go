// Package ot implements the Naor–Pinkas-style base OT and its ALSZ
// extension to many OTs on block-sized messages, grounded on the teacher's
// internal/ot/random.go key-agreement shape (sample a scalar, form A = a·G
// (+ c·B), hash-derive keys) generalized from random-message OT to
// arbitrary (M0, M1) block payloads.
package ot

import (
	"fmt"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/channel"
	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/hash"
	"github.com/taurusgroup/psi-psu/pkg/pool"
	"github.com/taurusgroup/psi-psu/pkg/protoerr"
)

func baseOTKey(shared curve.Point, index int) block.Block {
	h := hash.New()
	_ = h.WriteAny(shared)
	var ctr [8]byte
	for i := 0; i < 8; i++ {
		ctr[i] = byte(index >> (56 - 8*i))
	}
	_ = h.WriteAny(hash.BytesWithDomain{TheDomain: "baseot.index", Bytes: ctr[:]})
	k, err := block.FromBytes(hash.ToBytes(h, 16))
	if err != nil {
		panic(fmt.Sprintf("ot: baseOTKey: %v", err))
	}
	return k
}

// BaseOTSend runs the Sender side of n parallel 1-out-of-2 OTs on block
// messages (messages[i] = (M0[i], M1[i])). After one round-trip plus a
// ciphertext send, the peer learns exactly messages[i][choices[i]] for each
// i and nothing about the other half; Sender learns nothing about choices.
func BaseOTSend(ch *channel.Chan, c curve.Curve, messages [][2]block.Block, p *pool.Pool) error {
	n := len(messages)

	r := c.RandomScalar()
	A := r.ActOnBase()
	if err := ch.SendPoints([]curve.Point{A}); err != nil {
		return fmt.Errorf("ot: BaseOTSend: %w", err)
	}

	B, err := ch.RecvPoints(c)
	if err != nil {
		return fmt.Errorf("ot: BaseOTSend: %w", err)
	}
	if len(B) != n {
		return fmt.Errorf("ot: BaseOTSend: dimension mismatch: %w", protoerr.ErrDimension)
	}

	ciphertexts := make([]block.Block, 2*n)
	p.Parallelize(n, func(i int) interface{} {
		k0 := baseOTKey(r.Act(B[i]), i)
		k1 := baseOTKey(r.Act(B[i].Sub(c.Generator())), i)
		ciphertexts[2*i] = messages[i][0].Xor(k0)
		ciphertexts[2*i+1] = messages[i][1].Xor(k1)
		return struct{}{}
	})

	if err := ch.SendBlocks(ciphertexts); err != nil {
		return fmt.Errorf("ot: BaseOTSend: %w", err)
	}
	return nil
}

// BaseOTReceive runs the Receiver side with choice bits choices, returning
// the selected message for each OT.
func BaseOTReceive(ch *channel.Chan, c curve.Curve, choices []bool, p *pool.Pool) ([]block.Block, error) {
	n := len(choices)

	AVec, err := ch.RecvPoints(c)
	if err != nil {
		return nil, fmt.Errorf("ot: BaseOTReceive: %w", err)
	}
	if len(AVec) != 1 {
		return nil, fmt.Errorf("ot: BaseOTReceive: dimension mismatch: %w", protoerr.ErrDimension)
	}
	A := AVec[0]

	aScalars := make([]curve.Scalar, n)
	B := make([]curve.Point, n)
	for i := range choices {
		a := c.RandomScalar()
		aScalars[i] = a
		B[i] = a.ActOnBase()
		if choices[i] {
			B[i] = B[i].Add(c.Generator())
		}
	}
	if err := ch.SendPoints(B); err != nil {
		return nil, fmt.Errorf("ot: BaseOTReceive: %w", err)
	}

	ciphertexts, err := ch.RecvBlocks()
	if err != nil {
		return nil, fmt.Errorf("ot: BaseOTReceive: %w", err)
	}
	if len(ciphertexts) != 2*n {
		return nil, fmt.Errorf("ot: BaseOTReceive: dimension mismatch: %w", protoerr.ErrDimension)
	}

	results := p.Parallelize(n, func(i int) interface{} {
		key := baseOTKey(aScalars[i].Act(A), i)
		idx := 0
		if choices[i] {
			idx = 1
		}
		return ciphertexts[2*i+idx].Xor(key)
	})

	out := make([]block.Block, n)
	for i, r := range results {
		out[i] = r.(block.Block)
	}
	return out, nil
}
