package ot

import (
	"fmt"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/channel"
	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/taurusgroup/psi-psu/pkg/hash"
	"github.com/taurusgroup/psi-psu/pkg/pool"
	"github.com/taurusgroup/psi-psu/pkg/ppenc"
	"github.com/taurusgroup/psi-psu/pkg/protoerr"
)

// ExtensionPP is the public-parameters record for an ALSZ OT-extension
// session: baseOT_PP (here, just Lambda) ‖ malicious ‖ BASE_LEN, each
// encoded as a u64 field (malicious as 0 or 1).
// Malicious is carried for wire compatibility only — no round function
// here branches on it, since this package implements the semi-honest
// variant exclusively.
type ExtensionPP struct {
	Lambda    uint64
	Malicious bool
	BaseLen   uint64
}

// NewExtensionPP builds the standard PP with lambda base OTs and
// Malicious=false.
func NewExtensionPP(lambda uint64) *ExtensionPP {
	return &ExtensionPP{Lambda: lambda, Malicious: false, BaseLen: lambda}
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// MarshalBinary encodes the PP as three canonical uint64 fields.
func (pp *ExtensionPP) MarshalBinary() ([]byte, error) {
	return ppenc.EncodeUint64s(pp.Lambda, boolToU64(pp.Malicious), pp.BaseLen), nil
}

// UnmarshalExtensionPP decodes a PP produced by MarshalBinary.
func UnmarshalExtensionPP(data []byte) (*ExtensionPP, error) {
	fields, err := ppenc.DecodeUint64s(data, 3)
	if err != nil {
		return nil, fmt.Errorf("ot: UnmarshalExtensionPP: %w", err)
	}
	return &ExtensionPP{Lambda: fields[0], Malicious: fields[1] != 0, BaseLen: fields[2]}, nil
}

// ExtendSend runs the Sender side of the ALSZ OT extension: it holds the
// base-OT choice bits s and the N pairs of payload messages, and, after the
// session, the peer will hold messages[i][r[i]] for its own choice vector
// r, for every i.
func ExtendSend(ch *channel.Chan, c curve.Curve, s []bool, messages [][2]block.Block, p *pool.Pool) error {
	lambda := len(s)
	n := len(messages)
	if err := CheckParameters(n, lambda); err != nil {
		return err
	}
	ch.Log().Info().Int("lambda", lambda).Int("n", n).Msg("ot: extend sender starting")

	ks, err := BaseOTReceive(ch, c, s, p)
	if err != nil {
		return fmt.Errorf("ot: ExtendSend: base OT: %w", err)
	}

	c0, err := ch.RecvBlocks()
	if err != nil {
		return fmt.Errorf("ot: ExtendSend: %w", err)
	}
	c1, err := ch.RecvBlocks()
	if err != nil {
		return fmt.Errorf("ot: ExtendSend: %w", err)
	}
	pBuf, err := ch.RecvBytes()
	if err != nil {
		return fmt.Errorf("ot: ExtendSend: %w", err)
	}
	if len(c0) != lambda || len(c1) != lambda || len(pBuf) != lambda*n/8 {
		return fmt.Errorf("ot: ExtendSend: dimension mismatch: %w", protoerr.ErrDimension)
	}
	correction := &block.BitMatrix{Rows: lambda, Cols: n, Data: pBuf}

	// Q[j] = PRG(seed chosen by s[j]); when s[j]=1 that seed is U_seed, so
	// the correction row P[j] = T[j] ⊕ U[j] ⊕ r must be XORed in to turn
	// the U-row into T[j] ⊕ r, matching the T[i,j] ⊕ (s_j ∧ r_i) invariant.
	qRows := p.Parallelize(lambda, func(j int) interface{} {
		var seed block.Block
		if s[j] {
			seed = c1[j].Xor(ks[j])
		} else {
			seed = c0[j].Xor(ks[j])
		}
		row := expandRow(seed, n)
		if s[j] {
			row = xorBytes(row, correction.Row(j))
		}
		return row
	})
	rows := make([][]byte, lambda)
	for j, r := range qRows {
		rows[j] = r.([]byte)
	}
	Q := rowMatrix(rows, n)

	QT, err := block.Transpose(Q)
	if err != nil {
		return fmt.Errorf("ot: ExtendSend: %w", err)
	}

	sDense := packChoiceBits(s)

	cipherResults := p.Parallelize(n, func(i int) interface{} {
		row := QT.Row(i)
		k0 := hashRow(row, i)
		k1 := hashRow(xorBytes(row, sDense), i)
		return [2]block.Block{messages[i][0].Xor(k0), messages[i][1].Xor(k1)}
	})

	ciphertexts := make([]block.Block, 2*n)
	for i, r := range cipherResults {
		pair := r.([2]block.Block)
		ciphertexts[2*i] = pair[0]
		ciphertexts[2*i+1] = pair[1]
	}
	if err := ch.SendBlocks(ciphertexts); err != nil {
		return fmt.Errorf("ot: ExtendSend: %w", err)
	}
	ch.Log().Info().Msg("ot: extend sender done")
	return nil
}

// ExtendReceive runs the Receiver side of the ALSZ OT extension with choice
// vector r (length N, a multiple of 128), returning messages[i][r[i]] for
// each i.
func ExtendReceive(ch *channel.Chan, c curve.Curve, r []bool, lambda int, p *pool.Pool) ([]block.Block, error) {
	n := len(r)
	if err := CheckParameters(n, lambda); err != nil {
		return nil, err
	}
	ch.Log().Info().Int("lambda", lambda).Int("n", n).Msg("ot: extend receiver starting")

	tSeeds := make([]block.Block, lambda)
	uSeeds := make([]block.Block, lambda)
	for j := 0; j < lambda; j++ {
		tSeeds[j] = randomSeed()
		uSeeds[j] = randomSeed()
	}

	rPacked := packChoiceBits(r)

	expanded := p.Parallelize(lambda, func(j int) interface{} {
		tRow := expandRow(tSeeds[j], n)
		uRow := expandRow(uSeeds[j], n)
		pRow := xorBytes(xorBytes(tRow, uRow), rPacked)
		return [2][]byte{tRow, pRow}
	})
	tRows := make([][]byte, lambda)
	pRows := make([][]byte, lambda)
	for j, e := range expanded {
		pair := e.([2][]byte)
		tRows[j] = pair[0]
		pRows[j] = pair[1]
	}
	T := rowMatrix(tRows, n)
	P := rowMatrix(pRows, n)

	k0 := make([]block.Block, lambda)
	k1 := make([]block.Block, lambda)
	for j := 0; j < lambda; j++ {
		k0[j] = randomSeed()
		k1[j] = randomSeed()
	}
	baseMessages := make([][2]block.Block, lambda)
	for j := range baseMessages {
		baseMessages[j] = [2]block.Block{k0[j], k1[j]}
	}
	if err := BaseOTSend(ch, c, baseMessages, p); err != nil {
		return nil, fmt.Errorf("ot: ExtendReceive: base OT: %w", err)
	}

	c0 := make([]block.Block, lambda)
	c1 := make([]block.Block, lambda)
	for j := 0; j < lambda; j++ {
		c0[j] = k0[j].Xor(tSeeds[j])
		c1[j] = k1[j].Xor(uSeeds[j])
	}
	if err := ch.SendBlocks(c0); err != nil {
		return nil, fmt.Errorf("ot: ExtendReceive: %w", err)
	}
	if err := ch.SendBlocks(c1); err != nil {
		return nil, fmt.Errorf("ot: ExtendReceive: %w", err)
	}
	if err := ch.SendBytes(P.Data); err != nil {
		return nil, fmt.Errorf("ot: ExtendReceive: %w", err)
	}

	TT, err := block.Transpose(T)
	if err != nil {
		return nil, fmt.Errorf("ot: ExtendReceive: %w", err)
	}
	keys := p.Parallelize(n, func(i int) interface{} {
		return hashRow(TT.Row(i), i)
	})

	ciphertexts, err := ch.RecvBlocks()
	if err != nil {
		return nil, fmt.Errorf("ot: ExtendReceive: %w", err)
	}
	if len(ciphertexts) != 2*n {
		return nil, fmt.Errorf("ot: ExtendReceive: dimension mismatch: %w", protoerr.ErrDimension)
	}

	results := p.Parallelize(n, func(i int) interface{} {
		k := keys[i].(block.Block)
		idx := 0
		if r[i] {
			idx = 1
		}
		return ciphertexts[2*i+idx].Xor(k)
	})
	out := make([]block.Block, n)
	for i, res := range results {
		out[i] = res.(block.Block)
	}
	ch.Log().Info().Msg("ot: extend receiver done")
	return out, nil
}

// hashRow hashes a λ-bit row (16 bytes) with the OT index domain-separated
// in, producing the per-index key used to mask/unmask the payload.
func hashRow(row []byte, index int) block.Block {
	h := hash.New()
	_ = h.WriteAny(row)
	var ctr [8]byte
	for i := 0; i < 8; i++ {
		ctr[i] = byte(index >> (56 - 8*i))
	}
	_ = h.WriteAny(hash.BytesWithDomain{TheDomain: "ot.extend.index", Bytes: ctr[:]})
	b, err := block.FromBytes(hash.ToBytes(h, 16))
	if err != nil {
		panic(fmt.Sprintf("ot: hashRow: %v", err))
	}
	return b
}
