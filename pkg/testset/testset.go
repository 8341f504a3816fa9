// Package testset implements the reproducible test-case file format: a
// generated (X, Y) instance together with its expected indication vector
// and union, so a protocol run's output can be checked against a fixed,
// persisted ground truth rather than recomputed ad hoc. Grounded on the
// teacher's config.Config.MarshalBinary/UnmarshalBinary in
// protocols/cmp/config/marshal.go, which wraps cbor.Marshal/Unmarshal
// around a plain struct the same way.
package testset

import (
	"crypto/rand"
	"fmt"
	"math/bits"

	"github.com/fxamacker/cbor/v2"

	"github.com/taurusgroup/psi-psu/pkg/block"
	"github.com/taurusgroup/psi-psu/pkg/protoerr"
)

// Case is one reproducible PSI/PSU test instance, matching the on-disk
// field order exactly.
type Case struct {
	LogNS         uint64
	LogNR         uint64
	NS            uint64
	NR            uint64
	IntersectionN uint64
	UnionN        uint64
	X             []block.Block
	Y             []block.Block
	Indication    []uint8
	Union         []block.Block
}

// rawCase has the same fields as Case but no MarshalBinary method, so cbor
// encodes it as a plain struct instead of recursing back into Case.MarshalBinary.
type rawCase Case

// MarshalBinary encodes the case via cbor.
func (c *Case) MarshalBinary() ([]byte, error) {
	return cbor.Marshal((*rawCase)(c))
}

// UnmarshalCase decodes a Case produced by MarshalBinary.
func UnmarshalCase(data []byte) (*Case, error) {
	var c Case
	if err := cbor.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("testset: UnmarshalCase: %w: %v", protoerr.ErrSerialization, err)
	}
	return &c, nil
}

func log2Ceil(n uint64) uint64 {
	if n <= 1 {
		return 0
	}
	return uint64(bits.Len64(n - 1))
}

func randomBlock() block.Block {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("testset: randomBlock: %v", err))
	}
	b, _ := block.FromBytes(buf[:])
	return b
}

// Generate builds a Case with nS Sender elements and nR Receiver elements,
// of which exactly overlap elements are shared, placed at random positions
// in X. The overlap count must not exceed either set size.
func Generate(nS, nR, overlap uint64) (*Case, error) {
	if overlap > nS || overlap > nR {
		return nil, fmt.Errorf("testset: Generate: overlap %d exceeds set sizes (%d, %d): %w", overlap, nS, nR, protoerr.ErrDimension)
	}

	Y := make([]block.Block, nR)
	for i := range Y {
		Y[i] = randomBlock()
	}

	X := make([]block.Block, nS)
	indication := make([]uint8, nS)

	sharedPositions := make(map[uint64]bool, overlap)
	for uint64(len(sharedPositions)) < overlap {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return nil, fmt.Errorf("testset: Generate: %w", err)
		}
		pos := bytesToUint64(buf) % nS
		sharedPositions[pos] = true
	}

	yIdx := 0
	used := make(map[uint64]bool, overlap)
	for pos := range sharedPositions {
		var yi uint64
		for {
			var buf [8]byte
			if _, err := rand.Read(buf[:]); err != nil {
				return nil, fmt.Errorf("testset: Generate: %w", err)
			}
			yi = bytesToUint64(buf) % nR
			if !used[yi] {
				used[yi] = true
				break
			}
		}
		X[pos] = Y[yi]
		indication[pos] = 1
		yIdx++
	}
	for i := range X {
		if indication[i] == 0 {
			X[i] = randomBlock()
		}
	}

	union := make([]block.Block, 0, nS+nR-overlap)
	union = append(union, Y...)
	for i, ind := range indication {
		if ind == 0 {
			union = append(union, X[i])
		}
	}

	return &Case{
		LogNS:         log2Ceil(nS),
		LogNR:         log2Ceil(nR),
		NS:            nS,
		NR:            nR,
		IntersectionN: overlap,
		UnionN:        uint64(len(union)),
		X:             X,
		Y:             Y,
		Indication:    indication,
		Union:         union,
	}, nil
}

func bytesToUint64(buf [8]byte) uint64 {
	var v uint64
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	return v
}
