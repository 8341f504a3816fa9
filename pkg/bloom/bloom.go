// Package bloom implements the salted Bloom filter used by mqRPMT: the
// Sender fills it and sends it, and the Receiver queries it to learn which
// Sender elements lie in its own set without the Sender seeing the result.
package bloom

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/taurusgroup/psi-psu/internal/params"
	"github.com/taurusgroup/psi-psu/pkg/hash"
	"github.com/taurusgroup/psi-psu/pkg/protoerr"
)

// Filter is a Bloom filter parameterized by hash count k and bit-table size
// m, both derived deterministically from the expected element count and
// target false-positive rate.
type Filter struct {
	K, Seed, M uint32
	Salts      []uint32
	Bits       *bitset.BitSet
	NInserted  uint64
}

// New computes k = ceil(-log2(p)), m = ceil(n*1.44*-log2(p)) rounded up to a
// byte boundary, and derives salts from the fixed seed.
func New(n uint64, p float64) *Filter {
	negLog2p := -math.Log2(p)
	k := uint32(math.Ceil(negLog2p))
	if k == 0 {
		k = 1
	}
	m := uint32(math.Ceil(float64(n) * 1.44 * negLog2p))
	if m%8 != 0 {
		m += 8 - m%8
	}
	if m == 0 {
		m = 8
	}

	seed := uint32(params.BloomSeedMagic)
	return &Filter{
		K:     k,
		Seed:  seed,
		M:     m,
		Salts: DeriveSalts(k, seed),
		Bits:  bitset.New(uint(m)),
	}
}

// baseSaltTable is the fixed constant table DeriveSalts mixes from. It is
// derived once, deterministically, from the Bloom seed magic via a simple
// splitmix-style generator rather than hand-listed — both sides compute the
// identical table because the generator has no external randomness.
var baseSaltTable = buildBaseSaltTable()

const baseSaltTableLen = 128

func buildBaseSaltTable() [baseSaltTableLen]uint32 {
	var table [baseSaltTableLen]uint32
	x := uint64(params.BloomSeedMagic)
	for i := range table {
		x += 0x9e3779b97f4a7c15
		z := x
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z = z ^ (z >> 31)
		table[i] = uint32(z)
	}
	return table
}

// DeriveSalts produces k deterministic salts given (k, seed): both parties
// must derive identical salts from the same inputs, since the Bloom filter
// is reconstructed independently by each side of mqRPMT.
func DeriveSalts(k, seed uint32) []uint32 {
	kUsed := k
	if kUsed > baseSaltTableLen {
		kUsed = baseSaltTableLen
	}

	salts := make([]uint32, kUsed)
	copy(salts, baseSaltTable[:kUsed])
	for i := range salts {
		salts[i] = salts[i]*salts[(i+3)%int(kUsed)] + seed
	}

	if k <= baseSaltTableLen {
		return salts
	}

	// Additional salts beyond the fixed table are drawn from a seedable PRG
	// distinct from the primary crypto PRG — blake3 keyed by the Bloom seed
	// rather than crypto/rand — and de-duplicated against the existing set.
	seen := make(map[uint32]bool, k)
	for _, s := range salts {
		seen[s] = true
	}

	var key [32]byte
	binary.BigEndian.PutUint32(key[:4], seed)
	binary.BigEndian.PutUint32(key[4:8], k)
	prg := hash.NewKeyed(key).Digest()

	for uint32(len(salts)) < k {
		var buf [4]byte
		if _, err := io.ReadFull(prg, buf[:]); err != nil {
			panic(fmt.Sprintf("bloom: DeriveSalts: PRG failure: %v", err))
		}
		candidate := binary.BigEndian.Uint32(buf[:])
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		salts = append(salts, candidate)
	}
	return salts
}

// keyedHash maps (salt, data) to a bit index in [0, m) of the filter's
// table, via a blake3 instance keyed by the salt.
func keyedHash(salt uint32, data []byte, m uint32) uint32 {
	var key [32]byte
	binary.BigEndian.PutUint32(key[:4], salt)
	h := hash.NewKeyed(key)
	_ = h.WriteAny(data)
	sum := h.Sum()
	v := binary.BigEndian.Uint64(sum[:8])
	return uint32(v % uint64(m))
}

// Insert sets the k salted bits corresponding to data.
func (f *Filter) Insert(data []byte) {
	for _, salt := range f.Salts {
		idx := keyedHash(salt, data, f.M)
		f.Bits.Set(uint(idx))
	}
	f.NInserted++
}

// Contain reports whether data may have been inserted: false on the first
// unset bit, true otherwise. No false negatives; false positives occur at
// approximately the target rate when NInserted stays within the filter's
// designed capacity.
func (f *Filter) Contain(data []byte) bool {
	for _, salt := range f.Salts {
		idx := keyedHash(salt, data, f.M)
		if !f.Bits.Test(uint(idx)) {
			return false
		}
	}
	return true
}

// Serialize encodes the filter as k(u32) ‖ seed(u32) ‖ m(u32) ‖ bits[m/8],
// with no trailer.
func (f *Filter) Serialize() []byte {
	packed := make([]byte, f.M/8)
	for i := uint(0); i < uint(f.M); i++ {
		if f.Bits.Test(i) {
			packed[i/8] |= 1 << (i % 8)
		}
	}

	out := make([]byte, 12+len(packed))
	binary.BigEndian.PutUint32(out[0:4], f.K)
	binary.BigEndian.PutUint32(out[4:8], f.Seed)
	binary.BigEndian.PutUint32(out[8:12], f.M)
	copy(out[12:], packed)
	return out
}

// Deserialize decodes a filter from its wire format, re-deriving salts from
// the recovered (k, seed) rather than storing them on the wire.
func Deserialize(data []byte) (*Filter, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("bloom: Deserialize: truncated header: %w", protoerr.ErrSerialization)
	}
	k := binary.BigEndian.Uint32(data[0:4])
	seed := binary.BigEndian.Uint32(data[4:8])
	m := binary.BigEndian.Uint32(data[8:12])

	want := 12 + int(m/8)
	if m%8 != 0 || len(data) != want {
		return nil, fmt.Errorf("bloom: Deserialize: bit-table size mismatch: %w", protoerr.ErrDimension)
	}

	bits := bitset.New(uint(m))
	packed := data[12:]
	for i, b := range packed {
		if b == 0 {
			continue
		}
		for bit := 0; bit < 8; bit++ {
			if b&(1<<uint(bit)) != 0 {
				bits.Set(uint(i*8 + bit))
			}
		}
	}

	return &Filter{
		K:     k,
		Seed:  seed,
		M:     m,
		Salts: DeriveSalts(k, seed),
		Bits:  bits,
	}, nil
}
