// Package hash wraps blake3 the way the teacher's internal hash package
// does: a single extendable-output function used both as a Merlin-style
// transcript (WriteAny / Digest) and as a block-seeded PRG.
package hash

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/taurusgroup/psi-psu/pkg/curve"
	"github.com/zeebo/blake3"
)

// Hash wraps a blake3 hasher, used both for building Fiat–Shamir
// transcripts and as the PRG the ALSZ OT extension seeds from a Block.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash with its own state, domain-separated from other
// protocol instances by the caller's choice of initial WriteAny calls.
func New() *Hash {
	return &Hash{h: blake3.New()}
}

// NewKeyed creates a Hash keyed by a 32-byte key, used by the Bloom filter's
// salted hash family.
func NewKeyed(key [32]byte) *Hash {
	h, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic(fmt.Sprintf("hash: NewKeyed: %v", err))
	}
	return &Hash{h: h}
}

// Digest finalizes the current state and returns a reader over an
// effectively unbounded stream of pseudorandom bytes. Reading from the
// digest does not mutate the pre-finalize Write state; callers that want to
// keep writing should Clone before calling Digest.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns 64 bytes of output, enough for a uniform 256-bit-security
// scalar via rejection sampling.
func (hash *Hash) Sum() []byte {
	out := make([]byte, 64)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash: internal failure: %v", err))
	}
	return out
}

// WriterToWithDomain is a value that knows how to write itself to a hash
// state under its own domain-separation label.
type WriterToWithDomain interface {
	io.WriterTo
	Domain() string
}

// BytesWithDomain wraps a byte slice with an explicit domain label.
type BytesWithDomain struct {
	TheDomain string
	Bytes     []byte
}

func (b BytesWithDomain) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes)
	return int64(n), err
}

func (b BytesWithDomain) Domain() string { return b.TheDomain }

func writeWithDomain(w io.Writer, t WriterToWithDomain) error {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(t.Domain())))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte(t.Domain())); err != nil {
		return err
	}
	_, err := t.WriteTo(w)
	return err
}

// WriteAny writes one or more values into the hash state, applying domain
// separation so that, e.g., a []byte and a curve.Point with coincidentally
// identical encodings never collide. Supported types: []byte, curve.Point,
// curve.Scalar, WriterToWithDomain.
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			if err := writeWithDomain(hash.h, BytesWithDomain{"[]byte", t}); err != nil {
				return fmt.Errorf("hash: write []byte: %w", err)
			}
		case curve.Point:
			buf, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash: write curve.Point: %w", err)
			}
			if err := writeWithDomain(hash.h, BytesWithDomain{"curve.Point", buf}); err != nil {
				return fmt.Errorf("hash: write curve.Point: %w", err)
			}
		case curve.Scalar:
			buf, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash: write curve.Scalar: %w", err)
			}
			if err := writeWithDomain(hash.h, BytesWithDomain{"curve.Scalar", buf}); err != nil {
				return fmt.Errorf("hash: write curve.Scalar: %w", err)
			}
		case WriterToWithDomain:
			if err := writeWithDomain(hash.h, t); err != nil {
				return fmt.Errorf("hash: write io.WriterTo: %w", err)
			}
		default:
			return fmt.Errorf("hash: unsupported type %T", d)
		}
	}
	return nil
}

// Clone returns an independent copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}

// Fork derives an independent Hash from the current state plus a
// domain-separated label, without perturbing the receiver. Used to derive
// per-index sub-hashes (e.g. one per base OT in a batch), matching the
// teacher's hash.Fork idiom in internal/ot/correlated.go.
func (hash *Hash) Fork(label BytesWithDomain) *Hash {
	h2 := hash.h.Clone()
	if err := writeWithDomain(h2, label); err != nil {
		panic(fmt.Sprintf("hash: Fork: %v", err))
	}
	return &Hash{h: h2}
}
