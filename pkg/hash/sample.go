package hash

import (
	"fmt"
	"io"

	"github.com/taurusgroup/psi-psu/pkg/curve"
)

// maxRejectionIterations bounds the rejection-sampling loops below, mirroring
// the teacher's pkg/math/sample.maxIterations guard against a broken reader.
const maxRejectionIterations = 255

// ToScalar derives a uniformly-distributed Scalar from a byte stream by
// rejection sampling: each candidate is the next ScalarByteLen() bytes,
// accepted if it decodes to a valid element of Z_q. This is how Fiat–Shamir
// challenges and elgamal.Setup's second generator turn hash output into
// scalars.
func ToScalar(r io.Reader, c curve.Curve) curve.Scalar {
	buf := make([]byte, c.ScalarByteLen())
	for i := 0; i < maxRejectionIterations; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			panic(fmt.Sprintf("hash: ToScalar: %v", err))
		}
		s := c.NewScalar()
		if err := s.UnmarshalBinary(buf); err == nil {
			return s
		}
	}
	panic("hash: ToScalar: failed to sample a valid scalar")
}

// ChallengeScalar is the Fiat–Shamir transform: the challenge is H(transcript)
// reduced mod q, computed by finalizing (a clone of) the transcript hash and
// reading a scalar from its digest.
func ChallengeScalar(transcript *Hash, c curve.Curve) curve.Scalar {
	return ToScalar(transcript.Clone().Digest(), c)
}

// ToBytes reads n pseudorandom bytes from the hash's digest, the "hash to
// bytes" primitive used by the PRG seeded from a Block.
func ToBytes(transcript *Hash, n int) []byte {
	out := make([]byte, n)
	if _, err := io.ReadFull(transcript.Clone().Digest(), out); err != nil {
		panic(fmt.Sprintf("hash: ToBytes: %v", err))
	}
	return out
}
