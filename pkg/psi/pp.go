// Package psi implements the commutative weak-PRF private set intersection
// protocol: F_k(x) = x25519(k, H2Curve25519(x)), grounded on the commutative
// OPRF shape in hpicrypto-mppj's prf.go (a key re-applies to a ciphertext
// regardless of which side applied first) generalized to Montgomery scalar
// multiplication.
package psi

import (
	"fmt"
	"math/bits"

	"github.com/taurusgroup/psi-psu/pkg/ppenc"
)

// Sigma is the statistical security parameter σ used by every session.
const Sigma = 40

// Kappa is the computational security parameter κ recorded in the PP; the
// curve25519 keys themselves are 256-bit.
const Kappa = 128

// PP holds the session's public parameters, fixed once both parties agree
// on the set sizes being run.
type PP struct {
	Sigma uint64
	Kappa uint64
	LogNS uint64
	NS    uint64
	LogNR uint64
	NR    uint64
	Tau   uint64
}

// log2Ceil returns ceil(log2(n)) for n >= 1, and 0 for n == 0.
func log2Ceil(n uint64) uint64 {
	if n <= 1 {
		return 0
	}
	return uint64(bits.Len64(n - 1))
}

// Setup computes the PP for a session with Sender set size nS and Receiver
// set size nR. The truncation length τ bounds the probability that any of
// the nS·nR off-intersection pairs collide under truncation by 2^-σ; the
// standard bound is σ plus the bit-lengths of both set sizes, which is why
// τ is derived from log(nS), log(nR) rather than nS, nR themselves — using
// the sizes directly would make τ scale linearly with the sets instead of
// logarithmically, clearly not what a τ meant to fit in a handful of bytes
// intends.
func Setup(nS, nR uint64) *PP {
	logNS := log2Ceil(nS)
	logNR := log2Ceil(nR)
	tauBits := Sigma + logNS + logNR
	tau := (tauBits + 7) / 8
	return &PP{
		Sigma: Sigma,
		Kappa: Kappa,
		LogNS: logNS,
		NS:    nS,
		LogNR: logNR,
		NR:    nR,
		Tau:   tau,
	}
}

// MarshalBinary encodes the PP as its seven canonical uint64 fields, in the
// order σ ‖ κ ‖ log nS ‖ nS ‖ log nR ‖ nR ‖ τ.
func (pp *PP) MarshalBinary() ([]byte, error) {
	return ppenc.EncodeUint64s(pp.Sigma, pp.Kappa, pp.LogNS, pp.NS, pp.LogNR, pp.NR, pp.Tau), nil
}

// UnmarshalPP decodes a PP produced by MarshalBinary.
func UnmarshalPP(data []byte) (*PP, error) {
	fields, err := ppenc.DecodeUint64s(data, 7)
	if err != nil {
		return nil, fmt.Errorf("psi: UnmarshalPP: %w", err)
	}
	return &PP{
		Sigma: fields[0],
		Kappa: fields[1],
		LogNS: fields[2],
		NS:    fields[3],
		LogNR: fields[4],
		NR:    fields[5],
		Tau:   fields[6],
	}, nil
}
