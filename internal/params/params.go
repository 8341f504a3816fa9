// Package params collects the security parameters of the PSI/PSU suite.
// Only BloomSeedMagic is read by other packages (pkg/bloom); pkg/ot and
// pkg/psu use the literal 128 for λ, and pkg/psi declares its own Sigma and
// Kappa, so changing the other constants here changes no protocol.
package params

const (
	// SecBytes is the byte length of a Block and of most symmetric keys
	// derived from blake3.
	SecBytes = 16

	// OTParam (λ) is the number of base OTs extended by the ALSZ OT
	// extension, and the bit-width of a Block.
	OTParam = 128
	OTBytes = OTParam / 8

	// StatParam (σ) is the statistical security parameter bounding the
	// probability of a spurious cwPRF collision across the off-intersection
	// pairs of a PSI/mqRPMT run.
	StatParam = 40

	// Kappa (κ) is the computational security parameter for the
	// curve25519-based cwPRF and its key sampling.
	Kappa = 128

	// BloomSeedMagic seeds Bloom filter salt derivation deterministically
	// unless a caller supplies their own seed.
	BloomSeedMagic = 0xA5A5A5A5
)
