// Package sharing implements the two LinearSecretSharingScheme variants,
// Additive and PackedShamir, as single-batch primitives, plus the generic
// Batched adapter that turns any single-batch primitive into a full
// vector-of-arbitrary-length ShareGenerator/SecretReconstructor pair. The
// clerk-side ShareCombiner role needs no per-scheme logic at all (summing
// share vectors mod M is scheme-agnostic), so it lives here as a single
// free function rather than one implementation per variant.
package sharing

import "github.com/luxfi/sda/pkg/sdaerr"

// IndexedShare pairs a share value with the index (0-based, matching
// Committee.clerks_and_keys order) of the clerk that produced it.
type IndexedShare struct {
	Index int
	Value int64
}

// BatchPrimitive is implemented once per secret-sharing variant and handles
// exactly one batch of up to InputSize() secrets, producing exactly
// OutputSize() shares (one scalar per clerk).
type BatchPrimitive interface {
	InputSize() int
	OutputSize() int
	Modulus() int64
	PrivacyThreshold() int
	ReconstructionThreshold() int
	GenerateForBatch(secrets []int64) ([]int64, error)
	ReconstructBatch(shares []IndexedShare) ([]int64, error)
}

// CombineShareVectors sums share vectors element-wise modulo modulus. Each
// vector is one participation's contribution of per-batch share scalars for
// a single clerk; this is the clerk-side ShareCombiner, and it is identical
// for every scheme because combination is always plain modular addition.
func CombineShareVectors(vectors [][]int64, modulus int64) []int64 {
	if len(vectors) == 0 {
		return nil
	}
	combined := make([]int64, len(vectors[0]))
	for _, v := range vectors {
		for i, x := range v {
			combined[i] = modAdd(combined[i], x, modulus)
		}
	}
	return combined
}

func modAdd(a, b, modulus int64) int64 {
	r := (a + b) % modulus
	if r < 0 {
		r += modulus
	}
	return r
}

// errTooFewShares constructs the InvalidArgument error every
// ReconstructBatch implementation returns when handed fewer than
// ReconstructionThreshold() shares.
func errTooFewShares(op string) error {
	return sdaerr.New(op, sdaerr.InvalidArgument, "not enough shares to reach the reconstruction threshold")
}
