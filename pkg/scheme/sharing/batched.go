package sharing

import "fmt"

// Batched wraps a BatchPrimitive to implement the full-vector
// ShareGenerator/SecretReconstructor roles: a vector of N secrets is split
// into ceil(N/InputSize()) batches, the final batch zero-padded, and shares
// are produced batch-by-batch and grouped per clerk. This is the one generic
// adapter the design notes call for; each scheme implements only the
// single-batch primitive above it.
type Batched struct {
	Primitive BatchPrimitive
}

func (b Batched) batchCount(n int) int {
	in := b.Primitive.InputSize()
	return (n + in - 1) / in
}

// GenerateShares splits secrets into batches and runs the primitive once per
// batch, returning sharesPerClerk[clerkIndex][batchIndex].
func (b Batched) GenerateShares(secrets []int64) ([][]int64, error) {
	in := b.Primitive.InputSize()
	out := b.Primitive.OutputSize()
	batches := b.batchCount(len(secrets))

	sharesPerClerk := make([][]int64, out)
	for k := range sharesPerClerk {
		sharesPerClerk[k] = make([]int64, batches)
	}

	for batchIdx := 0; batchIdx < batches; batchIdx++ {
		start := batchIdx * in
		end := start + in
		if end > len(secrets) {
			end = len(secrets)
		}
		batch := make([]int64, in)
		copy(batch, secrets[start:end]) // zero-pads the final short batch

		shares, err := b.Primitive.GenerateForBatch(batch)
		if err != nil {
			return nil, fmt.Errorf("sharing: generate batch %d: %w", batchIdx, err)
		}
		for k := 0; k < out; k++ {
			sharesPerClerk[k][batchIdx] = shares[k]
		}
	}
	return sharesPerClerk, nil
}

// ReconstructSecrets takes, for a threshold-sized set of clerks, each
// clerk's full per-batch share vector (as produced by GenerateShares and
// accumulated by CombineShareVectors across participations) and reconstructs
// the original secret vector, truncated to trueDimension.
func (b Batched) ReconstructSecrets(clerkShares []IndexedShareVector, trueDimension int) ([]int64, error) {
	if len(clerkShares) == 0 {
		return nil, fmt.Errorf("sharing: no clerk shares to reconstruct from")
	}
	batches := len(clerkShares[0].Values)
	in := b.Primitive.InputSize()

	secrets := make([]int64, 0, batches*in)
	for batchIdx := 0; batchIdx < batches; batchIdx++ {
		batchShares := make([]IndexedShare, len(clerkShares))
		for i, cs := range clerkShares {
			if batchIdx >= len(cs.Values) {
				return nil, fmt.Errorf("sharing: clerk %d missing batch %d", cs.ClerkIndex, batchIdx)
			}
			batchShares[i] = IndexedShare{Index: cs.ClerkIndex, Value: cs.Values[batchIdx]}
		}
		batchSecrets, err := b.Primitive.ReconstructBatch(batchShares)
		if err != nil {
			return nil, fmt.Errorf("sharing: reconstruct batch %d: %w", batchIdx, err)
		}
		secrets = append(secrets, batchSecrets...)
	}

	if trueDimension < len(secrets) {
		secrets = secrets[:trueDimension]
	}
	return secrets, nil
}

// IndexedShareVector is one clerk's full per-batch share column, as
// recovered from decrypting a single ClerkingResult.
type IndexedShareVector struct {
	ClerkIndex int
	Values     []int64
}
