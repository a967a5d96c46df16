package sharing

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Additive implements LinearSecretSharingScheme::Additive: K additive
// shares of a single secret modulo M, privacy threshold K-1, reconstruction
// threshold K.
type Additive struct {
	ShareCount int
	ModulusV   int64
}

func (a Additive) InputSize() int              { return 1 }
func (a Additive) OutputSize() int              { return a.ShareCount }
func (a Additive) Modulus() int64               { return a.ModulusV }
func (a Additive) PrivacyThreshold() int        { return a.ShareCount - 1 }
func (a Additive) ReconstructionThreshold() int { return a.ShareCount }

// GenerateForBatch picks ShareCount-1 uniform shares and sets the last share
// so that all K shares sum to the secret modulo M.
func (a Additive) GenerateForBatch(secrets []int64) ([]int64, error) {
	if len(secrets) > 1 {
		return nil, fmt.Errorf("sharing: additive scheme batches exactly one secret, got %d", len(secrets))
	}
	secret := int64(0)
	if len(secrets) == 1 {
		secret = secrets[0]
	}

	shares := make([]int64, a.ShareCount)
	// The running sum is accumulated in int64 rather than the modulus's own
	// width: the Open Question on additive-scheme overflow is resolved by
	// requiring modulus < 2^31 at Aggregation construction time (see
	// aggregation.Validate) while still summing in a type twice that wide,
	// so a future relaxation of that bound does not silently wrap around.
	var sum int64
	for i := 0; i < a.ShareCount-1; i++ {
		r, err := uniformFieldElement(a.ModulusV)
		if err != nil {
			return nil, fmt.Errorf("sharing: sample additive share: %w", err)
		}
		shares[i] = r
		sum = (sum + r) % a.ModulusV
	}
	last := ((secret - sum) % a.ModulusV) % a.ModulusV
	if last < 0 {
		last += a.ModulusV
	}
	shares[a.ShareCount-1] = last
	return shares, nil
}

// ReconstructBatch sums all reported shares modulo M; any ShareCount of them
// (there can be no more) reconstructs the secret.
func (a Additive) ReconstructBatch(shares []IndexedShare) ([]int64, error) {
	if len(shares) < a.ReconstructionThreshold() {
		return nil, errTooFewShares("sharing.Additive.ReconstructBatch")
	}
	var sum int64
	for _, s := range shares {
		sum = (sum + s.Value) % a.ModulusV
	}
	if sum < 0 {
		sum += a.ModulusV
	}
	return []int64{sum}, nil
}

func uniformFieldElement(modulus int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(modulus))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}
