package sharing

import (
	"fmt"

	"github.com/luxfi/sda/pkg/scheme/sharing/polynomial"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// PackedShamir implements LinearSecretSharingScheme::PackedShamir: a single
// degree-(SecretCount+PrivacyThreshold-1) polynomial packs SecretCount
// secrets into its low evaluation points and is then evaluated at ShareCount
// further points to produce one share per clerk.
//
// OmegaSecrets and OmegaShares name FFT-friendly roots of unity in the
// original construction; here they drive a direct Lagrange-interpolation
// evaluation instead of a true NTT, which is mathematically equivalent for
// correctness and privacy but not for asymptotic performance (see
// DESIGN.md).
type PackedShamir struct {
	SecretCount      int
	ShareCount       int
	PrivacyThresholdV int
	PrimeModulus     int64
	OmegaSecrets     int64
	OmegaShares      int64
}

func (p PackedShamir) field() *polynomial.Field { return polynomial.NewField(p.PrimeModulus) }

func (p PackedShamir) InputSize() int              { return p.SecretCount }
func (p PackedShamir) OutputSize() int              { return p.ShareCount }
func (p PackedShamir) Modulus() int64               { return p.PrimeModulus }
func (p PackedShamir) PrivacyThreshold() int        { return p.PrivacyThresholdV }
func (p PackedShamir) ReconstructionThreshold() int { return p.PrivacyThresholdV + p.SecretCount }

// degree is the number of points defining the packed polynomial: one per
// secret plus one per unit of privacy threshold.
func (p PackedShamir) degree() int { return p.SecretCount + p.PrivacyThresholdV }

func (p PackedShamir) secretPoints() []int64 {
	f := p.field()
	pts := make([]int64, p.degree())
	x := int64(1)
	for i := range pts {
		pts[i] = x
		x = f.Mul(x, p.OmegaSecrets)
	}
	return pts
}

func (p PackedShamir) sharePoints() []int64 {
	f := p.field()
	pts := make([]int64, p.ShareCount)
	// Start at OmegaShares^1: x=1 is also the first secret point, and a
	// share taken there would equal the first secret.
	x := f.Reduce(p.OmegaShares)
	for i := range pts {
		pts[i] = x
		x = f.Mul(x, p.OmegaShares)
	}
	return pts
}

// GenerateForBatch packs up to SecretCount secrets at the low secret points
// of a fresh random polynomial (the remaining PrivacyThreshold defining
// points are uniform random, which is what keeps any PrivacyThreshold-sized
// subset of shares independent of the secrets) and evaluates it at every
// share point.
func (p PackedShamir) GenerateForBatch(secrets []int64) ([]int64, error) {
	if len(secrets) > p.SecretCount {
		return nil, sdaerr.New("sharing.PackedShamir.GenerateForBatch", sdaerr.InvalidArgument,
			fmt.Sprintf("batch has %d secrets, exceeds secret_count %d", len(secrets), p.SecretCount))
	}

	f := p.field()
	xs := p.secretPoints()
	ys := make([]int64, p.degree())
	for i := 0; i < p.SecretCount; i++ {
		if i < len(secrets) {
			ys[i] = f.Reduce(secrets[i])
		}
	}
	for i := p.SecretCount; i < p.degree(); i++ {
		r, err := uniformFieldElement(p.PrimeModulus)
		if err != nil {
			return nil, fmt.Errorf("sharing: sample packed-shamir padding point: %w", err)
		}
		ys[i] = r
	}

	sharePts := p.sharePoints()
	shares := make([]int64, p.ShareCount)
	for k, x := range sharePts {
		v, err := f.LagrangeInterpolate(xs, ys, x)
		if err != nil {
			return nil, fmt.Errorf("sharing: evaluate packed-shamir share %d: %w", k, err)
		}
		shares[k] = v
	}
	return shares, nil
}

// ReconstructBatch interpolates the packed polynomial from any
// ReconstructionThreshold()-sized subset of (clerk index, share value)
// pairs and re-evaluates it at the SecretCount secret points.
func (p PackedShamir) ReconstructBatch(shares []IndexedShare) ([]int64, error) {
	needed := p.ReconstructionThreshold()
	if len(shares) < needed {
		return nil, errTooFewShares("sharing.PackedShamir.ReconstructBatch")
	}

	allSharePts := p.sharePoints()
	xs := make([]int64, needed)
	ys := make([]int64, needed)
	for i := 0; i < needed; i++ {
		idx := shares[i].Index
		if idx < 0 || idx >= len(allSharePts) {
			return nil, sdaerr.New("sharing.PackedShamir.ReconstructBatch", sdaerr.InvalidArgument,
				fmt.Sprintf("share index %d out of range for share_count %d", idx, len(allSharePts)))
		}
		xs[i] = allSharePts[idx]
		ys[i] = shares[i].Value
	}

	f := p.field()
	secretPts := p.secretPoints()[:p.SecretCount]
	out := make([]int64, p.SecretCount)
	for i, x := range secretPts {
		v, err := f.LagrangeInterpolate(xs, ys, x)
		if err != nil {
			return nil, fmt.Errorf("sharing: reconstruct packed-shamir secret %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// compile-time guards: both variants must satisfy BatchPrimitive.
var (
	_ BatchPrimitive = Additive{}
	_ BatchPrimitive = PackedShamir{}
)
