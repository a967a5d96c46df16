package aggregation

import (
	"fmt"
	"math/big"

	"github.com/luxfi/sda/pkg/scheme"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// maxAdditiveModulus is the Open Question resolution for additive-scheme
// overflow (spec.md §9, SPEC_FULL.md §7): require modulus < 2^31 at
// construction time while still accumulating shares in a wider type, so a
// future relaxation of this bound does not silently overflow.
const maxAdditiveModulus = int64(1) << 31

// Validate checks the structural invariants of an Aggregation from spec
// §3: positive dimension, a prime-enough-to-trust modulus greater than 1,
// a masking scheme that shares the aggregation's modulus when it masks at
// all, and a sharing scheme whose output size will become the committee
// size. This mirrors the teacher's VerifyConfig-style structural
// validation (protocols/lss/config/config.go's Validate), adapted to this
// domain's parameters instead of curve/threshold counts.
func (a Aggregation) Validate() error {
	const op = "aggregation.Validate"

	if a.VectorDimension <= 0 {
		return sdaerr.New(op, sdaerr.InvalidArgument, "vector_dimension must be > 0")
	}
	if a.Modulus <= 1 {
		return sdaerr.New(op, sdaerr.InvalidArgument, "modulus must be > 1")
	}
	if !isPrime(a.Modulus) {
		return sdaerr.New(op, sdaerr.InvalidArgument, "modulus must be prime")
	}

	if a.MaskingScheme.HasMask() && a.MaskingScheme.Modulus != a.Modulus {
		return sdaerr.New(op, sdaerr.InvalidArgument, "masking scheme modulus must match aggregation modulus")
	}

	if a.CommitteeSharingScheme.OutputSize() <= 0 {
		return sdaerr.New(op, sdaerr.InvalidArgument, "sharing scheme has no valid output size")
	}

	if additive := a.CommitteeSharingScheme; additive.Kind == scheme.SharingAdditive {
		if additive.Modulus >= maxAdditiveModulus {
			return sdaerr.New(op, sdaerr.InvalidArgument,
				fmt.Sprintf("additive sharing modulus must be < 2^31, got %d", additive.Modulus))
		}
	}

	return nil
}

// isPrime reports whether n is prime using a Miller-Rabin test (spec §3:
// "M prime and > 1"). PackedShamir's field arithmetic (Field.Inverse) is
// only well-defined over a prime modulus, and a composite M would silently
// misbehave rather than fail loudly, so this is checked at construction
// time for every sharing variant, not just PackedShamir.
func isPrime(n int64) bool {
	if n < 2 {
		return false
	}
	return big.NewInt(n).ProbablyPrime(20)
}

// CommitteeMatches verifies a committee's share-index-to-clerk mapping is
// consistent with the aggregation's sharing scheme before any job is
// enqueued, mirroring the teacher's IsCompatibleForSigning-style
// compatibility check (protocols/lss config compatibility idiom).
func CommitteeMatches(agg Aggregation, committee Committee) error {
	want := agg.CommitteeSharingScheme.OutputSize()
	if len(committee.ClerksAndKeys) != want {
		return sdaerr.New("aggregation.CommitteeMatches", sdaerr.InvalidArgument,
			fmt.Sprintf("committee has %d members, sharing scheme requires %d", len(committee.ClerksAndKeys), want))
	}
	if committee.Aggregation != agg.Id {
		return sdaerr.New("aggregation.CommitteeMatches", sdaerr.InvalidArgument, "committee belongs to a different aggregation")
	}
	return nil
}
