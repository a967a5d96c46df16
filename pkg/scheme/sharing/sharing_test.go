package sharing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reconstructAll(t *testing.T, b Batched, sharesPerClerk [][]int64, trueDimension int) []int64 {
	t.Helper()
	clerkShares := make([]IndexedShareVector, len(sharesPerClerk))
	for i, values := range sharesPerClerk {
		clerkShares[i] = IndexedShareVector{ClerkIndex: i, Values: values}
	}
	secrets, err := b.ReconstructSecrets(clerkShares, trueDimension)
	require.NoError(t, err)
	return secrets
}

func TestAdditiveRoundTrip(t *testing.T) {
	scheme := Additive{ShareCount: 3, ModulusV: 433}
	b := Batched{Primitive: scheme}

	secrets := []int64{1, 2, 3, 4}
	sharesPerClerk, err := b.GenerateShares(secrets)
	require.NoError(t, err)
	require.Len(t, sharesPerClerk, 3)

	got := reconstructAll(t, b, sharesPerClerk, len(secrets))
	assert.Equal(t, secrets, got)
}

func TestAdditiveSumsAcrossParticipants(t *testing.T) {
	scheme := Additive{ShareCount: 3, ModulusV: 433}
	b := Batched{Primitive: scheme}

	p1 := []int64{1, 2, 3, 4}
	p2 := []int64{10, 20, 30, 40}

	shares1, err := b.GenerateShares(p1)
	require.NoError(t, err)
	shares2, err := b.GenerateShares(p2)
	require.NoError(t, err)

	combined := make([][]int64, 3)
	for k := 0; k < 3; k++ {
		combined[k] = CombineShareVectors([][]int64{shares1[k], shares2[k]}, 433)
	}

	got := reconstructAll(t, b, combined, len(p1))
	want := []int64{11, 22, 33, 44}
	assert.Equal(t, want, got)
}

func TestAdditiveReconstructFailsBelowThreshold(t *testing.T) {
	scheme := Additive{ShareCount: 3, ModulusV: 433}
	_, err := scheme.ReconstructBatch([]IndexedShare{{Index: 0, Value: 1}})
	assert.Error(t, err)
}

func TestPackedShamirRoundTrip(t *testing.T) {
	scheme := PackedShamir{
		SecretCount:       3,
		ShareCount:        8,
		PrivacyThresholdV: 4,
		PrimeModulus:      433,
		OmegaSecrets:      354,
		OmegaShares:       150,
	}
	b := Batched{Primitive: scheme}

	secrets := []int64{1, 2, 3, 4} // two batches: {1,2,3} then {4,0,0} padded
	sharesPerClerk, err := b.GenerateShares(secrets)
	require.NoError(t, err)
	require.Len(t, sharesPerClerk, 8)

	got := reconstructAll(t, b, sharesPerClerk, len(secrets))
	assert.Equal(t, secrets, got)
}

func TestPackedShamirReconstructsFromAnyThresholdSubset(t *testing.T) {
	scheme := PackedShamir{
		SecretCount:       3,
		ShareCount:        8,
		PrivacyThresholdV: 4,
		PrimeModulus:      433,
		OmegaSecrets:      354,
		OmegaShares:       150,
	}
	b := Batched{Primitive: scheme}

	secrets := []int64{5, 6, 7}
	sharesPerClerk, err := b.GenerateShares(secrets)
	require.NoError(t, err)

	threshold := scheme.ReconstructionThreshold()
	subset := make([]IndexedShareVector, threshold)
	for i := 0; i < threshold; i++ {
		subset[i] = IndexedShareVector{ClerkIndex: i, Values: sharesPerClerk[i]}
	}

	got, err := b.ReconstructSecrets(subset, len(secrets))
	require.NoError(t, err)
	assert.Equal(t, secrets, got)
}

func TestPackedShamirSumsAcrossParticipants(t *testing.T) {
	scheme := PackedShamir{
		SecretCount:       3,
		ShareCount:        8,
		PrivacyThresholdV: 4,
		PrimeModulus:      433,
		OmegaSecrets:      354,
		OmegaShares:       150,
	}
	b := Batched{Primitive: scheme}

	p1 := []int64{1, 2, 3}
	p2 := []int64{10, 20, 30}

	shares1, err := b.GenerateShares(p1)
	require.NoError(t, err)
	shares2, err := b.GenerateShares(p2)
	require.NoError(t, err)

	combined := make([][]int64, 8)
	for k := 0; k < 8; k++ {
		combined[k] = CombineShareVectors([][]int64{shares1[k], shares2[k]}, 433)
	}

	got := reconstructAll(t, b, combined, 3)
	assert.Equal(t, []int64{11, 22, 33}, got)
}
