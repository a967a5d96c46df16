package scheme

import (
	"fmt"

	"github.com/luxfi/sda/pkg/scheme/sharing"
)

// SharingKind tags which LinearSecretSharingScheme variant is configured.
type SharingKind int

const (
	SharingAdditive SharingKind = iota
	SharingPackedShamir
)

// LinearSecretSharingScheme is the tagged-union configuration stored on an
// Aggregation. Only the fields relevant to Kind are meaningful.
type LinearSecretSharingScheme struct {
	Kind SharingKind

	// Additive
	ShareCount int
	Modulus    int64

	// PackedShamir
	SecretCount      int
	PrivacyThreshold int
	PrimeModulus     int64
	OmegaSecrets     int64
	OmegaShares      int64
}

// AdditiveSharing constructs the Additive variant.
func AdditiveSharing(shareCount int, modulus int64) LinearSecretSharingScheme {
	return LinearSecretSharingScheme{Kind: SharingAdditive, ShareCount: shareCount, Modulus: modulus}
}

// PackedShamirSharing constructs the PackedShamir variant.
func PackedShamirSharing(secretCount, shareCount, privacyThreshold int, primeModulus, omegaSecrets, omegaShares int64) LinearSecretSharingScheme {
	return LinearSecretSharingScheme{
		Kind:             SharingPackedShamir,
		ShareCount:       shareCount,
		SecretCount:      secretCount,
		PrivacyThreshold: privacyThreshold,
		PrimeModulus:     primeModulus,
		OmegaSecrets:     omegaSecrets,
		OmegaShares:      omegaShares,
	}
}

func (s LinearSecretSharingScheme) primitive() (sharing.BatchPrimitive, error) {
	switch s.Kind {
	case SharingAdditive:
		return sharing.Additive{ShareCount: s.ShareCount, ModulusV: s.Modulus}, nil
	case SharingPackedShamir:
		return sharing.PackedShamir{
			SecretCount:       s.SecretCount,
			ShareCount:        s.ShareCount,
			PrivacyThresholdV: s.PrivacyThreshold,
			PrimeModulus:      s.PrimeModulus,
			OmegaSecrets:      s.OmegaSecrets,
			OmegaShares:       s.OmegaShares,
		}, nil
	default:
		return nil, fmt.Errorf("scheme: unknown sharing kind %v", s.Kind)
	}
}

// Engine constructs the batched share-generator/reconstructor pair this
// configuration describes.
func (s LinearSecretSharingScheme) Engine() (sharing.Batched, error) {
	prim, err := s.primitive()
	if err != nil {
		return sharing.Batched{}, err
	}
	return sharing.Batched{Primitive: prim}, nil
}

// OutputSize is the number of clerks (committee size) this scheme requires.
func (s LinearSecretSharingScheme) OutputSize() int {
	prim, err := s.primitive()
	if err != nil {
		return 0
	}
	return prim.OutputSize()
}

// InputSize is the number of secrets packed into one batch.
func (s LinearSecretSharingScheme) InputSize() int {
	prim, err := s.primitive()
	if err != nil {
		return 0
	}
	return prim.InputSize()
}

// PrivacyThresholdValue is the maximum number of colluding clerks that learn
// nothing about individual secrets.
func (s LinearSecretSharingScheme) PrivacyThresholdValue() int {
	prim, err := s.primitive()
	if err != nil {
		return 0
	}
	return prim.PrivacyThreshold()
}

// ReconstructionThreshold is the minimum number of clerk results needed to
// recover the sum.
func (s LinearSecretSharingScheme) ReconstructionThreshold() int {
	prim, err := s.primitive()
	if err != nil {
		return 0
	}
	return prim.ReconstructionThreshold()
}

// SchemeModulus is the modulus shares live in, regardless of variant.
func (s LinearSecretSharingScheme) SchemeModulus() int64 {
	switch s.Kind {
	case SharingAdditive:
		return s.Modulus
	case SharingPackedShamir:
		return s.PrimeModulus
	default:
		return 0
	}
}
