package scheme

import (
	"fmt"

	"github.com/luxfi/sda/pkg/scheme/masking"
)

// MaskingKind re-exports masking.Kind so call sites never need to import
// pkg/scheme/masking directly.
type MaskingKind = masking.Kind

const (
	MaskingNone   = masking.None
	MaskingFull   = masking.Full
	MaskingChaCha = masking.ChaCha
)

// LinearMaskingScheme is the tagged-union configuration stored on an
// Aggregation. Only the fields relevant to Kind are meaningful.
type LinearMaskingScheme struct {
	Kind        MaskingKind
	Modulus     int64
	Dimension   int
	SeedBitsize int
}

// NoneMasking constructs the None variant.
func NoneMasking() LinearMaskingScheme {
	return LinearMaskingScheme{Kind: MaskingNone}
}

// FullMasking constructs the Full variant.
func FullMasking(modulus int64) LinearMaskingScheme {
	return LinearMaskingScheme{Kind: MaskingFull, Modulus: modulus}
}

// ChaChaMasking constructs the ChaCha variant.
func ChaChaMasking(modulus int64, dimension, seedBitsize int) LinearMaskingScheme {
	return LinearMaskingScheme{Kind: MaskingChaCha, Modulus: modulus, Dimension: dimension, SeedBitsize: seedBitsize}
}

// HasMask reports whether this variant produces a recipient-side mask
// payload at all (everything except None).
func (s LinearMaskingScheme) HasMask() bool { return s.Kind != MaskingNone }

// Engine constructs the concrete masking.Scheme this configuration
// describes.
func (s LinearMaskingScheme) Engine() (masking.Scheme, error) {
	switch s.Kind {
	case MaskingNone:
		return masking.NoneScheme{}, nil
	case MaskingFull:
		return masking.FullScheme{ModulusValue: s.Modulus}, nil
	case MaskingChaCha:
		return masking.ChaChaScheme{ModulusValue: s.Modulus, Dimension: s.Dimension, SeedBitsize: s.SeedBitsize}, nil
	default:
		return nil, fmt.Errorf("scheme: unknown masking kind %v", s.Kind)
	}
}
