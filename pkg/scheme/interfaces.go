// Package scheme is the engine that dispatches the three orthogonal
// per-aggregation schemes — masking, secret sharing, and encryption — to
// their concrete implementations in pkg/scheme/masking, pkg/scheme/sharing,
// and pkg/scheme/encryption. Each variant package is a closed set of plain
// structs; this package only adds the tagged-union configuration types that
// live on an Aggregation and the constructors that turn them into the
// interface values below, mirroring the teacher's getCurve(curveType
// string)-style dispatch in cmd/threshold-cli/main.go.
package scheme

import (
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/scheme/sharing"
)

// IndexedShareVector is one clerk's full per-batch share column, as
// recovered from decrypting a single ClerkingResult. It is a re-export of
// sharing.IndexedShareVector so callers outside pkg/scheme/sharing never
// need to import that package directly.
type IndexedShareVector = sharing.IndexedShareVector

// Masker produces a fresh mask for a participant's secret vector.
type Masker interface {
	Mask(secrets []int64) (payload []byte, masked []int64, err error)
}

// MaskCombiner expands and sums mask payloads from many participations.
type MaskCombiner interface {
	CombineMasks(payloads [][]byte) ([]int64, error)
}

// Unmasker removes a combined mask from a combined masked sum.
type Unmasker interface {
	Unmask(maskedSum, combinedMask []int64) []int64
}

// ShareGenerator splits a secret vector into per-clerk share vectors.
type ShareGenerator interface {
	GenerateShares(secrets []int64) ([][]int64, error)
}

// ShareCombiner sums many participations' share vectors for one clerk.
type ShareCombiner interface {
	CombineShareVectors(vectors [][]int64, modulus int64) []int64
}

// SecretReconstructor recovers the original secret vector from a
// threshold-sized set of clerk share columns.
type SecretReconstructor interface {
	ReconstructSecrets(clerkShares []IndexedShareVector, trueDimension int) ([]int64, error)
}

// Encryptor seals a share vector to a public key.
type Encryptor interface {
	Encrypt(pk crypto.EncryptionKey, shares []int64) (crypto.Ciphertext, error)
}

// Decryptor opens a ciphertext sealed by the matching Encryptor.
type Decryptor interface {
	Decrypt(pk crypto.EncryptionKey, sk crypto.DecryptionKey, ct crypto.Ciphertext) ([]int64, error)
}

// CombineShareVectors re-exports sharing.CombineShareVectors so callers
// outside pkg/scheme/sharing never need to import that package directly.
// Combination is scheme-agnostic (plain modular addition), so it needs no
// per-variant dispatch.
func CombineShareVectors(vectors [][]int64, modulus int64) []int64 {
	return sharing.CombineShareVectors(vectors, modulus)
}
