package scheme

import "github.com/luxfi/sda/pkg/scheme/encryption"

// EncryptionKind tags which AdditiveEncryptionScheme variant is configured.
// Only Sodium is specified today; a homomorphic variant is a designed-in
// extension point, not stubbed code (see package encryption's doc comment).
type EncryptionKind int

const (
	EncryptionSodium EncryptionKind = iota
)

// AdditiveEncryptionScheme is the tagged-union configuration stored on an
// Aggregation for both the recipient_encryption_scheme and
// committee_encryption_scheme fields.
type AdditiveEncryptionScheme struct {
	Kind EncryptionKind
}

// SodiumEncryption constructs the Sodium variant.
func SodiumEncryption() AdditiveEncryptionScheme {
	return AdditiveEncryptionScheme{Kind: EncryptionSodium}
}

// BatchSize is the number of share-vectors one ciphertext from this scheme
// carries.
func (s AdditiveEncryptionScheme) BatchSize() int { return 1 }

// Engine constructs the concrete Encryptor/Decryptor this configuration
// describes.
func (s AdditiveEncryptionScheme) Engine() (encryption.Sodium, error) {
	return encryption.Sodium{}, nil
}
