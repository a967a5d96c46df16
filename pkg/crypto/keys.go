// Package crypto implements the NaCl/libsodium-equivalent primitives the
// protocol is built on: detached Ed25519-class signatures and Curve25519
// sealed-box public-key encryption, plus the canonical serialization and
// variable-length share encoding that sit on top of them. All key and
// signature types are tagged unions (a Suite byte plus the raw bytes) so a
// second algorithm suite can be added later without breaking call sites.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// Suite tags the algorithm family a key or signature belongs to.
type Suite byte

const (
	// SuiteEd25519 tags detached Ed25519 signatures and verification/signing
	// keys.
	SuiteEd25519 Suite = iota + 1
	// SuiteSodium tags Curve25519 sealed-box encryption/decryption keys.
	SuiteSodium
)

// VerificationKey is the public half of a signing keypair.
type VerificationKey struct {
	Suite Suite
	Bytes []byte
}

// SigningKey is the private half of a signing keypair. It never leaves the
// keystore that owns it except to be handed directly to Sign.
type SigningKey struct {
	Suite Suite
	Bytes []byte
}

// EncryptionKey is the public half of an encryption keypair.
type EncryptionKey struct {
	Suite Suite
	Bytes []byte
}

// DecryptionKey is the private half of an encryption keypair.
type DecryptionKey struct {
	Suite Suite
	Bytes []byte
}

// GenerateSigningKeypair creates a fresh Ed25519 keypair.
func GenerateSigningKeypair() (VerificationKey, SigningKey, error) {
	vk, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return VerificationKey{}, SigningKey{}, fmt.Errorf("crypto: generate signing keypair: %w", err)
	}
	return VerificationKey{Suite: SuiteEd25519, Bytes: []byte(vk)},
		SigningKey{Suite: SuiteEd25519, Bytes: []byte(sk)},
		nil
}

// GenerateEncryptionKeypair creates a fresh Curve25519 keypair for sealed-box
// encryption.
func GenerateEncryptionKeypair() (EncryptionKey, DecryptionKey, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return EncryptionKey{}, DecryptionKey{}, fmt.Errorf("crypto: generate encryption keypair: %w", err)
	}
	return EncryptionKey{Suite: SuiteSodium, Bytes: pub[:]},
		DecryptionKey{Suite: SuiteSodium, Bytes: priv[:]},
		nil
}
