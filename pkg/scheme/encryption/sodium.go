// Package encryption implements AdditiveEncryptionScheme: sealed-box
// encryption of a varint-packed share vector. It is the one encryption
// family the spec requires (Sodium); a homomorphic alternative is a
// designed-in extension point on the Encryptor/Decryptor interfaces in
// pkg/scheme, not something this package stubs out.
package encryption

import (
	"github.com/luxfi/sda/pkg/crypto"
)

// Sodium implements AdditiveEncryptionScheme: batch size 1, plaintext is the
// varint encoding of the share vector being delivered to one clerk or the
// recipient for one participation.
type Sodium struct{}

// BatchSize reports the number of share-vectors this scheme's encrypt call
// can carry in a single ciphertext. Sodium's sealed box is not homomorphic,
// so the server cannot combine ciphertexts; it always hands each clerk the
// full list of per-participation ciphertexts instead of one accumulated
// blob, which is what BatchSize()==1 signals to callers.
func (Sodium) BatchSize() int { return 1 }

// Encrypt packs shares as a varint stream and seals it to pk.
func (Sodium) Encrypt(pk crypto.EncryptionKey, shares []int64) (crypto.Ciphertext, error) {
	plaintext := crypto.EncodeShares(int64sToUint64s(shares))
	return crypto.SealedEncrypt(pk, plaintext)
}

// Decrypt opens a ciphertext produced by Encrypt and unpacks the share
// vector it carries.
func (Sodium) Decrypt(pk crypto.EncryptionKey, sk crypto.DecryptionKey, ct crypto.Ciphertext) ([]int64, error) {
	plaintext, err := crypto.SealedDecrypt(pk, sk, ct)
	if err != nil {
		return nil, err
	}
	us, err := crypto.DecodeShares(plaintext)
	if err != nil {
		return nil, err
	}
	return uint64sToInt64s(us), nil
}

func int64sToUint64s(xs []int64) []uint64 {
	out := make([]uint64, len(xs))
	for i, x := range xs {
		out[i] = uint64(x)
	}
	return out
}

func uint64sToInt64s(xs []uint64) []int64 {
	out := make([]int64, len(xs))
	for i, x := range xs {
		out[i] = int64(x)
	}
	return out
}
