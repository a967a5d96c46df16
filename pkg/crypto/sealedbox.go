package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/nacl/box"

	"github.com/luxfi/sda/pkg/sdaerr"
)

// Ciphertext is an opaque sealed-box blob: a fresh ephemeral public key
// followed by the NaCl box payload, exactly as libsodium's
// crypto_box_seal lays it out.
type Ciphertext []byte

// SealedEncrypt encrypts plaintext to pk using a fresh ephemeral keypair
// generated for this call alone. The ephemeral public key is prepended to
// the ciphertext so the recipient can open it with only their own secret
// key; the sender's own identity is never authenticated to the recipient —
// that is the point of a sealed box, and callers who need sender
// authentication must sign the plaintext themselves before encrypting it.
func SealedEncrypt(pk EncryptionKey, plaintext []byte) (Ciphertext, error) {
	if pk.Suite != SuiteSodium || len(pk.Bytes) != 32 {
		return nil, sdaerr.New("crypto.SealedEncrypt", sdaerr.InvalidArgument, "malformed recipient encryption key")
	}
	var recipientPub [32]byte
	copy(recipientPub[:], pk.Bytes)

	epk, esk, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("crypto: generate ephemeral keypair: %w", err)
	}

	nonce, err := sealedBoxNonce(epk, &recipientPub)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 32+box.Overhead+len(plaintext))
	out = append(out, epk[:]...)
	out = box.Seal(out, plaintext, &nonce, &recipientPub, esk)
	return out, nil
}

// SealedDecrypt opens a Ciphertext produced by SealedEncrypt using the
// recipient's own keypair. pk must be the public half corresponding to sk;
// it is needed to recompute the nonce the same way the sender did.
func SealedDecrypt(pk EncryptionKey, sk DecryptionKey, ct Ciphertext) ([]byte, error) {
	if pk.Suite != SuiteSodium || sk.Suite != SuiteSodium {
		return nil, sdaerr.New("crypto.SealedDecrypt", sdaerr.InvalidArgument, "unsupported encryption suite")
	}
	if len(pk.Bytes) != 32 || len(sk.Bytes) != 32 {
		return nil, sdaerr.New("crypto.SealedDecrypt", sdaerr.InvalidArgument, "malformed encryption keypair")
	}
	if len(ct) < 32 {
		return nil, sdaerr.New("crypto.SealedDecrypt", sdaerr.CryptoFailure, "ciphertext too short")
	}

	var recipientPub, recipientPriv [32]byte
	copy(recipientPub[:], pk.Bytes)
	copy(recipientPriv[:], sk.Bytes)

	var epk [32]byte
	copy(epk[:], ct[:32])

	nonce, err := sealedBoxNonce(&epk, &recipientPub)
	if err != nil {
		return nil, err
	}

	plaintext, ok := box.Open(nil, ct[32:], &nonce, &epk, &recipientPriv)
	if !ok {
		return nil, sdaerr.New("crypto.SealedDecrypt", sdaerr.CryptoFailure, "box authentication failed")
	}
	return plaintext, nil
}

// sealedBoxNonce derives the deterministic 24-byte nonce libsodium's sealed
// box uses: BLAKE2b(ephemeralPub || recipientPub), truncated to the NaCl box
// nonce size. Both sender and recipient can recompute it from public
// information alone, which is what lets a sealed box omit a
// transmitted nonce.
func sealedBoxNonce(ephemeralPub, recipientPub *[32]byte) ([24]byte, error) {
	var nonce [24]byte
	h, err := blake2b.New(24, nil)
	if err != nil {
		return nonce, fmt.Errorf("crypto: init nonce hash: %w", err)
	}
	h.Write(ephemeralPub[:])
	h.Write(recipientPub[:])
	copy(nonce[:], h.Sum(nil))
	return nonce, nil
}
