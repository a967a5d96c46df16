package crypto

import (
	"crypto/ed25519"
	"fmt"

	"github.com/luxfi/sda/pkg/sdaerr"
)

// Signature is a detached signature over a canonical payload encoding.
type Signature struct {
	Suite Suite
	Bytes []byte
}

// Sign produces a detached signature over canonical (the output of
// Canonical(payload)) using sk. Only SuiteEd25519 keys are accepted.
func Sign(sk SigningKey, canonical []byte) (Signature, error) {
	if sk.Suite != SuiteEd25519 {
		return Signature{}, sdaerr.New("crypto.Sign", sdaerr.InvalidArgument, fmt.Sprintf("unsupported signing suite %v", sk.Suite))
	}
	if len(sk.Bytes) != ed25519.PrivateKeySize {
		return Signature{}, sdaerr.New("crypto.Sign", sdaerr.InvalidArgument, "malformed signing key")
	}
	sig := ed25519.Sign(ed25519.PrivateKey(sk.Bytes), canonical)
	return Signature{Suite: SuiteEd25519, Bytes: sig}, nil
}

// Verify reports whether sig is a valid detached signature over canonical
// under vk. It never returns an error for a bad signature; it reports false.
// Malformed inputs (wrong suite, wrong key length) also yield false, since
// from the verifier's point of view these are indistinguishable from
// "signature does not verify".
func Verify(vk VerificationKey, canonical []byte, sig Signature) bool {
	if vk.Suite != SuiteEd25519 || sig.Suite != SuiteEd25519 {
		return false
	}
	if len(vk.Bytes) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(vk.Bytes), canonical, sig.Bytes)
}
