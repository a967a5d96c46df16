package orchestration

import (
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// Keystore owns one agent's private key material exclusively: its signing
// key and every decryption key for encryption keys it has registered. The
// orchestration flows request signing/decryption through it and never hold
// raw secret bytes beyond the call they need them for (design notes,
// "Ownership of secret material").
type Keystore struct {
	Agent      ids.AgentId
	VerifyKey  ids.VerificationKeyId
	SigningKey crypto.SigningKey

	decryptionKeys map[ids.EncryptionKeyId]crypto.DecryptionKey
}

// NewKeystore constructs a Keystore for agent, holding sk as its signing
// key.
func NewKeystore(agent ids.AgentId, verifyKeyID ids.VerificationKeyId, sk crypto.SigningKey) *Keystore {
	return &Keystore{
		Agent:          agent,
		VerifyKey:      verifyKeyID,
		SigningKey:     sk,
		decryptionKeys: make(map[ids.EncryptionKeyId]crypto.DecryptionKey),
	}
}

// AddEncryptionKey registers a decryption key this agent owns, keyed by
// the id of the corresponding public SignedEncryptionKey.
func (k *Keystore) AddEncryptionKey(id ids.EncryptionKeyId, sk crypto.DecryptionKey) {
	k.decryptionKeys[id] = sk
}

// Sign signs canonical on behalf of this agent.
func (k *Keystore) Sign(canonical []byte) (crypto.Signature, error) {
	return crypto.Sign(k.SigningKey, canonical)
}

// DecryptionKeyFor returns the raw decryption key registered for keyID, for
// callers (such as the clerk share-decryption flow) that need to hand it
// directly to a scheme.Decryptor rather than go through Decrypt.
func (k *Keystore) DecryptionKeyFor(keyID ids.EncryptionKeyId) (crypto.DecryptionKey, bool) {
	sk, ok := k.decryptionKeys[keyID]
	return sk, ok
}

// Decrypt opens ct using the decryption key registered for keyID.
func (k *Keystore) Decrypt(keyID ids.EncryptionKeyId, pk crypto.EncryptionKey, ct crypto.Ciphertext) ([]byte, error) {
	sk, ok := k.decryptionKeys[keyID]
	if !ok {
		return nil, sdaerr.New("orchestration.Keystore.Decrypt", sdaerr.InvalidArgument, "no decryption key registered for this id")
	}
	return crypto.SealedDecrypt(pk, sk, ct)
}
