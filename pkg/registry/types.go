// Package registry implements the agent & key registry: identity records,
// verification keys, and signed encryption keys. Access rules (an agent may
// write only its own record) are enforced one layer up, in
// pkg/orchestration's ACL-checking Service; Server here only enforces
// structural invariants — signatures must verify, immutable entities must
// not change body on re-submission.
package registry

import (
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
)

// LabeledVerificationKey is an agent's self-attested verification key,
// labeled with its own id so it can be referenced independently of the
// owning Agent record.
type LabeledVerificationKey struct {
	Id  ids.VerificationKeyId
	Key crypto.VerificationKey
}

// Agent is a registered identity. Created by the owning process; never
// mutated; public.
type Agent struct {
	Id              ids.AgentId
	VerificationKey LabeledVerificationKey
}

// SignatureIsValid checks sek was signed by this agent: verify(vk,
// canonical({id, body}), signature).
func (a Agent) SignatureIsValid(sek SignedEncryptionKey) (bool, error) {
	payload, err := sek.CanonicalPayload()
	if err != nil {
		return false, err
	}
	return crypto.Verify(a.VerificationKey.Key, payload, sek.Signature), nil
}

// Profile is the owner-writable, publicly readable profile bag. The spec
// names upsert_profile/get_profile but never defines Profile's shape; per
// the Open Questions posture we give it the smallest structure consistent
// with "owner-writable, publicly readable" rather than inventing richer
// semantics.
type Profile struct {
	Owner  ids.AgentId
	Fields map[string]string
}

// signedEncryptionKeyPayload is the exact byte-for-byte payload that gets
// signed and verified: canonical({id, body}), deliberately excluding
// Signer/Signature so the signed bytes never depend on who is about to sign
// them.
type signedEncryptionKeyPayload struct {
	Id   ids.EncryptionKeyId  `json:"id"`
	Body crypto.EncryptionKey `json:"body"`
}

// SignedEncryptionKey is an agent's encryption key, signed by that agent's
// own signing key. Immutable once created; re-submission with the same id
// is a no-op if identical, else rejected.
type SignedEncryptionKey struct {
	Id        ids.EncryptionKeyId
	Body      crypto.EncryptionKey
	Signer    ids.AgentId
	Signature crypto.Signature
}

// CanonicalPayload returns the bytes that were (or must be) signed.
func (k SignedEncryptionKey) CanonicalPayload() ([]byte, error) {
	return crypto.Canonical(signedEncryptionKeyPayload{Id: k.Id, Body: k.Body})
}

// SameBody reports whether two signed encryption keys carry identical
// content, used to allow idempotent re-submission of an unchanged key while
// rejecting a differing one under the same id.
func (k SignedEncryptionKey) SameBody(other SignedEncryptionKey) bool {
	if k.Signer != other.Signer {
		return false
	}
	if k.Body.Suite != other.Body.Suite || string(k.Body.Bytes) != string(other.Body.Bytes) {
		return false
	}
	if k.Signature.Suite != other.Signature.Suite || string(k.Signature.Bytes) != string(other.Signature.Bytes) {
		return false
	}
	return true
}

// ClerkCandidate enumerates one agent's currently registered encryption
// keys, as returned by SuggestCommittee.
type ClerkCandidate struct {
	Id   ids.AgentId
	Keys []ids.EncryptionKeyId
}
