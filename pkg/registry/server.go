package registry

import (
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// Server implements the registry's operations against a Store. It performs
// no access control of its own — that is the ACL-checking Service layer's
// job, one level up in pkg/orchestration, following the same split the
// original server carried between a plain SdaServer and a permission-aware
// SdaServerService wrapper.
type Server struct {
	store Store
}

// NewServer constructs a Server backed by store.
func NewServer(store Store) *Server { return &Server{store: store} }

// CreateAgent registers a new agent. Re-creating an existing agent id is a
// conflict; agents are never mutated.
func (s *Server) CreateAgent(agent Agent) error {
	_, exists, err := s.store.GetAgent(agent.Id)
	if err != nil {
		return err
	}
	if exists {
		return sdaerr.New("registry.CreateAgent", sdaerr.Conflict, "agent already registered")
	}
	return s.store.CreateAgent(agent)
}

// GetAgent retrieves an agent by id. Public: no ACL check applies.
func (s *Server) GetAgent(id ids.AgentId) (Agent, bool, error) {
	return s.store.GetAgent(id)
}

// UpsertProfile creates or replaces owner's profile.
func (s *Server) UpsertProfile(profile Profile) error {
	return s.store.UpsertProfile(profile)
}

// GetProfile retrieves owner's profile. Public: no ACL check applies.
func (s *Server) GetProfile(owner ids.AgentId) (Profile, bool, error) {
	return s.store.GetProfile(owner)
}

// CreateEncryptionKey registers a new signed encryption key after verifying
// its signature against the signer's registered verification key.
// Re-submission with the same id is a no-op if byte-identical, else a
// Conflict.
func (s *Server) CreateEncryptionKey(key SignedEncryptionKey) error {
	signer, ok, err := s.store.GetAgent(key.Signer)
	if err != nil {
		return err
	}
	if !ok {
		return sdaerr.New("registry.CreateEncryptionKey", sdaerr.NotFound, "unknown signer")
	}

	valid, err := signer.SignatureIsValid(key)
	if err != nil {
		return sdaerr.Wrap("registry.CreateEncryptionKey", sdaerr.CryptoFailure, err)
	}
	if !valid {
		return sdaerr.New("registry.CreateEncryptionKey", sdaerr.SignatureInvalid, "signature does not verify against signer's key")
	}

	existing, exists, err := s.store.GetEncryptionKey(key.Id)
	if err != nil {
		return err
	}
	if exists {
		if !existing.SameBody(key) {
			return sdaerr.New("registry.CreateEncryptionKey", sdaerr.Conflict, "encryption key id already registered with different content")
		}
		return nil
	}
	return s.store.CreateEncryptionKey(key)
}

// GetEncryptionKey retrieves a signed encryption key by id. Public: no ACL
// check applies.
func (s *Server) GetEncryptionKey(id ids.EncryptionKeyId) (SignedEncryptionKey, bool, error) {
	return s.store.GetEncryptionKey(id)
}

// SuggestCommittee enumerates all current signed encryption keys per agent,
// ordered stably by agent id.
func (s *Server) SuggestCommittee() ([]ClerkCandidate, error) {
	return s.store.ListClerkCandidates()
}
