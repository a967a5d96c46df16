package registry

import "github.com/luxfi/sda/pkg/ids"

// Store is the persistence contract for agents, profiles, and signed
// encryption keys. The spec treats storage as an external collaborator;
// internal/store provides the in-memory reference implementation used by
// tests and the CLI.
type Store interface {
	CreateAgent(agent Agent) error
	GetAgent(id ids.AgentId) (Agent, bool, error)

	UpsertProfile(profile Profile) error
	GetProfile(owner ids.AgentId) (Profile, bool, error)

	CreateEncryptionKey(key SignedEncryptionKey) error
	GetEncryptionKey(id ids.EncryptionKeyId) (SignedEncryptionKey, bool, error)

	// ListClerkCandidates enumerates every registered agent along with all
	// of its current signed encryption keys, ordered stably by agent id
	// string, matching spec §4.3's "No liveness check is mandated" / stable
	// ordering contract.
	ListClerkCandidates() ([]ClerkCandidate, error)
}
