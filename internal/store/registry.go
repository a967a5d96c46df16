// Package store provides the in-memory reference implementations of the
// registry, aggregation, and clerking storage contracts. The spec treats
// persistence as an external collaborator (§1 Out of scope); this package
// is what the CLI and tests run against, guarded the way the teacher
// guards its in-memory protocol state — a plain sync.Mutex (sync.RWMutex
// for Registry) around a
// validate-then-mutate-then-unlock critical section, mirroring
// protocols/lss/dealer/dealer.go's InitiateReshare/CompleteReshare shape.
package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/registry"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// Registry is an in-memory registry.Store.
type Registry struct {
	mu       sync.RWMutex
	agents   map[ids.AgentId]registry.Agent
	profiles map[ids.AgentId]registry.Profile
	keys     map[ids.EncryptionKeyId]registry.SignedEncryptionKey
	// keysByAgent indexes keys signed by each agent, for SuggestCommittee.
	keysByAgent map[ids.AgentId][]ids.EncryptionKeyId
}

// NewRegistry constructs an empty Registry store.
func NewRegistry() *Registry {
	return &Registry{
		agents:      make(map[ids.AgentId]registry.Agent),
		profiles:    make(map[ids.AgentId]registry.Profile),
		keys:        make(map[ids.EncryptionKeyId]registry.SignedEncryptionKey),
		keysByAgent: make(map[ids.AgentId][]ids.EncryptionKeyId),
	}
}

func (r *Registry) CreateAgent(agent registry.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[agent.Id]; exists {
		return sdaerr.New("store.Registry.CreateAgent", sdaerr.Conflict, "agent already exists")
	}
	r.agents[agent.Id] = agent
	return nil
}

func (r *Registry) GetAgent(id ids.AgentId) (registry.Agent, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	return a, ok, nil
}

func (r *Registry) UpsertProfile(profile registry.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.Owner] = profile
	return nil
}

func (r *Registry) GetProfile(owner ids.AgentId) (registry.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[owner]
	return p, ok, nil
}

func (r *Registry) CreateEncryptionKey(key registry.SignedEncryptionKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[key.Id] = key
	r.keysByAgent[key.Signer] = append(r.keysByAgent[key.Signer], key.Id)
	return nil
}

func (r *Registry) GetEncryptionKey(id ids.EncryptionKeyId) (registry.SignedEncryptionKey, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.keys[id]
	return k, ok, nil
}

func (r *Registry) ListClerkCandidates() ([]registry.ClerkCandidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]registry.ClerkCandidate, 0, len(r.agents))
	for id := range r.agents {
		keyIDs := append([]ids.EncryptionKeyId(nil), r.keysByAgent[id]...)
		out = append(out, registry.ClerkCandidate{Id: id, Keys: keyIDs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id.String() < out[j].Id.String() })
	return out, nil
}

// titleMatches reports whether title contains substring, case-sensitively,
// matching the simplest reading of spec §4.4's "title substring" filter.
func titleMatches(title, substring string) bool {
	return substring == "" || strings.Contains(title, substring)
}
