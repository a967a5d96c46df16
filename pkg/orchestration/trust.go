package orchestration

import "github.com/luxfi/sda/pkg/ids"

// TrustStore answers whether a participant locally flags an agent as a
// trusted recipient (spec §4.6 step 2). It is a client-side, local
// concern — never synced to the server — so it is a small interface
// rather than anything wired into Store.
type TrustStore interface {
	IsTrusted(agent ids.AgentId) bool
}

// StaticTrustStore is the simplest TrustStore: a fixed set of trusted
// agents, suitable for the CLI and tests.
type StaticTrustStore map[ids.AgentId]bool

func (s StaticTrustStore) IsTrusted(agent ids.AgentId) bool { return s[agent] }
