// Package orchestration implements the participant, clerk, and recipient
// protocol flows (spec §4.6), the aggregation status/state-machine view,
// and the two-layer service shape the original carries: an unauthenticated
// Server exposing one method per spec §6's operation table, wrapped by a
// Service that enforces the access-control rules from that same table
// before delegating. This mirrors the original's SdaServer (no ACL) /
// SdaServerService (ACL) split (see SPEC_FULL.md §5).
package orchestration

import (
	"github.com/luxfi/sda/pkg/aggregation"
	"github.com/luxfi/sda/pkg/clerking"
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/registry"
)

// Server composes the registry, aggregation, and clerking sub-servers into
// the single operation surface of spec §6, performing no access control of
// its own. It is never exposed directly to untrusted callers; Service is.
type Server struct {
	Registry    *registry.Server
	Aggregation *aggregation.Server
	Clerking    *clerking.Server
}

// NewServer composes the three sub-servers.
func NewServer(reg *registry.Server, agg *aggregation.Server, clk *clerking.Server) *Server {
	return &Server{Registry: reg, Aggregation: agg, Clerking: clk}
}

// Ping reports that the server is running.
func (s *Server) Ping() bool { return true }

// GetSnapshotResult assembles a SnapshotResult: every tagged participation's
// recipient-mask ciphertext (if the aggregation masks) plus every clerk's
// submitted result ciphertext, for the recipient to reconstruct.
func (s *Server) GetSnapshotResult(aggID ids.AggregationId, snapshotID ids.SnapshotId) (aggregation.SnapshotResult, bool, error) {
	agg, ok, err := s.Aggregation.GetAggregation(aggID)
	if err != nil || !ok {
		return aggregation.SnapshotResult{}, false, err
	}
	snap, ok, err := s.Aggregation.GetSnapshot(snapshotID)
	if err != nil || !ok || snap.Aggregation != aggID {
		return aggregation.SnapshotResult{}, false, err
	}

	results, err := s.Clerking.ListResults(snapshotID)
	if err != nil {
		return aggregation.SnapshotResult{}, false, err
	}
	clerkEncryptions := make([]aggregation.ClerkEncryption, len(results))
	for i, r := range results {
		clerkEncryptions[i] = aggregation.ClerkEncryption{Clerk: r.Clerk, Encryption: r.Encryption}
	}

	var recipientEncryptions []crypto.Ciphertext
	if agg.MaskingScheme.HasMask() {
		tagged, err := s.Aggregation.SnapshotParticipations(snapshotID)
		if err != nil {
			return aggregation.SnapshotResult{}, false, err
		}
		for _, p := range tagged {
			if p.RecipientEncryption != nil {
				recipientEncryptions = append(recipientEncryptions, *p.RecipientEncryption)
			}
		}
	}

	return aggregation.SnapshotResult{
		Snapshot:             snapshotID,
		RecipientEncryptions: recipientEncryptions,
		ClerkEncryptions:     clerkEncryptions,
	}, true, nil
}
