package aggregation

import "github.com/luxfi/sda/pkg/ids"

// Store is the persistence contract for aggregations, committees,
// participations, and snapshots. internal/store provides the in-memory
// reference implementation; the spec treats storage choice as an external
// collaborator (§1 Out of scope).
type Store interface {
	CreateAggregation(agg Aggregation) error
	GetAggregation(id ids.AggregationId) (Aggregation, bool, error)
	DeleteAggregation(id ids.AggregationId) error
	// ListAggregations returns ids matching both filters (AND); an empty
	// titleSubstring or a zero-value recipient disables that filter.
	ListAggregations(titleSubstring string, recipient *ids.AgentId) ([]ids.AggregationId, error)

	CreateCommittee(committee Committee) error
	GetCommittee(aggregation ids.AggregationId) (Committee, bool, error)

	CreateParticipation(p Participation) error
	// CountParticipations returns the total number of participations
	// recorded for aggregation, regardless of snapshot tagging.
	CountParticipations(aggregation ids.AggregationId) (int, error)

	// BuildSnapshot performs the atomic snapshot-construction transition of
	// spec §4.4: tag every participation currently visible for the
	// aggregation with snapshot.Id, persist the snapshot record, and return
	// the ordered list of tagged participations so the caller can
	// materialize per-clerk share lists. Crash-safe and idempotent under
	// retry keyed by snapshot.Id: calling it twice with the same
	// snapshot.Id returns the same tagged set without re-tagging anything.
	BuildSnapshot(snapshot Snapshot) ([]Participation, error)

	GetSnapshot(id ids.SnapshotId) (Snapshot, bool, error)
	ListSnapshots(aggregation ids.AggregationId) ([]ids.SnapshotId, error)
	// CountSnapshotParticipations returns how many participations were
	// tagged into snapshot.
	CountSnapshotParticipations(snapshot ids.SnapshotId) (int, error)
	// SnapshotParticipations enumerates the participations tagged into
	// snapshot, in tagging order.
	SnapshotParticipations(snapshot ids.SnapshotId) ([]Participation, error)
}
