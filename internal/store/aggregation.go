package store

import (
	"sync"

	"github.com/luxfi/sda/pkg/aggregation"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// Aggregation is an in-memory aggregation.Store.
type Aggregation struct {
	mu           sync.Mutex
	aggregations map[ids.AggregationId]aggregation.Aggregation
	committees   map[ids.AggregationId]aggregation.Committee
	// participations, in submission order, per aggregation.
	participations map[ids.AggregationId][]aggregation.Participation
	// snapshotTag records, per participation id, the most recent snapshot
	// (if any) that participation was tagged into.
	snapshotTag map[ids.ParticipationId]ids.SnapshotId
	snapshots   map[ids.SnapshotId]aggregation.Snapshot
	// snapshotsByAggregation preserves creation order for ListSnapshots.
	snapshotsByAggregation map[ids.AggregationId][]ids.SnapshotId
	// builtSnapshots makes BuildSnapshot idempotent-by-id: once a snapshot
	// id has been built, repeating the call returns the same tagged set
	// without re-tagging anything.
	builtSnapshots map[ids.SnapshotId][]aggregation.Participation
}

// NewAggregation constructs an empty Aggregation store.
func NewAggregation() *Aggregation {
	return &Aggregation{
		aggregations:           make(map[ids.AggregationId]aggregation.Aggregation),
		committees:             make(map[ids.AggregationId]aggregation.Committee),
		participations:         make(map[ids.AggregationId][]aggregation.Participation),
		snapshotTag:            make(map[ids.ParticipationId]ids.SnapshotId),
		snapshots:              make(map[ids.SnapshotId]aggregation.Snapshot),
		snapshotsByAggregation: make(map[ids.AggregationId][]ids.SnapshotId),
		builtSnapshots:         make(map[ids.SnapshotId][]aggregation.Participation),
	}
}

func (a *Aggregation) CreateAggregation(agg aggregation.Aggregation) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.aggregations[agg.Id]; exists {
		return sdaerr.New("store.Aggregation.CreateAggregation", sdaerr.Conflict, "aggregation already exists")
	}
	a.aggregations[agg.Id] = agg
	return nil
}

func (a *Aggregation) GetAggregation(id ids.AggregationId) (aggregation.Aggregation, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	agg, ok := a.aggregations[id]
	return agg, ok, nil
}

func (a *Aggregation) DeleteAggregation(id ids.AggregationId) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.aggregations, id)
	delete(a.committees, id)
	for _, p := range a.participations[id] {
		delete(a.snapshotTag, p.Id)
	}
	delete(a.participations, id)
	for _, sid := range a.snapshotsByAggregation[id] {
		delete(a.snapshots, sid)
		delete(a.builtSnapshots, sid)
	}
	delete(a.snapshotsByAggregation, id)
	return nil
}

func (a *Aggregation) ListAggregations(titleSubstring string, recipient *ids.AgentId) ([]ids.AggregationId, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []ids.AggregationId
	for id, agg := range a.aggregations {
		if !titleMatches(agg.Title, titleSubstring) {
			continue
		}
		if recipient != nil && agg.Recipient != *recipient {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

func (a *Aggregation) CreateCommittee(committee aggregation.Committee) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.committees[committee.Aggregation]; exists {
		return sdaerr.New("store.Aggregation.CreateCommittee", sdaerr.Conflict, "committee already assigned")
	}
	a.committees[committee.Aggregation] = committee
	return nil
}

func (a *Aggregation) GetCommittee(aggregationID ids.AggregationId) (aggregation.Committee, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.committees[aggregationID]
	return c, ok, nil
}

func (a *Aggregation) CreateParticipation(p aggregation.Participation) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.participations[p.Aggregation] = append(a.participations[p.Aggregation], p)
	return nil
}

func (a *Aggregation) CountParticipations(aggregationID ids.AggregationId) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.participations[aggregationID]), nil
}

// BuildSnapshot is the crash-safe (within a single process, lock-guarded)
// core of spec §4.4's snapshot-construction transition: it atomically tags
// every currently visible participation for snapshot.Aggregation (including
// ones already tagged into an earlier snapshot) with snapshot.Id and persists the snapshot record, returning the tagged
// set. Idempotent: replaying the same snapshot.Id returns the previously
// tagged set unchanged.
func (a *Aggregation) BuildSnapshot(snapshot aggregation.Snapshot) ([]aggregation.Participation, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if tagged, ok := a.builtSnapshots[snapshot.Id]; ok {
		return tagged, nil
	}

	var tagged []aggregation.Participation
	for _, p := range a.participations[snapshot.Aggregation] {
		a.snapshotTag[p.Id] = snapshot.Id
		tagged = append(tagged, p)
	}

	a.snapshots[snapshot.Id] = snapshot
	a.snapshotsByAggregation[snapshot.Aggregation] = append(a.snapshotsByAggregation[snapshot.Aggregation], snapshot.Id)
	a.builtSnapshots[snapshot.Id] = tagged
	return tagged, nil
}

func (a *Aggregation) GetSnapshot(id ids.SnapshotId) (aggregation.Snapshot, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.snapshots[id]
	return s, ok, nil
}

func (a *Aggregation) ListSnapshots(aggregationID ids.AggregationId) ([]ids.SnapshotId, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := append([]ids.SnapshotId(nil), a.snapshotsByAggregation[aggregationID]...)
	return out, nil
}

func (a *Aggregation) CountSnapshotParticipations(snapshot ids.SnapshotId) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.builtSnapshots[snapshot]), nil
}

func (a *Aggregation) SnapshotParticipations(snapshot ids.SnapshotId) ([]aggregation.Participation, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := append([]aggregation.Participation(nil), a.builtSnapshots[snapshot]...)
	return out, nil
}
