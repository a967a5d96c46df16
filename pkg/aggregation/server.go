package aggregation

import (
	"fmt"

	"github.com/luxfi/sda/pkg/clerking"
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// Server implements the aggregation registry's operations against a Store,
// fanning out ClerkingJobs through a clerking.Server during snapshot
// construction. Like pkg/registry.Server, it performs no access control of
// its own.
type Server struct {
	store  Store
	clerks *clerking.Server
}

// NewServer constructs a Server backed by store, enqueuing clerking jobs
// through clerks.
func NewServer(store Store, clerks *clerking.Server) *Server {
	return &Server{store: store, clerks: clerks}
}

// CreateAggregation validates and persists a new aggregation.
func (s *Server) CreateAggregation(agg Aggregation) error {
	if err := agg.Validate(); err != nil {
		return err
	}
	return s.store.CreateAggregation(agg)
}

// GetAggregation retrieves an aggregation by id. Public: no ACL applies.
func (s *Server) GetAggregation(id ids.AggregationId) (Aggregation, bool, error) {
	return s.store.GetAggregation(id)
}

// DeleteAggregation removes an aggregation and its derived state.
func (s *Server) DeleteAggregation(id ids.AggregationId) error {
	return s.store.DeleteAggregation(id)
}

// ListAggregations returns ids matching both filters.
func (s *Server) ListAggregations(titleSubstring string, recipient *ids.AgentId) ([]ids.AggregationId, error) {
	return s.store.ListAggregations(titleSubstring, recipient)
}

// CreateCommittee validates and persists committee. At most one committee
// may exist per aggregation; immutable once written.
func (s *Server) CreateCommittee(aggregationID ids.AggregationId, committee Committee) error {
	agg, ok, err := s.store.GetAggregation(aggregationID)
	if err != nil {
		return err
	}
	if !ok {
		return sdaerr.New("aggregation.CreateCommittee", sdaerr.NotFound, "aggregation not found")
	}
	if err := CommitteeMatches(agg, committee); err != nil {
		return err
	}
	if _, exists, err := s.store.GetCommittee(aggregationID); err != nil {
		return err
	} else if exists {
		return sdaerr.New("aggregation.CreateCommittee", sdaerr.Conflict, "committee already assigned")
	}
	return s.store.CreateCommittee(committee)
}

// GetCommittee retrieves the committee for an aggregation.
func (s *Server) GetCommittee(aggregation ids.AggregationId) (Committee, bool, error) {
	return s.store.GetCommittee(aggregation)
}

// CreateParticipation validates structural shape against the committee
// and persists p. Cryptographic verification (signatures, dimension
// checks against the secret) happens in the participant flow before this
// is ever called; here we only check the wire-shape invariant from §3.
func (s *Server) CreateParticipation(p Participation) error {
	committee, ok, err := s.store.GetCommittee(p.Aggregation)
	if err != nil {
		return err
	}
	if !ok {
		return sdaerr.New("aggregation.CreateParticipation", sdaerr.NotFound, "aggregation has no committee")
	}
	if len(p.ClerkEncryptions) != len(committee.ClerksAndKeys) {
		return sdaerr.New("aggregation.CreateParticipation", sdaerr.InvalidArgument,
			fmt.Sprintf("participation has %d clerk encryptions, committee has %d members", len(p.ClerkEncryptions), len(committee.ClerksAndKeys)))
	}
	for i, ck := range committee.ClerksAndKeys {
		if p.ClerkEncryptions[i].Clerk != ck.Clerk {
			return sdaerr.New("aggregation.CreateParticipation", sdaerr.InvalidArgument, "clerk encryption order does not match committee order")
		}
	}
	return s.store.CreateParticipation(p)
}

// CountParticipations returns the total number of participations recorded
// for aggregation.
func (s *Server) CountParticipations(aggregation ids.AggregationId) (int, error) {
	return s.store.CountParticipations(aggregation)
}

// CreateSnapshot performs the critical snapshot-construction transition
// (spec §4.4): tag visible participations, materialize one ClerkingJob per
// committee member holding that clerk's share of every tagged
// participation, and enqueue the jobs. Both BuildSnapshot (the tagging
// half) and EnqueueSnapshotJobs (the fan-out half) are idempotent keyed by
// snapshot.Id (see internal/store), so replaying create_snapshot with the
// same snapshot.Id — the retry scenario spec §5/§7 bless for
// re-submission — neither re-tags participations nor mints a second set
// of jobs.
func (s *Server) CreateSnapshot(snapshot Snapshot) error {
	agg, ok, err := s.store.GetAggregation(snapshot.Aggregation)
	if err != nil {
		return err
	}
	if !ok {
		return sdaerr.New("aggregation.CreateSnapshot", sdaerr.NotFound, "aggregation not found")
	}
	committee, ok, err := s.store.GetCommittee(snapshot.Aggregation)
	if err != nil {
		return err
	}
	if !ok {
		return sdaerr.New("aggregation.CreateSnapshot", sdaerr.NotFound, "aggregation has no committee")
	}
	if err := CommitteeMatches(agg, committee); err != nil {
		return err
	}

	tagged, err := s.store.BuildSnapshot(snapshot)
	if err != nil {
		return err
	}

	jobs := make([]clerking.Job, len(committee.ClerksAndKeys))
	for clerkIndex, ck := range committee.ClerksAndKeys {
		jobs[clerkIndex] = clerking.Job{
			Id:          ids.NewClerkingJobId(),
			Clerk:       ck.Clerk,
			Aggregation: snapshot.Aggregation,
			Snapshot:    snapshot.Id,
			Encryptions: collectClerkEncryptions(tagged, clerkIndex),
			Status:      clerking.Pending,
		}
	}
	return s.clerks.EnqueueSnapshotJobs(snapshot.Id, jobs)
}

func collectClerkEncryptions(participations []Participation, clerkIndex int) []crypto.Ciphertext {
	out := make([]crypto.Ciphertext, len(participations))
	for i, p := range participations {
		out[i] = p.ClerkEncryptions[clerkIndex].Encryption
	}
	return out
}

// GetSnapshot retrieves a snapshot by id.
func (s *Server) GetSnapshot(id ids.SnapshotId) (Snapshot, bool, error) {
	return s.store.GetSnapshot(id)
}

// ListSnapshots lists every snapshot id created for aggregation.
func (s *Server) ListSnapshots(aggregation ids.AggregationId) ([]ids.SnapshotId, error) {
	return s.store.ListSnapshots(aggregation)
}

// CountSnapshotParticipations returns how many participations were tagged
// into snapshot.
func (s *Server) CountSnapshotParticipations(snapshot ids.SnapshotId) (int, error) {
	return s.store.CountSnapshotParticipations(snapshot)
}

// SnapshotParticipations enumerates the participations tagged into
// snapshot.
func (s *Server) SnapshotParticipations(snapshot ids.SnapshotId) ([]Participation, error) {
	return s.store.SnapshotParticipations(snapshot)
}
