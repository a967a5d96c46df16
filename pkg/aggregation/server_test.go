package aggregation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/sda/internal/store"
	"github.com/luxfi/sda/pkg/aggregation"
	"github.com/luxfi/sda/pkg/clerking"
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/scheme"
	"github.com/luxfi/sda/pkg/sdaerr"
)

func newServer(t *testing.T) *aggregation.Server {
	t.Helper()
	_, s := newServerWithClerking(t)
	return s
}

func newServerWithClerking(t *testing.T) (*clerking.Server, *aggregation.Server) {
	t.Helper()
	clkServer := clerking.NewServer(store.NewClerking())
	return clkServer, aggregation.NewServer(store.NewAggregation(), clkServer)
}

func baseAggregation(recipient ids.AgentId) aggregation.Aggregation {
	return aggregation.Aggregation{
		Id:                        ids.NewAggregationId(),
		Title:                     "payroll totals",
		VectorDimension:           2,
		Modulus:                   433,
		Recipient:                 recipient,
		RecipientKey:              ids.NewEncryptionKeyId(),
		MaskingScheme:             scheme.NoneMasking(),
		CommitteeSharingScheme:    scheme.AdditiveSharing(3, 433),
		RecipientEncryptionScheme: scheme.SodiumEncryption(),
		CommitteeEncryptionScheme: scheme.SodiumEncryption(),
	}
}

func committeeFor(agg aggregation.Aggregation, clerkCount int) aggregation.Committee {
	clerksAndKeys := make([]aggregation.ClerkKey, clerkCount)
	for i := range clerksAndKeys {
		clerksAndKeys[i] = aggregation.ClerkKey{Clerk: ids.NewAgentId(), Key: ids.NewEncryptionKeyId()}
	}
	return aggregation.Committee{Aggregation: agg.Id, ClerksAndKeys: clerksAndKeys}
}

func participationFor(agg aggregation.Aggregation, committee aggregation.Committee) aggregation.Participation {
	encs := make([]aggregation.ClerkEncryption, len(committee.ClerksAndKeys))
	for i, ck := range committee.ClerksAndKeys {
		encs[i] = aggregation.ClerkEncryption{Clerk: ck.Clerk, Encryption: crypto.Ciphertext("share-for-clerk")}
	}
	return aggregation.Participation{
		Id:               ids.NewParticipationId(),
		Participant:      ids.NewAgentId(),
		Aggregation:      agg.Id,
		ClerkEncryptions: encs,
	}
}

func TestCreateAggregationRejectsInvalidVectorDimension(t *testing.T) {
	s := newServer(t)
	agg := baseAggregation(ids.NewAgentId())
	agg.VectorDimension = 0

	err := s.CreateAggregation(agg)
	require.Error(t, err)
	assert.True(t, sdaerr.Is(err, sdaerr.InvalidArgument))
}

func TestListAggregationsFiltersByTitleAndRecipient(t *testing.T) {
	s := newServer(t)
	alice := ids.NewAgentId()
	bob := ids.NewAgentId()

	aliceAgg := baseAggregation(alice)
	aliceAgg.Title = "quarterly payroll"
	require.NoError(t, s.CreateAggregation(aliceAgg))

	bobAgg := baseAggregation(bob)
	bobAgg.Title = "survey responses"
	require.NoError(t, s.CreateAggregation(bobAgg))

	byTitle, err := s.ListAggregations("payroll", nil)
	require.NoError(t, err)
	assert.Equal(t, []ids.AggregationId{aliceAgg.Id}, byTitle)

	byRecipient, err := s.ListAggregations("", &bob)
	require.NoError(t, err)
	assert.Equal(t, []ids.AggregationId{bobAgg.Id}, byRecipient)

	all, err := s.ListAggregations("", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateCommitteeRejectsSecondCommittee(t *testing.T) {
	s := newServer(t)
	agg := baseAggregation(ids.NewAgentId())
	require.NoError(t, s.CreateAggregation(agg))

	committee := committeeFor(agg, agg.CommitteeSharingScheme.OutputSize())
	require.NoError(t, s.CreateCommittee(agg.Id, committee))

	err := s.CreateCommittee(agg.Id, committeeFor(agg, agg.CommitteeSharingScheme.OutputSize()))
	require.Error(t, err)
	assert.True(t, sdaerr.Is(err, sdaerr.Conflict))
}

func TestCreateCommitteeRejectsWrongMemberCount(t *testing.T) {
	s := newServer(t)
	agg := baseAggregation(ids.NewAgentId())
	require.NoError(t, s.CreateAggregation(agg))

	wrongSize := committeeFor(agg, agg.CommitteeSharingScheme.OutputSize()+1)
	err := s.CreateCommittee(agg.Id, wrongSize)
	require.Error(t, err)
	assert.True(t, sdaerr.Is(err, sdaerr.InvalidArgument))
}

func TestCreateParticipationRejectsShapeMismatch(t *testing.T) {
	s := newServer(t)
	agg := baseAggregation(ids.NewAgentId())
	require.NoError(t, s.CreateAggregation(agg))
	committee := committeeFor(agg, agg.CommitteeSharingScheme.OutputSize())
	require.NoError(t, s.CreateCommittee(agg.Id, committee))

	p := participationFor(agg, committee)
	p.ClerkEncryptions = p.ClerkEncryptions[:len(p.ClerkEncryptions)-1]

	err := s.CreateParticipation(p)
	require.Error(t, err)
	assert.True(t, sdaerr.Is(err, sdaerr.InvalidArgument))

	count, err := s.CountParticipations(agg.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCreateParticipationRejectsOutOfOrderClerkEncryptions(t *testing.T) {
	s := newServer(t)
	agg := baseAggregation(ids.NewAgentId())
	require.NoError(t, s.CreateAggregation(agg))
	committee := committeeFor(agg, agg.CommitteeSharingScheme.OutputSize())
	require.NoError(t, s.CreateCommittee(agg.Id, committee))

	p := participationFor(agg, committee)
	p.ClerkEncryptions[0], p.ClerkEncryptions[1] = p.ClerkEncryptions[1], p.ClerkEncryptions[0]

	err := s.CreateParticipation(p)
	require.Error(t, err)
	assert.True(t, sdaerr.Is(err, sdaerr.InvalidArgument))
}

// Snapshot construction freezes exactly the participations visible at the
// moment it is created: later participations must not retroactively join
// an earlier snapshot (spec §8's snapshot-freezing scenario).
func TestCreateSnapshotFreezesVisibleParticipationsOnly(t *testing.T) {
	s := newServer(t)
	agg := baseAggregation(ids.NewAgentId())
	require.NoError(t, s.CreateAggregation(agg))
	committee := committeeFor(agg, agg.CommitteeSharingScheme.OutputSize())
	require.NoError(t, s.CreateCommittee(agg.Id, committee))

	require.NoError(t, s.CreateParticipation(participationFor(agg, committee)))
	require.NoError(t, s.CreateParticipation(participationFor(agg, committee)))

	snap1 := aggregation.Snapshot{Id: ids.NewSnapshotId(), Aggregation: agg.Id}
	require.NoError(t, s.CreateSnapshot(snap1))

	require.NoError(t, s.CreateParticipation(participationFor(agg, committee)))

	snap2 := aggregation.Snapshot{Id: ids.NewSnapshotId(), Aggregation: agg.Id}
	require.NoError(t, s.CreateSnapshot(snap2))

	count1, err := s.CountSnapshotParticipations(snap1.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, count1)

	count2, err := s.CountSnapshotParticipations(snap2.Id)
	require.NoError(t, err)
	assert.Equal(t, 3, count2)

	totalParticipations, err := s.CountParticipations(agg.Id)
	require.NoError(t, err)
	assert.Equal(t, 3, totalParticipations)
}

// Retrying create_snapshot with the same snapshot id (a transport retry,
// the scenario spec §5 blesses for re-submission) must not fan out a
// second set of clerking jobs: each clerk still has exactly one pending
// job after the aggregation's CreateSnapshot is called twice.
func TestCreateSnapshotIsIdempotentBySnapshotId(t *testing.T) {
	clk, s := newServerWithClerking(t)
	agg := baseAggregation(ids.NewAgentId())
	require.NoError(t, s.CreateAggregation(agg))
	committee := committeeFor(agg, agg.CommitteeSharingScheme.OutputSize())
	require.NoError(t, s.CreateCommittee(agg.Id, committee))
	require.NoError(t, s.CreateParticipation(participationFor(agg, committee)))

	snap := aggregation.Snapshot{Id: ids.NewSnapshotId(), Aggregation: agg.Id}
	require.NoError(t, s.CreateSnapshot(snap))
	require.NoError(t, s.CreateSnapshot(snap))

	for _, ck := range committee.ClerksAndKeys {
		job, ok, err := clk.PollClerkingJob(ck.Clerk)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, job.Encryptions, 1, "replayed snapshot must not double a clerk's job contents")

		result := clerking.Result{Job: job.Id, Clerk: ck.Clerk, Aggregation: agg.Id, Encryption: crypto.Ciphertext("share")}
		require.NoError(t, clk.CreateClerkingResult(ck.Clerk, result))

		_, ok, err = clk.PollClerkingJob(ck.Clerk)
		require.NoError(t, err)
		assert.False(t, ok, "replayed snapshot must not enqueue a second job for clerk %v", ck.Clerk)
	}

	results, err := clk.ListResults(snap.Id)
	require.NoError(t, err)
	assert.Len(t, results, len(committee.ClerksAndKeys))
}

func TestCreateSnapshotRejectsUnknownAggregation(t *testing.T) {
	s := newServer(t)
	err := s.CreateSnapshot(aggregation.Snapshot{Id: ids.NewSnapshotId(), Aggregation: ids.NewAggregationId()})
	require.Error(t, err)
	assert.True(t, sdaerr.Is(err, sdaerr.NotFound))
}

func TestDeleteAggregationRemovesIt(t *testing.T) {
	s := newServer(t)
	agg := baseAggregation(ids.NewAgentId())
	require.NoError(t, s.CreateAggregation(agg))

	require.NoError(t, s.DeleteAggregation(agg.Id))

	_, ok, err := s.GetAggregation(agg.Id)
	require.NoError(t, err)
	assert.False(t, ok)
}
