package orchestration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/sda/internal/store"
	"github.com/luxfi/sda/pkg/aggregation"
	"github.com/luxfi/sda/pkg/clerking"
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/orchestration"
	"github.com/luxfi/sda/pkg/registry"
	"github.com/luxfi/sda/pkg/scheme"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// party bundles one agent's Keystore with the registry ids it registered
// under, the same shape cmd/sda-cli's demoAgent uses to drive a run.
type party struct {
	id          ids.AgentId
	keys        *orchestration.Keystore
	verifyKeyID ids.VerificationKeyId
	encKeyID    ids.EncryptionKeyId
}

func newParty(t *testing.T, service *orchestration.Service) *party {
	t.Helper()

	vk, sk, err := crypto.GenerateSigningKeypair()
	require.NoError(t, err)
	agentID := ids.NewAgentId()
	verifyKeyID := ids.NewVerificationKeyId()
	agent := registry.Agent{
		Id:              agentID,
		VerificationKey: registry.LabeledVerificationKey{Id: verifyKeyID, Key: vk},
	}
	require.NoError(t, service.CreateAgent(agentID, agent))

	keys := orchestration.NewKeystore(agentID, verifyKeyID, sk)

	pk, decSK, err := crypto.GenerateEncryptionKeypair()
	require.NoError(t, err)
	encKeyID := ids.NewEncryptionKeyId()
	sek := registry.SignedEncryptionKey{Id: encKeyID, Body: pk, Signer: agentID}
	payload, err := sek.CanonicalPayload()
	require.NoError(t, err)
	sig, err := keys.Sign(payload)
	require.NoError(t, err)
	sek.Signature = sig
	require.NoError(t, service.CreateEncryptionKey(agentID, sek))
	keys.AddEncryptionKey(encKeyID, decSK)

	return &party{id: agentID, keys: keys, verifyKeyID: verifyKeyID, encKeyID: encKeyID}
}

func newService(t *testing.T) *orchestration.Service {
	t.Helper()
	regServer := registry.NewServer(store.NewRegistry())
	clkServer := clerking.NewServer(store.NewClerking())
	aggServer := aggregation.NewServer(store.NewAggregation(), clkServer)
	return orchestration.NewService(orchestration.NewServer(regServer, aggServer, clkServer))
}

// environment is a committee-and-recipient setup shared by every scenario
// below; only the aggregation's schemes differ per test.
type environment struct {
	service   *orchestration.Service
	recipient *party
	clerks    []*party
	agg       aggregation.Aggregation
}

func buildEnvironment(t *testing.T, dimension int, modulus int64, masking scheme.LinearMaskingScheme, sharing scheme.LinearSecretSharingScheme) *environment {
	t.Helper()
	service := newService(t)
	recipient := newParty(t, service)

	clerkCount := sharing.OutputSize()
	clerks := make([]*party, clerkCount)
	for i := range clerks {
		clerks[i] = newParty(t, service)
	}

	agg := aggregation.Aggregation{
		Id:                        ids.NewAggregationId(),
		Title:                     "test aggregation",
		VectorDimension:           dimension,
		Modulus:                   modulus,
		Recipient:                 recipient.id,
		RecipientKey:              recipient.encKeyID,
		MaskingScheme:             masking,
		CommitteeSharingScheme:    sharing,
		RecipientEncryptionScheme: scheme.SodiumEncryption(),
		CommitteeEncryptionScheme: scheme.SodiumEncryption(),
	}
	require.NoError(t, agg.Validate())
	require.NoError(t, service.CreateAggregation(recipient.id, agg))

	clerksAndKeys := make([]aggregation.ClerkKey, len(clerks))
	for i, c := range clerks {
		clerksAndKeys[i] = aggregation.ClerkKey{Clerk: c.id, Key: c.encKeyID}
	}
	committee := aggregation.Committee{Aggregation: agg.Id, ClerksAndKeys: clerksAndKeys}
	require.NoError(t, service.CreateCommittee(recipient.id, agg.Id, committee))

	return &environment{service: service, recipient: recipient, clerks: clerks, agg: agg}
}

func (env *environment) contribute(t *testing.T, secrets []int64) {
	t.Helper()
	p := newParty(t, env.service)
	trust := orchestration.StaticTrustStore{env.recipient.id: true}
	_, err := orchestration.NewParticipation(env.service, trust, p.id, env.agg.Id, secrets, true)
	require.NoError(t, err)
}

func (env *environment) snapshotAndRunClerks(t *testing.T) ids.SnapshotId {
	t.Helper()
	snapshotID, err := orchestration.EndAggregation(env.service, env.recipient.id, env.agg.Id)
	require.NoError(t, err)
	for _, c := range env.clerks {
		_, err := orchestration.ClerkOnce(env.service, c.keys, c.id)
		require.NoError(t, err)
	}
	return snapshotID
}

func (env *environment) reveal(t *testing.T) orchestration.RevealedAggregation {
	t.Helper()
	revealed, err := orchestration.RevealAggregation(env.service, env.recipient.keys, env.recipient.id, env.agg.Id)
	require.NoError(t, err)
	return revealed
}

// Scenario 1 (spec §8): additive sharing, no masking, two participants
// contributing [1,2,3,4] each must reveal [2,4,6,8].
func TestSimpleAdditiveSum(t *testing.T) {
	env := buildEnvironment(t, 4, 433, scheme.NoneMasking(), scheme.AdditiveSharing(3, 433))

	env.contribute(t, []int64{1, 2, 3, 4})
	env.contribute(t, []int64{1, 2, 3, 4})

	env.snapshotAndRunClerks(t)
	revealed := env.reveal(t)

	assert.Equal(t, []int64{2, 4, 6, 8}, revealed.Unsigned)
	assert.Equal(t, []int64{2, 4, 6, 8}, revealed.Signed)
}

// Scenario 2 (spec §8): same as scenario 1 but with Full masking; the
// revealed sum must be unchanged.
func TestFullMaskSum(t *testing.T) {
	env := buildEnvironment(t, 4, 433, scheme.FullMasking(433), scheme.AdditiveSharing(3, 433))

	env.contribute(t, []int64{1, 2, 3, 4})
	env.contribute(t, []int64{1, 2, 3, 4})

	env.snapshotAndRunClerks(t)
	revealed := env.reveal(t)

	assert.Equal(t, []int64{2, 4, 6, 8}, revealed.Unsigned)
}

// Scenario 3 (spec §8): ChaCha masking, same expected sum.
func TestChaChaMaskSum(t *testing.T) {
	env := buildEnvironment(t, 4, 433, scheme.ChaChaMasking(433, 4, 128), scheme.AdditiveSharing(3, 433))

	env.contribute(t, []int64{1, 2, 3, 4})
	env.contribute(t, []int64{1, 2, 3, 4})

	env.snapshotAndRunClerks(t)
	revealed := env.reveal(t)

	assert.Equal(t, []int64{2, 4, 6, 8}, revealed.Unsigned)
}

// Scenario 4 (spec §8): PackedShamir with 8 clerks, secret_count=3,
// privacy_threshold=4 (reconstruction_threshold=7), vector_dimension=4
// split into two batches with 3-pad. Same expected sum as scenario 1.
func TestPackedShamirSum(t *testing.T) {
	sharing := scheme.PackedShamirSharing(3, 8, 4, 433, 354, 150)
	env := buildEnvironment(t, 4, 433, scheme.NoneMasking(), sharing)

	env.contribute(t, []int64{1, 2, 3, 4})
	env.contribute(t, []int64{1, 2, 3, 4})

	env.snapshotAndRunClerks(t)
	revealed := env.reveal(t)

	assert.Equal(t, []int64{2, 4, 6, 8}, revealed.Unsigned)
}

// Scenario 5 (spec §8): an agent attempting to write another agent's
// profile is rejected with PermissionDenied and the profile is left
// untouched.
func TestACLDenialOnForeignProfileWrite(t *testing.T) {
	service := newService(t)
	alice := newParty(t, service)
	bob := newParty(t, service)

	require.NoError(t, service.UpsertProfile(alice.id, registry.Profile{
		Owner:  alice.id,
		Fields: map[string]string{"name": "alice"},
	}))

	err := service.UpsertProfile(bob.id, registry.Profile{
		Owner:  alice.id,
		Fields: map[string]string{"name": "hijacked"},
	})
	require.Error(t, err)
	assert.True(t, sdaerr.Is(err, sdaerr.PermissionDenied))

	got, ok, err := service.Registry.GetProfile(alice.id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Fields["name"])
}

// Scenario 6 (spec §8): two participations submitted, snapshot S1 created,
// a third participation submitted, snapshot S2 created. S1 must see two
// tagged participations, S2 must see three.
func TestSnapshotFreezing(t *testing.T) {
	env := buildEnvironment(t, 4, 433, scheme.NoneMasking(), scheme.AdditiveSharing(3, 433))

	env.contribute(t, []int64{1, 1, 1, 1})
	env.contribute(t, []int64{2, 2, 2, 2})

	s1, err := orchestration.EndAggregation(env.service, env.recipient.id, env.agg.Id)
	require.NoError(t, err)

	env.contribute(t, []int64{3, 3, 3, 3})

	s2, err := orchestration.EndAggregation(env.service, env.recipient.id, env.agg.Id)
	require.NoError(t, err)

	count1, err := env.service.Server.Aggregation.CountSnapshotParticipations(s1)
	require.NoError(t, err)
	assert.Equal(t, 2, count1)

	count2, err := env.service.Server.Aggregation.CountSnapshotParticipations(s2)
	require.NoError(t, err)
	assert.Equal(t, 3, count2)
}

// result_ready must flip to true exactly when the number of submitted
// clerking results reaches the sharing scheme's reconstruction threshold,
// and stay false strictly below it (spec §8 "Lifecycle").
func TestResultReadyReflectsReconstructionThreshold(t *testing.T) {
	env := buildEnvironment(t, 2, 433, scheme.NoneMasking(), scheme.AdditiveSharing(3, 433))
	env.contribute(t, []int64{5, 6})

	snapshotID, err := orchestration.EndAggregation(env.service, env.recipient.id, env.agg.Id)
	require.NoError(t, err)

	for i, c := range env.clerks {
		status, ok, err := env.service.GetAggregationStatus(env.recipient.id, env.agg.Id)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, status.Snapshots, 1)
		assert.False(t, status.Snapshots[0].ResultReady, "should not be ready before clerk %d reports", i)

		_, err = orchestration.ClerkOnce(env.service, c.keys, c.id)
		require.NoError(t, err)
	}

	status, ok, err := env.service.GetAggregationStatus(env.recipient.id, env.agg.Id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, status.Snapshots, 1)
	assert.Equal(t, snapshotID, status.Snapshots[0].Id)
	assert.True(t, status.Snapshots[0].ResultReady)
}

// A participation whose secret vector does not match the aggregation's
// vector_dimension is rejected before anything is submitted.
func TestNewParticipationRejectsDimensionMismatch(t *testing.T) {
	env := buildEnvironment(t, 4, 433, scheme.NoneMasking(), scheme.AdditiveSharing(3, 433))
	p := newParty(t, env.service)
	trust := orchestration.StaticTrustStore{env.recipient.id: true}

	_, err := orchestration.NewParticipation(env.service, trust, p.id, env.agg.Id, []int64{1, 2, 3}, true)
	require.Error(t, err)
	assert.True(t, sdaerr.Is(err, sdaerr.InvalidArgument))

	count, err := env.service.Server.Aggregation.CountParticipations(env.agg.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// requireTrust=true rejects a recipient the participant has not locally
// flagged trusted, per spec §4.6 participant step 2.
func TestNewParticipationRequiresTrustWhenRequested(t *testing.T) {
	env := buildEnvironment(t, 2, 433, scheme.NoneMasking(), scheme.AdditiveSharing(3, 433))
	p := newParty(t, env.service)
	untrusting := orchestration.StaticTrustStore{}

	_, err := orchestration.NewParticipation(env.service, untrusting, p.id, env.agg.Id, []int64{1, 2}, true)
	require.Error(t, err)
	assert.True(t, sdaerr.Is(err, sdaerr.PermissionDenied))
}

// Re-running the clerk flow after its job was processed is safe: the job
// stays done and the second ClerkOnce finds no work (ErrNoWork) instead of
// processing it again.
func TestClerkOnceIdempotentOnRestart(t *testing.T) {
	env := buildEnvironment(t, 2, 433, scheme.NoneMasking(), scheme.AdditiveSharing(3, 433))
	env.contribute(t, []int64{7, 8})

	_, err := orchestration.EndAggregation(env.service, env.recipient.id, env.agg.Id)
	require.NoError(t, err)

	c := env.clerks[0]
	_, err = orchestration.ClerkOnce(env.service, c.keys, c.id)
	require.NoError(t, err)

	_, err = orchestration.ClerkOnce(env.service, c.keys, c.id)
	assert.ErrorIs(t, err, orchestration.ErrNoWork)
}
