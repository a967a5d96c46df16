package registry_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/sda/internal/store"
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/registry"
)

func newTestAgent(t *testing.T) (registry.Agent, crypto.SigningKey) {
	t.Helper()
	vk, sk, err := crypto.GenerateSigningKeypair()
	require.NoError(t, err)
	agent := registry.Agent{
		Id: ids.NewAgentId(),
		VerificationKey: registry.LabeledVerificationKey{
			Id:  ids.NewVerificationKeyId(),
			Key: vk,
		},
	}
	return agent, sk
}

func signEncryptionKey(t *testing.T, agent registry.Agent, sk crypto.SigningKey, body crypto.EncryptionKey) registry.SignedEncryptionKey {
	t.Helper()
	key := registry.SignedEncryptionKey{
		Id:     ids.NewEncryptionKeyId(),
		Body:   body,
		Signer: agent.Id,
	}
	payload, err := key.CanonicalPayload()
	require.NoError(t, err)
	sig, err := crypto.Sign(sk, payload)
	require.NoError(t, err)
	key.Signature = sig
	return key
}

func TestCreateAgentRejectsDuplicate(t *testing.T) {
	s := registry.NewServer(store.NewRegistry())
	agent, _ := newTestAgent(t)

	require.NoError(t, s.CreateAgent(agent))
	err := s.CreateAgent(agent)
	assert.Error(t, err)
}

func TestCreateEncryptionKeyRequiresValidSignature(t *testing.T) {
	s := registry.NewServer(store.NewRegistry())
	agent, _ := newTestAgent(t)
	require.NoError(t, s.CreateAgent(agent))

	pk, _, err := crypto.GenerateEncryptionKeypair()
	require.NoError(t, err)

	key := registry.SignedEncryptionKey{
		Id:     ids.NewEncryptionKeyId(),
		Body:   pk,
		Signer: agent.Id,
		// deliberately left unsigned
	}
	err = s.CreateEncryptionKey(key)
	assert.Error(t, err)
}

func TestCreateEncryptionKeyAcceptsValidSignature(t *testing.T) {
	s := registry.NewServer(store.NewRegistry())
	agent, sk := newTestAgent(t)
	require.NoError(t, s.CreateAgent(agent))

	pk, _, err := crypto.GenerateEncryptionKeypair()
	require.NoError(t, err)
	key := signEncryptionKey(t, agent, sk, pk)

	require.NoError(t, s.CreateEncryptionKey(key))

	got, ok, err := s.GetEncryptionKey(key.Id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, key.Id, got.Id)
}

func TestCreateEncryptionKeyReSubmissionIsIdempotent(t *testing.T) {
	s := registry.NewServer(store.NewRegistry())
	agent, sk := newTestAgent(t)
	require.NoError(t, s.CreateAgent(agent))

	pk, _, err := crypto.GenerateEncryptionKeypair()
	require.NoError(t, err)
	key := signEncryptionKey(t, agent, sk, pk)

	require.NoError(t, s.CreateEncryptionKey(key))
	assert.NoError(t, s.CreateEncryptionKey(key))
}

func TestCreateEncryptionKeyConflictOnDifferingResubmission(t *testing.T) {
	s := registry.NewServer(store.NewRegistry())
	agent, sk := newTestAgent(t)
	require.NoError(t, s.CreateAgent(agent))

	pk1, _, err := crypto.GenerateEncryptionKeypair()
	require.NoError(t, err)
	key1 := signEncryptionKey(t, agent, sk, pk1)
	require.NoError(t, s.CreateEncryptionKey(key1))

	pk2, _, err := crypto.GenerateEncryptionKeypair()
	require.NoError(t, err)
	key2 := key1
	key2.Body = pk2
	payload, err := key2.CanonicalPayload()
	require.NoError(t, err)
	sig, err := crypto.Sign(sk, payload)
	require.NoError(t, err)
	key2.Signature = sig

	err = s.CreateEncryptionKey(key2)
	assert.Error(t, err)
}

func TestSuggestCommitteeListsStableOrder(t *testing.T) {
	s := registry.NewServer(store.NewRegistry())

	var agentIds []string
	for i := 0; i < 5; i++ {
		agent, sk := newTestAgent(t)
		require.NoError(t, s.CreateAgent(agent))
		pk, _, err := crypto.GenerateEncryptionKeypair()
		require.NoError(t, err)
		key := signEncryptionKey(t, agent, sk, pk)
		require.NoError(t, s.CreateEncryptionKey(key))
		agentIds = append(agentIds, agent.Id.String())
	}
	sort.Strings(agentIds)

	candidates, err := s.SuggestCommittee()
	require.NoError(t, err)
	require.Len(t, candidates, 5)
	for i, c := range candidates {
		assert.Equal(t, agentIds[i], c.Id.String())
		assert.Len(t, c.Keys, 1)
	}
}
