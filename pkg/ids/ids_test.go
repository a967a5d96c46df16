package ids

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdsAreUniqueAndNonZero(t *testing.T) {
	a := NewAgentId()
	b := NewAgentId()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())
}

func TestAgentIdRoundTripsThroughText(t *testing.T) {
	a := NewAgentId()
	text, err := a.MarshalText()
	require.NoError(t, err)

	var b AgentId
	require.NoError(t, b.UnmarshalText(text))
	assert.Equal(t, a, b)
}

func TestAgentIdRoundTripsThroughJSON(t *testing.T) {
	type wrapper struct {
		Owner AgentId `json:"owner"`
	}
	a := wrapper{Owner: NewAgentId()}

	bytes, err := json.Marshal(a)
	require.NoError(t, err)

	var b wrapper
	require.NoError(t, json.Unmarshal(bytes, &b))
	assert.Equal(t, a, b)
}

func TestParseAgentIdRejectsGarbage(t *testing.T) {
	_, err := ParseAgentId("not-a-uuid")
	assert.Error(t, err)
}

func TestDistinctIdKindsAreDistinctTypes(t *testing.T) {
	agent := NewAgentId()
	key := NewEncryptionKeyId()
	// The type distinction itself is enforced by the compiler (an AgentId
	// cannot be compared with an EncryptionKeyId); at run time this only
	// checks that freshly generated ids of two kinds differ.
	assert.NotEqual(t, agent.String(), key.String())
}
