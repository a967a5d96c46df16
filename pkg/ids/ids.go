// Package ids defines the opaque 128-bit identifiers used throughout the
// protocol. Every domain object is addressed by one of these, never by a
// mutable name, so entities can reference each other without in-memory
// cycles.
package ids

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// id is embedded by every concrete identifier type below so they all share
// parsing, printing and JSON behavior while remaining distinct Go types that
// cannot be accidentally swapped for one another at compile time.
type id uuid.UUID

func newID() id { return id(uuid.New()) }

func (x id) String() string { return uuid.UUID(x).String() }

func (x id) IsZero() bool { return x == id{} }

func (x id) MarshalText() ([]byte, error) { return []byte(x.String()), nil }

func (x *id) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return fmt.Errorf("ids: invalid identifier %q: %w", b, err)
	}
	*x = id(u)
	return nil
}

func (x id) Value() (driver.Value, error) { return x.String(), nil }

func parseID(s string) (id, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return id{}, fmt.Errorf("ids: invalid identifier %q: %w", s, err)
	}
	return id(u), nil
}

// AgentId identifies a registered agent (participant, clerk, or recipient —
// the role is determined by how an agent is used in a given aggregation, not
// by the identifier itself).
type AgentId struct{ id }

// NewAgentId generates a fresh random AgentId.
func NewAgentId() AgentId { return AgentId{newID()} }

// ParseAgentId parses a hyphenated hex UUID string into an AgentId.
func ParseAgentId(s string) (AgentId, error) {
	x, err := parseID(s)
	return AgentId{x}, err
}

// EncryptionKeyId identifies a signed encryption key.
type EncryptionKeyId struct{ id }

func NewEncryptionKeyId() EncryptionKeyId { return EncryptionKeyId{newID()} }

func ParseEncryptionKeyId(s string) (EncryptionKeyId, error) {
	x, err := parseID(s)
	return EncryptionKeyId{x}, err
}

// VerificationKeyId identifies an agent's labeled verification key.
type VerificationKeyId struct{ id }

func NewVerificationKeyId() VerificationKeyId { return VerificationKeyId{newID()} }

func ParseVerificationKeyId(s string) (VerificationKeyId, error) {
	x, err := parseID(s)
	return VerificationKeyId{x}, err
}

// AggregationId identifies an aggregation definition.
type AggregationId struct{ id }

func NewAggregationId() AggregationId { return AggregationId{newID()} }

func ParseAggregationId(s string) (AggregationId, error) {
	x, err := parseID(s)
	return AggregationId{x}, err
}

// ParticipationId identifies one participant's contribution to an
// aggregation.
type ParticipationId struct{ id }

func NewParticipationId() ParticipationId { return ParticipationId{newID()} }

func ParseParticipationId(s string) (ParticipationId, error) {
	x, err := parseID(s)
	return ParticipationId{x}, err
}

// SnapshotId identifies a frozen inclusion tag over an aggregation's
// participations.
type SnapshotId struct{ id }

func NewSnapshotId() SnapshotId { return SnapshotId{newID()} }

func ParseSnapshotId(s string) (SnapshotId, error) {
	x, err := parseID(s)
	return SnapshotId{x}, err
}

// ClerkingJobId identifies one clerk's unit of work for one snapshot.
type ClerkingJobId struct{ id }

func NewClerkingJobId() ClerkingJobId { return ClerkingJobId{newID()} }

func ParseClerkingJobId(s string) (ClerkingJobId, error) {
	x, err := parseID(s)
	return ClerkingJobId{x}, err
}
