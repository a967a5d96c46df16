// Package aggregation implements the aggregation registry: aggregations,
// committees, participations, and snapshots, plus the snapshot-construction
// state transition that is the critical piece of the whole protocol's
// coordination (§4.4).
package aggregation

import (
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/scheme"
)

// Aggregation is a configured computation over a vector of integers mod M,
// contributed by many participants, revealing only the sum to a recipient.
// Created by the recipient; deletable only by the recipient; otherwise
// immutable.
type Aggregation struct {
	Id                        ids.AggregationId
	Title                     string
	VectorDimension           int
	Modulus                   int64
	Recipient                 ids.AgentId
	RecipientKey              ids.EncryptionKeyId
	MaskingScheme             scheme.LinearMaskingScheme
	CommitteeSharingScheme    scheme.LinearSecretSharingScheme
	RecipientEncryptionScheme scheme.AdditiveEncryptionScheme
	CommitteeEncryptionScheme scheme.AdditiveEncryptionScheme
}

// ClerkKey pairs a committee member's agent id with the encryption key
// index participants must use when encrypting shares to it.
type ClerkKey struct {
	Clerk ids.AgentId
	Key   ids.EncryptionKeyId
}

// Committee is the fixed, ordered set of clerks who jointly process shares
// for one aggregation. At most one committee exists per aggregation;
// immutable once written. The list's order determines the
// share-index-to-clerk mapping for the lifetime of the aggregation.
type Committee struct {
	Aggregation   ids.AggregationId
	ClerksAndKeys []ClerkKey
}

// ClerkEncryption pairs a committee member with the ciphertext carrying its
// share of one participation.
type ClerkEncryption struct {
	Clerk      ids.AgentId
	Encryption crypto.Ciphertext
}

// Participation is one participant's encrypted contribution to one
// aggregation. Immutable once accepted; multiple participations per
// (participant, aggregation) are permitted, each contributing
// independently.
type Participation struct {
	Id                 ids.ParticipationId
	Participant        ids.AgentId
	Aggregation        ids.AggregationId
	RecipientEncryption *crypto.Ciphertext // present iff masking_scheme != None
	ClerkEncryptions    []ClerkEncryption  // one entry per committee member, same order
}

// Snapshot is an immutable tag over the set of participations visible at
// the instant it was created. The tag is permanent; later participations
// are not retroactively added.
type Snapshot struct {
	Id          ids.SnapshotId
	Aggregation ids.AggregationId
}

// SnapshotStatus reports progress for one snapshot within an aggregation's
// status.
type SnapshotStatus struct {
	Id                      ids.SnapshotId
	NumberOfClerkingResults int
	ResultReady             bool
}

// Status is the recipient-facing view of an aggregation's progress.
type Status struct {
	Aggregation            ids.AggregationId
	NumberOfParticipations int
	Snapshots              []SnapshotStatus
}

// SnapshotResult carries everything needed to reconstruct one snapshot's
// output: every clerk's re-encrypted combined share, plus (when the
// aggregation masks) every tagged participation's recipient-mask
// ciphertext.
type SnapshotResult struct {
	Snapshot             ids.SnapshotId
	RecipientEncryptions []crypto.Ciphertext
	ClerkEncryptions     []ClerkEncryption
}
