// Package clerking implements the clerking queue: one pending-job list per
// clerk, and the result store indexed both by (clerk, job) for idempotent
// replay and by snapshot for recipient-side collection (spec §4.5).
package clerking

import (
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
)

// Status is a ClerkingJob's lifecycle state.
type Status int

const (
	Pending Status = iota
	Done
)

func (s Status) String() string {
	if s == Done {
		return "done"
	}
	return "pending"
}

// Job is one clerk's unit of work for one snapshot: every included
// participation's share ciphertext destined for that clerk.
type Job struct {
	Id          ids.ClerkingJobId
	Clerk       ids.AgentId
	Aggregation ids.AggregationId
	Snapshot    ids.SnapshotId
	Encryptions []crypto.Ciphertext
	Status      Status
}

// Result is a clerk's submitted re-encrypted combined share for one job.
// Submitted at most once per job; marks the job done.
type Result struct {
	Job         ids.ClerkingJobId
	Clerk       ids.AgentId
	Aggregation ids.AggregationId
	Encryption  crypto.Ciphertext
}
