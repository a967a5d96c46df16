package clerking

import "github.com/luxfi/sda/pkg/ids"

// Store is the persistence contract for clerking jobs and results.
// internal/store provides the in-memory reference implementation used by
// tests and the CLI; the spec treats actual persistence as an external
// collaborator.
type Store interface {
	// EnqueueJob appends job to its clerk's pending queue.
	EnqueueJob(job Job) error
	// EnqueueSnapshotJobs fans jobs out to their clerks' pending queues
	// exactly once per snapshot id: replaying the same snapshot (a
	// create_snapshot retry) is a no-op rather than re-enqueuing a second
	// copy of every job, mirroring aggregation.Store's BuildSnapshot
	// idempotency (spec §4.4/§7's "idempotent under retry keyed by
	// snapshot id").
	EnqueueSnapshotJobs(snapshot ids.SnapshotId, jobs []Job) error
	// PollJob returns any pending job owned by clerk without removing it
	// from the queue (spec §4.6: a clerk that dies before submitting a
	// result must be able to re-poll the same job on restart). The id is
	// only dropped from the queue once CreateResult marks it Done. ok is
	// false when the clerk has no pending work.
	PollJob(clerk ids.AgentId) (Job, bool, error)
	// GetJob retrieves a specific job, checking it belongs to clerk.
	GetJob(clerk ids.AgentId, job ids.ClerkingJobId) (Job, bool, error)

	// CreateResult atomically transitions job to Done and stores result,
	// indexed by (clerk, job) and by snapshot. Submitting a result for a
	// job that does not exist, or that belongs to a different clerk, fails.
	// Resubmitting the same (clerk, job) with the same content is a no-op.
	CreateResult(result Result) error
	// ListResults returns every result recorded for snapshot.
	ListResults(snapshot ids.SnapshotId) ([]Result, error)
	// GetResult retrieves one (snapshot, job) result.
	GetResult(snapshot ids.SnapshotId, job ids.ClerkingJobId) (Result, bool, error)
}
