package store

import (
	"sync"

	"github.com/luxfi/sda/pkg/clerking"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// Clerking is an in-memory clerking.Store. Each clerk's pending jobs are
// kept as a FIFO queue of ids so PollClerkingJob makes progress across
// calls (spec §4.5 "must make progress"): the oldest enqueued job for a
// clerk is always returned first, so no pending job starves behind a
// repeatedly-re-polled newer one.
type Clerking struct {
	mu      sync.Mutex
	jobs    map[ids.ClerkingJobId]clerking.Job
	pending map[ids.AgentId][]ids.ClerkingJobId
	results map[ids.ClerkingJobId]clerking.Result
	// resultsBySnapshot preserves submission order for ListResults.
	resultsBySnapshot map[ids.SnapshotId][]ids.ClerkingJobId
	// snapshotsBuilt makes EnqueueSnapshotJobs idempotent-by-id, the same
	// way builtSnapshots makes aggregation's BuildSnapshot idempotent:
	// once a snapshot id's jobs have been enqueued, repeating the call is
	// a no-op.
	snapshotsBuilt map[ids.SnapshotId]bool
}

// NewClerking constructs an empty Clerking store.
func NewClerking() *Clerking {
	return &Clerking{
		jobs:              make(map[ids.ClerkingJobId]clerking.Job),
		pending:           make(map[ids.AgentId][]ids.ClerkingJobId),
		results:           make(map[ids.ClerkingJobId]clerking.Result),
		resultsBySnapshot: make(map[ids.SnapshotId][]ids.ClerkingJobId),
		snapshotsBuilt:    make(map[ids.SnapshotId]bool),
	}
}

func (c *Clerking) EnqueueJob(job clerking.Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs[job.Id] = job
	c.pending[job.Clerk] = append(c.pending[job.Clerk], job.Id)
	return nil
}

func (c *Clerking) EnqueueSnapshotJobs(snapshot ids.SnapshotId, jobs []clerking.Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshotsBuilt[snapshot] {
		return nil
	}
	for _, job := range jobs {
		c.jobs[job.Id] = job
		c.pending[job.Clerk] = append(c.pending[job.Clerk], job.Id)
	}
	c.snapshotsBuilt[snapshot] = true
	return nil
}

// PollJob returns the oldest still-pending job in clerk's queue without
// removing it: only a Done job is ever dropped from the queue, so a clerk
// that polls and then dies before submitting a result sees the same job
// again on its next poll instead of losing it.
func (c *Clerking) PollJob(clerk ids.AgentId) (clerking.Job, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue := c.pending[clerk]
	for len(queue) > 0 {
		id := queue[0]
		job, ok := c.jobs[id]
		if !ok || job.Status == clerking.Done {
			queue = queue[1:]
			continue
		}
		c.pending[clerk] = queue
		return job, true, nil
	}
	c.pending[clerk] = queue
	return clerking.Job{}, false, nil
}

func (c *Clerking) GetJob(clerk ids.AgentId, job ids.ClerkingJobId) (clerking.Job, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	j, ok := c.jobs[job]
	if !ok || j.Clerk != clerk {
		return clerking.Job{}, false, nil
	}
	return j, true, nil
}

func (c *Clerking) CreateResult(result clerking.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[result.Job]
	if !ok {
		return sdaerr.New("store.Clerking.CreateResult", sdaerr.NotFound, "job not found")
	}
	if job.Clerk != result.Clerk {
		return sdaerr.New("store.Clerking.CreateResult", sdaerr.InvalidArgument, "result clerk does not match job")
	}

	if existing, exists := c.results[result.Job]; exists {
		// Idempotent replay: same job, same content, already terminal.
		if string(existing.Encryption) == string(result.Encryption) {
			return nil
		}
		return sdaerr.New("store.Clerking.CreateResult", sdaerr.Conflict, "job already has a different result")
	}

	job.Status = clerking.Done
	c.jobs[result.Job] = job
	c.results[result.Job] = result
	c.resultsBySnapshot[job.Snapshot] = append(c.resultsBySnapshot[job.Snapshot], result.Job)
	return nil
}

func (c *Clerking) ListResults(snapshot ids.SnapshotId) ([]clerking.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	jobIDs := c.resultsBySnapshot[snapshot]
	out := make([]clerking.Result, 0, len(jobIDs))
	for _, id := range jobIDs {
		out = append(out, c.results[id])
	}
	return out, nil
}

func (c *Clerking) GetResult(snapshot ids.SnapshotId, job ids.ClerkingJobId) (clerking.Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[job]
	if !ok || c.jobs[job].Snapshot != snapshot {
		return clerking.Result{}, false, nil
	}
	return r, true, nil
}
