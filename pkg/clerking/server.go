package clerking

import (
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// Server implements the clerking queue's operations against a Store. Like
// pkg/registry's Server, it performs no access control of its own — the
// caller-identity checks (a clerk may poll/submit only its own jobs) live
// in pkg/orchestration's Service wrapper.
type Server struct {
	store Store
}

// NewServer constructs a Server backed by store.
func NewServer(store Store) *Server { return &Server{store: store} }

// EnqueueClerkingJob adds a new pending job to clerk's queue. Called by the
// aggregation registry during snapshot construction (spec §4.4), never
// directly by a client.
func (s *Server) EnqueueClerkingJob(job Job) error {
	return s.store.EnqueueJob(job)
}

// EnqueueSnapshotJobs fans jobs out to their clerks' queues exactly once
// per snapshot id. This is what aggregation.Server.CreateSnapshot calls
// during snapshot construction, so a retried create_snapshot call does not
// double the committee's work (or double the revealed sum).
func (s *Server) EnqueueSnapshotJobs(snapshot ids.SnapshotId, jobs []Job) error {
	return s.store.EnqueueSnapshotJobs(snapshot, jobs)
}

// PollClerkingJob returns any pending job for clerk, or ok=false if none.
func (s *Server) PollClerkingJob(clerk ids.AgentId) (Job, bool, error) {
	return s.store.PollJob(clerk)
}

// GetClerkingJob retrieves a job by (clerk, id).
func (s *Server) GetClerkingJob(clerk ids.AgentId, job ids.ClerkingJobId) (Job, bool, error) {
	return s.store.GetJob(clerk, job)
}

// CreateClerkingResult records result, transitioning its job to Done.
// Checks existence before ownership: a job that does not exist for
// result.Clerk is reported as NotFound, and a job whose clerk is not the
// caller as PermissionDenied — mirrored from the original's acl_agent_is
// ordering for create_clerking_result (see SPEC_FULL.md §5's note on the
// original's double-check).
func (s *Server) CreateClerkingResult(caller ids.AgentId, result Result) error {
	job, ok, err := s.store.GetJob(result.Clerk, result.Job)
	if err != nil {
		return err
	}
	if !ok {
		return sdaerr.New("clerking.CreateClerkingResult", sdaerr.NotFound, "job not found")
	}
	if job.Clerk != caller {
		return sdaerr.New("clerking.CreateClerkingResult", sdaerr.PermissionDenied, "caller does not own this job")
	}
	if result.Clerk != caller || result.Aggregation != job.Aggregation {
		return sdaerr.New("clerking.CreateClerkingResult", sdaerr.InvalidArgument, "result does not match job")
	}
	return s.store.CreateResult(result)
}

// ListResults returns every result recorded for snapshot.
func (s *Server) ListResults(snapshot ids.SnapshotId) ([]Result, error) {
	return s.store.ListResults(snapshot)
}

// GetResult retrieves one (snapshot, job) result.
func (s *Server) GetResult(snapshot ids.SnapshotId, job ids.ClerkingJobId) (Result, bool, error) {
	return s.store.GetResult(snapshot, job)
}
