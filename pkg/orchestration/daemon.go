package orchestration

import (
	"time"

	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/logging"
)

// RunClerkDaemon runs ClerkOnce in a bounded retry loop with a fixed
// back-off sleep between empty polls (spec §5, "Suspension / blocking"):
// on ErrNoWork it sleeps pollInterval and polls again, up to maxEmptyPolls
// consecutive empty polls before returning. Any other failure is logged and
// counted as an empty poll rather than aborting the loop (spec §7, "clerk
// daemon logs and continues").
func RunClerkDaemon(service *Service, keys *Keystore, clerk ids.AgentId, logger *logging.Logger, pollInterval time.Duration, maxEmptyPolls int) {
	empty := 0
	for empty < maxEmptyPolls {
		jobID, err := ClerkOnce(service, keys, clerk)
		switch {
		case err == nil:
			logger.Infof("processed clerking job %s", jobID)
			empty = 0
		case err == ErrNoWork:
			empty++
			logger.Infof("no pending work, sleeping %s", pollInterval)
			time.Sleep(pollInterval)
		default:
			logger.Errorf("clerk cycle failed: %v", err)
			empty++
			time.Sleep(pollInterval)
		}
	}
}
