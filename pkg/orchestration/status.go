package orchestration

import "github.com/luxfi/sda/pkg/aggregation"

// computeStatus builds the recipient-facing Status view of an
// aggregation's progress (spec §4.6 "Aggregation status"): total
// participations, plus per-snapshot clerking-result counts and readiness.
// result_ready is computed from the sharing scheme's reconstruction
// threshold, exactly as §4.6 and the testable property in §8 require.
func computeStatus(server *Server, a aggregation.Aggregation) (aggregation.Status, bool, error) {
	total, err := server.Aggregation.CountParticipations(a.Id)
	if err != nil {
		return aggregation.Status{}, false, err
	}

	snapshotIDs, err := server.Aggregation.ListSnapshots(a.Id)
	if err != nil {
		return aggregation.Status{}, false, err
	}

	threshold := a.CommitteeSharingScheme.ReconstructionThreshold()
	snapshots := make([]aggregation.SnapshotStatus, len(snapshotIDs))
	for i, sid := range snapshotIDs {
		results, err := server.Clerking.ListResults(sid)
		if err != nil {
			return aggregation.Status{}, false, err
		}
		snapshots[i] = aggregation.SnapshotStatus{
			Id:                      sid,
			NumberOfClerkingResults: len(results),
			ResultReady:             len(results) >= threshold,
		}
	}

	return aggregation.Status{
		Aggregation:            a.Id,
		NumberOfParticipations: total,
		Snapshots:              snapshots,
	}, true, nil
}
