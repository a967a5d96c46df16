package orchestration

import (
	"github.com/luxfi/sda/pkg/aggregation"
	"github.com/luxfi/sda/pkg/clerking"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/registry"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// Service wraps a Server with the access-control rules of spec §6's
// operation table, checking the caller's identity against the owning
// resource before delegating. Every mutating operation takes the caller's
// AgentId as established by the (out-of-scope) authentication layer; so do
// GetAggregationStatus, GetClerkingJob and GetSnapshotResult. Other reads
// are public and need no caller.
type Service struct {
	*Server
}

// NewService wraps server with access control.
func NewService(server *Server) *Service { return &Service{Server: server} }

// requireCaller returns PermissionDenied unless caller equals owner,
// mirroring the original's acl_agent_is helper (SPEC_FULL.md §5).
func requireCaller(op string, caller, owner ids.AgentId) error {
	if caller != owner {
		return sdaerr.New(op, sdaerr.PermissionDenied, "caller is not the owning agent")
	}
	return nil
}

// CreateAgent registers caller's own agent record.
func (s *Service) CreateAgent(caller ids.AgentId, agent registry.Agent) error {
	if err := requireCaller("orchestration.CreateAgent", caller, agent.Id); err != nil {
		return err
	}
	return s.Registry.CreateAgent(agent)
}

// UpsertProfile writes caller's own profile.
func (s *Service) UpsertProfile(caller ids.AgentId, profile registry.Profile) error {
	if err := requireCaller("orchestration.UpsertProfile", caller, profile.Owner); err != nil {
		return err
	}
	return s.Registry.UpsertProfile(profile)
}

// CreateEncryptionKey registers an encryption key signed by caller.
func (s *Service) CreateEncryptionKey(caller ids.AgentId, key registry.SignedEncryptionKey) error {
	if err := requireCaller("orchestration.CreateEncryptionKey", caller, key.Signer); err != nil {
		return err
	}
	return s.Registry.CreateEncryptionKey(key)
}

// SuggestCommittee is caller-restricted to the would-be recipient, even
// though the candidate list itself carries no secrets, to match spec §6's
// table ("caller=recipient" for suggest_committee) exactly.
func (s *Service) SuggestCommittee(caller ids.AgentId, aggregationRecipient ids.AgentId) ([]registry.ClerkCandidate, error) {
	if err := requireCaller("orchestration.SuggestCommittee", caller, aggregationRecipient); err != nil {
		return nil, err
	}
	return s.Registry.SuggestCommittee()
}

// CreateAggregation requires caller to be the aggregation's recipient, and
// that recipient_key both exists and is signed by that same recipient
// (spec §3's Aggregation invariant) — checked eagerly here rather than
// left to be discovered the first time a participant or clerk verifies it.
func (s *Service) CreateAggregation(caller ids.AgentId, agg aggregation.Aggregation) error {
	const op = "orchestration.CreateAggregation"
	if err := requireCaller(op, caller, agg.Recipient); err != nil {
		return err
	}
	if _, err := verifiedEncryptionKey(s, op, agg.Recipient, agg.RecipientKey); err != nil {
		return err
	}
	return s.Aggregation.CreateAggregation(agg)
}

// DeleteAggregation requires caller to be the aggregation's recipient.
func (s *Service) DeleteAggregation(caller ids.AgentId, id ids.AggregationId) error {
	agg, ok, err := s.Aggregation.GetAggregation(id)
	if err != nil {
		return err
	}
	if !ok {
		return sdaerr.New("orchestration.DeleteAggregation", sdaerr.NotFound, "aggregation not found")
	}
	if err := requireCaller("orchestration.DeleteAggregation", caller, agg.Recipient); err != nil {
		return err
	}
	return s.Aggregation.DeleteAggregation(id)
}

// CreateCommittee requires caller to be the aggregation's recipient.
func (s *Service) CreateCommittee(caller ids.AgentId, aggID ids.AggregationId, committee aggregation.Committee) error {
	agg, ok, err := s.Aggregation.GetAggregation(aggID)
	if err != nil {
		return err
	}
	if !ok {
		return sdaerr.New("orchestration.CreateCommittee", sdaerr.NotFound, "aggregation not found")
	}
	if err := requireCaller("orchestration.CreateCommittee", caller, agg.Recipient); err != nil {
		return err
	}
	return s.Aggregation.CreateCommittee(aggID, committee)
}

// CreateParticipation requires caller to be the participation's own
// participant.
func (s *Service) CreateParticipation(caller ids.AgentId, p aggregation.Participation) error {
	if err := requireCaller("orchestration.CreateParticipation", caller, p.Participant); err != nil {
		return err
	}
	return s.Aggregation.CreateParticipation(p)
}

// CreateSnapshot requires caller to be the aggregation's recipient.
func (s *Service) CreateSnapshot(caller ids.AgentId, snapshot aggregation.Snapshot) error {
	agg, ok, err := s.Aggregation.GetAggregation(snapshot.Aggregation)
	if err != nil {
		return err
	}
	if !ok {
		return sdaerr.New("orchestration.CreateSnapshot", sdaerr.NotFound, "aggregation not found")
	}
	if err := requireCaller("orchestration.CreateSnapshot", caller, agg.Recipient); err != nil {
		return err
	}
	return s.Aggregation.CreateSnapshot(snapshot)
}

// GetAggregationStatus requires caller to be the aggregation's recipient.
func (s *Service) GetAggregationStatus(caller ids.AgentId, aggID ids.AggregationId) (aggregation.Status, bool, error) {
	agg, ok, err := s.Aggregation.GetAggregation(aggID)
	if err != nil || !ok {
		return aggregation.Status{}, ok, err
	}
	if err := requireCaller("orchestration.GetAggregationStatus", caller, agg.Recipient); err != nil {
		return aggregation.Status{}, false, err
	}
	return computeStatus(s.Server, agg)
}

// GetClerkingJob polls for a pending job owned by caller.
func (s *Service) GetClerkingJob(caller ids.AgentId) (clerking.Job, bool, error) {
	return s.Clerking.PollClerkingJob(caller)
}

// CreateClerkingResult requires the submitted result's clerk to match
// caller; clerking.Server.CreateClerkingResult performs the original's
// exists-then-owner double-check against the job itself.
func (s *Service) CreateClerkingResult(caller ids.AgentId, result clerking.Result) error {
	if err := requireCaller("orchestration.CreateClerkingResult", caller, result.Clerk); err != nil {
		return err
	}
	return s.Clerking.CreateClerkingResult(caller, result)
}

// GetSnapshotResult requires caller to be the aggregation's recipient.
func (s *Service) GetSnapshotResult(caller ids.AgentId, aggID ids.AggregationId, snapshotID ids.SnapshotId) (aggregation.SnapshotResult, bool, error) {
	agg, ok, err := s.Aggregation.GetAggregation(aggID)
	if err != nil || !ok {
		return aggregation.SnapshotResult{}, ok, err
	}
	if err := requireCaller("orchestration.GetSnapshotResult", caller, agg.Recipient); err != nil {
		return aggregation.SnapshotResult{}, false, err
	}
	return s.Server.GetSnapshotResult(aggID, snapshotID)
}
