package orchestration

import (
	"github.com/luxfi/sda/pkg/aggregation"
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/scheme/sharing"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// BeginAggregation asks the registry for clerk candidates and builds the
// committee from the first shareCount of them, each mapped to the first
// encryption key it has on offer, submitting both the aggregation and its
// committee (spec §4.6, recipient side step 1).
func BeginAggregation(service *Service, recipient ids.AgentId, agg aggregation.Aggregation, shareCount int) (ids.AggregationId, error) {
	const op = "orchestration.BeginAggregation"

	if err := agg.Validate(); err != nil {
		return ids.AggregationId{}, err
	}
	if err := service.CreateAggregation(recipient, agg); err != nil {
		return ids.AggregationId{}, err
	}

	candidates, err := service.SuggestCommittee(recipient, recipient)
	if err != nil {
		return agg.Id, err
	}
	if len(candidates) < shareCount {
		return agg.Id, sdaerr.New(op, sdaerr.InvalidArgument, "not enough candidate clerks offered by the registry")
	}

	clerksAndKeys := make([]aggregation.ClerkKey, shareCount)
	for i := 0; i < shareCount; i++ {
		c := candidates[i]
		if len(c.Keys) == 0 {
			return agg.Id, sdaerr.New(op, sdaerr.InvalidArgument, "candidate clerk has no encryption keys on offer")
		}
		clerksAndKeys[i] = aggregation.ClerkKey{Clerk: c.Id, Key: c.Keys[0]}
	}

	committee := aggregation.Committee{Aggregation: agg.Id, ClerksAndKeys: clerksAndKeys}
	if err := service.CreateCommittee(recipient, agg.Id, committee); err != nil {
		return agg.Id, err
	}
	return agg.Id, nil
}

// EndAggregation tags every currently visible participation into a fresh
// snapshot and fans out one clerking job per committee member (spec §4.6
// recipient step, and §4.4's critical transition).
func EndAggregation(service *Service, recipient ids.AgentId, aggID ids.AggregationId) (ids.SnapshotId, error) {
	snapshotID := ids.NewSnapshotId()
	snapshot := aggregation.Snapshot{Id: snapshotID, Aggregation: aggID}
	if err := service.CreateSnapshot(recipient, snapshot); err != nil {
		return ids.SnapshotId{}, err
	}
	return snapshotID, nil
}

// RevealedAggregation is the recipient-facing output of RevealAggregation:
// the reconstructed sum, presented both as unsigned residues mod M and as
// signed values, where a residue v >= M/2 (integer division) becomes v-M,
// since most aggregation use cases think of contributions as signed
// integers.
type RevealedAggregation struct {
	Snapshot ids.SnapshotId
	Unsigned []int64
	Signed   []int64
}

// RevealAggregation picks the first snapshot whose result is ready (spec's
// Open Question decision: earliest-created ready snapshot wins), fetches
// every clerk's re-encrypted combined share and, if the aggregation masks,
// every tagged participation's mask payload, reconstructs the masked sum
// via the committee sharing scheme's threshold reconstruction, combines and
// removes the mask, and returns the recovered vector.
func RevealAggregation(service *Service, keys *Keystore, recipient ids.AgentId, aggID ids.AggregationId) (RevealedAggregation, error) {
	const op = "orchestration.RevealAggregation"

	agg, ok, err := service.Server.Aggregation.GetAggregation(aggID)
	if err != nil {
		return RevealedAggregation{}, err
	}
	if !ok {
		return RevealedAggregation{}, sdaerr.New(op, sdaerr.NotFound, "aggregation not found")
	}

	status, ok, err := service.GetAggregationStatus(recipient, aggID)
	if err != nil {
		return RevealedAggregation{}, err
	}
	if !ok {
		return RevealedAggregation{}, sdaerr.New(op, sdaerr.NotFound, "aggregation not found")
	}

	var readySnapshot ids.SnapshotId
	found := false
	for _, snap := range status.Snapshots {
		if snap.ResultReady {
			readySnapshot = snap.Id
			found = true
			break
		}
	}
	if !found {
		return RevealedAggregation{}, sdaerr.New(op, sdaerr.NotFound, "no snapshot has reached its reconstruction threshold yet")
	}

	result, ok, err := service.GetSnapshotResult(recipient, aggID, readySnapshot)
	if err != nil {
		return RevealedAggregation{}, err
	}
	if !ok {
		return RevealedAggregation{}, sdaerr.New(op, sdaerr.NotFound, "snapshot result not found")
	}

	committee, ok, err := service.Server.Aggregation.GetCommittee(aggID)
	if err != nil {
		return RevealedAggregation{}, err
	}
	if !ok {
		return RevealedAggregation{}, sdaerr.New(op, sdaerr.NotFound, "aggregation has no committee")
	}
	clerkIndex := make(map[ids.AgentId]int, len(committee.ClerksAndKeys))
	for i, ck := range committee.ClerksAndKeys {
		clerkIndex[ck.Clerk] = i
	}

	decryptor, err := agg.RecipientEncryptionScheme.Engine()
	if err != nil {
		return RevealedAggregation{}, sdaerr.Wrap(op, sdaerr.InvalidArgument, err)
	}
	recipientSEK, ok, err := service.Server.Registry.GetEncryptionKey(agg.RecipientKey)
	if err != nil {
		return RevealedAggregation{}, err
	}
	if !ok {
		return RevealedAggregation{}, sdaerr.New(op, sdaerr.NotFound, "recipient encryption key not found")
	}
	recipientSK, ok := keys.DecryptionKeyFor(agg.RecipientKey)
	if !ok {
		return RevealedAggregation{}, sdaerr.New(op, sdaerr.InvalidArgument, "no decryption key registered for the recipient's own key")
	}

	clerkShares := make([]sharing.IndexedShareVector, 0, len(result.ClerkEncryptions))
	for _, ce := range result.ClerkEncryptions {
		idx, ok := clerkIndex[ce.Clerk]
		if !ok {
			return RevealedAggregation{}, sdaerr.New(op, sdaerr.InvalidArgument, "clerking result from an agent outside the committee")
		}
		values, err := decryptor.Decrypt(recipientSEK.Body, recipientSK, ce.Encryption)
		if err != nil {
			return RevealedAggregation{}, sdaerr.Wrap(op, sdaerr.CryptoFailure, err)
		}
		clerkShares = append(clerkShares, sharing.IndexedShareVector{ClerkIndex: idx, Values: values})
	}

	sharingEngine, err := agg.CommitteeSharingScheme.Engine()
	if err != nil {
		return RevealedAggregation{}, sdaerr.Wrap(op, sdaerr.InvalidArgument, err)
	}
	maskedSum, err := sharingEngine.ReconstructSecrets(clerkShares, agg.VectorDimension)
	if err != nil {
		return RevealedAggregation{}, sdaerr.Wrap(op, sdaerr.CryptoFailure, err)
	}

	unsigned := maskedSum
	if agg.MaskingScheme.HasMask() {
		masker, err := agg.MaskingScheme.Engine()
		if err != nil {
			return RevealedAggregation{}, sdaerr.Wrap(op, sdaerr.InvalidArgument, err)
		}
		payloads := make([][]byte, len(result.RecipientEncryptions))
		for i, ct := range result.RecipientEncryptions {
			payload, err := crypto.SealedDecrypt(recipientSEK.Body, recipientSK, ct)
			if err != nil {
				return RevealedAggregation{}, sdaerr.Wrap(op, sdaerr.CryptoFailure, err)
			}
			payloads[i] = payload
		}
		combinedMask, err := masker.CombineMasks(payloads)
		if err != nil {
			return RevealedAggregation{}, sdaerr.Wrap(op, sdaerr.CryptoFailure, err)
		}
		unsigned = masker.Unmask(maskedSum, combinedMask)
	}

	signed := make([]int64, len(unsigned))
	for i, v := range unsigned {
		if v >= agg.Modulus/2 {
			signed[i] = v - agg.Modulus
		} else {
			signed[i] = v
		}
	}

	return RevealedAggregation{Snapshot: readySnapshot, Unsigned: unsigned, Signed: signed}, nil
}
