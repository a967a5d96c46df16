package orchestration

import (
	"fmt"

	"github.com/luxfi/sda/pkg/aggregation"
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// NewParticipation runs the participant flow of spec §4.6: validate the
// secret vector's shape, optionally require the recipient to be locally
// trusted, verify every clerk and recipient key's signature, mask, share,
// encrypt, and submit. It fails before any submission on the first
// signature, existence, or dimension problem; it is pure apart from fresh
// randomness.
func NewParticipation(service *Service, trust TrustStore, participant ids.AgentId, aggID ids.AggregationId, secrets []int64, requireTrust bool) (ids.ParticipationId, error) {
	const op = "orchestration.NewParticipation"

	agg, ok, err := service.Server.Aggregation.GetAggregation(aggID)
	if err != nil {
		return ids.ParticipationId{}, err
	}
	if !ok {
		return ids.ParticipationId{}, sdaerr.New(op, sdaerr.NotFound, "aggregation not found")
	}
	if len(secrets) != agg.VectorDimension {
		return ids.ParticipationId{}, sdaerr.New(op, sdaerr.InvalidArgument,
			fmt.Sprintf("secret vector has %d components, aggregation requires %d", len(secrets), agg.VectorDimension))
	}

	if requireTrust && !trust.IsTrusted(agg.Recipient) {
		return ids.ParticipationId{}, sdaerr.New(op, sdaerr.PermissionDenied, "recipient is not locally flagged trusted")
	}

	committee, ok, err := service.Server.Aggregation.GetCommittee(aggID)
	if err != nil {
		return ids.ParticipationId{}, err
	}
	if !ok {
		return ids.ParticipationId{}, sdaerr.New(op, sdaerr.NotFound, "aggregation has no committee")
	}

	clerkKeys := make([]crypto.EncryptionKey, len(committee.ClerksAndKeys))
	for i, ck := range committee.ClerksAndKeys {
		pk, err := verifiedEncryptionKey(service, op, ck.Clerk, ck.Key)
		if err != nil {
			return ids.ParticipationId{}, err
		}
		clerkKeys[i] = pk
	}

	recipientPK, err := verifiedEncryptionKey(service, op, agg.Recipient, agg.RecipientKey)
	if err != nil {
		return ids.ParticipationId{}, err
	}

	masker, err := agg.MaskingScheme.Engine()
	if err != nil {
		return ids.ParticipationId{}, sdaerr.Wrap(op, sdaerr.InvalidArgument, err)
	}
	maskPayload, masked, err := masker.Mask(secrets)
	if err != nil {
		return ids.ParticipationId{}, sdaerr.Wrap(op, sdaerr.CryptoFailure, err)
	}

	var recipientEncryption *crypto.Ciphertext
	if masker.HasMask() {
		ct, err := crypto.SealedEncrypt(recipientPK, maskPayload)
		if err != nil {
			return ids.ParticipationId{}, sdaerr.Wrap(op, sdaerr.CryptoFailure, err)
		}
		recipientEncryption = &ct
	}

	sharingEngine, err := agg.CommitteeSharingScheme.Engine()
	if err != nil {
		return ids.ParticipationId{}, sdaerr.Wrap(op, sdaerr.InvalidArgument, err)
	}
	sharesPerClerk, err := sharingEngine.GenerateShares(masked)
	if err != nil {
		return ids.ParticipationId{}, sdaerr.Wrap(op, sdaerr.CryptoFailure, err)
	}

	committeeEncryptor, err := agg.CommitteeEncryptionScheme.Engine()
	if err != nil {
		return ids.ParticipationId{}, sdaerr.Wrap(op, sdaerr.InvalidArgument, err)
	}

	clerkEncryptions := make([]aggregation.ClerkEncryption, len(committee.ClerksAndKeys))
	for i, ck := range committee.ClerksAndKeys {
		ct, err := committeeEncryptor.Encrypt(clerkKeys[i], sharesPerClerk[i])
		if err != nil {
			return ids.ParticipationId{}, sdaerr.Wrap(op, sdaerr.CryptoFailure, err)
		}
		clerkEncryptions[i] = aggregation.ClerkEncryption{Clerk: ck.Clerk, Encryption: ct}
	}

	participationID := ids.NewParticipationId()
	p := aggregation.Participation{
		Id:                  participationID,
		Participant:         participant,
		Aggregation:         aggID,
		RecipientEncryption: recipientEncryption,
		ClerkEncryptions:    clerkEncryptions,
	}
	if err := service.CreateParticipation(participant, p); err != nil {
		return ids.ParticipationId{}, err
	}
	return participationID, nil
}

// verifiedEncryptionKey loads agent's SignedEncryptionKey with id keyID and
// verifies it was signed by agent's own registered verification key,
// returning the plain EncryptionKey for use by an Encryptor. Any missing
// record or signature failure aborts the whole flow before any
// submission (spec §4.6 "Failure").
func verifiedEncryptionKey(service *Service, op string, agent ids.AgentId, keyID ids.EncryptionKeyId) (crypto.EncryptionKey, error) {
	a, ok, err := service.Server.Registry.GetAgent(agent)
	if err != nil {
		return crypto.EncryptionKey{}, err
	}
	if !ok {
		return crypto.EncryptionKey{}, sdaerr.New(op, sdaerr.NotFound, "agent not found")
	}
	sek, ok, err := service.Server.Registry.GetEncryptionKey(keyID)
	if err != nil {
		return crypto.EncryptionKey{}, err
	}
	if !ok {
		return crypto.EncryptionKey{}, sdaerr.New(op, sdaerr.NotFound, "encryption key not found")
	}
	valid, err := a.SignatureIsValid(sek)
	if err != nil {
		return crypto.EncryptionKey{}, sdaerr.Wrap(op, sdaerr.CryptoFailure, err)
	}
	if !valid {
		return crypto.EncryptionKey{}, sdaerr.New(op, sdaerr.SignatureInvalid, "encryption key signature does not verify")
	}
	return sek.Body, nil
}
