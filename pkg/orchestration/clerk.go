package orchestration

import (
	"github.com/luxfi/sda/pkg/clerking"
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/scheme"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// ErrNoWork is returned by ClerkOnce when the clerk has no pending job.
var ErrNoWork = sdaerr.New("orchestration.ClerkOnce", sdaerr.NotFound, "no pending work")

// ClerkOnce runs one iteration of the clerk flow (spec §4.6): poll for a
// job, decrypt every participation's share destined for this clerk, sum
// them modulo the aggregation's sharing modulus, re-encrypt the combined
// share to the recipient, and submit the result. Resubmission with the
// same job id (a clerk restarting mid-flow) is safe to re-run from here;
// clerking.Server.CreateClerkingResult treats a byte-identical replay as a
// no-op success.
func ClerkOnce(service *Service, keys *Keystore, clerk ids.AgentId) (ids.ClerkingJobId, error) {
	const op = "orchestration.ClerkOnce"

	job, ok, err := service.GetClerkingJob(clerk)
	if err != nil {
		return ids.ClerkingJobId{}, err
	}
	if !ok {
		return ids.ClerkingJobId{}, ErrNoWork
	}

	agg, ok, err := service.Server.Aggregation.GetAggregation(job.Aggregation)
	if err != nil {
		return job.Id, err
	}
	if !ok {
		return job.Id, sdaerr.New(op, sdaerr.NotFound, "aggregation not found")
	}
	committee, ok, err := service.Server.Aggregation.GetCommittee(job.Aggregation)
	if err != nil {
		return job.Id, err
	}
	if !ok {
		return job.Id, sdaerr.New(op, sdaerr.NotFound, "aggregation has no committee")
	}

	var ownKeyID ids.EncryptionKeyId
	found := false
	for _, ck := range committee.ClerksAndKeys {
		if ck.Clerk == clerk {
			ownKeyID = ck.Key
			found = true
			break
		}
	}
	if !found {
		return job.Id, sdaerr.New(op, sdaerr.PermissionDenied, "caller is not a member of this aggregation's committee")
	}
	ownSEK, ok, err := service.Server.Registry.GetEncryptionKey(ownKeyID)
	if err != nil {
		return job.Id, err
	}
	if !ok {
		return job.Id, sdaerr.New(op, sdaerr.NotFound, "clerk's own encryption key not found")
	}

	decryptor, err := agg.CommitteeEncryptionScheme.Engine()
	if err != nil {
		return job.Id, sdaerr.Wrap(op, sdaerr.InvalidArgument, err)
	}

	vectors := make([][]int64, len(job.Encryptions))
	for i, ct := range job.Encryptions {
		shares, err := decryptClerkShare(decryptor, keys, ownKeyID, ownSEK.Body, ct)
		if err != nil {
			return job.Id, sdaerr.Wrap(op, sdaerr.CryptoFailure, err)
		}
		vectors[i] = shares
	}

	modulus := agg.CommitteeSharingScheme.SchemeModulus()
	combined := scheme.CombineShareVectors(vectors, modulus)

	recipientPK, err := verifiedEncryptionKey(service, op, agg.Recipient, agg.RecipientKey)
	if err != nil {
		return job.Id, err
	}
	recipientEncryptor, err := agg.RecipientEncryptionScheme.Engine()
	if err != nil {
		return job.Id, sdaerr.Wrap(op, sdaerr.InvalidArgument, err)
	}
	resultCT, err := recipientEncryptor.Encrypt(recipientPK, combined)
	if err != nil {
		return job.Id, sdaerr.Wrap(op, sdaerr.CryptoFailure, err)
	}

	result := clerking.Result{
		Job:         job.Id,
		Clerk:       clerk,
		Aggregation: job.Aggregation,
		Encryption:  resultCT,
	}
	if err := service.CreateClerkingResult(clerk, result); err != nil {
		return job.Id, err
	}
	return job.Id, nil
}

// decryptClerkShare opens one share ciphertext using the clerk's own
// decryption key, checked against the Decryptor interface the aggregation's
// committee encryption scheme describes.
func decryptClerkShare(decryptor interface {
	Decrypt(pk crypto.EncryptionKey, sk crypto.DecryptionKey, ct crypto.Ciphertext) ([]int64, error)
}, keys *Keystore, keyID ids.EncryptionKeyId, pk crypto.EncryptionKey, ct crypto.Ciphertext) ([]int64, error) {
	sk, ok := keys.DecryptionKeyFor(keyID)
	if !ok {
		return nil, sdaerr.New("orchestration.decryptClerkShare", sdaerr.InvalidArgument, "no decryption key registered for this id")
	}
	return decryptor.Decrypt(pk, sk, ct)
}
