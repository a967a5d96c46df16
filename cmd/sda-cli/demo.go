package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/luxfi/sda/internal/store"
	"github.com/luxfi/sda/pkg/aggregation"
	"github.com/luxfi/sda/pkg/clerking"
	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/ids"
	"github.com/luxfi/sda/pkg/orchestration"
	"github.com/luxfi/sda/pkg/registry"
	"github.com/luxfi/sda/pkg/scheme"
)

var (
	demoDimension    int
	demoModulus      int64
	demoMasking      string
	demoSharing      string
	demoClerks       int
	demoParticipants int
)

// demoAgent bundles everything the demo needs to act as one party: its
// Keystore for signing/decrypting, and the ids of whatever keys it
// registered with the registry.
type demoAgent struct {
	id          ids.AgentId
	keys        *orchestration.Keystore
	verifyKeyID ids.VerificationKeyId
	encKeyID    ids.EncryptionKeyId
}

func newDemoAgent(service *orchestration.Service) (*demoAgent, error) {
	vk, sk, err := crypto.GenerateSigningKeypair()
	if err != nil {
		return nil, fmt.Errorf("generate signing keypair: %w", err)
	}
	agentID := ids.NewAgentId()
	verifyKeyID := ids.NewVerificationKeyId()
	agent := registry.Agent{
		Id:              agentID,
		VerificationKey: registry.LabeledVerificationKey{Id: verifyKeyID, Key: vk},
	}
	if err := service.CreateAgent(agentID, agent); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	keys := orchestration.NewKeystore(agentID, verifyKeyID, sk)

	pk, decSK, err := crypto.GenerateEncryptionKeypair()
	if err != nil {
		return nil, fmt.Errorf("generate encryption keypair: %w", err)
	}
	encKeyID := ids.NewEncryptionKeyId()
	sek := registry.SignedEncryptionKey{Id: encKeyID, Body: pk, Signer: agentID}
	payload, err := sek.CanonicalPayload()
	if err != nil {
		return nil, fmt.Errorf("canonicalize encryption key: %w", err)
	}
	sig, err := keys.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("sign encryption key: %w", err)
	}
	sek.Signature = sig
	if err := service.CreateEncryptionKey(agentID, sek); err != nil {
		return nil, fmt.Errorf("register encryption key: %w", err)
	}
	keys.AddEncryptionKey(encKeyID, decSK)

	return &demoAgent{id: agentID, keys: keys, verifyKeyID: verifyKeyID, encKeyID: encKeyID}, nil
}

// demoEnvironment is the shared in-process setup both the demo and daemon
// CLI commands start from: a fresh registry/aggregation/clerking service, a
// recipient, and a committee of clerks already registered against a new
// aggregation.
type demoEnvironment struct {
	service   *orchestration.Service
	recipient *demoAgent
	clerks    []*demoAgent
	agg       aggregation.Aggregation
}

func buildDemoEnvironment() (*demoEnvironment, error) {
	sharingScheme, err := parseSharing(demoSharing, demoClerks, demoModulus)
	if err != nil {
		return nil, err
	}
	// PackedShamir's committee size and modulus come from its precomputed
	// root-of-unity parameters, not the raw flags; adopt whatever the
	// chosen scheme actually requires.
	demoClerks = sharingScheme.OutputSize()
	demoModulus = sharingScheme.SchemeModulus()

	maskingScheme, err := parseMasking(demoMasking, demoModulus, demoDimension)
	if err != nil {
		return nil, err
	}

	reg := store.NewRegistry()
	aggStore := store.NewAggregation()
	clkStore := store.NewClerking()

	regServer := registry.NewServer(reg)
	clkServer := clerking.NewServer(clkStore)
	aggServer := aggregation.NewServer(aggStore, clkServer)
	server := orchestration.NewServer(regServer, aggServer, clkServer)
	service := orchestration.NewService(server)

	recipient, err := newDemoAgent(service)
	if err != nil {
		return nil, err
	}

	clerks := make([]*demoAgent, demoClerks)
	for i := range clerks {
		clerks[i], err = newDemoAgent(service)
		if err != nil {
			return nil, err
		}
	}

	agg := aggregation.Aggregation{
		Id:                        ids.NewAggregationId(),
		Title:                     "sda-cli demo",
		VectorDimension:           demoDimension,
		Modulus:                   demoModulus,
		Recipient:                 recipient.id,
		RecipientKey:              recipient.encKeyID,
		MaskingScheme:             maskingScheme,
		CommitteeSharingScheme:    sharingScheme,
		RecipientEncryptionScheme: scheme.SodiumEncryption(),
		CommitteeEncryptionScheme: scheme.SodiumEncryption(),
	}

	clerksAndKeys := make([]aggregation.ClerkKey, len(clerks))
	for i, c := range clerks {
		clerksAndKeys[i] = aggregation.ClerkKey{Clerk: c.id, Key: c.encKeyID}
	}
	committee := aggregation.Committee{Aggregation: agg.Id, ClerksAndKeys: clerksAndKeys}

	if err := agg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid aggregation: %w", err)
	}
	if err := service.CreateAggregation(recipient.id, agg); err != nil {
		return nil, fmt.Errorf("create aggregation: %w", err)
	}
	if err := service.CreateCommittee(recipient.id, agg.Id, committee); err != nil {
		return nil, fmt.Errorf("create committee: %w", err)
	}

	return &demoEnvironment{service: service, recipient: recipient, clerks: clerks, agg: agg}, nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	env, err := buildDemoEnvironment()
	if err != nil {
		return err
	}
	service, recipient, clerks, agg := env.service, env.recipient, env.clerks, env.agg
	fmt.Printf("Created aggregation %s with %d clerks\n", agg.Id, len(clerks))

	trust := orchestration.StaticTrustStore{recipient.id: true}
	wantSum := make([]int64, demoDimension)
	for p := 0; p < demoParticipants; p++ {
		participant, err := newDemoAgent(service)
		if err != nil {
			return err
		}
		secrets := make([]int64, demoDimension)
		for i := range secrets {
			secrets[i] = int64(rand.Intn(10))
			wantSum[i] += secrets[i]
		}
		if _, err := orchestration.NewParticipation(service, trust, participant.id, agg.Id, secrets, true); err != nil {
			return fmt.Errorf("participation %d: %w", p, err)
		}
		fmt.Printf("Participant %d contributed %v\n", p, secrets)
	}
	for i := range wantSum {
		wantSum[i] %= demoModulus
	}

	snapshotID, err := orchestration.EndAggregation(service, recipient.id, agg.Id)
	if err != nil {
		return fmt.Errorf("end aggregation: %w", err)
	}
	fmt.Printf("Snapshot %s created, running clerks...\n", snapshotID)

	for _, c := range clerks {
		if _, err := orchestration.ClerkOnce(service, c.keys, c.id); err != nil {
			return fmt.Errorf("clerk %s: %w", c.id, err)
		}
	}

	revealed, err := orchestration.RevealAggregation(service, recipient.keys, recipient.id, agg.Id)
	if err != nil {
		return fmt.Errorf("reveal aggregation: %w", err)
	}

	fmt.Printf("Expected sum (mod M): %v\n", wantSum)
	fmt.Printf("Revealed sum (mod M): %v\n", revealed.Unsigned)
	fmt.Printf("Revealed sum (signed): %v\n", revealed.Signed)
	return nil
}

func parseMasking(kind string, modulus int64, dimension int) (scheme.LinearMaskingScheme, error) {
	switch kind {
	case "none":
		return scheme.NoneMasking(), nil
	case "full":
		return scheme.FullMasking(modulus), nil
	case "chacha":
		return scheme.ChaChaMasking(modulus, dimension, 128), nil
	default:
		return scheme.LinearMaskingScheme{}, fmt.Errorf("unknown masking scheme: %s", kind)
	}
}

// parseSharing builds the chosen sharing scheme. PackedShamir's parameters
// (modulus and the two root-of-unity generators) are a fixed, known-good
// fixture rather than derived from the clerk count and modulus flags: a
// valid pair of generators for arbitrary parameters requires finding
// elements of the right multiplicative order in the field, which is out of
// scope for a demo flag parser.
func parseSharing(kind string, clerks int, modulus int64) (scheme.LinearSecretSharingScheme, error) {
	switch kind {
	case "additive":
		return scheme.AdditiveSharing(clerks, modulus), nil
	case "packed-shamir":
		return scheme.PackedShamirSharing(3, 8, 4, 433, 354, 150), nil
	default:
		return scheme.LinearSecretSharingScheme{}, fmt.Errorf("unknown sharing scheme: %s", kind)
	}
}
