package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxfi/sda/pkg/logging"
	"github.com/luxfi/sda/pkg/orchestration"
)

var (
	daemonPollInterval time.Duration
	daemonMaxEmpty     int

	daemonCmd = &cobra.Command{
		Use:   "daemon",
		Short: "Run one committee's clerks as a bounded polling daemon",
		Long: `Builds the same demo environment as "demo" (an aggregation, its
committee, and some participations already submitted and snapshotted), then
runs every clerk's queue through the bounded clerk daemon loop instead of a
single ClerkOnce call, demonstrating the poll/back-off/retry behavior.`,
		RunE: runDaemon,
	}
)

func init() {
	daemonCmd.Flags().DurationVar(&daemonPollInterval, "poll-interval", 5*time.Minute, "Sleep between empty polls")
	daemonCmd.Flags().IntVar(&daemonMaxEmpty, "max-empty-polls", 2, "Consecutive empty polls before the daemon exits")
	daemonCmd.Flags().IntVar(&demoDimension, "dimension", 4, "Vector dimension per participation")
	daemonCmd.Flags().Int64Var(&demoModulus, "modulus", 433, "Aggregation modulus")
	daemonCmd.Flags().StringVar(&demoMasking, "masking", "none", "Masking scheme: none, full, chacha")
	daemonCmd.Flags().StringVar(&demoSharing, "sharing", "additive", "Sharing scheme: additive, packed-shamir")
	daemonCmd.Flags().IntVar(&demoClerks, "clerks", 3, "Committee size")
	daemonCmd.Flags().IntVar(&demoParticipants, "participants", 2, "Number of participants")

	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	env, err := buildDemoEnvironment()
	if err != nil {
		return err
	}

	trust := orchestration.StaticTrustStore{env.recipient.id: true}
	for p := 0; p < demoParticipants; p++ {
		participant, err := newDemoAgent(env.service)
		if err != nil {
			return err
		}
		secrets := make([]int64, demoDimension)
		for i := range secrets {
			secrets[i] = int64(p + i)
		}
		if _, err := orchestration.NewParticipation(env.service, trust, participant.id, env.agg.Id, secrets, true); err != nil {
			return fmt.Errorf("participation %d: %w", p, err)
		}
	}

	if _, err := orchestration.EndAggregation(env.service, env.recipient.id, env.agg.Id); err != nil {
		return fmt.Errorf("end aggregation: %w", err)
	}

	logger := logging.New(os.Stderr, "clerk-daemon")
	for _, c := range env.clerks {
		orchestration.RunClerkDaemon(env.service, c.keys, c.id, logger, daemonPollInterval, daemonMaxEmpty)
	}

	revealed, err := orchestration.RevealAggregation(env.service, env.recipient.keys, env.recipient.id, env.agg.Id)
	if err != nil {
		return fmt.Errorf("reveal aggregation: %w", err)
	}
	fmt.Printf("Revealed sum (mod M): %v\n", revealed.Unsigned)
	return nil
}
