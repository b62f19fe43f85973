package main

import (
	"context"

	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-labs/hookgate/internal/config"
	"github.com/smykla-labs/hookgate/internal/doctor"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

var verboseFlag bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the hookgate installation",
	Long: `Run health checks against the hookgate installation: configuration
files, state directory, and the audio setup when audio cues are enabled.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVarP(
		&verboseFlag,
		"verbose",
		"V",
		false,
		"Show check details",
	)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	loader, err := internalconfig.NewLoader()
	if err != nil {
		return err
	}

	cfg, err := loader.Load(nil)
	if err != nil {
		// A broken config is exactly what doctor should surface, so
		// keep going with defaults and let ConfigCheck report it.
		cfg = internalconfig.DefaultConfig()
	}

	runner := doctor.NewRunner(
		doctor.DefaultCheckers(cfg),
		cmd.OutOrStdout(),
		logger.NewNoOpLogger(),
	)

	return runner.Run(context.Background(), verboseFlag)
}
