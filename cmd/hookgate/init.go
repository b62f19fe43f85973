package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-labs/hookgate/internal/config"
)

var (
	globalFlag bool
	forceFlag  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize hookgate configuration",
	Long: `Initialize a hookgate configuration file with the default settings.

By default, creates a project-local configuration file (.hookgate/config.toml).
Use --global or -g to create the global configuration file instead.

Use --force to overwrite an existing configuration file.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(
		&globalFlag,
		"global",
		"g",
		false,
		"Initialize global configuration",
	)

	initCmd.Flags().BoolVarP(
		&forceFlag,
		"force",
		"f",
		false,
		"Overwrite existing configuration file",
	)
}

func runInit(cmd *cobra.Command, _ []string) error {
	writer := internalconfig.NewWriter()
	cfg := internalconfig.DefaultConfig()

	var err error
	if globalFlag {
		err = writer.WriteGlobal(cfg, forceFlag)
	} else {
		err = writer.WriteProject(cfg, forceFlag)
	}

	if err != nil {
		if errors.Is(err, internalconfig.ErrConfigExists) {
			return errors.WithHint(err, "use --force to overwrite")
		}

		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Configuration file created.")

	return nil
}
