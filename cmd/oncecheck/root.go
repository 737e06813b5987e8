package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kolkov/staticonce/internal/config"
)

const shortDescription = "oncecheck verifies single-call-site discipline " +
	"for staticonce initialization claims."

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "oncecheck",
		Short: shortDescription,
		Long: shortDescription + `

The staticonce runtime (github.com/kolkov/staticonce/once) promises
zero-cost reads by pushing the "did I initialize exactly once" question
out of the read path. oncecheck answers that question at build time:
every cell must be claimed from exactly one compiled call site, outside
any loop. Violations the scan cannot prove are still caught by the
runtime one-shot guard, which panics on a duplicate claim.`,
		SilenceUsage: true,
		Example: `  # Scan the current module
  oncecheck check ./...

  # Scan specific packages, flagging claims outside main/init
  oncecheck check --strict ./internal/... ./cmd/...

  # Use a vendored copy of the runtime
  oncecheck check --once-path corp.example.com/vendored/once ./...`,
	}

	root.PersistentFlags().String("once-path", "", "import path of the staticonce runtime package")
	root.PersistentFlags().Bool("strict", false, "warn about claims outside main/init")
	root.PersistentFlags().BoolP("verbose", "v", false, "print every discovered call site")
	root.PersistentFlags().Bool("no-config", false, "ignore the project config file")

	root.AddCommand(newCheckCmd(), newInitCmd(), newVersionCmd())

	return root
}

// loadConfig loads layered configuration and applies flag overrides on
// top. Flags win over environment, which wins over the config file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	skip, err := cmd.Flags().GetBool("no-config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(&config.LoadOptions{SkipProjectConfig: skip})
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("once-path") {
		cfg.OncePath, _ = cmd.Flags().GetString("once-path")
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict, _ = cmd.Flags().GetBool("strict")
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	}

	if cfg.OncePath == "" {
		return nil, fmt.Errorf("--once-path must not be empty")
	}
	return cfg, nil
}

// newLogger builds the CLI logger. Findings go to stdout vet-style; the
// logger carries everything else on stderr.
func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "oncecheck",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// newInitCmd writes an example project config file.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write an example " + config.ProjectConfigFileName + ".yaml to the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.WriteExample(".")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
}
