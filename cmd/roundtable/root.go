package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/roundtable/pkg/cli"
	"mercator-hq/roundtable/pkg/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	output  string
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundtable",
		Short: "Roundtable - multi-persona turn policy engine",
		Long: `Roundtable coordinates multi-persona conversations for chat assistants.

For each prompt it:
  - Resolves the personas addressed (@CTO, @DEV, ...)
  - Classifies the intent and allocates turns per persona
  - Gates provider tool calls (Sentry, GitHub, Shortcut, Nuxt UI)
  - Normalizes the reply into numbered persona turns`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults plus ROUNDTABLE_* environment when empty)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		cli.NewPrinter(os.Stderr, cli.FormatText).Fail("%v", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

// loadConfig reads --config with environment overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	return cfg, nil
}

// printer returns a printer for cmd honoring --output.
func printer(cmd *cobra.Command) (*cli.Printer, error) {
	format, err := cli.ParseFormat(output)
	if err != nil {
		return nil, fmt.Errorf("invalid --output: %w", err)
	}
	return cli.NewPrinter(cmd.OutOrStdout(), format), nil
}
