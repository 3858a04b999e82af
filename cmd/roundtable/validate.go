package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	auditstorage "mercator-hq/roundtable/pkg/audit/storage"
	"mercator-hq/roundtable/pkg/cli"
)

// validationReport is the JSON form of the validate command.
type validationReport struct {
	Valid      bool   `json:"valid"`
	Config     string `json:"config"`
	IntentFile string `json:"intent_table,omitempty"`
	Audit      string `json:"audit,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and the intent table",
	Long: `Load and validate the configuration, the intent keyword table and the
turn weight overrides. When the audit trail is enabled the storage backend is
opened and pinged.

Examples:
  roundtable validate --config config.yaml
  ROUNDTABLE_GATE_DEFAULT_CALL_CAP=3 roundtable validate -o json`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	report := validationReport{Config: cfgFile}
	if report.Config == "" {
		report.Config = "(defaults)"
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p.Success("Configuration valid: %s", report.Config)

	if _, err := buildCore(cfg); err != nil {
		return cli.NewConfigError("intent", err.Error())
	}
	if cfg.Intent.TableFile != "" {
		report.IntentFile = cfg.Intent.TableFile
		p.Success("Intent table valid: %s", cfg.Intent.TableFile)
	} else {
		p.Success("Intent table: built-in")
	}

	if cfg.Audit.Enabled {
		st, err := auditstorage.New(cfg.Audit)
		if err != nil {
			return cli.NewConfigError("audit", err.Error())
		}
		defer st.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := st.Ping(ctx); err != nil {
			return cli.NewCommandError("validate", err)
		}
		report.Audit = cfg.Audit.Backend
		p.Success("Audit storage reachable (%s)", cfg.Audit.Backend)
	}

	report.Valid = true
	if p.Format() == cli.FormatJSON {
		return p.Print(report)
	}
	return nil
}
