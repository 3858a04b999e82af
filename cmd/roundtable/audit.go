package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/roundtable/pkg/audit"
	"mercator-hq/roundtable/pkg/audit/export"
	"mercator-hq/roundtable/pkg/audit/retention"
	auditstorage "mercator-hq/roundtable/pkg/audit/storage"
	"mercator-hq/roundtable/pkg/cli"
	"mercator-hq/roundtable/pkg/config"
)

var auditFlags struct {
	session   string
	kind      string
	provider  string
	timeRange string
	limit     int
	offset    int
	format    string
	file      string
	days      int
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the decision audit trail",
	Long: `Query and prune the audit trail of ingest, tool call and finalize decisions.

Subcommands:
  query  - List audit records with filters
  prune  - Delete records older than the retention window`,
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List audit records",
	Long: `List audit records, newest first.

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-10-01T00:00:00Z/2026-10-02T00:00:00Z"

Examples:
  # Decisions for one conversation
  roundtable audit query --session conv-42

  # Denied and allowed tool calls as CSV
  roundtable audit query --kind tool_call --format csv --file calls.csv`,
	RunE: queryAudit,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete audit records older than the retention window",
	RunE:  pruneAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd, auditPruneCmd)

	auditQueryCmd.Flags().StringVar(&auditFlags.session, "session", "", "filter by conversation id")
	auditQueryCmd.Flags().StringVar(&auditFlags.kind, "kind", "", "filter by kind: ingest, clear, tool_call, finalize")
	auditQueryCmd.Flags().StringVar(&auditFlags.provider, "provider", "", "filter by provider")
	auditQueryCmd.Flags().StringVar(&auditFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
	auditQueryCmd.Flags().IntVar(&auditFlags.limit, "limit", 0, "max results (default from audit.query.default_limit)")
	auditQueryCmd.Flags().IntVar(&auditFlags.offset, "offset", 0, "pagination offset")
	auditQueryCmd.Flags().StringVar(&auditFlags.format, "format", "text", "output format: text, json, ndjson, csv")
	auditQueryCmd.Flags().StringVarP(&auditFlags.file, "file", "f", "", "output file (default: stdout)")

	auditPruneCmd.Flags().IntVar(&auditFlags.days, "days", 0, "retention days (default from audit.retention.days)")
}

func openAuditStorage() (*config.Config, audit.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := auditstorage.New(cfg.Audit)
	if err != nil {
		return nil, nil, cli.NewConfigError("audit.backend", err.Error())
	}
	return cfg, st, nil
}

func queryAudit(cmd *cobra.Command, args []string) error {
	cfg, st, err := openAuditStorage()
	if err != nil {
		return err
	}
	defer st.Close()

	query, err := buildAuditQuery(cfg.Audit.Query)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	records, err := st.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("audit query", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if auditFlags.file != "" {
		f, err := os.Create(auditFlags.file)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if auditFlags.format == "text" {
		return printRecords(w, records)
	}
	exporter, err := export.ForFormat(auditFlags.format)
	if err != nil {
		return err
	}
	if err := exporter.Export(ctx, records, w); err != nil {
		return cli.NewCommandError("audit query", err)
	}
	if auditFlags.file != "" {
		cli.NewPrinter(cmd.ErrOrStderr(), cli.FormatText).Success("Exported %d records to %s", len(records), auditFlags.file)
	}
	return nil
}

func buildAuditQuery(limits config.QueryConfig) (*audit.Query, error) {
	query := &audit.Query{
		SessionID: auditFlags.session,
		Provider:  auditFlags.provider,
		Limit:     auditFlags.limit,
		Offset:    auditFlags.offset,
	}

	if auditFlags.kind != "" {
		kind := audit.Kind(auditFlags.kind)
		if !kind.Valid() {
			return nil, fmt.Errorf("invalid --kind %q", auditFlags.kind)
		}
		query.Kind = kind
	}

	if auditFlags.timeRange != "" {
		since, until, err := parseTimeRange(auditFlags.timeRange)
		if err != nil {
			return nil, err
		}
		query.Since, query.Until = &since, &until
	}

	if query.Limit <= 0 {
		query.Limit = limits.DefaultLimit
	}
	if limits.MaxLimit > 0 && query.Limit > limits.MaxLimit {
		query.Limit = limits.MaxLimit
	}
	return query, nil
}

// parseTimeRange parses an RFC3339 "start/end" interval.
func parseTimeRange(s string) (time.Time, time.Time, error) {
	start, end, ok := strings.Cut(s, "/")
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time range %q: expected start/end", s)
	}
	since, err := time.Parse(time.RFC3339, strings.TrimSpace(start))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time: %w", err)
	}
	until, err := time.Parse(time.RFC3339, strings.TrimSpace(end))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time: %w", err)
	}
	if until.Before(since) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time range %q: end before start", s)
	}
	return since, until, nil
}

func printRecords(w io.Writer, records []*audit.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSESSION\tKIND\tPLAN\tTOOL\tALLOWED\tREASON")
	for _, r := range records {
		allowed := ""
		if r.Kind == audit.KindToolCall {
			allowed = fmt.Sprintf("%t", r.Allowed)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Timestamp.Format(time.RFC3339),
			r.SessionID,
			r.Kind,
			r.Plan,
			r.Tool,
			allowed,
			r.Reason,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d records\n", len(records))
	return err
}

func pruneAudit(cmd *cobra.Command, args []string) error {
	cfg, st, err := openAuditStorage()
	if err != nil {
		return err
	}
	defer st.Close()

	rc := retention.ConfigFrom(cfg.Audit.Retention)
	if auditFlags.days != 0 {
		rc.Days = auditFlags.days
	}

	deleted, err := retention.NewPruner(st, rc, nil).Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}
	cli.NewPrinter(cmd.OutOrStdout(), cli.FormatText).Success("Pruned %d records older than %d days", deleted, rc.Days)
	return nil
}
