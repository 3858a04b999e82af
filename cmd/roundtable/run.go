package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mercator-hq/roundtable/pkg/audit"
	auditstorage "mercator-hq/roundtable/pkg/audit/storage"
	"mercator-hq/roundtable/pkg/audit/retention"
	"mercator-hq/roundtable/pkg/cli"
	"mercator-hq/roundtable/pkg/config"
	"mercator-hq/roundtable/pkg/engine"
	"mercator-hq/roundtable/pkg/intent"
	"mercator-hq/roundtable/pkg/server"
	"mercator-hq/roundtable/pkg/session"
	"mercator-hq/roundtable/pkg/telemetry"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the roundtable HTTP adapter",
	Long: `Start the HTTP adapter with the session store, audit trail and intent
table watcher.

Examples:
  # Start with defaults
  roundtable run

  # Start with a config file
  roundtable run --config /etc/roundtable/config.yaml

  # Override listen address
  roundtable run --listen 0.0.0.0:8080

  # Validate config without starting the server
  roundtable run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	p := cli.NewPrinter(cmd.OutOrStdout(), cli.FormatText)
	if runFlags.dryRun {
		p.Success("Configuration valid")
		return nil
	}

	tel, err := telemetry.New(cfg.Telemetry, Version, os.Stderr)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	slog.SetDefault(tel.Logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	c, err := buildCore(cfg)
	if err != nil {
		return cli.NewConfigError("intent", err.Error())
	}

	store := session.NewMemoryStoreWithConfig(session.MemoryStoreConfig{
		MaxEntries:      cfg.Session.MaxEntries,
		IdleTTL:         cfg.Session.IdleTTL,
		CleanupInterval: cfg.Session.CleanupInterval,
	})
	defer store.Close()
	store.OnEvict(func(id, reason string) {
		tel.Metrics.RecordEviction(reason)
		tel.Metrics.SetLiveSessions(store.Len())
	})

	var recorder *audit.Recorder
	var scheduler *retention.Scheduler
	if cfg.Audit.Enabled {
		st, err := auditstorage.New(cfg.Audit)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to open audit storage: %w", err))
		}
		defer st.Close()
		tel.Health.Register("audit_storage", st.Ping)

		recorder = audit.NewRecorder(st, audit.RecorderConfig{
			AsyncBuffer:  cfg.Audit.Recorder.AsyncBuffer,
			WriteTimeout: cfg.Audit.Recorder.WriteTimeout,
		}, tel.Logger)
		recorder.OnDrop(func(*audit.Record) { tel.Metrics.RecordAuditDropped() })
		defer recorder.Close()

		pruner := retention.NewPruner(st, retention.ConfigFrom(cfg.Audit.Retention), tel.Logger)
		scheduler = retention.NewScheduler(pruner)
		p.Success("Audit trail enabled (%s)", cfg.Audit.Backend)
	}

	eng := engine.New(engine.Options{
		Store:      store,
		Classifier: c.classifier,
		Allocator:  c.allocator,
		Gate:       c.gate,
		Recorder:   recorder,
		Metrics:    tel.Metrics,
		Tracer:     tel.Tracer,
		Logger:     tel.Logger,
	})

	srv, err := server.New(cfg.Server, server.Options{
		Engine:      eng,
		Health:      tel.Health,
		Metrics:     tel.Metrics,
		MetricsPath: cfg.Telemetry.Metrics.Path,
		Tracer:      tel.Tracer,
		Logger:      tel.Logger,
		Version:     Version,
		Commit:      GitCommit,
		BuildTime:   BuildDate,
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if scheduler != nil {
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewConfigError("audit.retention.schedule", err.Error())
		}
		defer scheduler.Stop()
	}

	var watcher *intent.Watcher
	if cfg.Intent.TableFile != "" && cfg.Intent.Watch {
		watcher, err = intent.NewWatcher(intent.WatcherConfig{
			Path:             cfg.Intent.TableFile,
			DebounceInterval: cfg.Intent.DebounceInterval,
		}, c.classifier, tel.Logger)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		watcher.OnReload(tel.Metrics.RecordTableReload)
		defer watcher.Stop()
	}

	g.Go(func() error {
		return srv.Start(ctx)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Watch(ctx)
		})
	}

	p.Success("Server listening on %s", cfg.Server.ListenAddress)
	p.Success("Health endpoint: http://%s/health", cfg.Server.ListenAddress)
	if tel.Metrics != nil {
		p.Success("Metrics endpoint: http://%s%s", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "\nPress Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		return cli.NewCommandError("run", err)
	}
	p.Success("Server stopped")
	return nil
}
