package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/siteboard/internal/app"
	"github.com/MrSnakeDoc/siteboard/internal/config"
	"github.com/MrSnakeDoc/siteboard/internal/logger"
	"github.com/MrSnakeDoc/siteboard/internal/version"
)

const programName = "siteboard"

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Site submission and review directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveRun,
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(reconcileCommand())
	rootCmd.AddCommand(versionCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %s: %v\n", programName, err)
		os.Exit(1)
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  serveRun,
	}
}

func reconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild the derived index lists once and exit",
		Long: "Regroups the submission status lists by stored status, drops ids whose " +
			"entity is gone and rewrites category lists from sites_list. Run it while " +
			"the API is idle: list writes are read-modify-write.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := build(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			defer func() { _ = log.Sync() }()

			report, err := a.Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			for kind, n := range report {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", kind, n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total repairs: %d\n", report.Total())
			return nil
		},
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func serveRun(cmd *cobra.Command, args []string) error {
	a, log, err := build(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer func() { _ = a.Close() }()

	return a.Run(cmd.Context())
}

func build(ctx context.Context) (*app.App, logger.Logger, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return a, log, nil
}
