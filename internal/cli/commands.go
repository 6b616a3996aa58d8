// Package cli implements the marketpulse command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"MarketPulse/internal/config"
	"MarketPulse/internal/model"
	"MarketPulse/internal/scheduler"
	"MarketPulse/internal/server"
)

const shutdownTimeout = 10 * time.Second

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgPath string
		cfg     *config.Config
	)

	rootCmd := &cobra.Command{
		Use:   "marketpulse",
		Short: "MarketPulse - market dashboard backend",
		Long: `MarketPulse serves a per-minute snapshot of index and watchlist quotes with
moving averages, period returns, movers and sector performance.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath == "" {
				cfgPath = config.PathFromEnv()
			}
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Configuration file path (default $CONFIG_PATH or "+config.DefaultPath+")")

	cfgFn := func() *config.Config { return cfg }
	rootCmd.AddCommand(newServeCmd(cfgFn))
	rootCmd.AddCommand(newSnapshotCmd(cfgFn))
	rootCmd.AddCommand(newCacheCmd(cfgFn))

	return rootCmd
}

func newServeCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and housekeeping scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg())
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log.Println("[INFO] MarketPulse starting...")

	app, err := NewApp(cfg, false)
	if err != nil {
		return err
	}
	defer app.Close()

	sched := scheduler.NewScheduler(ctx, app.Cache, app.Recorder, app.Cache.Retention())
	if err := sched.RegisterAll(cfg.Schedule.SweepCron, cfg.Schedule.WarmCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()
	sched.RunSweepNow()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.New(app.Cache, app.Recorder, app.Metrics).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Println("[INFO] shutdown signal received, stopping...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] MarketPulse stopped")
	return nil
}

func newSnapshotCmd(cfg func() *config.Config) *cobra.Command {
	var offline, noCache bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Build or load the current snapshot and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cfg(), offline)
			if err != nil {
				return err
			}
			defer app.Close()

			var snap *model.MarketSnapshot
			if noCache {
				if snap, err = app.Collector.Build(cmd.Context()); err != nil {
					return err
				}
			} else {
				snap = app.Cache.GetOrBuild(cmd.Context())
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Use deterministic synthetic series instead of the network")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Build a fresh snapshot without reading or writing the cache")

	return cmd
}

func newCacheCmd(cfg func() *config.Config) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the snapshot cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List cached snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache(cfg())
			if err != nil {
				return err
			}

			entries, err := c.Entries()
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no cached snapshots in %s\n", c.Dir())
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tSIZE\tMODIFIED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, humanize.Bytes(uint64(e.Size)), humanize.Time(e.ModTime))
			}
			return tw.Flush()
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete cached snapshots older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache(cfg())
			if err != nil {
				return err
			}

			removed, err := c.Evict()
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached snapshots older than %s\n", removed, c.Retention())
			return nil
		},
	})

	return cacheCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
