// Package main provides the odds-tracker command line interface.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/NeilMac555/odds-tracker/internal/config"
	"github.com/NeilMac555/odds-tracker/internal/database"
	"github.com/NeilMac555/odds-tracker/internal/health"
	applogger "github.com/NeilMac555/odds-tracker/internal/logger"
	"github.com/NeilMac555/odds-tracker/internal/metrics"
	"github.com/NeilMac555/odds-tracker/internal/movement"
	"github.com/NeilMac555/odds-tracker/internal/oddsapi"
	"github.com/NeilMac555/odds-tracker/internal/repository"
	"github.com/NeilMac555/odds-tracker/internal/scheduler"
	"github.com/NeilMac555/odds-tracker/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile string
	windowFlag string
	sinceOpen  bool
	limitFlag  int
	noVigFlag  bool
	healthPort string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	runCmd.Flags().StringVar(&healthPort, "health-port", "8080", "Port for the health check server")

	for _, cmd := range []*cobra.Command{moversCmd, latestCmd, historyCmd} {
		cmd.Flags().StringVarP(&windowFlag, "window", "w", "", "Trailing window (e.g. 1h, 6h, 24h); defaults to the configured window")
		cmd.Flags().BoolVar(&sinceOpen, "since-open", false, "Measure from the earliest stored snapshot instead of a trailing window")
	}
	moversCmd.Flags().IntVarP(&limitFlag, "limit", "n", 0, "Maximum number of movers to show; defaults to the configured limit")
	moversCmd.Flags().BoolVar(&noVigFlag, "no-vig", false, "Rank on margin-free probabilities")
}

var rootCmd = &cobra.Command{
	Use:   "odds-tracker",
	Short: "Track bookmaker odds and surface the biggest movers",
	Long:  `Polls the upstream odds feed on a schedule, stores immutable odds snapshots in PostgreSQL, and ranks the markets whose implied probability moved the most.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
			region := os.Getenv("AWS_REGION")
			secretName := os.Getenv("AWS_SECRET_NAME")
			if region == "" || secretName == "" {
				return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
			}
			if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
				return fmt.Errorf("failed to load secrets: %w", err)
			}
		}

		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		appLog = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the collector daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd.Context())
	},
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one collection cycle and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return collectOnce(cmd.Context())
	},
}

var moversCmd = &cobra.Command{
	Use:   "movers",
	Short: "Show the markets with the largest probability movement",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showMovers(cmd.Context())
	},
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recent quote for every tracked market",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showLatest(cmd.Context())
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <league> <home-team> <away-team>",
	Short: "Show the stored odds history for one fixture",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showHistory(cmd.Context(), args[0], args[1], args[2])
	},
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Initialize(cmd.Context(), &cfg.Database, true)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		appLog.Info("Database schema initialized")
		return nil
	},
}

func main() {
	rootCmd.AddCommand(runCmd, collectCmd, moversCmd, latestCmd, historyCmd, initDBCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func connect(ctx context.Context) (*database.DB, repository.SnapshotRepository, error) {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, repository.NewPostgresSnapshotRepository(db), nil
}

func selectedWindow() (movement.Window, error) {
	if sinceOpen {
		return movement.WindowSinceOpen, nil
	}
	if windowFlag == "" {
		return movement.Last(cfg.DefaultWindow()), nil
	}
	d, err := time.ParseDuration(windowFlag)
	if err != nil || d <= 0 {
		return movement.Window{}, fmt.Errorf("invalid window %q", windowFlag)
	}
	return movement.Last(d), nil
}

func runDaemon(ctx context.Context) error {
	metrics.InitRegistry()

	db, repo, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	client := oddsapi.NewClient(&cfg.OddsAPI, appLog)
	defer client.Close()

	collector := service.NewCollectorService(client, repo, cfg, appLog)
	movers := service.NewMoversService(repo, cfg, appLog)

	sched := scheduler.NewScheduler(collector, movers, appLog)
	if err := sched.ScheduleCollection(cfg.CollectInterval()); err != nil {
		return fmt.Errorf("failed to schedule collection: %w", err)
	}

	daemonCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	healthServer := health.NewServer(health.Config{
		ServiceName:  cfg.App.Name,
		Version:      Version,
		Port:         healthPort,
		Logger:       appLog,
		DB:           db,
		LastRun:      sched.LastRunTime,
		MaxStaleness: 3 * cfg.CollectInterval(),
	})
	if err := healthServer.Start(daemonCtx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
		go func() {
			<-daemonCtx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			metricsServer.Shutdown(shutdownCtx)
		}()
	}

	// Collect immediately so the first board does not wait a full interval.
	if _, err := collector.CollectOnce(daemonCtx); err != nil {
		appLog.WithError(err).Warn("Initial collection failed; continuing on schedule")
	}

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"interval": cfg.CollectInterval().String(),
		"leagues":  len(cfg.OddsAPI.Leagues),
		"next_run": sched.GetNextRun().Format(time.RFC3339),
	}).Info("Odds tracker running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig.String()).Info("Shutdown signal received")
	case <-daemonCtx.Done():
	}

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	appLog.Info("Odds tracker shut down")
	return nil
}

func collectOnce(ctx context.Context) error {
	metrics.InitRegistry()

	db, repo, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	client := oddsapi.NewClient(&cfg.OddsAPI, appLog)
	defer client.Close()

	collector := service.NewCollectorService(client, repo, cfg, appLog)
	report, err := collector.CollectOnce(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s: %d events fetched, %d snapshots stored, %d skipped, %d/%d leagues failed (quota remaining: %d)\n",
		report.RunID, report.EventsFetched, report.SnapshotsStored, report.EventsSkipped,
		report.LeaguesFailed, report.LeaguesTotal, report.QuotaRemaining)
	return nil
}

func showMovers(ctx context.Context) error {
	metrics.InitRegistry()

	db, repo, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	window, err := selectedWindow()
	if err != nil {
		return err
	}

	if noVigFlag {
		cfg.Movers.UseNoVig = true
	}
	movers := service.NewMoversService(repo, cfg, appLog)

	results, err := movers.TopMovers(ctx, window, limitFlag)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Printf("No movement data for window %s\n", window)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MARKET\tOUTCOME\tOPEN\tNOW\tDELTA(PP)\tDIRECTION\tSTRENGTH")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%+.2f\t%s\t%s\n",
			r.Market, r.Outcome, r.OpeningOdds, r.CurrentOdds, r.DeltaPoints, r.Direction, r.Strength)
	}
	return w.Flush()
}

func showLatest(ctx context.Context) error {
	db, repo, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	window, err := selectedWindow()
	if err != nil {
		return err
	}

	movers := service.NewMoversService(repo, cfg, appLog)
	board, err := movers.LatestBoard(ctx, window)
	if err != nil {
		return err
	}

	if len(board) == 0 {
		fmt.Printf("No snapshots in window %s\n", window)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MARKET\tHOME\tDRAW\tAWAY\tCOLLECTED")
	for _, s := range board {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.Market(), fmtOdds(s.HomeOdds), fmtOdds(s.DrawOdds), fmtOdds(s.AwayOdds),
			s.CollectedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func showHistory(ctx context.Context, league, homeTeam, awayTeam string) error {
	db, repo, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	window, err := selectedWindow()
	if err != nil {
		return err
	}
	within := window.Duration
	if window.SinceOpen {
		within = 0
	}
	if within <= 0 {
		within = 90 * 24 * time.Hour
	}

	movers := service.NewMoversService(repo, cfg, appLog)
	history, err := movers.MarketHistory(ctx, league, homeTeam, awayTeam, within)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Printf("No history for %s vs %s (%s)\n", homeTeam, awayTeam, league)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLLECTED\tBOOKMAKER\tHOME\tDRAW\tAWAY")
	for _, s := range history {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.CollectedAt.Format(time.RFC3339), s.Bookmaker,
			fmtOdds(s.HomeOdds), fmtOdds(s.DrawOdds), fmtOdds(s.AwayOdds))
	}
	return w.Flush()
}

func fmtOdds(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
