// Package service implements the collection and movers workflows on top of
// the odds API client and the snapshot repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/NeilMac555/odds-tracker/internal/config"
	"github.com/NeilMac555/odds-tracker/internal/metrics"
	"github.com/NeilMac555/odds-tracker/internal/models"
	"github.com/NeilMac555/odds-tracker/internal/oddsapi"
	"github.com/NeilMac555/odds-tracker/internal/repository"
)

// OddsFetcher is the upstream surface the collector needs. Satisfied by
// *oddsapi.Client.
type OddsFetcher interface {
	FetchLeagueOdds(ctx context.Context, leagueKey string) ([]oddsapi.Event, oddsapi.Quota, error)
}

// CollectorService polls each configured league and appends one snapshot per
// complete h2h quote.
type CollectorService struct {
	fetcher      OddsFetcher
	repo         repository.SnapshotRepository
	leagues      []config.LeagueConfig
	bookmaker    string
	fetchTimeout time.Duration
	logger       *logrus.Logger
}

// NewCollectorService creates a collector from configuration.
func NewCollectorService(fetcher OddsFetcher, repo repository.SnapshotRepository, cfg *config.Config, logger *logrus.Logger) *CollectorService {
	return &CollectorService{
		fetcher:      fetcher,
		repo:         repo,
		leagues:      cfg.OddsAPI.Leagues,
		bookmaker:    cfg.OddsAPI.ReferenceBookmaker,
		fetchTimeout: cfg.FetchTimeout(),
		logger:       logger,
	}
}

// CollectOnce runs one collection cycle over all configured leagues. A
// failing league is logged and skipped; the cycle continues with the rest.
// Every stored snapshot in one cycle carries the same collection timestamp so
// readers can treat a cycle as one observation.
func (s *CollectorService) CollectOnce(ctx context.Context) (*CollectionReport, error) {
	report := &CollectionReport{
		RunID:        uuid.New(),
		StartedAt:    time.Now().UTC(),
		LeaguesTotal: len(s.leagues),
	}
	collectedAt := report.StartedAt

	runLog := s.logger.WithField("run_id", report.RunID)
	runLog.WithField("leagues", len(s.leagues)).Info("Starting collection run")

	for _, league := range s.leagues {
		if err := s.collectLeague(ctx, league, collectedAt, report); err != nil {
			report.LeaguesFailed++
			metrics.RecordFetchError(league.Name)
			runLog.WithFields(logrus.Fields{
				"league": league.Name,
				"error":  err.Error(),
			}).Error("League collection failed")
		}
	}

	report.Duration = time.Since(report.StartedAt)
	status := report.Status()

	metrics.RecordCollectionRun(status, report.Duration.Seconds())
	if status != RunStatusFailure {
		metrics.MarkCollectionTime(float64(collectedAt.Unix()))
	}

	runLog.WithFields(logrus.Fields{
		"status":           status,
		"events_fetched":   report.EventsFetched,
		"events_skipped":   report.EventsSkipped,
		"snapshots_stored": report.SnapshotsStored,
		"leagues_failed":   report.LeaguesFailed,
		"duration":         report.Duration.String(),
	}).Info("Collection run complete")

	if status == RunStatusFailure {
		return report, fmt.Errorf("collection run %s: all %d leagues failed", report.RunID, report.LeaguesTotal)
	}
	return report, nil
}

func (s *CollectorService) collectLeague(ctx context.Context, league config.LeagueConfig, collectedAt time.Time, report *CollectionReport) error {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	events, quota, err := s.fetcher.FetchLeagueOdds(fetchCtx, league.Key)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", league.Key, err)
	}

	report.EventsFetched += len(events)
	report.QuotaRemaining = quota.Remaining
	metrics.UpdateAPIQuota(quota.Remaining)

	snapshots := make([]*models.OddsSnapshot, 0, len(events))
	for _, event := range events {
		snapshot, err := oddsapi.ToSnapshot(event, league.Name, s.bookmaker, collectedAt)
		if err != nil {
			if errors.Is(err, models.ErrIncompleteH2H) {
				report.EventsSkipped++
				metrics.RecordEventSkipped(league.Name)
				s.logger.WithFields(logrus.Fields{
					"league": league.Name,
					"event":  event.HomeTeam + " vs " + event.AwayTeam,
				}).Debug("Skipping event with incomplete h2h prices")
				continue
			}
			return fmt.Errorf("failed to convert event: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if len(snapshots) == 0 {
		return nil
	}

	if err := s.repo.InsertBatch(ctx, snapshots); err != nil {
		return fmt.Errorf("failed to store %s snapshots: %w", league.Name, err)
	}

	report.SnapshotsStored += len(snapshots)
	metrics.RecordSnapshotsStored(league.Name, len(snapshots))
	return nil
}
