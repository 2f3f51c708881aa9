package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NeilMac555/odds-tracker/internal/config"
	"github.com/NeilMac555/odds-tracker/internal/metrics"
	"github.com/NeilMac555/odds-tracker/internal/models"
	"github.com/NeilMac555/odds-tracker/internal/movement"
	"github.com/NeilMac555/odds-tracker/internal/repository"
)

// marketLookahead bounds how far into the future ranked fixtures may start.
const marketLookahead = 14 * 24 * time.Hour

// sinceOpenListingWindow bounds the market listing query when the movement
// window itself is unbounded.
const sinceOpenListingWindow = 90 * 24 * time.Hour

// MoversService answers the ranking and history queries on top of the
// snapshot repository, with a short-lived cache in front.
type MoversService struct {
	repo   repository.SnapshotRepository
	cache  *movement.ResultCache
	grace  time.Duration
	limit  int
	window movement.Window
	opts   movement.Options
	logger *logrus.Logger
}

// NewMoversService creates a movers service from configuration.
func NewMoversService(repo repository.SnapshotRepository, cfg *config.Config, logger *logrus.Logger) *MoversService {
	return &MoversService{
		repo:   repo,
		cache:  movement.NewResultCache(time.Duration(cfg.Movers.CacheTTLSeconds) * time.Second),
		grace:  cfg.GracePeriod(),
		limit:  cfg.Movers.Limit,
		window: movement.Last(cfg.DefaultWindow()),
		opts:   movement.Options{UseNoVig: cfg.Movers.UseNoVig},
		logger: logger,
	}
}

// DefaultWindow returns the configured default movement window.
func (s *MoversService) DefaultWindow() movement.Window {
	return s.window
}

// DefaultLimit returns the configured default ranking size.
func (s *MoversService) DefaultLimit() int {
	return s.limit
}

// TopMovers ranks the markets with the largest absolute probability movement
// inside the window. Fixtures that kicked off more than the grace period ago
// are excluded before ranking.
func (s *MoversService) TopMovers(ctx context.Context, window movement.Window, limit int) ([]*models.MovementResult, error) {
	if limit <= 0 {
		limit = s.limit
	}

	if cached, found := s.cache.Get(window, limit, s.opts); found {
		return cached, nil
	}

	now := time.Now().UTC()
	started := time.Now()

	listWithin := window.Duration
	if window.SinceOpen {
		listWithin = sinceOpenListingWindow
	}

	markets, err := s.repo.ListMarkets(ctx, listWithin, now.Add(-s.grace), now.Add(marketLookahead))
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w", err)
	}

	// Rank more than the requested limit so the kickoff filter cannot leave
	// the board short.
	results, err := movement.TopMovers(ctx, markets, s.repo.MarketSnapshots, window, len(markets), now, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to rank movers: %w", err)
	}

	results = movement.FilterElapsed(results, s.grace, now)
	if len(results) > limit {
		results = results[:limit]
	}

	metrics.RecordMoversCompute(time.Since(started).Seconds())
	s.logger.WithFields(logrus.Fields{
		"window":  window.String(),
		"markets": len(markets),
		"ranked":  len(results),
	}).Debug("Computed top movers")

	s.cache.Set(window, limit, s.opts, results)
	return results, nil
}

// LatestBoard returns the most recent quote per market observed inside the
// window, for fixtures that have not elapsed past the grace period.
func (s *MoversService) LatestBoard(ctx context.Context, window movement.Window) ([]*models.OddsSnapshot, error) {
	now := time.Now().UTC()

	within := window.Duration
	if window.SinceOpen {
		within = sinceOpenListingWindow
	}

	snapshots, err := s.repo.LatestPerMarket(ctx, within, now.Add(-s.grace), now.Add(marketLookahead))
	if err != nil {
		return nil, fmt.Errorf("failed to load latest board: %w", err)
	}
	return snapshots, nil
}

// MarketHistory returns one fixture's snapshots inside the window, ascending
// by collection time. Rows from all bookmakers are included.
func (s *MoversService) MarketHistory(ctx context.Context, league, homeTeam, awayTeam string, within time.Duration) ([]*models.OddsSnapshot, error) {
	snapshots, err := s.repo.History(ctx, league, homeTeam, awayTeam, within)
	if err != nil {
		return nil, fmt.Errorf("failed to load history for %s vs %s: %w", homeTeam, awayTeam, err)
	}
	return snapshots, nil
}

// InvalidateCache drops cached rankings. Called after each collection tick.
func (s *MoversService) InvalidateCache() {
	s.cache.Flush()
}
