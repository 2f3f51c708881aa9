package repository

import (
	"context"
	"time"

	"github.com/NeilMac555/odds-tracker/internal/models"
)

// SnapshotRepository defines the interface for odds snapshot data access.
// Writes are append-only; duplicate rows across polling cycles are tolerated
// and resolved by readers.
type SnapshotRepository interface {
	Insert(ctx context.Context, snapshot *models.OddsSnapshot) error
	InsertBatch(ctx context.Context, snapshots []*models.OddsSnapshot) error

	// LatestPerMarket returns the most recently collected row for every
	// market with at least one row in the trailing duration and a scheduled
	// start inside [windowStart, windowEnd). Rows with a null scheduled
	// start are excluded, since they cannot be placed in the window.
	LatestPerMarket(ctx context.Context, within time.Duration, windowStart, windowEnd time.Time) ([]*models.OddsSnapshot, error)

	// History returns all rows for one fixture (bookmaker not filtered)
	// captured within the trailing duration, ascending by collection time.
	History(ctx context.Context, league, homeTeam, awayTeam string, within time.Duration) ([]*models.OddsSnapshot, error)

	// ListMarkets returns the distinct market keys observed in the trailing
	// duration whose scheduled start falls inside [windowStart, windowEnd).
	// As with LatestPerMarket, null-scheduled-start rows are excluded here;
	// only in-memory filtering keeps fixtures with an unknown kickoff.
	ListMarkets(ctx context.Context, within time.Duration, windowStart, windowEnd time.Time) ([]models.Market, error)

	// MarketSnapshots returns one market's rows in the trailing duration,
	// ascending by collection time with insertion order as tie-break.
	MarketSnapshots(ctx context.Context, market models.Market, within time.Duration) ([]*models.OddsSnapshot, error)
}
