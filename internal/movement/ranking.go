package movement

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/NeilMac555/odds-tracker/internal/models"
)

// DefaultTopMoversLimit bounds the ranking when the caller passes limit <= 0.
const DefaultTopMoversLimit = 10

// SnapshotFetcher loads one market's snapshots for ranking. The trailing
// duration is non-positive for an unbounded "since open" window.
type SnapshotFetcher func(ctx context.Context, market models.Market, within time.Duration) ([]*models.OddsSnapshot, error)

// TopMovers computes movement for every market, discards markets with
// insufficient data, and returns the top entries by absolute probability
// delta. The sort is stable: equal magnitudes keep the input market order.
//
// Scope filtering (e.g. excluding fixtures that kicked off long ago) is the
// caller's concern; every market passed in is ranked.
func TopMovers(ctx context.Context, markets []models.Market, fetch SnapshotFetcher, window Window, limit int, now time.Time, opts Options) ([]*models.MovementResult, error) {
	if limit <= 0 {
		limit = DefaultTopMoversLimit
	}

	within := window.Duration
	if window.SinceOpen {
		within = 0
	}

	results := make([]*models.MovementResult, 0, len(markets))
	for _, market := range markets {
		snapshots, err := fetch(ctx, market, within)
		if err != nil {
			return nil, err
		}

		if result, ok := Compute(market, snapshots, window, now, opts); ok {
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].DeltaPoints) > math.Abs(results[j].DeltaPoints)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// FilterElapsed drops markets whose kickoff is further in the past than the
// grace period. Markets without a known kickoff are kept.
func FilterElapsed(results []*models.MovementResult, grace time.Duration, now time.Time) []*models.MovementResult {
	kept := results[:0:0]
	for _, r := range results {
		if r.ScheduledStart != nil && now.Sub(*r.ScheduledStart) > grace {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
