package movement

import (
	"math"
	"sort"
	"time"

	"github.com/NeilMac555/odds-tracker/internal/models"
	"github.com/NeilMac555/odds-tracker/internal/oddsmath"
)

// Strength thresholds in absolute percentage points.
const (
	strongThreshold = 5.0
	mediumThreshold = 3.0
)

// Options controls how movement is computed.
type Options struct {
	// UseNoVig normalizes both snapshots' implied probabilities to sum to 1
	// before taking deltas, removing the bookmaker margin from the ranking
	// signal. Off by default: raw implied-probability delta is the primary
	// contract.
	UseNoVig bool
}

// Dedup resolves rows sharing an identical collection timestamp down to the
// last-inserted one (highest id) and returns the remainder sorted ascending
// by collection time. Replayed writes are rare but possible, and keeping both
// rows would make opening/current selection ambiguous.
func Dedup(snapshots []*models.OddsSnapshot) []*models.OddsSnapshot {
	if len(snapshots) == 0 {
		return nil
	}

	byTime := make(map[time.Time]*models.OddsSnapshot, len(snapshots))
	for _, s := range snapshots {
		if prev, ok := byTime[s.CollectedAt]; !ok || s.ID >= prev.ID {
			byTime[s.CollectedAt] = s
		}
	}

	deduped := make([]*models.OddsSnapshot, 0, len(byTime))
	for _, s := range byTime {
		deduped = append(deduped, s)
	}
	sort.Slice(deduped, func(i, j int) bool {
		if deduped[i].CollectedAt.Equal(deduped[j].CollectedAt) {
			return deduped[i].ID < deduped[j].ID
		}
		return deduped[i].CollectedAt.Before(deduped[j].CollectedAt)
	})

	return deduped
}

// Compute derives one MovementResult for a market from its snapshots inside
// the window. The second return value is false when no movement can be
// computed: no snapshot in the window, or an invalid price in the opening or
// current snapshot. That is an "insufficient data" outcome, not an error.
//
// A single in-window snapshot yields a present result with zero deltas and
// direction unchanged, which callers must distinguish from absence.
func Compute(market models.Market, snapshots []*models.OddsSnapshot, window Window, now time.Time, opts Options) (*models.MovementResult, bool) {
	inWindow := filterWindow(snapshots, window, now)
	if len(inWindow) == 0 {
		return nil, false
	}

	opening := inWindow[0]
	current := inWindow[len(inWindow)-1]
	if !opening.HasCompleteOdds() || !current.HasCompleteOdds() {
		return nil, false
	}

	openOdds := [3]*float64{opening.HomeOdds, opening.DrawOdds, opening.AwayOdds}
	nowOdds := [3]*float64{current.HomeOdds, current.DrawOdds, current.AwayOdds}
	outcomes := [3]models.Outcome{models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway}

	deltas, ok := outcomeDeltas(openOdds, nowOdds, opts)
	if !ok {
		return nil, false
	}

	// Largest absolute delta wins; ties prefer Home, then Draw, then Away.
	selected := 0
	for i := 1; i < 3; i++ {
		if math.Abs(deltas[i]) > math.Abs(deltas[selected]) {
			selected = i
		}
	}

	// Direction comes from the odds comparison itself, never from the delta
	// sign, so near-zero floating point deltas cannot flip it.
	var direction models.Direction
	switch {
	case *nowOdds[selected] < *openOdds[selected]:
		direction = models.DirectionShortened
	case *nowOdds[selected] > *openOdds[selected]:
		direction = models.DirectionDrifted
	default:
		direction = models.DirectionUnchanged
	}

	pctChange, _ := oddsmath.DeltaPercent(openOdds[selected], nowOdds[selected])

	return &models.MovementResult{
		Market:         market,
		Outcome:        outcomes[selected],
		OpeningOdds:    *openOdds[selected],
		CurrentOdds:    *nowOdds[selected],
		DeltaPoints:    deltas[selected],
		ProbPctChange:  pctChange,
		Direction:      direction,
		Strength:       strengthFor(math.Abs(deltas[selected])),
		ObservedAt:     current.CollectedAt,
		ScheduledStart: current.ScheduledStart,
	}, true
}

// outcomeDeltas returns the per-outcome probability deltas in percentage
// points, optionally on no-vig-normalized probabilities.
func outcomeDeltas(open, now [3]*float64, opts Options) ([3]float64, bool) {
	var deltas [3]float64

	if opts.UseNoVig {
		oh, od, oa, ok := oddsmath.NoVigProbabilities(open[0], open[1], open[2])
		if !ok {
			return deltas, false
		}
		nh, nd, na, ok := oddsmath.NoVigProbabilities(now[0], now[1], now[2])
		if !ok {
			return deltas, false
		}
		deltas[0] = (nh - oh) * 100
		deltas[1] = (nd - od) * 100
		deltas[2] = (na - oa) * 100
		return deltas, true
	}

	for i := 0; i < 3; i++ {
		d, ok := oddsmath.DeltaPoints(open[i], now[i])
		if !ok {
			return deltas, false
		}
		deltas[i] = d
	}
	return deltas, true
}

func strengthFor(absDelta float64) models.Strength {
	switch {
	case absDelta >= strongThreshold:
		return models.StrengthStrong
	case absDelta >= mediumThreshold:
		return models.StrengthMedium
	default:
		return models.StrengthNone
	}
}

// filterWindow dedups the snapshots and drops rows collected before the
// window cutoff.
func filterWindow(snapshots []*models.OddsSnapshot, window Window, now time.Time) []*models.OddsSnapshot {
	deduped := Dedup(snapshots)

	cutoff, bounded := window.CutoffTime(now)
	if !bounded {
		return deduped
	}

	kept := deduped[:0:0]
	for _, s := range deduped {
		if !s.CollectedAt.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	return kept
}
