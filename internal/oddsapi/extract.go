package oddsapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/NeilMac555/odds-tracker/internal/models"
)

const h2hMarketKey = "h2h"
const drawOutcomeName = "Draw"

// ToSnapshot converts one event into an OddsSnapshot for the given bookmaker.
// The league name is the configured display name, not the upstream sport key.
// Returns models.ErrIncompleteH2H when the bookmaker is absent, the h2h market
// is missing, or any of the three outcome prices is absent or not above 1.0.
func ToSnapshot(event Event, league, bookmakerKey string, collectedAt time.Time) (*models.OddsSnapshot, error) {
	market, ok := findH2HMarket(event, bookmakerKey)
	if !ok {
		return nil, fmt.Errorf("%s vs %s: no %s prices from %s: %w",
			event.HomeTeam, event.AwayTeam, h2hMarketKey, bookmakerKey, models.ErrIncompleteH2H)
	}

	var home, draw, away *float64
	for i := range market.Outcomes {
		o := &market.Outcomes[i]
		switch {
		case strings.EqualFold(o.Name, event.HomeTeam):
			home = &o.Price
		case strings.EqualFold(o.Name, event.AwayTeam):
			away = &o.Price
		case strings.EqualFold(o.Name, drawOutcomeName):
			draw = &o.Price
		}
	}

	commence := event.CommenceTime
	snapshot := &models.OddsSnapshot{
		League:         league,
		HomeTeam:       event.HomeTeam,
		AwayTeam:       event.AwayTeam,
		Bookmaker:      bookmakerKey,
		HomeOdds:       home,
		DrawOdds:       draw,
		AwayOdds:       away,
		CollectedAt:    collectedAt,
		ScheduledStart: &commence,
	}

	if !snapshot.HasCompleteOdds() {
		return nil, fmt.Errorf("%s vs %s: %w", event.HomeTeam, event.AwayTeam, models.ErrIncompleteH2H)
	}
	return snapshot, nil
}

func findH2HMarket(event Event, bookmakerKey string) (MarketPrices, bool) {
	for _, b := range event.Bookmakers {
		if !strings.EqualFold(b.Key, bookmakerKey) {
			continue
		}
		for _, m := range b.Markets {
			if m.Key == h2hMarketKey {
				return m, true
			}
		}
	}
	return MarketPrices{}, false
}
