package models

import (
	"fmt"
	"time"
)

// MinValidOdds is the lowest decimal price accepted at ingestion. Decimal odds
// at or below 1.0 imply a probability of 100% or more and are rejected.
const MinValidOdds = 1.0

// OddsSnapshot represents one observed three-way (home/draw/away) quote from
// one bookmaker at one instant. Rows are append-only; history accumulates per
// market and is never mutated.
type OddsSnapshot struct {
	ID             int64      `db:"id" json:"id"`
	League         string     `db:"league" json:"league" validate:"required"`
	HomeTeam       string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam       string     `db:"away_team" json:"away_team" validate:"required"`
	Bookmaker      string     `db:"bookmaker" json:"bookmaker" validate:"required"`
	HomeOdds       *float64   `db:"home_odds" json:"home_odds"`
	DrawOdds       *float64   `db:"draw_odds" json:"draw_odds"`
	AwayOdds       *float64   `db:"away_odds" json:"away_odds"`
	CollectedAt    time.Time  `db:"collected_at" json:"collected_at" validate:"required"`
	ScheduledStart *time.Time `db:"scheduled_start" json:"scheduled_start"`
}

// Market returns the logical market identity this snapshot belongs to.
func (s *OddsSnapshot) Market() Market {
	return Market{
		League:    s.League,
		HomeTeam:  s.HomeTeam,
		AwayTeam:  s.AwayTeam,
		Bookmaker: s.Bookmaker,
	}
}

// HasCompleteOdds reports whether all three outcome prices are present and
// strictly greater than 1.0.
func (s *OddsSnapshot) HasCompleteOdds() bool {
	for _, o := range []*float64{s.HomeOdds, s.DrawOdds, s.AwayOdds} {
		if o == nil || *o <= MinValidOdds {
			return false
		}
	}
	return true
}

// Market is the derived identity grouping all snapshots that share
// (league, home team, away team, bookmaker). It is the unit of movement
// computation and is never persisted on its own.
type Market struct {
	League    string `json:"league"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	Bookmaker string `json:"bookmaker"`
}

// String returns a human-readable market label.
func (m Market) String() string {
	return fmt.Sprintf("%s vs %s (%s, %s)", m.HomeTeam, m.AwayTeam, m.League, m.Bookmaker)
}
