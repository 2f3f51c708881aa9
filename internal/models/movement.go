package models

import "time"

// Outcome identifies one leg of a three-way market.
type Outcome string

const (
	OutcomeHome Outcome = "Home"
	OutcomeDraw Outcome = "Draw"
	OutcomeAway Outcome = "Away"
)

// Direction classifies how a price moved between the opening and current
// snapshot. Shortened means the odds decreased (the market now assigns a
// higher probability to the outcome); drifted means the odds increased.
type Direction string

const (
	DirectionShortened Direction = "shortened"
	DirectionDrifted   Direction = "drifted"
	DirectionUnchanged Direction = "unchanged"
)

// Strength tiers movement magnitude by absolute probability delta.
type Strength string

const (
	StrengthNone   Strength = "none"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// MovementResult is the derived, ephemeral outcome of comparing the opening
// and current snapshots of one market inside a time window. The selected
// outcome is the one with the largest absolute probability delta.
type MovementResult struct {
	Market         Market     `json:"market"`
	Outcome        Outcome    `json:"outcome"`
	OpeningOdds    float64    `json:"opening_odds"`
	CurrentOdds    float64    `json:"current_odds"`
	DeltaPoints    float64    `json:"delta_pp"`
	ProbPctChange  float64    `json:"prob_pct_change"`
	Direction      Direction  `json:"direction"`
	Strength       Strength   `json:"strength"`
	ObservedAt     time.Time  `json:"observed_at"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
}

// AbsDelta returns the magnitude of the selected outcome's probability delta.
func (r *MovementResult) AbsDelta() float64 {
	if r.DeltaPoints < 0 {
		return -r.DeltaPoints
	}
	return r.DeltaPoints
}
