package service

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses reported after a collection cycle.
const (
	RunStatusSuccess = "success"
	RunStatusPartial = "partial"
	RunStatusFailure = "failure"
)

// CollectionReport summarizes one collection run across all configured
// leagues. RunID correlates the report with per-league log lines.
type CollectionReport struct {
	RunID           uuid.UUID
	StartedAt       time.Time
	Duration        time.Duration
	LeaguesTotal    int
	LeaguesFailed   int
	EventsFetched   int
	EventsSkipped   int
	SnapshotsStored int
	QuotaRemaining  int
}

// Status classifies the run: failure when every league failed, partial when
// some did, success otherwise.
func (r *CollectionReport) Status() string {
	switch {
	case r.LeaguesTotal > 0 && r.LeaguesFailed == r.LeaguesTotal:
		return RunStatusFailure
	case r.LeaguesFailed > 0:
		return RunStatusPartial
	default:
		return RunStatusSuccess
	}
}
