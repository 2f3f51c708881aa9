package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeilMac555/odds-tracker/internal/config"
	"github.com/NeilMac555/odds-tracker/internal/models"
	"github.com/NeilMac555/odds-tracker/internal/oddsapi"
	"github.com/NeilMac555/odds-tracker/internal/service"
)

type noopFetcher struct{}

func (noopFetcher) FetchLeagueOdds(context.Context, string) ([]oddsapi.Event, oddsapi.Quota, error) {
	return nil, oddsapi.Quota{}, nil
}

type noopRepo struct{}

func (noopRepo) Insert(context.Context, *models.OddsSnapshot) error        { return nil }
func (noopRepo) InsertBatch(context.Context, []*models.OddsSnapshot) error { return nil }
func (noopRepo) LatestPerMarket(context.Context, time.Duration, time.Time, time.Time) ([]*models.OddsSnapshot, error) {
	return nil, nil
}
func (noopRepo) History(context.Context, string, string, string, time.Duration) ([]*models.OddsSnapshot, error) {
	return nil, nil
}
func (noopRepo) ListMarkets(context.Context, time.Duration, time.Time, time.Time) ([]models.Market, error) {
	return nil, nil
}
func (noopRepo) MarketSnapshots(context.Context, models.Market, time.Duration) ([]*models.OddsSnapshot, error) {
	return nil, nil
}

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{
		OddsAPI: config.OddsAPIConfig{
			ReferenceBookmaker: "pinnacle",
			Leagues:            []config.LeagueConfig{{Key: "soccer_epl", Name: "EPL"}},
		},
		Collector: config.CollectorConfig{IntervalMinutes: 15, FetchTimeoutSeconds: 30},
		Movers: config.MoversConfig{
			DefaultWindowHours: 24, Limit: 10, GracePeriodHours: 3, CacheTTLSeconds: 60,
		},
	}

	collector := service.NewCollectorService(noopFetcher{}, noopRepo{}, cfg, logger)
	return NewScheduler(collector, nil, logger)
}

func TestStartWithoutJobs(t *testing.T) {
	s := newTestScheduler(t)
	assert.Error(t, s.Start())
}

func TestScheduleAndStartStop(t *testing.T) {
	s := newTestScheduler(t)

	require.NoError(t, s.ScheduleCollection(15*time.Minute))
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	next := s.GetNextRun()
	assert.False(t, next.IsZero())
	assert.True(t, next.After(time.Now()))

	assert.Error(t, s.Start(), "double start must fail")
	assert.Error(t, s.ScheduleCollection(time.Hour), "scheduling while running must fail")

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop(), "stop is idempotent")
}

func TestGetNextRunWhenStopped(t *testing.T) {
	s := newTestScheduler(t)
	require.NoError(t, s.ScheduleCollection(15*time.Minute))
	assert.True(t, s.GetNextRun().IsZero())
}
