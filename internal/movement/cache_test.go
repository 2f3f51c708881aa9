package movement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeilMac555/odds-tracker/internal/models"
)

func TestResultCacheRoundTrip(t *testing.T) {
	rc := NewResultCache(time.Minute)
	results := []*models.MovementResult{{Market: mk("Arsenal"), DeltaPoints: 4.2}}

	_, found := rc.Get(WindowLast24H, 10, Options{})
	assert.False(t, found)

	rc.Set(WindowLast24H, 10, Options{}, results)

	got, found := rc.Get(WindowLast24H, 10, Options{})
	require.True(t, found)
	assert.Equal(t, results, got)
}

func TestResultCacheKeysByRequestShape(t *testing.T) {
	rc := NewResultCache(time.Minute)
	rc.Set(WindowLast24H, 10, Options{}, []*models.MovementResult{{Market: mk("A")}})

	_, found := rc.Get(WindowLastHour, 10, Options{})
	assert.False(t, found, "different window must miss")

	_, found = rc.Get(WindowLast24H, 5, Options{})
	assert.False(t, found, "different limit must miss")

	_, found = rc.Get(WindowLast24H, 10, Options{UseNoVig: true})
	assert.False(t, found, "different normalization must miss")
}

func TestResultCacheFlush(t *testing.T) {
	rc := NewResultCache(time.Minute)
	rc.Set(WindowLast24H, 10, Options{}, []*models.MovementResult{{Market: mk("A")}})

	rc.Flush()

	_, found := rc.Get(WindowLast24H, 10, Options{})
	assert.False(t, found)
}
