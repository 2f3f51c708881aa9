package oddsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeilMac555/odds-tracker/internal/config"
)

const sampleOddsResponse = `[
  {
    "id": "e912304de2b2ce35b473ce2ecd3d1502",
    "sport_key": "soccer_epl",
    "sport_title": "EPL",
    "commence_time": "2026-09-01T19:00:00Z",
    "home_team": "Arsenal",
    "away_team": "Chelsea",
    "bookmakers": [
      {
        "key": "pinnacle",
        "title": "Pinnacle",
        "last_update": "2026-08-30T12:00:00Z",
        "markets": [
          {
            "key": "h2h",
            "last_update": "2026-08-30T12:00:00Z",
            "outcomes": [
              {"name": "Arsenal", "price": 2.09},
              {"name": "Chelsea", "price": 4.56},
              {"name": "Draw", "price": 2.97}
            ]
          }
        ]
      }
    ]
  }
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	c := NewClient(&config.OddsAPIConfig{
		BaseURL:            srv.URL,
		APIKey:             "test-key",
		Regions:            "us,uk,eu",
		ReferenceBookmaker: "pinnacle",
		RateLimitPerSecond: 100,
	}, logger)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestFetchLeagueOdds(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("X-Requests-Remaining", "482")
		w.Header().Set("X-Requests-Used", "18")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleOddsResponse))
	})

	events, quota, err := client.FetchLeagueOdds(context.Background(), "soccer_epl")
	require.NoError(t, err)

	assert.Equal(t, "/sports/soccer_epl/odds", gotPath)
	assert.Equal(t, []string{"test-key"}, gotQuery["apiKey"])
	assert.Equal(t, []string{"h2h"}, gotQuery["markets"])
	assert.Equal(t, []string{"decimal"}, gotQuery["oddsFormat"])
	assert.Equal(t, []string{"pinnacle"}, gotQuery["bookmakers"])
	assert.Equal(t, []string{"us,uk,eu"}, gotQuery["regions"])

	assert.Equal(t, 482, quota.Remaining)
	assert.Equal(t, 18, quota.Used)

	require.Len(t, events, 1)
	event := events[0]
	assert.Equal(t, "Arsenal", event.HomeTeam)
	assert.Equal(t, "Chelsea", event.AwayTeam)
	assert.Equal(t, time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC), event.CommenceTime)
	require.Len(t, event.Bookmakers, 1)
	require.Len(t, event.Bookmakers[0].Markets, 1)
	assert.Len(t, event.Bookmakers[0].Markets[0].Outcomes, 3)
}

func TestFetchLeagueOddsUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, _, err := client.FetchLeagueOdds(context.Background(), "soccer_epl")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFetchLeagueOddsBadRequestMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Unknown sport key"}`))
	})

	_, _, err := client.FetchLeagueOdds(context.Background(), "soccer_nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown sport key")
}

func TestFetchLeagueOddsRetriesServerErrors(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	})

	events, _, err := client.FetchLeagueOdds(context.Background(), "soccer_epl")
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 3, attempts)
}

func TestFetchLeagueOddsMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"`))
	})

	_, _, err := client.FetchLeagueOdds(context.Background(), "soccer_epl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}
