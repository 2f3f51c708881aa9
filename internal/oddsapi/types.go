// Package oddsapi implements the client for the-odds-api v4 feed.
package oddsapi

import (
	"errors"
	"time"
)

// Event is one fixture as returned by /v4/sports/{sport}/odds.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker holds one bookmaker's markets for an event.
type Bookmaker struct {
	Key        string         `json:"key"`
	Title      string         `json:"title"`
	LastUpdate time.Time      `json:"last_update"`
	Markets    []MarketPrices `json:"markets"`
}

// MarketPrices holds the priced outcomes of one market (e.g. h2h).
type MarketPrices struct {
	Key        string         `json:"key"`
	LastUpdate time.Time      `json:"last_update"`
	Outcomes   []OutcomePrice `json:"outcomes"`
}

// OutcomePrice is one selection with its decimal price.
type OutcomePrice struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Quota reports the API usage headers returned with every response.
type Quota struct {
	Remaining int
	Used      int
}

// apiError is the JSON body the API returns on non-2xx responses.
type apiError struct {
	Message string `json:"message"`
}

var (
	// ErrUnauthorized indicates a rejected API key.
	ErrUnauthorized = errors.New("odds api: unauthorized")

	// ErrQuotaExceeded indicates the monthly request quota is spent.
	ErrQuotaExceeded = errors.New("odds api: request quota exceeded")
)
