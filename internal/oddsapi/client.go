package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/NeilMac555/odds-tracker/internal/config"
)

// Client fetches h2h odds from the-odds-api.
type Client struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	regions    string
	bookmaker  string
	logger     *logrus.Logger
}

// NewClient creates a Client from the odds API configuration.
func NewClient(cfg *config.OddsAPIConfig, logger *logrus.Logger) *Client {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.RateLimitPerSecond > 0 {
		httpCfg.RateLimit = cfg.RateLimitPerSecond
	}

	return &Client{
		httpClient: NewRateLimitedHTTPClient(httpCfg, logger),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		regions:    cfg.Regions,
		bookmaker:  cfg.ReferenceBookmaker,
		logger:     logger,
	}
}

// FetchLeagueOdds retrieves the current h2h prices for every upcoming event
// in one league, restricted to the reference bookmaker. The returned Quota
// reflects the usage headers on the response.
func (c *Client) FetchLeagueOdds(ctx context.Context, leagueKey string) ([]Event, Quota, error) {
	endpoint := fmt.Sprintf("%s/sports/%s/odds", c.baseURL, url.PathEscape(leagueKey))

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", c.regions)
	params.Set("markets", "h2h")
	params.Set("oddsFormat", "decimal")
	params.Set("bookmakers", c.bookmaker)

	resp, err := c.httpClient.Get(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, Quota{}, fmt.Errorf("failed to fetch odds for %s: %w", leagueKey, err)
	}
	defer resp.Body.Close()

	quota := quotaFromHeaders(resp.Header)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, quota, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, quota, ErrQuotaExceeded
	default:
		var apiErr apiError
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, quota, fmt.Errorf("odds api: status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return nil, quota, fmt.Errorf("odds api: unexpected status %d", resp.StatusCode)
	}

	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, quota, fmt.Errorf("failed to parse odds response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"league":          leagueKey,
		"events":          len(events),
		"quota_remaining": quota.Remaining,
	}).Debug("Fetched league odds")

	return events, quota, nil
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

func quotaFromHeaders(h http.Header) Quota {
	var q Quota
	if v, err := strconv.Atoi(h.Get("X-Requests-Remaining")); err == nil {
		q.Remaining = v
	}
	if v, err := strconv.Atoi(h.Get("X-Requests-Used")); err == nil {
		q.Used = v
	}
	return q
}
