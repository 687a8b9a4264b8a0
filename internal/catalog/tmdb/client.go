package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p"

	// Rate limiting: TMDB allows roughly 40 requests per 10 seconds
	rateLimit = 4
	rateBurst = 8

	// Retry configuration
	maxRetries   = 5
	initialDelay = 1 * time.Second
	maxDelay     = 32 * time.Second
)

// Client handles TMDB API requests with rate limiting and retry logic
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new TMDB API client. baseURL may be empty to use the
// public API endpoint.
func NewClient(baseURL, accessToken string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// GetMediaList fetches a paginated media list (trending, popular, top rated,
// search) from the given endpoint.
func (c *Client) GetMediaList(ctx context.Context, endpoint string, params url.Values) (*MediaListResponse, error) {
	var response MediaListResponse
	if err := c.doRequest(ctx, endpoint, params, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch media list: %w", err)
	}
	return &response, nil
}

// GetMedia fetches details for one movie or TV show.
func (c *Client) GetMedia(ctx context.Context, apiType string, mediaID int) (*MediaItem, error) {
	var response MediaItem
	endpoint := fmt.Sprintf("/%s/%d", apiType, mediaID)
	if err := c.doRequest(ctx, endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch media %d: %w", mediaID, err)
	}
	return &response, nil
}

// GetCredits fetches the cast for one movie or TV show.
func (c *Client) GetCredits(ctx context.Context, apiType string, mediaID int) (*CreditsResponse, error) {
	var response CreditsResponse
	endpoint := fmt.Sprintf("/%s/%d/credits", apiType, mediaID)
	if err := c.doRequest(ctx, endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch credits for %d: %w", mediaID, err)
	}
	return &response, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if c.accessToken == "" {
		return fmt.Errorf("TMDB access token is not configured")
	}

	fullURL := c.baseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Rate limit
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.accessToken))
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				log.Warn().Str("component", "tmdb").Err(err).
					Int("attempt", attempt+1).Dur("delay", delay).
					Msg("request failed, retrying")
				time.Sleep(delay)
				delay = minDuration(delay*2, maxDelay)
				continue
			}
			return fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
		}

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			if shouldRetry(resp.StatusCode) && attempt < maxRetries {
				lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))

				// Honor Retry-After if upstream provides one
				if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
					if retryDuration, err := time.ParseDuration(retryAfter + "s"); err == nil {
						delay = retryDuration
					}
				}

				log.Warn().Str("component", "tmdb").
					Int("status", resp.StatusCode).Int("attempt", attempt+1).
					Dur("delay", delay).Msg("retrying")
				time.Sleep(delay)
				delay = minDuration(delay*2, maxDelay)
				continue
			}

			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		return nil
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

// shouldRetry determines if an HTTP status code warrants a retry
func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || // 429
		statusCode >= 500 // 500-504
}

// minDuration returns the smaller of two durations
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
