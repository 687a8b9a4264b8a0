package jikan

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
	defaultBaseURL = "https://api.jikan.moe/v4"

	// Rate limiting: Jikan allows 3 requests per second, 60 per minute
	rateLimit = 1
	rateBurst = 3

	// Retry configuration. Jikan rate-limits aggressively, so a 429 waits a
	// flat second before retrying instead of backing off exponentially.
	maxRetries     = 5
	rateLimitDelay = 1 * time.Second
	serverErrDelay = 2 * time.Second
)

// Client handles Jikan (MyAnimeList) API requests with rate limiting
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new Jikan API client. baseURL may be empty to use the
// public API endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
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

// GetAnime fetches details for one anime.
func (c *Client) GetAnime(ctx context.Context, animeID int) (*Anime, error) {
	var response animeResponse
	endpoint := fmt.Sprintf("/anime/%d", animeID)
	if err := c.doRequest(ctx, endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch anime %d: %w", animeID, err)
	}
	return &response.Data, nil
}

// GetAnimeCharacters fetches the character roster for one anime.
func (c *Client) GetAnimeCharacters(ctx context.Context, animeID int) ([]CharacterEntry, error) {
	var response charactersResponse
	endpoint := fmt.Sprintf("/anime/%d/characters", animeID)
	if err := c.doRequest(ctx, endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch characters for anime %d: %w", animeID, err)
	}
	return response.Data, nil
}

// GetTopAnime fetches the ranked top anime list.
func (c *Client) GetTopAnime(ctx context.Context, page int) ([]Anime, error) {
	var response animeListResponse
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))
	if err := c.doRequest(ctx, "/top/anime", params, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch top anime: %w", err)
	}
	return response.Data, nil
}

// GetSeasonalAnime fetches the current season's anime.
func (c *Client) GetSeasonalAnime(ctx context.Context) ([]Anime, error) {
	now := time.Now()
	seasons := []string{"winter", "spring", "summer", "fall"}
	season := seasons[int(now.Month()-1)/3]

	var response animeListResponse
	endpoint := fmt.Sprintf("/seasons/%d/%s", now.Year(), season)
	if err := c.doRequest(ctx, endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch seasonal anime: %w", err)
	}
	return response.Data, nil
}

// SearchAnime searches anime by title.
func (c *Client) SearchAnime(ctx context.Context, query string) ([]Anime, error) {
	var response animeListResponse
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "20")
	if err := c.doRequest(ctx, "/anime", params, &response); err != nil {
		return nil, fmt.Errorf("failed to search anime: %w", err)
	}
	return response.Data, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	fullURL := c.baseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Rate limit
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				log.Warn().Str("component", "jikan").Err(err).
					Int("attempt", attempt+1).Msg("request failed, retrying")
				time.Sleep(serverErrDelay)
				continue
			}
			return fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
		}

		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))

			if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries {
				log.Warn().Str("component", "jikan").
					Int("attempt", attempt+1).Msg("rate limited, waiting")
				time.Sleep(rateLimitDelay)
				continue
			}
			if resp.StatusCode >= 500 && attempt < maxRetries {
				log.Warn().Str("component", "jikan").
					Int("status", resp.StatusCode).Int("attempt", attempt+1).
					Msg("server error, retrying")
				time.Sleep(serverErrDelay)
				continue
			}

			return lastErr
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
