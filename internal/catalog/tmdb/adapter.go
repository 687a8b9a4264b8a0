package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"characterhub/internal/catalog"
)

// Adapter normalizes TMDB movies and TV shows into the canonical catalog
// shapes. Media type "series" maps to the API's "tv" namespace.
type Adapter struct {
	client *Client
}

// NewAdapter wraps a TMDB client as a catalog.Adapter.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) Source() string {
	return catalog.SourceTMDB
}

func (a *Adapter) MediaTypes() []string {
	return []string{catalog.MediaTypeMovie, catalog.MediaTypeSeries}
}

func (a *Adapter) ListTrending(ctx context.Context, mediaType string, page int) ([]catalog.Media, error) {
	apiType, err := apiTypeFor(mediaType)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.GetMediaList(ctx, fmt.Sprintf("/trending/%s/week", apiType), pageParams(page))
	if err != nil {
		return nil, err
	}
	return a.normalizeMedia(resp.Results, mediaType), nil
}

func (a *Adapter) ListPopular(ctx context.Context, mediaType string, page int) ([]catalog.Media, error) {
	apiType, err := apiTypeFor(mediaType)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.GetMediaList(ctx, fmt.Sprintf("/%s/popular", apiType), pageParams(page))
	if err != nil {
		return nil, err
	}
	return a.normalizeMedia(resp.Results, mediaType), nil
}

func (a *Adapter) ListTopRated(ctx context.Context, mediaType string, page int) ([]catalog.Media, error) {
	apiType, err := apiTypeFor(mediaType)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.GetMediaList(ctx, fmt.Sprintf("/%s/top_rated", apiType), pageParams(page))
	if err != nil {
		return nil, err
	}
	return a.normalizeMedia(resp.Results, mediaType), nil
}

func (a *Adapter) Search(ctx context.Context, query, mediaType string) ([]catalog.Media, error) {
	apiType, err := apiTypeFor(mediaType)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("query", query)
	resp, err := a.client.GetMediaList(ctx, fmt.Sprintf("/search/%s", apiType), params)
	if err != nil {
		return nil, err
	}
	return a.normalizeMedia(resp.Results, mediaType), nil
}

// ListCharacters fetches the cast and media details for one movie or show and
// normalizes them in credit order.
func (a *Adapter) ListCharacters(ctx context.Context, mediaType string, mediaID, limit int) ([]catalog.Character, error) {
	apiType, err := apiTypeFor(mediaType)
	if err != nil {
		return nil, err
	}

	credits, err := a.client.GetCredits(ctx, apiType, mediaID)
	if err != nil {
		return nil, err
	}
	media, err := a.client.GetMedia(ctx, apiType, mediaID)
	if err != nil {
		return nil, err
	}

	cast := make([]CastMember, len(credits.Cast))
	copy(cast, credits.Cast)
	sort.SliceStable(cast, func(i, j int) bool { return cast[i].Order < cast[j].Order })
	if limit > 0 && len(cast) > limit {
		cast = cast[:limit]
	}

	title := media.Title
	if title == "" {
		title = media.Name
	}
	releaseDate := media.ReleaseDate
	if releaseDate == "" {
		releaseDate = media.FirstAirDate
	}
	year := releaseYear(releaseDate)
	poster := imageURL(media.PosterPath)

	characters := make([]catalog.Character, 0, len(cast))
	for _, member := range cast {
		// Uncredited cast entries can have an empty character name
		name := member.Character
		if name == "" {
			name = member.Name
		}
		actorName := member.Name
		characters = append(characters, catalog.Character{
			ExternalID:  fmt.Sprintf("tmdb-%s-%d-%d", apiType, mediaID, member.ID),
			Source:      catalog.SourceTMDB,
			Name:        name,
			Image:       imageURL(member.ProfilePath),
			MediaTitle:  title,
			MediaType:   mediaType,
			MediaID:     strconv.Itoa(mediaID),
			ReleaseYear: year,
			MediaPoster: poster,
			ActorName:   &actorName,
			Order:       member.Order,
		})
	}

	return characters, nil
}

func (a *Adapter) normalizeMedia(items []MediaItem, mediaType string) []catalog.Media {
	out := make([]catalog.Media, 0, len(items))
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = item.Name
		}
		releaseDate := item.ReleaseDate
		if releaseDate == "" {
			releaseDate = item.FirstAirDate
		}
		out = append(out, catalog.Media{
			ID:          item.ID,
			Title:       title,
			MediaType:   mediaType,
			Poster:      imageURL(item.PosterPath),
			ReleaseYear: releaseYear(releaseDate),
		})
	}
	return out
}

// apiTypeFor maps the canonical media type onto TMDB's URL namespace.
func apiTypeFor(mediaType string) (string, error) {
	switch mediaType {
	case catalog.MediaTypeMovie:
		return "movie", nil
	case catalog.MediaTypeSeries:
		return "tv", nil
	default:
		return "", fmt.Errorf("tmdb does not serve media type %q", mediaType)
	}
}

func pageParams(page int) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	return params
}

func imageURL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	full := imageBaseURL + "/w500" + *path
	return &full
}

// releaseYear extracts the year from a YYYY-MM-DD date string.
func releaseYear(date string) *int {
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}
