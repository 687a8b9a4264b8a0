package jikan

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"characterhub/internal/catalog"
)

// Adapter normalizes Jikan anime into the canonical catalog shapes. Trending
// maps to the current season, popular and top rated both map to the ranked
// top list (Jikan has no separate popularity feed).
type Adapter struct {
	client *Client
}

// NewAdapter wraps a Jikan client as a catalog.Adapter.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) Source() string {
	return catalog.SourceJikan
}

func (a *Adapter) MediaTypes() []string {
	return []string{catalog.MediaTypeAnime}
}

func (a *Adapter) ListTrending(ctx context.Context, mediaType string, page int) ([]catalog.Media, error) {
	if err := checkMediaType(mediaType); err != nil {
		return nil, err
	}
	anime, err := a.client.GetSeasonalAnime(ctx)
	if err != nil {
		return nil, err
	}
	return normalizeAnimeList(anime), nil
}

func (a *Adapter) ListPopular(ctx context.Context, mediaType string, page int) ([]catalog.Media, error) {
	if err := checkMediaType(mediaType); err != nil {
		return nil, err
	}
	anime, err := a.client.GetTopAnime(ctx, page)
	if err != nil {
		return nil, err
	}
	return normalizeAnimeList(anime), nil
}

func (a *Adapter) ListTopRated(ctx context.Context, mediaType string, page int) ([]catalog.Media, error) {
	return a.ListPopular(ctx, mediaType, page)
}

func (a *Adapter) Search(ctx context.Context, query, mediaType string) ([]catalog.Media, error) {
	if err := checkMediaType(mediaType); err != nil {
		return nil, err
	}
	anime, err := a.client.SearchAnime(ctx, query)
	if err != nil {
		return nil, err
	}
	return normalizeAnimeList(anime), nil
}

// ListCharacters fetches the roster and anime details and normalizes them
// with main-role characters first, preserving roster order within each role.
func (a *Adapter) ListCharacters(ctx context.Context, mediaType string, mediaID, limit int) ([]catalog.Character, error) {
	if err := checkMediaType(mediaType); err != nil {
		return nil, err
	}

	entries, err := a.client.GetAnimeCharacters(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	anime, err := a.client.GetAnime(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	sorted := make([]CharacterEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Role == "Main" && sorted[j].Role != "Main"
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	year := anime.Year
	if year == nil {
		year = anime.Aired.Prop.From.Year
	}
	var poster *string
	if anime.Images.JPG.LargeImageURL != "" {
		p := anime.Images.JPG.LargeImageURL
		poster = &p
	}

	characters := make([]catalog.Character, 0, len(sorted))
	for i, entry := range sorted {
		var image *string
		if entry.Character.Images.JPG.ImageURL != "" {
			img := entry.Character.Images.JPG.ImageURL
			image = &img
		}
		role := entry.Role
		characters = append(characters, catalog.Character{
			ExternalID:  fmt.Sprintf("jikan-%d-%d", mediaID, entry.Character.MalID),
			Source:      catalog.SourceJikan,
			Name:        entry.Character.Name,
			Image:       image,
			MediaTitle:  anime.Title,
			MediaType:   catalog.MediaTypeAnime,
			MediaID:     strconv.Itoa(mediaID),
			ReleaseYear: year,
			MediaPoster: poster,
			Role:        &role,
			Order:       i,
		})
	}

	return characters, nil
}

func normalizeAnimeList(anime []Anime) []catalog.Media {
	out := make([]catalog.Media, 0, len(anime))
	for _, a := range anime {
		year := a.Year
		if year == nil {
			year = a.Aired.Prop.From.Year
		}
		var poster *string
		if a.Images.JPG.LargeImageURL != "" {
			p := a.Images.JPG.LargeImageURL
			poster = &p
		}
		out = append(out, catalog.Media{
			ID:          a.MalID,
			Title:       a.Title,
			MediaType:   catalog.MediaTypeAnime,
			Poster:      poster,
			ReleaseYear: year,
		})
	}
	return out
}

func checkMediaType(mediaType string) error {
	if mediaType != catalog.MediaTypeAnime {
		return fmt.Errorf("jikan does not serve media type %q", mediaType)
	}
	return nil
}
