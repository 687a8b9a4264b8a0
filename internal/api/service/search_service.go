package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"characterhub/internal/api/dto"
	"characterhub/internal/api/repository"
	"characterhub/internal/cache"
	"characterhub/internal/catalog"
)

const (
	// searchMediaLimit caps how many matched media items get their cast
	// expanded, per media type. Each expansion costs one upstream call.
	searchMediaLimit = 5
	// searchCastLimit caps characters pulled per media item.
	searchCastLimit = 15
)

// SearchService fans a query out across the catalog adapters and merges the
// casts of matching media into one character list.
type SearchService interface {
	// Search queries by media title. mediaType narrows to one type, "" or
	// "all" searches every catalog.
	Search(ctx context.Context, query, mediaType string) (*dto.SearchResponse, error)
}

type searchService struct {
	catalogs      *catalog.Registry
	characterRepo repository.CharacterRepository
	cache         *cache.Client
}

func NewSearchService(catalogs *catalog.Registry, characterRepo repository.CharacterRepository, cacheClient *cache.Client) SearchService {
	return &searchService{catalogs: catalogs, characterRepo: characterRepo, cache: cacheClient}
}

func (s *searchService) Search(ctx context.Context, query, mediaType string) (*dto.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	if mediaType == "" {
		mediaType = "all"
	}

	key := fmt.Sprintf("search:%s:%s", mediaType, strings.ToLower(query))
	var cached dto.SearchResponse
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	var targets []string
	if mediaType == "all" {
		targets = []string{catalog.MediaTypeMovie, catalog.MediaTypeSeries, catalog.MediaTypeAnime}
	} else {
		if s.catalogs.ByMediaType(mediaType) == nil {
			return nil, fmt.Errorf("%w: unknown media type %q", ErrInvalidInput, mediaType)
		}
		targets = []string{mediaType}
	}

	var found []catalog.Character
	seen := make(map[string]bool)
	for _, mt := range targets {
		adapter := s.catalogs.ByMediaType(mt)
		if adapter == nil {
			continue
		}

		media, err := adapter.Search(ctx, query, mt)
		if err != nil {
			// One catalog being down must not empty the whole result.
			log.Warn().Err(err).Str("source", adapter.Source()).Str("media_type", mt).
				Msg("catalog search failed")
			continue
		}
		if len(media) > searchMediaLimit {
			media = media[:searchMediaLimit]
		}

		for _, m := range media {
			cast, err := adapter.ListCharacters(ctx, mt, m.ID, searchCastLimit)
			if err != nil {
				log.Warn().Err(err).Str("source", adapter.Source()).Int("media_id", m.ID).
					Msg("cast fetch failed")
				continue
			}
			for _, c := range cast {
				if seen[c.ExternalID] {
					continue
				}
				seen[c.ExternalID] = true
				found = append(found, c)
			}
		}
	}

	resp, err := s.buildResponse(ctx, found)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, resp, 5*time.Minute)
	return resp, nil
}

// buildResponse swaps in durable ids for characters that are already
// persisted. Unpersisted hits carry an ext- composite token that the resolver
// accepts later.
func (s *searchService) buildResponse(ctx context.Context, found []catalog.Character) (*dto.SearchResponse, error) {
	extIDs := make([]string, 0, len(found))
	for _, c := range found {
		extIDs = append(extIDs, c.ExternalID)
	}

	persisted, err := s.characterRepo.GetByExternalIDs(ctx, extIDs)
	if err != nil {
		return nil, fmt.Errorf("mapping persisted characters: %w", err)
	}
	durable := make(map[string]string, len(persisted))
	for _, c := range persisted {
		durable[c.Source+"|"+c.ExternalID] = c.ID
	}

	characters := make([]dto.SearchCharacter, 0, len(found))
	for _, c := range found {
		id, ok := durable[c.Source+"|"+c.ExternalID]
		if !ok {
			id = fmt.Sprintf("ext-%s-%s-%s", c.Source, c.MediaType, c.ExternalID)
		}
		characters = append(characters, dto.SearchCharacter{
			ID:          id,
			ExternalID:  c.ExternalID,
			Source:      c.Source,
			Name:        c.Name,
			Image:       c.Image,
			MediaTitle:  c.MediaTitle,
			MediaType:   c.MediaType,
			MediaID:     c.MediaID,
			ReleaseYear: c.ReleaseYear,
			MediaPoster: c.MediaPoster,
			ActorName:   c.ActorName,
			Role:        c.Role,
		})
	}

	orderOf := make(map[string]int, len(found))
	for _, c := range found {
		orderOf[c.ExternalID] = c.Order
	}
	sort.SliceStable(characters, func(i, j int) bool {
		if characters[i].MediaTitle != characters[j].MediaTitle {
			return characters[i].MediaTitle < characters[j].MediaTitle
		}
		return orderOf[characters[i].ExternalID] < orderOf[characters[j].ExternalID]
	})

	return &dto.SearchResponse{
		Characters: characters,
		Pagination: dto.Pagination{
			Page:    1,
			Limit:   len(characters),
			Total:   int64(len(characters)),
			HasMore: false,
		},
	}, nil
}
