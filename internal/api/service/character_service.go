package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"characterhub/internal/api/dto"
	"characterhub/internal/api/models"
	"characterhub/internal/api/repository"
	"characterhub/internal/cache"
	"characterhub/internal/catalog"
)

// CharacterService resolves character references and serves listings and
// per-character aggregates.
type CharacterService interface {
	// Resolve maps any accepted reference form to a persisted row, creating
	// the row from the upstream catalog when an ext- token names a character
	// not seen before.
	Resolve(ctx context.Context, ref string) (*models.Character, error)
	GetWithStats(ctx context.Context, ref string) (*dto.CharacterDetailResponse, error)
	List(ctx context.Context, filter repository.CharacterFilter) (*dto.CharacterListResponse, error)
	// StatsFor aggregates the review set of one persisted character.
	StatsFor(ctx context.Context, character *models.Character) (dto.CharacterStats, error)
}

type characterService struct {
	characterRepo repository.CharacterRepository
	reviewRepo    repository.ReviewRepository
	catalogs      *catalog.Registry
	cache         *cache.Client
}

func NewCharacterService(
	characterRepo repository.CharacterRepository,
	reviewRepo repository.ReviewRepository,
	catalogs *catalog.Registry,
	cacheClient *cache.Client,
) CharacterService {
	return &characterService{
		characterRepo: characterRepo,
		reviewRepo:    reviewRepo,
		catalogs:      catalogs,
		cache:         cacheClient,
	}
}

func (s *characterService) Resolve(ctx context.Context, raw string) (*models.Character, error) {
	ref, err := ParseCharacterRef(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, err)
	}

	if ref.Kind == RefDurable {
		character, err := s.characterRepo.GetByID(ctx, ref.ID)
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("fetching character %s: %w", ref.ID, err)
		}
		return character, nil
	}

	character, err := s.characterRepo.GetByExternal(ctx, ref.ExternalID, ref.Source)
	if err == nil {
		return character, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("fetching character %s/%s: %w", ref.Source, ref.ExternalID, err)
	}

	// Raw external ids carry no media-type context, so there is nothing to
	// refetch from. Only ext- tokens trigger lazy creation.
	if ref.MediaType == "" {
		return nil, ErrNotFound
	}
	return s.createFromCatalog(ctx, ref)
}

// createFromCatalog refetches the cast of the media item named inside an
// external id and persists the matching character. A unique violation on
// insert means a concurrent request won the race; the existing row is
// returned so both callers converge on the same durable id.
func (s *characterService) createFromCatalog(ctx context.Context, ref CharacterRef) (*models.Character, error) {
	adapter := s.catalogs.BySource(ref.Source)
	if adapter == nil {
		return nil, ErrNotFound
	}

	mediaID, err := MediaIDFromExternal(ref.Source, ref.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, err)
	}

	cast, err := adapter.ListCharacters(ctx, ref.MediaType, mediaID, 0)
	if err != nil {
		log.Warn().Err(err).
			Str("source", ref.Source).
			Int("media_id", mediaID).
			Msg("catalog refetch failed")
		return nil, ErrNotFound
	}

	var match *catalog.Character
	for i := range cast {
		if cast[i].ExternalID == ref.ExternalID {
			match = &cast[i]
			break
		}
	}
	if match == nil {
		return nil, ErrNotFound
	}

	character := &models.Character{
		ExternalID:     match.ExternalID,
		Source:         match.Source,
		Name:           match.Name,
		Image:          match.Image,
		MediaTitle:     match.MediaTitle,
		MediaType:      match.MediaType,
		MediaID:        match.MediaID,
		ReleaseYear:    match.ReleaseYear,
		MediaPoster:    match.MediaPoster,
		ActorName:      match.ActorName,
		TrendingScore:  rand.Float64() * 100,
		LastActivityAt: time.Now(),
	}

	if err := s.characterRepo.Create(ctx, character); err != nil {
		if repository.IsUniqueViolation(err) {
			return s.characterRepo.GetByExternal(ctx, ref.ExternalID, ref.Source)
		}
		return nil, fmt.Errorf("creating character %s: %w", ref.ExternalID, err)
	}

	log.Info().
		Str("character_id", character.ID).
		Str("external_id", character.ExternalID).
		Str("source", character.Source).
		Msg("character created on demand")
	return character, nil
}

func (s *characterService) GetWithStats(ctx context.Context, ref string) (*dto.CharacterDetailResponse, error) {
	character, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	stats, err := s.StatsFor(ctx, character)
	if err != nil {
		return nil, err
	}

	return &dto.CharacterDetailResponse{
		Character: dto.FromModelToCharacterResponse(character),
		Stats:     stats,
	}, nil
}

func (s *characterService) StatsFor(ctx context.Context, character *models.Character) (dto.CharacterStats, error) {
	reviews, err := s.reviewRepo.ListForStats(ctx, character.ID)
	if err != nil {
		return dto.CharacterStats{}, fmt.Errorf("aggregating reviews for %s: %w", character.ID, err)
	}

	dist := dto.NewTierDistribution()
	recent := 0
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, r := range reviews {
		dist[r.Tier]++
		if r.CreatedAt.After(cutoff) {
			recent++
		}
	}

	return dto.CharacterStats{
		TotalRatings:     len(reviews),
		TierDistribution: dist,
		TrendingScore:    character.TrendingScore,
		RecentActivity:   recent,
	}, nil
}

func (s *characterService) List(ctx context.Context, filter repository.CharacterFilter) (*dto.CharacterListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	key := fmt.Sprintf("characters:%s:%s:%d:%d", filter.MediaType, filter.Sort, filter.Page, filter.Limit)
	var cached dto.CharacterListResponse
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	characters, total, err := s.characterRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}

	out := make([]dto.CharacterResponse, 0, len(characters))
	for i := range characters {
		out = append(out, dto.FromModelToCharacterResponse(&characters[i]))
	}

	resp := &dto.CharacterListResponse{
		Characters: out,
		Pagination: dto.Pagination{
			Page:    filter.Page,
			Limit:   filter.Limit,
			Total:   total,
			HasMore: int64(filter.Page*filter.Limit) < total,
		},
	}
	s.cache.SetJSON(ctx, key, resp, 5*time.Minute)
	return resp, nil
}
