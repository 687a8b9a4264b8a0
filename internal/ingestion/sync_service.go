package ingestion

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"characterhub/internal/api/models"
	"characterhub/internal/api/repository"
	"characterhub/internal/cache"
	"characterhub/internal/catalog"
)

// castLimit caps characters ingested per media item during a sync pass.
const castLimit = 20

// SyncService pulls the current trending and popular media from every
// registered catalog and upserts their casts in one batch.
type SyncService struct {
	catalogs      *catalog.Registry
	characterRepo repository.CharacterRepository
	cache         *cache.Client

	mediaLimit  int // max media items per media type, per pass
	workerCount int
}

type SyncConfig struct {
	MediaLimit  int
	WorkerCount int
}

// SyncReport summarizes one sync pass.
type SyncReport struct {
	MediaQueued        int           `json:"mediaQueued"`
	MediaFailed        int           `json:"mediaFailed"`
	CharactersUpserted int           `json:"charactersUpserted"`
	Duration           time.Duration `json:"-"`
	DurationMillis     int64         `json:"durationMillis"`
}

func NewSyncService(
	catalogs *catalog.Registry,
	characterRepo repository.CharacterRepository,
	cacheClient *cache.Client,
	cfg SyncConfig,
) *SyncService {
	if cfg.MediaLimit < 1 {
		cfg.MediaLimit = 15
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 5
	}
	return &SyncService{
		catalogs:      catalogs,
		characterRepo: characterRepo,
		cache:         cacheClient,
		mediaLimit:    cfg.MediaLimit,
		workerCount:   cfg.WorkerCount,
	}
}

// mediaPass names one upstream listing to pull during a sync.
type mediaPass struct {
	mediaType string
	list      string // "trending", "popular", "top"
	page      int
}

// syncPasses covers the discovery surface: a couple of pages of what is
// currently hot, padded with all-time popular and top-rated titles so the
// index is not empty right after a deploy.
var syncPasses = []mediaPass{
	{catalog.MediaTypeMovie, "trending", 1},
	{catalog.MediaTypeMovie, "trending", 2},
	{catalog.MediaTypeSeries, "trending", 1},
	{catalog.MediaTypeSeries, "trending", 2},
	{catalog.MediaTypeMovie, "popular", 1},
	{catalog.MediaTypeSeries, "popular", 1},
	{catalog.MediaTypeMovie, "top", 1},
	{catalog.MediaTypeAnime, "trending", 1},
	{catalog.MediaTypeAnime, "popular", 1},
	{catalog.MediaTypeAnime, "popular", 2},
}

// SyncAll runs one full sync pass and reports what it did. Individual media
// failures are skipped; the pass only errors when the final upsert fails.
func (s *SyncService) SyncAll(ctx context.Context) (*SyncReport, error) {
	start := time.Now()
	media := s.collectMedia(ctx)

	var (
		mu         sync.Mutex
		characters []models.Character
		failed     int
	)

	pool := NewWorkerPool(ctx, s.workerCount)
	pool.Start()
	for _, m := range media {
		m := m
		adapter := s.catalogs.ByMediaType(m.MediaType)
		if adapter == nil {
			continue
		}
		pool.Submit(func(ctx context.Context) error {
			cast, err := adapter.ListCharacters(ctx, m.MediaType, m.ID, castLimit)
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				return fmt.Errorf("cast of %s %d: %w", m.MediaType, m.ID, err)
			}
			rows := make([]models.Character, 0, len(cast))
			now := time.Now()
			for _, c := range cast {
				rows = append(rows, models.Character{
					ExternalID:     c.ExternalID,
					Source:         c.Source,
					Name:           c.Name,
					Image:          c.Image,
					MediaTitle:     c.MediaTitle,
					MediaType:      c.MediaType,
					MediaID:        c.MediaID,
					ReleaseYear:    c.ReleaseYear,
					MediaPoster:    c.MediaPoster,
					ActorName:      c.ActorName,
					TrendingScore:  rand.Float64() * 100,
					LastActivityAt: now,
				})
			}
			mu.Lock()
			characters = append(characters, rows...)
			mu.Unlock()
			return nil
		})
	}
	pool.Wait()

	characters = dedupeByExternal(characters)
	if err := s.characterRepo.UpsertBatch(ctx, characters); err != nil {
		return nil, fmt.Errorf("upserting characters: %w", err)
	}
	s.cache.Invalidate(ctx, "characters:*")

	report := &SyncReport{
		MediaQueued:        len(media),
		MediaFailed:        failed,
		CharactersUpserted: len(characters),
		Duration:           time.Since(start),
	}
	report.DurationMillis = report.Duration.Milliseconds()

	log.Info().
		Int("media_queued", report.MediaQueued).
		Int("media_failed", report.MediaFailed).
		Int("characters", report.CharactersUpserted).
		Dur("duration", report.Duration).
		Msg("catalog sync completed")
	return report, nil
}

// collectMedia runs every sync pass, deduplicates, and caps each media type
// at the configured limit. A failed listing is logged and skipped.
func (s *SyncService) collectMedia(ctx context.Context) []catalog.Media {
	var out []catalog.Media
	perType := make(map[string]int)
	seen := make(map[string]bool)

	for _, pass := range syncPasses {
		adapter := s.catalogs.ByMediaType(pass.mediaType)
		if adapter == nil {
			continue
		}

		var (
			media []catalog.Media
			err   error
		)
		switch pass.list {
		case "popular":
			media, err = adapter.ListPopular(ctx, pass.mediaType, pass.page)
		case "top":
			media, err = adapter.ListTopRated(ctx, pass.mediaType, pass.page)
		default:
			media, err = adapter.ListTrending(ctx, pass.mediaType, pass.page)
		}
		if err != nil {
			log.Warn().Err(err).
				Str("media_type", pass.mediaType).
				Str("list", pass.list).
				Int("page", pass.page).
				Msg("media listing failed")
			continue
		}

		for _, m := range media {
			key := fmt.Sprintf("%s:%d", m.MediaType, m.ID)
			if seen[key] || perType[m.MediaType] >= s.mediaLimit {
				continue
			}
			seen[key] = true
			perType[m.MediaType]++
			out = append(out, m)
		}
	}
	return out
}

// dedupeByExternal keeps the first occurrence of each (source, external id)
// pair. The same character can surface from overlapping listings.
func dedupeByExternal(characters []models.Character) []models.Character {
	seen := make(map[string]bool, len(characters))
	out := characters[:0]
	for _, c := range characters {
		key := c.Source + "|" + c.ExternalID
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
