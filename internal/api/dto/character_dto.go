package dto

import (
	"time"

	"characterhub/internal/api/models"
)

// CharacterResponse is the wire shape of one persisted character.
type CharacterResponse struct {
	ID          string  `json:"id"`
	ExternalID  string  `json:"externalId"`
	Source      string  `json:"source"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	Description *string `json:"description"`
	MediaTitle  string  `json:"mediaTitle"`
	MediaType   string  `json:"mediaType"`
	MediaID     string  `json:"mediaId"`
	ReleaseYear *int    `json:"releaseYear"`
	MediaPoster *string `json:"mediaPoster"`
	ActorName   *string `json:"actorName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CharacterStats aggregates the review set of one character. All five tier
// keys are always present, zero-filled.
type CharacterStats struct {
	TotalRatings     int            `json:"totalRatings"`
	TierDistribution map[string]int `json:"tierDistribution"`
	TrendingScore    float64        `json:"trendingScore"`
	RecentActivity   int            `json:"recentActivity"`
}

// CharacterDetailResponse is the GET /characters/:id envelope.
type CharacterDetailResponse struct {
	Character CharacterResponse `json:"character"`
	Stats     CharacterStats    `json:"stats"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

// CharacterListResponse is the GET /characters envelope.
type CharacterListResponse struct {
	Characters []CharacterResponse `json:"characters"`
	Pagination Pagination          `json:"pagination"`
}

// FromModelToCharacterResponse maps a Character row to its wire shape.
func FromModelToCharacterResponse(c *models.Character) CharacterResponse {
	return CharacterResponse{
		ID:          c.ID,
		ExternalID:  c.ExternalID,
		Source:      c.Source,
		Name:        c.Name,
		Image:       c.Image,
		Description: c.Description,
		MediaTitle:  c.MediaTitle,
		MediaType:   c.MediaType,
		MediaID:     c.MediaID,
		ReleaseYear: c.ReleaseYear,
		MediaPoster: c.MediaPoster,
		ActorName:   c.ActorName,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NewTierDistribution returns a zero-filled tier counter.
func NewTierDistribution() map[string]int {
	dist := make(map[string]int, len(models.Tiers))
	for _, tier := range models.Tiers {
		dist[tier] = 0
	}
	return dist
}
