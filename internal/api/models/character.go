package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media source catalogs
const (
	SourceTMDB  = "tmdb"
	SourceJikan = "jikan"
)

// Media types
const (
	MediaTypeMovie  = "movie"
	MediaTypeSeries = "series"
	MediaTypeAnime  = "anime"
)

// Character is one fictional character tied to one media work. Rows are
// created lazily (bulk sync or first reference) and never deleted.
type Character struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalID     string    `gorm:"column:external_id;not null;uniqueIndex:idx_characters_external_source" json:"externalId"`
	Source         string    `gorm:"not null;uniqueIndex:idx_characters_external_source" json:"source"`
	Name           string    `gorm:"not null" json:"name"`
	Image          *string   `json:"image,omitempty"`
	Description    *string   `gorm:"type:text" json:"description,omitempty"`
	MediaTitle     string    `gorm:"column:media_title;not null" json:"mediaTitle"`
	MediaType      string    `gorm:"column:media_type;not null;index" json:"mediaType"`
	MediaID        string    `gorm:"column:media_id;not null" json:"mediaId"`
	ReleaseYear    *int      `gorm:"column:release_year" json:"releaseYear,omitempty"`
	MediaPoster    *string   `gorm:"column:media_poster" json:"mediaPoster,omitempty"`
	ActorName      *string   `gorm:"column:actor_name" json:"actorName,omitempty"`
	TrendingScore  float64   `gorm:"column:trending_score;not null;default:0;index" json:"trendingScore"`
	LastActivityAt time.Time `gorm:"column:last_activity_at" json:"lastActivityAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BeforeCreate hook to set UUID before creating a Character
func (c *Character) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (Character) TableName() string {
	return "characters"
}
