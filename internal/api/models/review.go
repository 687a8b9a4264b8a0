package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating tiers, ordered best to worst
const (
	TierGoat      = "goat"
	TierGod       = "god"
	TierEnjoyable = "enjoyable"
	TierMediocre  = "mediocre"
	TierWeak      = "weak"
)

// Tiers lists every tier in display order. Aggregations zero-fill from it.
var Tiers = []string{TierGoat, TierGod, TierEnjoyable, TierMediocre, TierWeak}

// ValidTier reports whether t is one of the five rating tiers.
func ValidTier(t string) bool {
	for _, tier := range Tiers {
		if tier == t {
			return true
		}
	}
	return false
}

// Review is a user's tiered rating of a character. One row per
// (user, character); resubmission updates in place.
type Review struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_reviews_user_character" json:"userId"`
	CharacterID string    `gorm:"column:character_id;type:uuid;not null;uniqueIndex:idx_reviews_user_character;index" json:"characterId"`
	Tier        string    `gorm:"not null" json:"tier"`
	Comment     string    `gorm:"not null;type:text" json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Associations
	User      User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Character Character    `gorm:"foreignKey:CharacterID;constraint:OnDelete:CASCADE;" json:"character,omitempty"`
	Likes     []ReviewLike `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE;" json:"likes,omitempty"`
}

// BeforeCreate hook to set UUID before creating a Review
func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (Review) TableName() string {
	return "reviews"
}
