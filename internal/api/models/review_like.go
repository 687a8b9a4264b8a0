package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewLike records that a user liked a review. The composite unique index
// is what makes toggle races safe: duplicate inserts fail instead of piling up.
type ReviewLike struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	ReviewID  string    `gorm:"column:review_id;type:uuid;not null;uniqueIndex:idx_review_likes_review_user" json:"reviewId"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_review_likes_review_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate hook to set UUID before creating a ReviewLike
func (l *ReviewLike) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return
}

func (ReviewLike) TableName() string {
	return "review_likes"
}
