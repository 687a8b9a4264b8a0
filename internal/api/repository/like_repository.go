package repository

import (
	"context"

	"gorm.io/gorm"

	"characterhub/internal/api/models"
)

type LikeRepository interface {
	Get(ctx context.Context, reviewID, userID string) (*models.ReviewLike, error)
	Create(ctx context.Context, like *models.ReviewLike) error
	Delete(ctx context.Context, reviewID, userID string) error
	CountByReview(ctx context.Context, reviewID string) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Get(ctx context.Context, reviewID, userID string) (*models.ReviewLike, error) {
	var like models.ReviewLike
	if err := r.db.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		First(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) Create(ctx context.Context, like *models.ReviewLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *likeRepository) Delete(ctx context.Context, reviewID, userID string) error {
	return r.db.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Delete(&models.ReviewLike{}).Error
}

func (r *likeRepository) CountByReview(ctx context.Context, reviewID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReviewLike{}).
		Where("review_id = ?", reviewID).
		Count(&count).Error
	return count, err
}
