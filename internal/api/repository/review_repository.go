package repository

import (
	"context"

	"gorm.io/gorm"

	"characterhub/internal/api/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	GetByUserAndCharacter(ctx context.Context, userID, characterID string) (*models.Review, error)
	// ListByCharacter returns reviews newest-first with author and likes
	// preloaded.
	ListByCharacter(ctx context.Context, characterID string) ([]models.Review, error)
	// ListByUser returns a user's reviews newest-first with the character
	// snapshot preloaded.
	ListByUser(ctx context.Context, userID string) ([]models.Review, error)
	// ListForStats returns only tier and created_at for a character's
	// reviews, enough for aggregation.
	ListForStats(ctx context.Context, characterID string) ([]models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Model(review).
		Updates(map[string]interface{}{
			"tier":    review.Tier,
			"comment": review.Comment,
		}).Error
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Likes").
		First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByUserAndCharacter(ctx context.Context, userID, characterID string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND character_id = ?", userID, characterID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByCharacter(ctx context.Context, characterID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("character_id = ?", characterID).
		Preload("User").
		Preload("Likes").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Character").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ListForStats(ctx context.Context, characterID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Select("tier", "created_at").
		Where("character_id = ?", characterID).
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
