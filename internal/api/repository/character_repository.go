package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"characterhub/internal/api/models"
)

// CharacterFilter narrows and orders a character listing.
type CharacterFilter struct {
	MediaType string // "movie", "series", "anime" or "" for all
	Sort      string // "trending", "recent"
	Page      int
	Limit     int
}

type CharacterRepository interface {
	Create(ctx context.Context, character *models.Character) error
	GetByID(ctx context.Context, id string) (*models.Character, error)
	GetByExternal(ctx context.Context, externalID, source string) (*models.Character, error)
	GetByExternalIDs(ctx context.Context, externalIDs []string) ([]models.Character, error)
	List(ctx context.Context, filter CharacterFilter) ([]models.Character, int64, error)
	UpsertBatch(ctx context.Context, characters []models.Character) error
	IncrementTrending(ctx context.Context, id string, delta float64) error
}

type characterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) Create(ctx context.Context, character *models.Character) error {
	return r.db.WithContext(ctx).Create(character).Error
}

func (r *characterRepository) GetByID(ctx context.Context, id string) (*models.Character, error) {
	var character models.Character
	if err := r.db.WithContext(ctx).First(&character, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &character, nil
}

func (r *characterRepository) GetByExternal(ctx context.Context, externalID, source string) (*models.Character, error) {
	var character models.Character
	if err := r.db.WithContext(ctx).
		Where("external_id = ? AND source = ?", externalID, source).
		First(&character).Error; err != nil {
		return nil, err
	}
	return &character, nil
}

func (r *characterRepository) GetByExternalIDs(ctx context.Context, externalIDs []string) ([]models.Character, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}
	var characters []models.Character
	if err := r.db.WithContext(ctx).
		Where("external_id IN ?", externalIDs).
		Find(&characters).Error; err != nil {
		return nil, err
	}
	return characters, nil
}

// List returns one page of characters plus the unpaginated total.
func (r *characterRepository) List(ctx context.Context, filter CharacterFilter) ([]models.Character, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Character{})

	if filter.MediaType != "" && filter.MediaType != "all" {
		query = query.Where("media_type = ?", filter.MediaType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "recent":
		query = query.Order("created_at DESC")
	default: // trending
		query = query.Order("trending_score DESC").Order("last_activity_at DESC")
	}

	offset := (filter.Page - 1) * filter.Limit
	var characters []models.Character
	if err := query.Limit(filter.Limit).Offset(offset).Find(&characters).Error; err != nil {
		return nil, 0, err
	}

	return characters, total, nil
}

// UpsertBatch inserts characters, updating mutable catalog fields on conflict
// of (external_id, source). Trending score and activity are left untouched
// for rows that already exist.
func (r *characterRepository) UpsertBatch(ctx context.Context, characters []models.Character) error {
	if len(characters) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}, {Name: "source"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "image", "media_title", "media_type", "media_id",
			"release_year", "media_poster", "actor_name", "updated_at",
		}),
	}).CreateInBatches(characters, 100).Error
}

// IncrementTrending applies an atomic score increment and touches the
// activity timestamp. Never read-modify-write: concurrent likes must not
// lose updates.
func (r *characterRepository) IncrementTrending(ctx context.Context, id string, delta float64) error {
	return r.db.WithContext(ctx).Model(&models.Character{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"trending_score":   gorm.Expr("trending_score + ?", delta),
			"last_activity_at": time.Now(),
		}).Error
}
