package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"characterhub/internal/api/models"
	"characterhub/internal/api/repository"
	"characterhub/internal/catalog"
)

// MockCharacterRepository mocks the CharacterRepository interface
type MockCharacterRepository struct {
	mock.Mock
}

func (m *MockCharacterRepository) Create(ctx context.Context, character *models.Character) error {
	args := m.Called(ctx, character)
	return args.Error(0)
}

func (m *MockCharacterRepository) GetByID(ctx context.Context, id string) (*models.Character, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Character), args.Error(1)
}

func (m *MockCharacterRepository) GetByExternal(ctx context.Context, externalID, source string) (*models.Character, error) {
	args := m.Called(ctx, externalID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Character), args.Error(1)
}

func (m *MockCharacterRepository) GetByExternalIDs(ctx context.Context, externalIDs []string) ([]models.Character, error) {
	args := m.Called(ctx, externalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Character), args.Error(1)
}

func (m *MockCharacterRepository) List(ctx context.Context, filter repository.CharacterFilter) ([]models.Character, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Character), args.Get(1).(int64), args.Error(2)
}

func (m *MockCharacterRepository) UpsertBatch(ctx context.Context, characters []models.Character) error {
	args := m.Called(ctx, characters)
	return args.Error(0)
}

func (m *MockCharacterRepository) IncrementTrending(ctx context.Context, id string, delta float64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

// MockReviewRepository mocks the ReviewRepository interface
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByUserAndCharacter(ctx context.Context, userID, characterID string) (*models.Review, error) {
	args := m.Called(ctx, userID, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByCharacter(ctx context.Context, characterID string) ([]models.Review, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByUser(ctx context.Context, userID string) ([]models.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListForStats(ctx context.Context, characterID string) ([]models.Review, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

// MockLikeRepository mocks the LikeRepository interface
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Get(ctx context.Context, reviewID, userID string) (*models.ReviewLike, error) {
	args := m.Called(ctx, reviewID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewLike), args.Error(1)
}

func (m *MockLikeRepository) Create(ctx context.Context, like *models.ReviewLike) error {
	args := m.Called(ctx, like)
	return args.Error(0)
}

func (m *MockLikeRepository) Delete(ctx context.Context, reviewID, userID string) error {
	args := m.Called(ctx, reviewID, userID)
	return args.Error(0)
}

func (m *MockLikeRepository) CountByReview(ctx context.Context, reviewID string) (int64, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeAdapter is a canned catalog adapter for resolver tests.
type fakeAdapter struct {
	source     string
	mediaTypes []string
	media      []catalog.Media
	cast       []catalog.Character
	err        error
}

func (f *fakeAdapter) Source() string       { return f.source }
func (f *fakeAdapter) MediaTypes() []string { return f.mediaTypes }

func (f *fakeAdapter) ListTrending(ctx context.Context, mediaType string, page int) ([]catalog.Media, error) {
	return f.media, f.err
}

func (f *fakeAdapter) ListPopular(ctx context.Context, mediaType string, page int) ([]catalog.Media, error) {
	return f.media, f.err
}

func (f *fakeAdapter) ListTopRated(ctx context.Context, mediaType string, page int) ([]catalog.Media, error) {
	return f.media, f.err
}

func (f *fakeAdapter) Search(ctx context.Context, query, mediaType string) ([]catalog.Media, error) {
	return f.media, f.err
}

func (f *fakeAdapter) ListCharacters(ctx context.Context, mediaType string, mediaID, limit int) ([]catalog.Character, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.cast) > limit {
		return f.cast[:limit], nil
	}
	return f.cast, nil
}
