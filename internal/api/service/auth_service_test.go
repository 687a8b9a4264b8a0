package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"characterhub/internal/api/auth"
	"characterhub/internal/api/dto"
	"characterhub/internal/api/models"
)

const testJWTSecret = "test-secret-at-least-32-characters!!"

func newAuthService(userRepo *MockUserRepository, tokenRepo *MockRefreshTokenRepository) AuthService {
	return NewAuthService(userRepo, tokenRepo, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestRegister_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := newAuthService(userRepo, tokenRepo)

	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*models.User)
			u.ID = "u1"
			require.NotNil(t, u.Password)
			assert.NotEqual(t, "password123", *u.Password, "password must be stored hashed")
		}).
		Return(nil)
	tokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	resp, err := svc.Register(context.Background(), dto.RegisterDTO{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Username: "alice",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice@example.com", resp.User.Email, "email is normalized to lower case")
	userRepo.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := newAuthService(userRepo, tokenRepo)

	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{ID: "existing"}, nil)

	_, err := svc.Register(context.Background(), dto.RegisterDTO{
		Email: "alice@example.com", Username: "alice2", Password: "password123",
	})

	assert.ErrorIs(t, err, ErrEmailInUse)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_UsernameTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := newAuthService(userRepo, tokenRepo)

	userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(&models.User{ID: "existing"}, nil)

	_, err := svc.Register(context.Background(), dto.RegisterDTO{
		Email: "new@example.com", Username: "alice", Password: "password123",
	})

	assert.ErrorIs(t, err, ErrNameInUse)
}

func TestRegister_RaceMapsToConflictField(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := newAuthService(userRepo, tokenRepo)

	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(nil, gorm.ErrRecordNotFound).Once()
	userRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
	// Re-check after the conflict: the email row now exists.
	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{ID: "winner"}, nil).Once()

	_, err := svc.Register(context.Background(), dto.RegisterDTO{
		Email: "alice@example.com", Username: "alice", Password: "password123",
	})

	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(new(MockUserRepository), new(MockRefreshTokenRepository))

	cases := []dto.RegisterDTO{
		{Email: "not-an-email", Username: "alice", Password: "password123"},
		{Email: "a@b.com", Username: "a", Password: "password123"},
		{Email: "a@b.com", Username: "has spaces", Password: "password123"},
		{Email: "a@b.com", Username: "alice", Password: "short"},
	}
	for _, input := range cases {
		_, err := svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", input)
	}
}

func TestLogin_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := newAuthService(userRepo, tokenRepo)

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := &models.User{ID: "u1", Email: "alice@example.com", Username: "alice", Password: &hash}

	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(user, nil)
	tokenRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Login(context.Background(), dto.LoginDTO{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo, new(MockRefreshTokenRepository))

	hash, _ := auth.HashPassword("password123")
	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{ID: "u1", Password: &hash}, nil)

	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "alice@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo, new(MockRefreshTokenRepository))

	userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_OAuthOnlyAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := newAuthService(userRepo, new(MockRefreshTokenRepository))

	userRepo.On("FindByEmail", mock.Anything, mock.Anything).
		Return(&models.User{ID: "u1", Password: nil}, nil)

	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "oauth@example.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_RotatesToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := newAuthService(userRepo, tokenRepo)

	stored := &models.RefreshToken{ID: "t1", UserID: "u1", Token: "old-token", ExpiresAt: time.Now().Add(time.Hour)}
	tokenRepo.On("FindByToken", mock.Anything, "old-token").Return(stored, nil)
	userRepo.On("FindByID", mock.Anything, "u1").Return(&models.User{ID: "u1", Username: "alice", Email: "a@b.com"}, nil)
	tokenRepo.On("Delete", mock.Anything, "t1").Return(nil)
	tokenRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Refresh(context.Background(), "old-token")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, "old-token", resp.RefreshToken)
	tokenRepo.AssertCalled(t, "Delete", mock.Anything, "t1")
}

func TestRefresh_Expired(t *testing.T) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	svc := newAuthService(userRepo, tokenRepo)

	stored := &models.RefreshToken{ID: "t1", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)}
	tokenRepo.On("FindByToken", mock.Anything, "stale").Return(stored, nil)
	tokenRepo.On("Delete", mock.Anything, "t1").Return(nil)

	_, err := svc.Refresh(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newAuthService(new(MockUserRepository), new(MockRefreshTokenRepository))

	_, err := svc.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newAuthService(new(MockUserRepository), new(MockRefreshTokenRepository))

	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	hash, _ := auth.HashPassword("password123")
	userRepo.On("FindByEmail", mock.Anything, mock.Anything).
		Return(&models.User{ID: "u1", Password: &hash}, nil)
	tokenRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	other := NewAuthService(userRepo, tokenRepo,
		"another-secret-also-32-characters!!!", 15*time.Minute, time.Hour)

	resp, err := other.Login(context.Background(), dto.LoginDTO{Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
