package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"characterhub/internal/api/dto"
	"characterhub/internal/api/models"
	"characterhub/internal/api/repository"
)

// UserService serves public profiles and maps token claims to accounts.
type UserService interface {
	GetProfile(ctx context.Context, username string) (*dto.UserProfileResponse, error)
	// ResolveActor maps access-token claims to the current account row. When
	// the user id in a still-valid token no longer resolves (the row was
	// recreated), the email claim is tried before rejecting the session.
	ResolveActor(ctx context.Context, userID, email string) (*models.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
}

func NewUserService(userRepo repository.UserRepository, reviewRepo repository.ReviewRepository) UserService {
	return &userService{userRepo: userRepo, reviewRepo: reviewRepo}
}

func (s *userService) GetProfile(ctx context.Context, username string) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching user %s: %w", username, err)
	}

	reviews, err := s.reviewRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for %s: %w", user.ID, err)
	}

	dist := dto.NewTierDistribution()
	ratings := make([]dto.ProfileRating, 0, len(reviews))
	for i := range reviews {
		r := &reviews[i]
		dist[r.Tier]++

		// A dangling character association leaves the preload zeroed. The
		// rating still counts; only the snapshot is omitted.
		var character *dto.ProfileCharacter
		if r.Character.ID != "" {
			character = &dto.ProfileCharacter{
				ID:          r.Character.ID,
				Name:        r.Character.Name,
				Image:       r.Character.Image,
				MediaTitle:  r.Character.MediaTitle,
				MediaType:   r.Character.MediaType,
				ReleaseYear: r.Character.ReleaseYear,
			}
		}
		ratings = append(ratings, dto.ProfileRating{
			ID:        r.ID,
			Tier:      r.Tier,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
			Character: character,
		})
	}

	return &dto.UserProfileResponse{
		ID:               user.ID,
		Username:         user.Username,
		Name:             user.Name,
		Image:            user.Image,
		TotalRatings:     len(reviews),
		TierDistribution: dist,
		Ratings:          ratings,
		CreatedAt:        user.CreatedAt,
	}, nil
}

func (s *userService) ResolveActor(ctx context.Context, userID, email string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("fetching user %s: %w", userID, err)
	}

	if email != "" {
		user, err = s.userRepo.FindByEmail(ctx, email)
		if err == nil {
			log.Debug().Str("user_id", userID).Str("resolved_id", user.ID).
				Msg("stale session resolved by email")
			return user, nil
		}
		if !repository.IsNotFound(err) {
			return nil, fmt.Errorf("fetching user by email: %w", err)
		}
	}
	return nil, ErrUnauthorized
}
