package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"characterhub/internal/api/dto"
	"characterhub/internal/api/models"
	"characterhub/internal/api/repository"
)

// trendingLikeDelta is added to a character's trending score whenever one of
// its reviews gains a like. Unlikes do not subtract.
const trendingLikeDelta = 1.0

// ReviewService owns rating submission, review listings, and like toggling.
type ReviewService interface {
	// SubmitRating upserts the caller's single review for a character. A
	// second submission replaces tier and comment in place, keeping the
	// original creation time.
	SubmitRating(ctx context.Context, actor *models.User, ref string, input dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	// ListReviews returns a character's reviews. sortMode is "recent"
	// (default) or "likes". viewerID may be empty.
	ListReviews(ctx context.Context, ref, sortMode, viewerID string) ([]dto.ReviewResponse, error)
	// ToggleLike flips the actor's like on a review and reports the new
	// state. Toggling twice restores the original state.
	ToggleLike(ctx context.Context, reviewID, userID string) (*dto.ToggleLikeResponse, error)
}

type reviewService struct {
	reviewRepo    repository.ReviewRepository
	likeRepo      repository.LikeRepository
	characterRepo repository.CharacterRepository
	characters    CharacterService
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	likeRepo repository.LikeRepository,
	characterRepo repository.CharacterRepository,
	characters CharacterService,
) ReviewService {
	return &reviewService{
		reviewRepo:    reviewRepo,
		likeRepo:      likeRepo,
		characterRepo: characterRepo,
		characters:    characters,
	}
}

func (s *reviewService) SubmitRating(ctx context.Context, actor *models.User, ref string, input dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if !models.ValidTier(input.Tier) {
		return nil, fmt.Errorf("%w: tier must be one of %s", ErrInvalidInput, strings.Join(models.Tiers, ", "))
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}

	character, err := s.characters.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByUserAndCharacter(ctx, actor.ID, character.ID)
	switch {
	case err == nil:
		review.Tier = input.Tier
		review.Comment = input.Comment
		if err := s.reviewRepo.Update(ctx, review); err != nil {
			return nil, fmt.Errorf("updating review %s: %w", review.ID, err)
		}
	case repository.IsNotFound(err):
		review = &models.Review{
			UserID:      actor.ID,
			CharacterID: character.ID,
			Tier:        input.Tier,
			Comment:     input.Comment,
		}
		if err := s.reviewRepo.Create(ctx, review); err != nil {
			if !repository.IsUniqueViolation(err) {
				return nil, fmt.Errorf("creating review: %w", err)
			}
			// Lost a concurrent first-submission race: fall back to update.
			review, err = s.reviewRepo.GetByUserAndCharacter(ctx, actor.ID, character.ID)
			if err != nil {
				return nil, fmt.Errorf("reloading review after conflict: %w", err)
			}
			review.Tier = input.Tier
			review.Comment = input.Comment
			if err := s.reviewRepo.Update(ctx, review); err != nil {
				return nil, fmt.Errorf("updating review %s: %w", review.ID, err)
			}
		}
	default:
		return nil, fmt.Errorf("fetching review: %w", err)
	}

	full, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading review %s: %w", review.ID, err)
	}
	resp := dto.FromModelToReviewResponse(full, actor.ID)
	return &resp, nil
}

func (s *reviewService) ListReviews(ctx context.Context, ref, sortMode, viewerID string) ([]dto.ReviewResponse, error) {
	characterID, ok, err := s.lookupCharacterID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Characters known only to the upstream catalogs have no reviews yet.
		return []dto.ReviewResponse{}, nil
	}

	reviews, err := s.reviewRepo.ListByCharacter(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for %s: %w", characterID, err)
	}

	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, dto.FromModelToReviewResponse(&reviews[i], viewerID))
	}

	if sortMode == "likes" {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Likes != out[j].Likes {
				return out[i].Likes > out[j].Likes
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out, nil
}

// lookupCharacterID maps a reference to a persisted character id without
// creating rows. Listing is a read path: an unknown reference just means an
// empty review set.
func (s *reviewService) lookupCharacterID(ctx context.Context, raw string) (string, bool, error) {
	ref, err := ParseCharacterRef(raw)
	if err != nil {
		return "", false, nil
	}
	if ref.Kind == RefDurable {
		return ref.ID, true, nil
	}
	character, err := s.characterRepo.GetByExternal(ctx, ref.ExternalID, ref.Source)
	if repository.IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("fetching character %s/%s: %w", ref.Source, ref.ExternalID, err)
	}
	return character.ID, true, nil
}

func (s *reviewService) ToggleLike(ctx context.Context, reviewID, userID string) (*dto.ToggleLikeResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if repository.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching review %s: %w", reviewID, err)
	}

	liked := true
	existing, err := s.likeRepo.Get(ctx, reviewID, userID)
	switch {
	case err == nil:
		if err := s.likeRepo.Delete(ctx, existing.ReviewID, existing.UserID); err != nil {
			return nil, fmt.Errorf("removing like: %w", err)
		}
		liked = false
	case repository.IsNotFound(err):
		like := &models.ReviewLike{ReviewID: reviewID, UserID: userID}
		if err := s.likeRepo.Create(ctx, like); err != nil && !repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("creating like: %w", err)
		}
		// Trending feedback is best-effort: a failed bump must not undo
		// the like.
		if err := s.characterRepo.IncrementTrending(ctx, review.CharacterID, trendingLikeDelta); err != nil {
			log.Warn().Err(err).
				Str("character_id", review.CharacterID).
				Msg("trending increment failed")
		}
	default:
		return nil, fmt.Errorf("fetching like: %w", err)
	}

	count, err := s.likeRepo.CountByReview(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("counting likes for %s: %w", reviewID, err)
	}
	return &dto.ToggleLikeResponse{Liked: liked, Likes: count}, nil
}
