package dto

import (
	"time"

	"characterhub/internal/api/models"
)

// CreateReviewDTO is the POST /characters/:id/reviews request body.
type CreateReviewDTO struct {
	Tier    string `json:"tier"`
	Comment string `json:"comment"`
}

// PublicUser is the author shape embedded in review responses.
type PublicUser struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Name     *string `json:"name"`
	Image    *string `json:"image"`
}

// ReviewResponse is the wire shape of one review with author and like state.
type ReviewResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	CharacterID string     `json:"characterId"`
	Tier        string     `json:"tier"`
	Comment     string     `json:"comment"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Likes       int        `json:"likes"`
	LikedByUser bool       `json:"likedByUser"`
	User        PublicUser `json:"user"`
}

// ToggleLikeResponse is the POST like envelope.
type ToggleLikeResponse struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

// FromModelToReviewResponse maps a review row (with User and Likes preloaded)
// to its wire shape. viewerID may be empty for anonymous readers.
func FromModelToReviewResponse(r *models.Review, viewerID string) ReviewResponse {
	likedByUser := false
	for _, like := range r.Likes {
		if viewerID != "" && like.UserID == viewerID {
			likedByUser = true
			break
		}
	}
	return ReviewResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		CharacterID: r.CharacterID,
		Tier:        r.Tier,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Likes:       len(r.Likes),
		LikedByUser: likedByUser,
		User: PublicUser{
			ID:       r.User.ID,
			Username: r.User.Username,
			Name:     r.User.Name,
			Image:    r.User.Image,
		},
	}
}
