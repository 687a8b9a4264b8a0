package dto

import "time"

// ProfileCharacter is the character snapshot joined into a profile rating.
// nil when the character row no longer resolves.
type ProfileCharacter struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	MediaTitle  string  `json:"mediaTitle"`
	MediaType   string  `json:"mediaType"`
	ReleaseYear *int    `json:"releaseYear"`
}

// ProfileRating is one review on a user profile page.
type ProfileRating struct {
	ID        string            `json:"id"`
	Tier      string            `json:"tier"`
	Comment   string            `json:"comment"`
	CreatedAt time.Time         `json:"createdAt"`
	Character *ProfileCharacter `json:"character"`
}

// UserProfileResponse is the GET /users/:username envelope payload.
type UserProfileResponse struct {
	ID               string          `json:"id"`
	Username         string          `json:"username"`
	Name             *string         `json:"name"`
	Image            *string         `json:"image"`
	TotalRatings     int             `json:"totalRatings"`
	TierDistribution map[string]int  `json:"tierDistribution"`
	Ratings          []ProfileRating `json:"ratings"`
	CreatedAt        time.Time       `json:"createdAt"`
}
