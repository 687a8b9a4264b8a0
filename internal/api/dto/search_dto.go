package dto

// SearchCharacter is one search hit. ID is the durable identifier when the
// character is already persisted, otherwise the ext-{source}-{mediaType}-{...}
// composite token.
type SearchCharacter struct {
	ID          string  `json:"id"`
	ExternalID  string  `json:"externalId"`
	Source      string  `json:"source"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	MediaTitle  string  `json:"mediaTitle"`
	MediaType   string  `json:"mediaType"`
	MediaID     string  `json:"mediaId"`
	ReleaseYear *int    `json:"releaseYear"`
	MediaPoster *string `json:"mediaPoster"`
	ActorName   *string `json:"actorName"`
	Role        *string `json:"role"`
}

// SearchResponse is the GET /search envelope.
type SearchResponse struct {
	Characters []SearchCharacter `json:"characters"`
	Pagination Pagination        `json:"pagination"`
}
