package catalog

// Media source catalogs
const (
	SourceTMDB  = "tmdb"
	SourceJikan = "jikan"
)

// Media types served by the adapters
const (
	MediaTypeMovie  = "movie"
	MediaTypeSeries = "series"
	MediaTypeAnime  = "anime"
)

// Media is a normalized media summary (one movie, show, or anime).
type Media struct {
	ID          int
	Title       string
	MediaType   string
	Poster      *string
	ReleaseYear *int
}

// Character is the canonical character shape every adapter normalizes into.
// ExternalID is the stable catalog-assigned key:
// tmdb-{movie|tv}-{mediaID}-{personID} for TMDB, jikan-{animeID}-{characterID}
// for Jikan.
type Character struct {
	ExternalID  string
	Source      string
	Name        string
	Image       *string
	MediaTitle  string
	MediaType   string
	MediaID     string
	ReleaseYear *int
	MediaPoster *string
	ActorName   *string
	Role        *string
	Order       int
}
