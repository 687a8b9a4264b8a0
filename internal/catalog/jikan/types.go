package jikan

// Anime is one anime entry from the Jikan API
type Anime struct {
	MalID  int    `json:"mal_id"`
	Title  string `json:"title"`
	Images struct {
		JPG struct {
			ImageURL      string `json:"image_url"`
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
	Year  *int `json:"year"`
	Aired struct {
		Prop struct {
			From struct {
				Year *int `json:"year"`
			} `json:"from"`
		} `json:"prop"`
	} `json:"aired"`
}

// CharacterEntry is one entry of an anime character roster
type CharacterEntry struct {
	Character struct {
		MalID  int `json:"mal_id"`
		Images struct {
			JPG struct {
				ImageURL string `json:"image_url"`
			} `json:"jpg"`
		} `json:"images"`
		Name string `json:"name"`
	} `json:"character"`
	Role string `json:"role"`
}

type animeResponse struct {
	Data Anime `json:"data"`
}

type animeListResponse struct {
	Data       []Anime `json:"data"`
	Pagination struct {
		LastVisiblePage int  `json:"last_visible_page"`
		HasNextPage     bool `json:"has_next_page"`
	} `json:"pagination"`
}

type charactersResponse struct {
	Data []CharacterEntry `json:"data"`
}
