package tmdb

// apiFindResponse is the body of GET /find/{external_id}.
type apiFindResponse struct {
	MovieResults []apiResult `json:"movie_results"`
	TVResults    []apiResult `json:"tv_results"`
}

// apiSearchResponse is the body of GET /search/movie and /search/tv.
type apiSearchResponse struct {
	Page    int         `json:"page"`
	Results []apiResult `json:"results"`
}

// apiResult is a list item. Movies carry title/release_date, series carry
// name/first_air_date.
type apiResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
}

// apiDetails is the body of GET /movie/{id} and /tv/{id}.
type apiDetails struct {
	apiResult
	IMDbID         string       `json:"imdb_id"`
	Runtime        int          `json:"runtime"`
	EpisodeRunTime []int        `json:"episode_run_time"`
	Genres         []apiNamed   `json:"genres"`
	CreatedBy      []apiNamed   `json:"created_by"`
	ExternalIDs    *apiExternal `json:"external_ids"`
}

type apiNamed struct {
	Name string `json:"name"`
}

type apiExternal struct {
	IMDbID string `json:"imdb_id"`
}
