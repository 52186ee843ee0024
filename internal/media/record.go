package media

import "strings"

// Type distinguishes movies from television series.
type Type string

const (
	TypeMovie   Type = "Movie"
	TypeTV      Type = "TV Series"
	TypeUnknown Type = "Unknown"
)

// NormalizeType maps free-text type descriptions onto the Type enum.
func NormalizeType(raw string) Type {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case lowered == "":
		return TypeUnknown
	case strings.Contains(lowered, "movie"), strings.Contains(lowered, "film"):
		return TypeMovie
	case strings.Contains(lowered, "tv"), strings.Contains(lowered, "series"), strings.Contains(lowered, "show"):
		return TypeTV
	default:
		return TypeUnknown
	}
}

// SeasonScore is the per-season thematic index for a series.
type SeasonScore struct {
	Season int     `json:"season"`
	Score  float64 `json:"score"`
}

// NextEpisode describes an upcoming episode reported by the metadata database.
type NextEpisode struct {
	Name    string `json:"name,omitempty"`
	AirDate string `json:"air_date,omitempty"`
}

// Record is the canonical resolved entity for one title.
type Record struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Type  Type   `json:"type"`
	Year  string `json:"year,omitempty"`

	ContentRating     string   `json:"contentRating,omitempty"`
	IMDb              *float64 `json:"imdb,omitempty"`
	IMDbID            string   `json:"imdbId,omitempty"`
	RottenTomatoes    string   `json:"rottenTomatoes,omitempty"`
	RottenTomatoesURL string   `json:"rottenTomatoesUrl,omitempty"`
	Metacritic        *int     `json:"metacritic,omitempty"`
	MetacriticURL     string   `json:"metacriticUrl,omitempty"`

	ATP          float64       `json:"atp"`
	Rationale    string        `json:"rationale"`
	SeasonScores []SeasonScore `json:"seasonScores,omitempty"`
	EpisodeFlags []string      `json:"episodeFlags,omitempty"`
	DeepAnalysis string        `json:"deepAnalysis,omitempty"`

	Status        string       `json:"status,omitempty"`
	LastAirDate   string       `json:"lastAirDate,omitempty"`
	NextEpisode   *NextEpisode `json:"nextEpisode,omitempty"`
	TotalSeasons  int          `json:"totalSeasons,omitempty"`
	TotalEpisodes int          `json:"totalEpisodes,omitempty"`
	Popularity    float64      `json:"popularity,omitempty"`

	PosterURLs []string `json:"posterUrls,omitempty"`
	VotesUp    int      `json:"votesUp"`
	VotesDown  int      `json:"votesDown"`

	HasNewEpisodes bool `json:"hasNewEpisodes,omitempty"`
}

// DisplayTitle renders "Title (Year)" when the year is known.
func (r *Record) DisplayTitle() string {
	if r == nil {
		return ""
	}
	if strings.TrimSpace(r.Year) != "" {
		return r.Title + " (" + r.Year + ")"
	}
	return r.Title
}

// ClampATP bounds a thematic index to the valid 0-10 range.
func ClampATP(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
