package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ImageBaseURL prefixes poster paths returned in search results.
const ImageBaseURL = "https://image.tmdb.org/t/p/original"

// Result represents a single TMDB search match.
type Result struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	MediaType    string  `json:"media_type"`
	Popularity   float64 `json:"popularity"`
	PosterPath   string  `json:"poster_path"`
}

// DisplayName returns the movie title or TV name, whichever is set.
func (r Result) DisplayName() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// Date returns the release date or first air date, whichever is set.
func (r Result) Date() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

// PosterURL returns the full poster image URL, or "" when none exists.
func (r Result) PosterURL() string {
	if r.PosterPath == "" {
		return ""
	}
	return ImageBaseURL + r.PosterPath
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// ExternalIDs carries cross-database identifiers from the detail endpoint.
type ExternalIDs struct {
	IMDbID string `json:"imdb_id"`
}

// NextEpisode describes the next_episode_to_air payload for a series.
type NextEpisode struct {
	Name    string `json:"name"`
	AirDate string `json:"air_date"`
}

// Details is the full movie or TV detail payload with external IDs appended.
type Details struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Name             string       `json:"name"`
	Overview         string       `json:"overview"`
	ReleaseDate      string       `json:"release_date"`
	FirstAirDate     string       `json:"first_air_date"`
	IMDbID           string       `json:"imdb_id"`
	ExternalIDs      *ExternalIDs `json:"external_ids"`
	Status           string       `json:"status"`
	LastAirDate      string       `json:"last_air_date"`
	NextEpisodeToAir *NextEpisode `json:"next_episode_to_air"`
	NumberOfSeasons  int          `json:"number_of_seasons"`
	NumberOfEpisodes int          `json:"number_of_episodes"`
	Popularity       float64      `json:"popularity"`
	PosterPath       string       `json:"poster_path"`
}

// DisplayName returns the movie title or TV name, whichever is set.
func (d *Details) DisplayName() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Year returns the four-digit release year, or "" when unknown.
func (d *Details) Year() string {
	date := d.ReleaseDate
	if date == "" {
		date = d.FirstAirDate
	}
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

// ResolvedIMDbID prefers the top-level imdb_id and falls back to the
// appended external_ids block (TV details only populate the latter).
func (d *Details) ResolvedIMDbID() string {
	if d.IMDbID != "" {
		return d.IMDbID
	}
	if d.ExternalIDs != nil {
		return d.ExternalIDs.IMDbID
	}
	return ""
}

// Searcher defines the TMDB operations used by reconciliation.
type Searcher interface {
	SearchMovie(ctx context.Context, query string, year int) (*Response, error)
	SearchTV(ctx context.Context, query string, year int) (*Response, error)
	SearchMulti(ctx context.Context, query string, year int) (*Response, error)
	MovieDetails(ctx context.Context, movieID int64) (*Details, error)
	TVDetails(ctx context.Context, showID int64) (*Details, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(c *Client) {
		if limiter != nil {
			c.limiter = limiter
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// TMDB allows ~50 requests/second; stay under it.
		limiter: rate.NewLimiter(rate.Limit(40), 40),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovie searches movies, optionally pinned to a release year.
func (c *Client) SearchMovie(ctx context.Context, query string, year int) (*Response, error) {
	params := url.Values{}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}
	return c.search(ctx, "/search/movie", query, params)
}

// SearchTV searches series, optionally pinned to a first-air year.
func (c *Client) SearchTV(ctx context.Context, query string, year int) (*Response, error) {
	params := url.Values{}
	if year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(year))
	}
	return c.search(ctx, "/search/tv", query, params)
}

// SearchMulti searches across movies and series in one call.
func (c *Client) SearchMulti(ctx context.Context, query string, year int) (*Response, error) {
	params := url.Values{}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}
	return c.search(ctx, "/search/multi", query, params)
}

func (c *Client) search(ctx context.Context, path, query string, params url.Values) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params.Set("query", query)

	var payload Response
	if err := c.get(ctx, path, params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// MovieDetails fetches movie details by TMDB ID with external IDs appended.
func (c *Client) MovieDetails(ctx context.Context, movieID int64) (*Details, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	params := url.Values{}
	params.Set("append_to_response", "external_ids")

	var payload Details
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// TVDetails fetches TV show details by TMDB ID with external IDs appended.
func (c *Client) TVDetails(ctx context.Context, showID int64) (*Details, error) {
	if showID <= 0 {
		return nil, errors.New("show id must be positive")
	}
	params := url.Values{}
	params.Set("append_to_response", "external_ids")

	var payload Details
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", showID), params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, target any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("tmdb rate limit wait: %w", err)
		}
	}

	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb %s returned %d (latency=%v)", path, resp.StatusCode, latency)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}
