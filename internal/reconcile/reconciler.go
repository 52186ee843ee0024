package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"screener/internal/logging"
	"screener/internal/media"
	"screener/internal/reconcile/tmdb"
)

// Identity is the canonical result of a metadata lookup.
type Identity struct {
	TMDBID        int64
	Title         string
	Year          string
	Type          media.Type
	IMDbID        string
	Overview      string
	Status        string
	LastAirDate   string
	NextEpisode   *media.NextEpisode
	TotalSeasons  int
	TotalEpisodes int
	Popularity    float64
	PosterURL     string
}

// Reconciler resolves titles against the metadata database.
type Reconciler struct {
	search tmdb.Searcher
	logger *slog.Logger
}

// New constructs a reconciler. The logger may be nil.
func New(search tmdb.Searcher, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		search: search,
		logger: logging.NewComponentLogger(logger, "reconcile"),
	}
}

var (
	yearParenPattern = regexp.MustCompile(`\((\d{4})\)`)
	nonWordPattern   = regexp.MustCompile(`\W+`)
)

// Lookup searches the given media type for query and returns the detail
// payload for the best match, or nil when nothing matches. Year pins the
// search when positive; matchContext re-ranks results by overview overlap.
func (r *Reconciler) Lookup(ctx context.Context, query, year string, mediaType media.Type, matchContext string) (*Identity, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	isTV := mediaType == media.TypeTV
	yearNum := parseYear(year)

	resp, err := r.searchTyped(ctx, query, yearNum, isTV)
	if err != nil {
		return nil, err
	}
	results := resp.Results

	// Context re-ranking only arbitrates between candidates; a lone match
	// stands even when its overview shares no words with the context.
	if matchContext != "" && len(results) > 1 {
		words := contextWords(matchContext)
		scored, topScore := scoreResults(results, words)
		threshold := 0
		if len(words) >= 3 {
			threshold = 1
		}
		if topScore > threshold {
			results = scored
		} else if yearNum > 0 {
			// Strict search matched the wrong thing; retry without the
			// year pin and re-rank.
			loose, err := r.searchTyped(ctx, query, 0, isTV)
			if err == nil && len(loose.Results) > 0 {
				looseScored, looseTop := scoreResults(loose.Results, words)
				if looseTop > threshold {
					results = looseScored
				}
			}
		}
	}

	if len(results) == 0 && yearNum > 0 {
		loose, err := r.searchTyped(ctx, query, 0, isTV)
		if err != nil {
			return nil, err
		}
		results = loose.Results
	}
	if len(results) == 0 {
		return nil, nil
	}

	return r.detail(ctx, results[0].ID, isTV)
}

func (r *Reconciler) searchTyped(ctx context.Context, query string, year int, isTV bool) (*tmdb.Response, error) {
	if isTV {
		return r.search.SearchTV(ctx, query, year)
	}
	return r.search.SearchMovie(ctx, query, year)
}

func (r *Reconciler) detail(ctx context.Context, id int64, isTV bool) (*Identity, error) {
	var (
		details *tmdb.Details
		err     error
	)
	if isTV {
		details, err = r.search.TVDetails(ctx, id)
	} else {
		details, err = r.search.MovieDetails(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	identity := &Identity{
		TMDBID:        details.ID,
		Title:         details.DisplayName(),
		Year:          details.Year(),
		IMDbID:        details.ResolvedIMDbID(),
		Overview:      details.Overview,
		Status:        details.Status,
		LastAirDate:   details.LastAirDate,
		TotalSeasons:  details.NumberOfSeasons,
		TotalEpisodes: details.NumberOfEpisodes,
		Popularity:    details.Popularity,
	}
	if isTV {
		identity.Type = media.TypeTV
	} else {
		identity.Type = media.TypeMovie
	}
	if details.NextEpisodeToAir != nil {
		identity.NextEpisode = &media.NextEpisode{
			Name:    details.NextEpisodeToAir.Name,
			AirDate: details.NextEpisodeToAir.AirDate,
		}
	}
	if details.PosterPath != "" {
		identity.PosterURL = tmdb.ImageBaseURL + details.PosterPath
	}
	return identity, nil
}

// ResolveBest tries the preferred media type first, then the remaining
// types, returning the first hit. Used for pre-resolution where any
// confident identity is better than none.
func (r *Reconciler) ResolveBest(ctx context.Context, query, year string, preferred media.Type, matchContext string) (*Identity, error) {
	if preferred != media.TypeUnknown {
		identity, err := r.Lookup(ctx, query, year, preferred, matchContext)
		if err != nil {
			return nil, err
		}
		if identity != nil {
			return identity, nil
		}
	}
	if preferred != media.TypeMovie {
		identity, err := r.Lookup(ctx, query, year, media.TypeMovie, matchContext)
		if err != nil {
			return nil, err
		}
		if identity != nil {
			return identity, nil
		}
	}
	if preferred != media.TypeTV {
		identity, err := r.Lookup(ctx, query, year, media.TypeTV, matchContext)
		if err != nil {
			return nil, err
		}
		if identity != nil {
			return identity, nil
		}
	}
	return nil, nil
}

// VerifyCrossType double-checks an oracle verdict against the opposite
// media type and swaps when the alternative is the better identity: an
// exact title match the primary lacks, or a far more popular entry.
// Returns the winning identity (possibly nil) and whether a swap happened.
func (r *Reconciler) VerifyCrossType(ctx context.Context, verdictTitle, verdictYear string, verdictType media.Type) (*Identity, bool, error) {
	searchTitle := strings.TrimSpace(yearParenPattern.ReplaceAllString(verdictTitle, ""))
	if searchTitle == "" {
		return nil, false, nil
	}

	primaryType := media.TypeMovie
	if verdictType == media.TypeTV {
		primaryType = media.TypeTV
	}
	otherType := media.TypeTV
	if primaryType == media.TypeTV {
		otherType = media.TypeMovie
	}

	official, err := r.Lookup(ctx, searchTitle, verdictYear, primaryType, "")
	if err != nil {
		r.logger.Warn("primary verification lookup failed", logging.Error(err))
	}
	// The alternative check drops the year on purpose: a wrong oracle year
	// should not hide the better match.
	alternative, err := r.Lookup(ctx, searchTitle, "", otherType, "")
	if err != nil {
		r.logger.Warn("alternative verification lookup failed", logging.Error(err))
	}

	if alternative == nil {
		return official, false, nil
	}
	if official == nil {
		return alternative, true, nil
	}

	anchor := strings.ToLower(searchTitle)
	officialExact := strings.ToLower(official.Title) == anchor
	altExact := strings.ToLower(alternative.Title) == anchor

	officialPop := official.Popularity
	if officialPop == 0 {
		officialPop = 1
	}
	ratio := alternative.Popularity / officialPop

	swap := false
	switch {
	case altExact && !officialExact:
		swap = true
	case ratio > 3:
		swap = true
	}

	if swap {
		r.logger.Info("cross-type verification swapped identity",
			"from", string(primaryType), "to", string(otherType),
			"popularity_ratio", fmt.Sprintf("%.1f", ratio))
		return alternative, true, nil
	}
	return official, false, nil
}

// Disambiguate lists up to five movie/TV matches for a title, formatted the
// same way oracle disambiguation options are. Used when safety filters
// block the oracle entirely.
func (r *Reconciler) Disambiguate(ctx context.Context, title string) ([]string, error) {
	resp, err := r.search.SearchMulti(ctx, title, 0)
	if err != nil {
		return nil, err
	}

	var options []string
	for _, result := range resp.Results {
		var kind string
		switch result.MediaType {
		case "movie":
			kind = string(media.TypeMovie)
		case "tv":
			kind = string(media.TypeTV)
		default:
			continue
		}
		year := ""
		if date := result.Date(); len(date) >= 4 {
			year = date[:4]
		}
		options = append(options, fmt.Sprintf("%s (%s) - %s", result.DisplayName(), year, kind))
		if len(options) == 5 {
			break
		}
	}
	return options, nil
}

// Posters finds poster URLs for a display string like "Mulan (1998) - Movie".
// The year, when present, pins the match; otherwise the first result with
// artwork wins.
func (r *Reconciler) Posters(ctx context.Context, display string, hint media.Type) ([]string, error) {
	title := display
	year := ""

	if blocks := yearParenPattern.FindAllStringIndex(display, -1); len(blocks) > 0 {
		last := blocks[len(blocks)-1]
		year = display[last[0]+1 : last[1]-1]
		title = strings.TrimSpace(display[:last[0]])
	} else if idx := strings.Index(display, " - "); idx >= 0 {
		title = strings.TrimSpace(display[:idx])
	}
	title = strings.TrimSpace(ordinalPrefixPattern.ReplaceAllString(title, ""))
	if title == "" {
		return nil, nil
	}

	if hint == media.TypeUnknown {
		if strings.Contains(display, " - TV Series") {
			hint = media.TypeTV
		} else if strings.Contains(display, " - Movie") {
			hint = media.TypeMovie
		}
	}

	var (
		resp *tmdb.Response
		err  error
	)
	switch hint {
	case media.TypeTV:
		resp, err = r.search.SearchTV(ctx, title, 0)
	case media.TypeMovie:
		resp, err = r.search.SearchMovie(ctx, title, 0)
	default:
		resp, err = r.search.SearchMulti(ctx, title, 0)
	}
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	var best *tmdb.Result
	if year != "" {
		for i := range resp.Results {
			if strings.HasPrefix(resp.Results[i].Date(), year) {
				best = &resp.Results[i]
				break
			}
		}
	}
	if best == nil || best.PosterPath == "" {
		for i := range resp.Results {
			if resp.Results[i].PosterPath != "" {
				best = &resp.Results[i]
				break
			}
		}
	}
	if best == nil || best.PosterPath == "" {
		return nil, nil
	}
	return []string{best.PosterURL()}, nil
}

var ordinalPrefixPattern = regexp.MustCompile(`^(\d+[.)]|-|\*)\s*`)

// contextWords extracts the significant words from a disambiguation context
// string: lowercased, split on non-word runs, keeping words longer than
// three characters.
func contextWords(matchContext string) []string {
	var words []string
	for _, word := range nonWordPattern.Split(strings.ToLower(matchContext), -1) {
		if len(word) > 3 {
			words = append(words, word)
		}
	}
	return words
}

// scoreResults ranks results by how many context words their overview
// contains. The sort is stable so ties keep search order.
func scoreResults(results []tmdb.Result, words []string) ([]tmdb.Result, int) {
	type scored struct {
		result tmdb.Result
		score  int
	}
	entries := make([]scored, len(results))
	for i, result := range results {
		overview := strings.ToLower(result.Overview)
		count := 0
		for _, word := range words {
			if strings.Contains(overview, word) {
				count++
			}
		}
		entries[i] = scored{result: result, score: count}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].score > entries[j].score })

	ranked := make([]tmdb.Result, len(entries))
	for i, entry := range entries {
		ranked[i] = entry.result
	}
	top := 0
	if len(entries) > 0 {
		top = entries[0].score
	}
	return ranked, top
}

func parseYear(year string) int {
	value, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return 0
	}
	return value
}
