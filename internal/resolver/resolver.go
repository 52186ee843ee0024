package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"screener/internal/classify"
	"screener/internal/logging"
	"screener/internal/media"
	"screener/internal/reconcile"
	"screener/internal/scoring"
	"screener/internal/store"
	"screener/internal/titleparse"
)

// ErrQueryTooShort rejects inputs below the minimum length before any
// network call is made. URL-shaped inputs are exempt.
var ErrQueryTooShort = fmt.Errorf("query must be at least %d characters", titleparse.MinQueryLength)

// Classifier is the oracle-backed disambiguation and scoring collaborator.
// Implemented by *classify.Classifier.
type Classifier interface {
	Classify(ctx context.Context, title string) (*classify.Outcome, error)
	ClassifyPreResolved(ctx context.Context, pre classify.PreResolved) (*classify.Outcome, error)
	DeepDive(ctx context.Context, title, year string, mediaType media.Type, atp float64) (classify.DeepDive, error)
}

// Metadata is the structured-database collaborator. Implemented by
// *reconcile.Reconciler.
type Metadata interface {
	Lookup(ctx context.Context, query, year string, mediaType media.Type, matchContext string) (*reconcile.Identity, error)
	ResolveBest(ctx context.Context, query, year string, preferred media.Type, matchContext string) (*reconcile.Identity, error)
	VerifyCrossType(ctx context.Context, verdictTitle, verdictYear string, verdictType media.Type) (*reconcile.Identity, bool, error)
	Disambiguate(ctx context.Context, title string) ([]string, error)
	Posters(ctx context.Context, display string, hint media.Type) ([]string, error)
}

// Option is one disambiguation candidate offered to the caller.
type Option struct {
	Display string   `json:"display"`
	Posters []string `json:"posters,omitempty"`
}

// Result is the outcome of one resolution request.
type Result struct {
	Record    *media.Record `json:"record,omitempty"`
	Options   []Option      `json:"options,omitempty"`
	FromCache bool          `json:"fromCache,omitempty"`
}

// Ambiguous reports whether the caller must pick an option.
func (r *Result) Ambiguous() bool {
	return r != nil && len(r.Options) > 0
}

// Resolver drives the full resolution pipeline.
type Resolver struct {
	store      *store.Store
	classifier Classifier
	metadata   Metadata
	links      LinkResolver
	logger     *slog.Logger
}

// New constructs a resolver. The link resolver may be nil, in which case
// URL inputs fall back to slug-derived titles.
func New(st *store.Store, classifier Classifier, metadata Metadata, links LinkResolver, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:      st,
		classifier: classifier,
		metadata:   metadata,
		links:      links,
		logger:     logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolve turns a free-form query into a canonical record or an option
// list. Resolving a cached title returns the stored record without any
// oracle or database traffic.
func (r *Resolver) Resolve(ctx context.Context, query string) (*Result, error) {
	return r.resolve(ctx, query, false)
}

func (r *Resolver) resolve(ctx context.Context, query string, bypassCache bool) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryTooShort
	}
	if len(query) < titleparse.MinQueryLength && !titleparse.LooksLikeURL(query) {
		return nil, ErrQueryTooShort
	}

	var pre *classify.PreResolved
	if titleparse.IsLink(query) {
		resolved, err := r.resolveLink(ctx, query)
		if err != nil {
			return nil, err
		}
		pre = resolved
		query = resolved.Title
	}

	parsed := titleparse.Parse(query)
	if parsed.Title == "" {
		return nil, ErrQueryTooShort
	}

	if !bypassCache {
		if cached, err := r.store.FindByTitle(ctx, parsed.Title); err != nil {
			return nil, fmt.Errorf("cache lookup: %w", err)
		} else if cached != nil {
			r.logger.Info("cache hit", logging.FieldTitle, cached.Title)
			return &Result{Record: cached, FromCache: true}, nil
		}
	}

	// A year or an explicit type marker means the caller already knows
	// which entity they want, so the identity is settled up front and
	// the oracle only scores it.
	if pre == nil && (parsed.Year != "" || parsed.Type != media.TypeUnknown) {
		identity, err := r.metadata.ResolveBest(ctx, parsed.Title, parsed.Year, parsed.Type, parsed.Context)
		if err != nil {
			r.logger.Warn("pre-resolution failed, continuing with raw query", logging.Error(err))
		} else if identity != nil {
			pre = &classify.PreResolved{
				Title:  identity.Title,
				Year:   identity.Year,
				IMDbID: identity.IMDbID,
			}
		}
	}

	outcome, err := r.classify(ctx, parsed, pre)
	if err != nil {
		return nil, err
	}

	if outcome.Ambiguous {
		return r.ambiguousResult(ctx, outcome.Options), nil
	}

	analysis := outcome.Analysis
	if analysis.Blocked {
		return r.blockedResult(ctx, parsed)
	}

	return r.finishAnalysis(ctx, parsed, analysis, pre, bypassCache)
}

// classify runs the oracle, retrying the whole exchange once on failure.
// Empty responses and truncated output show up as parse errors, and a
// single re-ask usually recovers them.
func (r *Resolver) classify(ctx context.Context, parsed titleparse.Parsed, pre *classify.PreResolved) (*classify.Outcome, error) {
	run := func() (*classify.Outcome, error) {
		if pre != nil {
			return r.classifier.ClassifyPreResolved(ctx, *pre)
		}
		return r.classifier.Classify(ctx, classifyQuery(parsed))
	}

	outcome, err := run()
	if err != nil {
		r.logger.Warn("classification failed, retrying once", logging.FieldTitle, parsed.Title, logging.Error(err))
		outcome, err = run()
	}
	if err != nil {
		return nil, fmt.Errorf("classify %q: %w", parsed.Title, err)
	}
	return outcome, nil
}

// classifyQuery rebuilds the oracle-facing query from the parsed input so
// the prompt keeps the year qualifier but sheds bullet markers.
func classifyQuery(parsed titleparse.Parsed) string {
	if parsed.Year != "" {
		return parsed.Title + " (" + parsed.Year + ")"
	}
	return parsed.Title
}

// ambiguousResult decorates the option list with poster artwork. Lookups
// run concurrently and are purely cosmetic, so individual failures are
// logged and dropped.
func (r *Resolver) ambiguousResult(ctx context.Context, displays []string) *Result {
	options := make([]Option, len(displays))
	g, gctx := errgroup.WithContext(ctx)
	for i, display := range displays {
		options[i].Display = display
		g.Go(func() error {
			posters, err := r.metadata.Posters(gctx, display, media.TypeUnknown)
			if err != nil {
				r.logger.Warn("poster lookup failed", "option", display, logging.Error(err))
				return nil
			}
			options[i].Posters = posters
			return nil
		})
	}
	_ = g.Wait()
	return &Result{Options: options}
}

// blockedResult handles an outright safety refusal. The metadata database
// often still knows the title, so a multi-search stands in for the
// oracle's option list; only when that too is inconclusive does the
// degraded zero-score record get stored.
func (r *Resolver) blockedResult(ctx context.Context, parsed titleparse.Parsed) (*Result, error) {
	options, err := r.metadata.Disambiguate(ctx, parsed.Title)
	if err != nil {
		r.logger.Warn("disambiguation fallback failed", logging.FieldTitle, parsed.Title, logging.Error(err))
	}
	if len(options) > 1 {
		return r.ambiguousResult(ctx, options), nil
	}

	analysis := classify.BlockedAnalysis()
	rec := recordFromAnalysis(analysis)
	rec.Title = parsed.Title
	rec.Year = parsed.Year
	if parsed.Type != media.TypeUnknown {
		rec.Type = parsed.Type
	}

	created, err := r.store.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("store degraded record: %w", err)
	}
	r.logger.Info("stored degraded record after safety block", logging.FieldTitle, created.Title)
	return &Result{Record: created}, nil
}

func (r *Resolver) finishAnalysis(ctx context.Context, parsed titleparse.Parsed, analysis *classify.Analysis, pre *classify.PreResolved, bypassCache bool) (*Result, error) {
	// The oracle returns the canonical spelling, which can differ from
	// the raw query. Check the cache again before inserting a duplicate.
	if !bypassCache && !strings.EqualFold(analysis.Title, parsed.Title) {
		if cached, err := r.store.FindByTitle(ctx, analysis.Title); err != nil {
			return nil, fmt.Errorf("cache lookup: %w", err)
		} else if cached != nil {
			r.logger.Info("cache hit on canonical title", logging.FieldTitle, cached.Title)
			return &Result{Record: cached, FromCache: true}, nil
		}
	}

	rec := recordFromAnalysis(analysis)

	var identity *reconcile.Identity
	if pre != nil {
		if rec.IMDbID == "" {
			rec.IMDbID = pre.IMDbID
		}
		if rec.Year == "" {
			rec.Year = pre.Year
		}
		if lookup, err := r.metadata.Lookup(ctx, rec.Title, rec.Year, rec.Type, ""); err != nil {
			r.logger.Warn("detail lookup failed", logging.FieldTitle, rec.Title, logging.Error(err))
		} else {
			identity = lookup
		}
	} else {
		verified, swapped, err := r.metadata.VerifyCrossType(ctx, rec.Title, rec.Year, rec.Type)
		if err != nil {
			r.logger.Warn("cross-type verification failed", logging.FieldTitle, rec.Title, logging.Error(err))
		} else {
			identity = verified
			if swapped && identity != nil {
				r.logger.Info("media type corrected by metadata database",
					logging.FieldTitle, rec.Title, "from", string(rec.Type), "to", string(identity.Type))
			}
		}
	}
	applyIdentity(rec, identity)

	if rec.Type == media.TypeTV {
		r.deepDive(ctx, rec)
	}

	if len(rec.PosterURLs) == 0 {
		if posters, err := r.metadata.Posters(ctx, rec.DisplayTitle(), rec.Type); err == nil {
			rec.PosterURLs = posters
		}
	}

	created, err := r.store.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("store record: %w", err)
	}
	r.logger.Info("resolved", logging.FieldTitle, created.Title, "atp", created.ATP, "type", string(created.Type))
	return &Result{Record: created}, nil
}

// deepDive runs the per-season breakdown for a series and folds the
// season scores back into the aggregate. Failures are logged, not fatal:
// the flat analysis already carries a usable score.
func (r *Resolver) deepDive(ctx context.Context, rec *media.Record) {
	dive, err := r.classifier.DeepDive(ctx, rec.Title, rec.Year, rec.Type, rec.ATP)
	if err != nil {
		r.logger.Warn("deep dive failed", logging.FieldTitle, rec.Title, logging.Error(err))
		return
	}
	if dive.Explanation != "" {
		rec.DeepAnalysis = dive.Explanation
	}
	if len(dive.EpisodeFlags) > 0 {
		rec.EpisodeFlags = dive.EpisodeFlags
	}
	if len(dive.SeasonScores) > 0 {
		rec.SeasonScores = scoring.NormalizeSeasons(dive.SeasonScores)
		rec.ATP = scoring.WeightedATP(rec.SeasonScores)
	}
}

func recordFromAnalysis(a *classify.Analysis) *media.Record {
	return &media.Record{
		Title:             a.Title,
		Type:              a.Type,
		Year:              a.Year,
		ContentRating:     a.ContentRating,
		IMDb:              a.IMDb,
		IMDbID:            a.IMDbID,
		RottenTomatoes:    a.RottenTomatoes,
		RottenTomatoesURL: a.RottenTomatoesURL,
		Metacritic:        a.Metacritic,
		MetacriticURL:     a.MetacriticURL,
		ATP:               media.ClampATP(a.ATP),
		Rationale:         a.Rationale,
		SeasonScores:      scoring.NormalizeSeasons(a.SeasonScores),
	}
}

// applyIdentity adopts the database's canonical identity. Once a match is
// found, its title, year, and type replace whatever the oracle produced so
// the stored record keys on the canonical spelling. The oracle keeps only
// its IMDb ID when the database lacks one.
func applyIdentity(rec *media.Record, identity *reconcile.Identity) {
	if identity == nil {
		return
	}
	if identity.Title != "" {
		rec.Title = identity.Title
	}
	if identity.Year != "" {
		rec.Year = identity.Year
	}
	if identity.Type != media.TypeUnknown {
		rec.Type = identity.Type
	}
	if rec.IMDbID == "" {
		rec.IMDbID = identity.IMDbID
	}
	rec.Status = identity.Status
	rec.LastAirDate = identity.LastAirDate
	rec.NextEpisode = identity.NextEpisode
	rec.TotalSeasons = identity.TotalSeasons
	rec.TotalEpisodes = identity.TotalEpisodes
	rec.Popularity = identity.Popularity
	if identity.PosterURL != "" {
		rec.PosterURLs = []string{identity.PosterURL}
	}
}

// errNotFound distinguishes a missing record from a store failure.
var errNotFound = errors.New("record not found")

// IsNotFound reports whether err indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}
