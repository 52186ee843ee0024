package resolver_test

import (
	"context"
	"errors"
	"testing"

	"screener/internal/classify"
	"screener/internal/logging"
	"screener/internal/media"
	"screener/internal/reconcile"
	"screener/internal/resolver"
	"screener/internal/store"
	"screener/internal/testsupport"
)

type fakeClassifier struct {
	rawQueries  []string
	preRequests []classify.PreResolved

	outcomes []*classify.Outcome
	errs     []error

	deepDive      classify.DeepDive
	deepDiveErr   error
	deepDiveCalls int
}

func (f *fakeClassifier) next() (*classify.Outcome, error) {
	var err error
	if len(f.errs) > 0 {
		err, f.errs = f.errs[0], f.errs[1:]
	}
	if err != nil {
		return nil, err
	}
	if len(f.outcomes) == 0 {
		return nil, errors.New("fakeClassifier: no outcome queued")
	}
	outcome := f.outcomes[0]
	f.outcomes = f.outcomes[1:]
	return outcome, nil
}

func (f *fakeClassifier) Classify(_ context.Context, title string) (*classify.Outcome, error) {
	f.rawQueries = append(f.rawQueries, title)
	return f.next()
}

func (f *fakeClassifier) ClassifyPreResolved(_ context.Context, pre classify.PreResolved) (*classify.Outcome, error) {
	f.preRequests = append(f.preRequests, pre)
	return f.next()
}

func (f *fakeClassifier) DeepDive(context.Context, string, string, media.Type, float64) (classify.DeepDive, error) {
	f.deepDiveCalls++
	return f.deepDive, f.deepDiveErr
}

type fakeMetadata struct {
	lookupIdentity  *reconcile.Identity
	lookupCalls     int
	bestIdentity    *reconcile.Identity
	bestCalls       int
	verifyIdentity  *reconcile.Identity
	verifySwapped   bool
	verifyCalls     int
	disambiguations []string
	posters         map[string][]string
	posterCalls     []string
}

func (f *fakeMetadata) Lookup(context.Context, string, string, media.Type, string) (*reconcile.Identity, error) {
	f.lookupCalls++
	return f.lookupIdentity, nil
}

func (f *fakeMetadata) ResolveBest(context.Context, string, string, media.Type, string) (*reconcile.Identity, error) {
	f.bestCalls++
	return f.bestIdentity, nil
}

func (f *fakeMetadata) VerifyCrossType(context.Context, string, string, media.Type) (*reconcile.Identity, bool, error) {
	f.verifyCalls++
	return f.verifyIdentity, f.verifySwapped, nil
}

func (f *fakeMetadata) Disambiguate(context.Context, string) ([]string, error) {
	return f.disambiguations, nil
}

func (f *fakeMetadata) Posters(_ context.Context, display string, _ media.Type) ([]string, error) {
	f.posterCalls = append(f.posterCalls, display)
	return f.posters[display], nil
}

func analysisOutcome(title string, mediaType media.Type, atp float64) *classify.Outcome {
	return &classify.Outcome{
		Analysis: &classify.Analysis{
			Title:     title,
			Type:      mediaType,
			ATP:       atp,
			Rationale: "test rationale",
		},
	}
}

func newResolver(t *testing.T, fc *fakeClassifier, fm *fakeMetadata) (*resolver.Resolver, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	return resolver.New(st, fc, fm, nil, logging.NewNop()), st
}

func TestResolveRejectsShortQuery(t *testing.T) {
	fc := &fakeClassifier{}
	r, _ := newResolver(t, fc, &fakeMetadata{})

	for _, query := range []string{"", "  ", "ab"} {
		if _, err := r.Resolve(context.Background(), query); !errors.Is(err, resolver.ErrQueryTooShort) {
			t.Fatalf("query %q: expected ErrQueryTooShort, got %v", query, err)
		}
	}
	if len(fc.rawQueries) != 0 {
		t.Fatal("short queries must not reach the classifier")
	}
}

func TestResolveCacheHitShortCircuits(t *testing.T) {
	fc := &fakeClassifier{}
	fm := &fakeMetadata{}
	r, st := newResolver(t, fc, fm)
	testsupport.NewRecord(t, st, "Mulan", media.TypeMovie)

	result, err := r.Resolve(context.Background(), "mulan")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !result.FromCache || result.Record == nil || result.Record.Title != "Mulan" {
		t.Fatalf("expected cache hit, got %#v", result)
	}
	if len(fc.rawQueries)+len(fc.preRequests) != 0 || fm.verifyCalls != 0 {
		t.Fatal("cache hit must not trigger oracle or database calls")
	}
}

func TestResolveRawQueryCrossVerifies(t *testing.T) {
	fc := &fakeClassifier{outcomes: []*classify.Outcome{analysisOutcome("Heat", media.TypeMovie, 4.5)}}
	fm := &fakeMetadata{
		verifyIdentity: &reconcile.Identity{
			Title:      "Heat",
			Year:       "1995",
			Type:       media.TypeMovie,
			IMDbID:     "tt0113277",
			Status:     "Released",
			Popularity: 40,
			PosterURL:  "https://image.tmdb.org/t/p/original/heat.jpg",
		},
	}
	r, st := newResolver(t, fc, fm)

	result, err := r.Resolve(context.Background(), "Heat")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if result.FromCache || result.Ambiguous() {
		t.Fatalf("expected fresh resolution, got %#v", result)
	}
	if len(fc.rawQueries) != 1 || fc.rawQueries[0] != "Heat" {
		t.Fatalf("unexpected classifier queries: %#v", fc.rawQueries)
	}
	if fm.verifyCalls != 1 || fm.bestCalls != 0 {
		t.Fatalf("expected cross-type verification only, verify=%d best=%d", fm.verifyCalls, fm.bestCalls)
	}
	rec := result.Record
	if rec.IMDbID != "tt0113277" || rec.Year != "1995" || len(rec.PosterURLs) != 1 {
		t.Fatalf("identity not merged: %#v", rec)
	}

	stored, err := st.FindByTitle(context.Background(), "Heat")
	if err != nil || stored == nil {
		t.Fatalf("expected record persisted, got %#v err=%v", stored, err)
	}
}

func TestResolveAdoptsVerifiedCanonicalTitle(t *testing.T) {
	fc := &fakeClassifier{outcomes: []*classify.Outcome{analysisOutcome("Stranger Things 5", media.TypeMovie, 6)}}
	fm := &fakeMetadata{
		verifyIdentity: &reconcile.Identity{
			Title:  "Stranger Things",
			Year:   "2016",
			Type:   media.TypeMovie,
			IMDbID: "tt4574334",
		},
	}
	r, st := newResolver(t, fc, fm)

	result, err := r.Resolve(context.Background(), "Stranger Things 5")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	rec := result.Record
	if rec.Title != "Stranger Things" || rec.Year != "2016" {
		t.Fatalf("verified identity not adopted: %#v", rec)
	}

	stored, err := st.FindByTitle(context.Background(), "Stranger Things")
	if err != nil || stored == nil {
		t.Fatalf("expected record stored under canonical title, got %#v err=%v", stored, err)
	}

	again, err := r.Resolve(context.Background(), "Stranger Things")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !again.FromCache || again.Record.ID != stored.ID {
		t.Fatalf("canonical title must hit the cache, got %#v", again)
	}
}

func TestResolveWithYearPreResolves(t *testing.T) {
	fc := &fakeClassifier{outcomes: []*classify.Outcome{analysisOutcome("Mulan", media.TypeMovie, 2)}}
	fm := &fakeMetadata{
		bestIdentity: &reconcile.Identity{
			Title:  "Mulan",
			Year:   "1998",
			Type:   media.TypeMovie,
			IMDbID: "tt0120762",
		},
		lookupIdentity: &reconcile.Identity{
			Title:      "Mulan",
			Year:       "1998",
			Type:       media.TypeMovie,
			IMDbID:     "tt0120762",
			Status:     "Released",
			Popularity: 60,
		},
	}
	r, _ := newResolver(t, fc, fm)

	result, err := r.Resolve(context.Background(), "Mulan (1998)")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if fm.bestCalls != 1 {
		t.Fatalf("expected pre-resolution, got %d calls", fm.bestCalls)
	}
	if len(fc.preRequests) != 1 || fc.preRequests[0].IMDbID != "tt0120762" {
		t.Fatalf("expected pre-resolved classification, got %#v", fc.preRequests)
	}
	if fm.verifyCalls != 0 {
		t.Fatal("pre-resolved flow must skip cross-type verification")
	}
	if result.Record.Status != "Released" || result.Record.Popularity != 60 {
		t.Fatalf("detail fields not merged: %#v", result.Record)
	}
}

func TestResolveTypeSwapCorrectsRecord(t *testing.T) {
	fc := &fakeClassifier{outcomes: []*classify.Outcome{analysisOutcome("Pose", media.TypeMovie, 6)}}
	fm := &fakeMetadata{
		verifyIdentity: &reconcile.Identity{
			Title:  "Pose",
			Year:   "2018",
			Type:   media.TypeTV,
			IMDbID: "tt7562112",
		},
		verifySwapped: true,
	}
	r, _ := newResolver(t, fc, fm)

	result, err := r.Resolve(context.Background(), "Pose")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if result.Record.Type != media.TypeTV {
		t.Fatalf("expected type corrected to TV Series, got %s", result.Record.Type)
	}
	if fc.deepDiveCalls != 1 {
		t.Fatal("corrected series must still get a deep dive")
	}
}

func TestResolveAmbiguousFansOutPosters(t *testing.T) {
	fc := &fakeClassifier{outcomes: []*classify.Outcome{{
		Ambiguous: true,
		Options:   []string{"Mulan (1998) - Movie", "Mulan (2020) - Movie"},
	}}}
	fm := &fakeMetadata{posters: map[string][]string{
		"Mulan (1998) - Movie": {"https://image.tmdb.org/t/p/original/1998.jpg"},
		"Mulan (2020) - Movie": {"https://image.tmdb.org/t/p/original/2020.jpg"},
	}}
	r, st := newResolver(t, fc, fm)

	result, err := r.Resolve(context.Background(), "Mulan")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !result.Ambiguous() || len(result.Options) != 2 {
		t.Fatalf("expected two options, got %#v", result)
	}
	for _, opt := range result.Options {
		if len(opt.Posters) != 1 {
			t.Fatalf("expected poster for %q, got %#v", opt.Display, opt.Posters)
		}
	}

	records, err := st.List(context.Background())
	if err != nil || len(records) != 0 {
		t.Fatalf("ambiguous outcome must not be cached, got %d records", len(records))
	}
}

func TestResolveBlockedFallsBackToDisambiguation(t *testing.T) {
	fc := &fakeClassifier{outcomes: []*classify.Outcome{{Analysis: classify.BlockedAnalysis()}}}
	fm := &fakeMetadata{disambiguations: []string{
		"Forbidden (1932) - Movie",
		"Forbidden (1949) - Movie",
	}}
	r, _ := newResolver(t, fc, fm)

	result, err := r.Resolve(context.Background(), "Forbidden")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !result.Ambiguous() || len(result.Options) != 2 {
		t.Fatalf("expected disambiguation fallback options, got %#v", result)
	}
}

func TestResolveBlockedStoresDegradedRecord(t *testing.T) {
	fc := &fakeClassifier{outcomes: []*classify.Outcome{{Analysis: classify.BlockedAnalysis()}}}
	fm := &fakeMetadata{}
	r, st := newResolver(t, fc, fm)

	result, err := r.Resolve(context.Background(), "Some Show (2011) - TV Series")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	rec := result.Record
	if rec == nil || rec.Title != "Some Show" || rec.ATP != 0 {
		t.Fatalf("expected degraded record with original title, got %#v", rec)
	}
	if rec.Type != media.TypeTV || rec.Year != "2011" {
		t.Fatalf("parsed hints not preserved: %#v", rec)
	}

	stored, err := st.FindByTitle(context.Background(), "Some Show")
	if err != nil || stored == nil {
		t.Fatalf("expected degraded record persisted, got err=%v", err)
	}
}

func TestResolveRetriesClassificationOnce(t *testing.T) {
	fc := &fakeClassifier{
		errs:     []error{errors.New("truncated response")},
		outcomes: []*classify.Outcome{analysisOutcome("Heat", media.TypeMovie, 4)},
	}
	r, _ := newResolver(t, fc, &fakeMetadata{})

	result, err := r.Resolve(context.Background(), "Heat")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(fc.rawQueries) != 2 {
		t.Fatalf("expected one retry, got %d attempts", len(fc.rawQueries))
	}
	if result.Record == nil || result.Record.Title != "Heat" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestResolveFailsAfterSecondClassificationError(t *testing.T) {
	fc := &fakeClassifier{errs: []error{errors.New("boom"), errors.New("boom")}}
	r, _ := newResolver(t, fc, &fakeMetadata{})

	if _, err := r.Resolve(context.Background(), "Heat"); err == nil {
		t.Fatal("expected error after two classification failures")
	}
}

func TestResolveSecondaryCacheCheckOnCanonicalTitle(t *testing.T) {
	fc := &fakeClassifier{outcomes: []*classify.Outcome{analysisOutcome("Pose", media.TypeTV, 7)}}
	fm := &fakeMetadata{}
	r, st := newResolver(t, fc, fm)
	cached := testsupport.NewRecord(t, st, "Pose", media.TypeTV)

	result, err := r.Resolve(context.Background(), "pose fx show")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !result.FromCache || result.Record.ID != cached.ID {
		t.Fatalf("expected canonical-title cache hit, got %#v", result)
	}
	if fm.verifyCalls != 0 || fc.deepDiveCalls != 0 {
		t.Fatal("cache hit must stop the pipeline before verification")
	}

	records, err := st.List(context.Background())
	if err != nil || len(records) != 1 {
		t.Fatalf("expected no duplicate insert, got %d records", len(records))
	}
}

func TestResolveSeriesDeepDiveReweightsScore(t *testing.T) {
	fc := &fakeClassifier{
		outcomes: []*classify.Outcome{analysisOutcome("Some Show", media.TypeTV, 5)},
		deepDive: classify.DeepDive{
			Explanation:  "Season two escalates sharply.",
			SeasonScores: []media.SeasonScore{{Season: 2, Score: 9.5}, {Season: 1, Score: 2}},
			EpisodeFlags: []string{"S2E4: prolonged club sequence"},
		},
	}
	r, _ := newResolver(t, fc, &fakeMetadata{})

	result, err := r.Resolve(context.Background(), "Some Show")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	rec := result.Record
	if fc.deepDiveCalls != 1 {
		t.Fatalf("expected automatic deep dive, got %d calls", fc.deepDiveCalls)
	}
	if rec.ATP != 8.8 {
		t.Fatalf("expected max-biased score 8.8, got %v", rec.ATP)
	}
	if len(rec.SeasonScores) != 2 || rec.SeasonScores[0].Season != 1 {
		t.Fatalf("season scores not normalized: %#v", rec.SeasonScores)
	}
	if rec.DeepAnalysis == "" || len(rec.EpisodeFlags) != 1 {
		t.Fatalf("deep dive payload not persisted: %#v", rec)
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	fc := &fakeClassifier{outcomes: []*classify.Outcome{analysisOutcome("Mulan", media.TypeMovie, 2)}}
	fm := &fakeMetadata{
		bestIdentity: &reconcile.Identity{Title: "Mulan", Year: "1998", Type: media.TypeMovie},
	}
	r, st := newResolver(t, fc, fm)

	ctx := context.Background()
	original, err := st.Create(ctx, &media.Record{
		Title: "Mulan", Type: media.TypeMovie, Year: "1998", ATP: 9, Rationale: "stale",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	result, err := r.Refresh(ctx, original.ID)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if result.FromCache {
		t.Fatal("refresh must not serve the cached record")
	}
	if result.Record.ID == original.ID {
		t.Fatal("refresh must create a new record")
	}
	if fm.bestCalls != 1 {
		t.Fatal("refresh query must carry the year and pre-resolve")
	}

	records, err := st.List(ctx)
	if err != nil || len(records) != 1 {
		t.Fatalf("expected the stale record replaced, got %d records", len(records))
	}
}

func TestRefreshUnknownRecord(t *testing.T) {
	r, _ := newResolver(t, &fakeClassifier{}, &fakeMetadata{})
	if _, err := r.Refresh(context.Background(), "missing"); !resolver.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDeepDiveRecordReusesStoredAnalysis(t *testing.T) {
	fc := &fakeClassifier{}
	r, st := newResolver(t, fc, &fakeMetadata{})

	ctx := context.Background()
	rec := testsupport.NewRecord(t, st, "Analyzed", media.TypeMovie)
	if err := st.SaveDeepDive(ctx, rec.ID, "Already analyzed.", nil, nil); err != nil {
		t.Fatalf("SaveDeepDive failed: %v", err)
	}

	got, err := r.DeepDiveRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("DeepDiveRecord failed: %v", err)
	}
	if got.DeepAnalysis != "Already analyzed." || fc.deepDiveCalls != 0 {
		t.Fatalf("expected stored analysis reused, calls=%d", fc.deepDiveCalls)
	}
}

func TestCheckUpdatesFlagsNewEpisodes(t *testing.T) {
	fm := &fakeMetadata{
		lookupIdentity: &reconcile.Identity{
			Title:         "Running Show",
			Type:          media.TypeTV,
			Status:        "Returning Series",
			LastAirDate:   "2026-08-20",
			TotalSeasons:  4,
			TotalEpisodes: 41,
		},
	}
	r, st := newResolver(t, &fakeClassifier{}, fm)

	ctx := context.Background()
	rec := testsupport.NewRecord(t, st, "Running Show", media.TypeTV)
	if err := st.UpdateAiring(ctx, rec.ID, store.AiringUpdate{
		Status: "Returning Series", LastAirDate: "2026-06-01", TotalSeasons: 4, TotalEpisodes: 38,
	}); err != nil {
		t.Fatalf("UpdateAiring failed: %v", err)
	}
	testsupport.NewRecord(t, st, "Some Film", media.TypeMovie)

	summary, err := r.CheckUpdates(ctx)
	if err != nil {
		t.Fatalf("CheckUpdates failed: %v", err)
	}
	if summary.Checked != 1 || len(summary.Updated) != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}

	updated, err := st.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !updated.HasNewEpisodes || updated.TotalEpisodes != 41 {
		t.Fatalf("airing data not refreshed: %#v", updated)
	}
}

func TestRandomSafePick(t *testing.T) {
	r, st := newResolver(t, &fakeClassifier{}, &fakeMetadata{})

	ctx := context.Background()
	mild := 7.5
	intense := 8.2
	safe, err := st.Create(ctx, &media.Record{
		Title: "Safe Pick", Type: media.TypeMovie, ATP: 1.5, IMDb: &mild, Rationale: "mild",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := st.Create(ctx, &media.Record{
		Title: "Too Intense", Type: media.TypeMovie, ATP: 8, IMDb: &intense, Rationale: "intense",
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := st.Create(ctx, &media.Record{
		Title: "Poorly Reviewed", Type: media.TypeMovie, ATP: 1, Rationale: "no rating",
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		pick, err := r.RandomSafePick(ctx)
		if err != nil {
			t.Fatalf("RandomSafePick failed: %v", err)
		}
		if pick == nil || pick.ID != safe.ID {
			t.Fatalf("expected the safe record, got %#v", pick)
		}
	}
}

func TestVote(t *testing.T) {
	r, st := newResolver(t, &fakeClassifier{}, &fakeMetadata{})

	ctx := context.Background()
	rec := testsupport.NewRecord(t, st, "Voted", media.TypeMovie)
	if err := r.Vote(ctx, rec.ID, true); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}
	if err := r.Vote(ctx, "missing", true); !resolver.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	fetched, err := st.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.VotesUp != 1 {
		t.Fatalf("unexpected vote count: %d", fetched.VotesUp)
	}
}
