package reconcile_test

import (
	"context"
	"strings"
	"testing"

	"screener/internal/media"
	"screener/internal/reconcile"
	"screener/internal/reconcile/tmdb"
)

type call struct {
	kind  string
	query string
	year  int
}

type fakeSearcher struct {
	calls []call

	movieResults func(query string, year int) []tmdb.Result
	tvResults    func(query string, year int) []tmdb.Result
	multiResults []tmdb.Result

	movieDetails map[int64]*tmdb.Details
	tvDetails    map[int64]*tmdb.Details
}

func (f *fakeSearcher) SearchMovie(_ context.Context, query string, year int) (*tmdb.Response, error) {
	f.calls = append(f.calls, call{"movie", query, year})
	var results []tmdb.Result
	if f.movieResults != nil {
		results = f.movieResults(query, year)
	}
	return &tmdb.Response{Results: results}, nil
}

func (f *fakeSearcher) SearchTV(_ context.Context, query string, year int) (*tmdb.Response, error) {
	f.calls = append(f.calls, call{"tv", query, year})
	var results []tmdb.Result
	if f.tvResults != nil {
		results = f.tvResults(query, year)
	}
	return &tmdb.Response{Results: results}, nil
}

func (f *fakeSearcher) SearchMulti(_ context.Context, query string, year int) (*tmdb.Response, error) {
	f.calls = append(f.calls, call{"multi", query, year})
	return &tmdb.Response{Results: f.multiResults}, nil
}

func (f *fakeSearcher) MovieDetails(_ context.Context, id int64) (*tmdb.Details, error) {
	f.calls = append(f.calls, call{kind: "movie_details", year: int(id)})
	return f.movieDetails[id], nil
}

func (f *fakeSearcher) TVDetails(_ context.Context, id int64) (*tmdb.Details, error) {
	f.calls = append(f.calls, call{kind: "tv_details", year: int(id)})
	return f.tvDetails[id], nil
}

func TestLookupReturnsDetailIdentity(t *testing.T) {
	fake := &fakeSearcher{
		movieResults: func(query string, year int) []tmdb.Result {
			if year == 1998 {
				return []tmdb.Result{{ID: 10674, Title: "Mulan", ReleaseDate: "1998-06-05"}}
			}
			return nil
		},
		movieDetails: map[int64]*tmdb.Details{
			10674: {
				ID: 10674, Title: "Mulan", ReleaseDate: "1998-06-05",
				IMDbID: "tt0120762", Popularity: 55.3, PosterPath: "/mulan.jpg",
			},
		},
	}
	r := reconcile.New(fake, nil)

	identity, err := r.Lookup(context.Background(), "Mulan", "1998", media.TypeMovie, "")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if identity == nil {
		t.Fatal("expected identity")
	}
	if identity.IMDbID != "tt0120762" || identity.Year != "1998" || identity.Type != media.TypeMovie {
		t.Errorf("identity = %+v", identity)
	}
	if identity.PosterURL != tmdb.ImageBaseURL+"/mulan.jpg" {
		t.Errorf("poster url = %q", identity.PosterURL)
	}
}

func TestLookupMissReturnsNil(t *testing.T) {
	fake := &fakeSearcher{}
	r := reconcile.New(fake, nil)

	identity, err := r.Lookup(context.Background(), "Nonexistent", "", media.TypeMovie, "")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if identity != nil {
		t.Fatalf("expected nil identity, got %+v", identity)
	}
}

func TestLookupContextRanking(t *testing.T) {
	fake := &fakeSearcher{
		tvResults: func(query string, year int) []tmdb.Result {
			return []tmdb.Result{
				{ID: 1, Name: "The Penguin", Overview: "A documentary about antarctic wildlife."},
				{ID: 2, Name: "The Penguin", Overview: "Gotham crime boss rises after Batman events."},
			}
		},
		tvDetails: map[int64]*tmdb.Details{
			1: {ID: 1, Name: "The Penguin", FirstAirDate: "2013-01-01"},
			2: {ID: 2, Name: "The Penguin", FirstAirDate: "2024-09-19"},
		},
	}
	r := reconcile.New(fake, nil)

	identity, err := r.Lookup(context.Background(), "The Penguin", "", media.TypeTV, "Starring Colin Farrell as the Gotham crime boss")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if identity == nil || identity.TMDBID != 2 {
		t.Fatalf("expected context match to win, got %+v", identity)
	}
}

func TestLookupWeakContextFallsBackToLooseSearch(t *testing.T) {
	strictCalls := 0
	fake := &fakeSearcher{
		movieResults: func(query string, year int) []tmdb.Result {
			if year > 0 {
				strictCalls++
				return []tmdb.Result{
					{ID: 1, Title: "Wrong Thing", Overview: "Nothing relevant here."},
					{ID: 4, Title: "Other Wrong Thing", Overview: "Equally unrelated plot."},
				}
			}
			return []tmdb.Result{{ID: 2, Title: "Right Thing", Overview: "A heist thriller featuring diamond robbery chaos."}}
		},
		movieDetails: map[int64]*tmdb.Details{
			1: {ID: 1, Title: "Wrong Thing"},
			2: {ID: 2, Title: "Right Thing", ReleaseDate: "2001-05-01"},
			4: {ID: 4, Title: "Other Wrong Thing"},
		},
	}
	r := reconcile.New(fake, nil)

	identity, err := r.Lookup(context.Background(), "Thing", "2001", media.TypeMovie, "heist thriller diamond robbery")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if identity == nil || identity.TMDBID != 2 {
		t.Fatalf("expected loose search winner, got %+v", identity)
	}
	if strictCalls != 1 {
		t.Errorf("expected exactly one strict search, got %d", strictCalls)
	}
}

func TestLookupSingleCandidateSkipsContextRanking(t *testing.T) {
	looseCalls := 0
	fake := &fakeSearcher{
		movieResults: func(query string, year int) []tmdb.Result {
			if year == 0 {
				looseCalls++
				return []tmdb.Result{{ID: 2, Title: "Heat", Overview: "A heist thriller featuring diamond robbery chaos."}}
			}
			return []tmdb.Result{{ID: 1, Title: "Heat", Overview: "Terse logline."}}
		},
		movieDetails: map[int64]*tmdb.Details{
			1: {ID: 1, Title: "Heat", ReleaseDate: "1995-12-15"},
			2: {ID: 2, Title: "Heat", ReleaseDate: "1986-03-07"},
		},
	}
	r := reconcile.New(fake, nil)

	identity, err := r.Lookup(context.Background(), "Heat", "1995", media.TypeMovie, "heist thriller diamond robbery")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if identity == nil || identity.TMDBID != 1 {
		t.Fatalf("expected the lone year-pinned match kept, got %+v", identity)
	}
	if looseCalls != 0 {
		t.Errorf("lone candidate must not trigger a loose search, got %d", looseCalls)
	}
}

func TestLookupEmptyStrictRetriesWithoutYear(t *testing.T) {
	fake := &fakeSearcher{
		movieResults: func(query string, year int) []tmdb.Result {
			if year > 0 {
				return nil
			}
			return []tmdb.Result{{ID: 3, Title: "Benjamin"}}
		},
		movieDetails: map[int64]*tmdb.Details{
			3: {ID: 3, Title: "Benjamin", ReleaseDate: "2018-03-01"},
		},
	}
	r := reconcile.New(fake, nil)

	identity, err := r.Lookup(context.Background(), "Benjamin", "2018", media.TypeMovie, "")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if identity == nil || identity.Year != "2018" {
		t.Fatalf("expected loose fallback hit, got %+v", identity)
	}
}

func TestResolveBestTriesPreferredThenOthers(t *testing.T) {
	fake := &fakeSearcher{
		tvResults: func(query string, year int) []tmdb.Result {
			return []tmdb.Result{{ID: 9, Name: "Arcane"}}
		},
		tvDetails: map[int64]*tmdb.Details{
			9: {ID: 9, Name: "Arcane", FirstAirDate: "2021-11-06"},
		},
	}
	r := reconcile.New(fake, nil)

	identity, err := r.ResolveBest(context.Background(), "Arcane", "", media.TypeUnknown, "")
	if err != nil {
		t.Fatalf("ResolveBest returned error: %v", err)
	}
	if identity == nil || identity.Type != media.TypeTV {
		t.Fatalf("expected tv identity, got %+v", identity)
	}
	// Movie is tried before TV when no preference is known.
	if fake.calls[0].kind != "movie" {
		t.Errorf("first call = %+v, want movie search", fake.calls[0])
	}
}

func TestVerifyCrossTypeSwapsOnPopularity(t *testing.T) {
	fake := &fakeSearcher{
		movieResults: func(query string, year int) []tmdb.Result {
			return []tmdb.Result{{ID: 1, Title: "The Magic Penguin"}}
		},
		tvResults: func(query string, year int) []tmdb.Result {
			return []tmdb.Result{{ID: 2, Name: "The Penguin"}}
		},
		movieDetails: map[int64]*tmdb.Details{
			1: {ID: 1, Title: "The Magic Penguin", Popularity: 5},
		},
		tvDetails: map[int64]*tmdb.Details{
			2: {ID: 2, Name: "The Penguin", FirstAirDate: "2024-09-19", Popularity: 80},
		},
	}
	r := reconcile.New(fake, nil)

	identity, swapped, err := r.VerifyCrossType(context.Background(), "The Penguin (2024)", "2024", media.TypeMovie)
	if err != nil {
		t.Fatalf("VerifyCrossType returned error: %v", err)
	}
	if !swapped {
		t.Fatal("expected swap")
	}
	if identity.Type != media.TypeTV || identity.TMDBID != 2 {
		t.Errorf("identity = %+v", identity)
	}
}

func TestVerifyCrossTypeSwapsOnExactTitle(t *testing.T) {
	fake := &fakeSearcher{
		movieResults: func(query string, year int) []tmdb.Result {
			return []tmdb.Result{{ID: 1, Title: "The Real Sopranos"}}
		},
		tvResults: func(query string, year int) []tmdb.Result {
			return []tmdb.Result{{ID: 2, Name: "The Sopranos"}}
		},
		movieDetails: map[int64]*tmdb.Details{
			1: {ID: 1, Title: "The Real Sopranos", Popularity: 50},
		},
		tvDetails: map[int64]*tmdb.Details{
			2: {ID: 2, Name: "The Sopranos", FirstAirDate: "1999-01-10", Popularity: 60},
		},
	}
	r := reconcile.New(fake, nil)

	identity, swapped, err := r.VerifyCrossType(context.Background(), "The Sopranos", "", media.TypeMovie)
	if err != nil {
		t.Fatalf("VerifyCrossType returned error: %v", err)
	}
	if !swapped || identity.TMDBID != 2 {
		t.Fatalf("expected exact-title swap, got swapped=%v identity=%+v", swapped, identity)
	}
}

func TestVerifyCrossTypeKeepsPrimary(t *testing.T) {
	fake := &fakeSearcher{
		movieResults: func(query string, year int) []tmdb.Result {
			return []tmdb.Result{{ID: 1, Title: "Mulan"}}
		},
		tvResults: func(query string, year int) []tmdb.Result {
			return []tmdb.Result{{ID: 2, Name: "Mulan"}}
		},
		movieDetails: map[int64]*tmdb.Details{
			1: {ID: 1, Title: "Mulan", ReleaseDate: "1998-06-05", Popularity: 60},
		},
		tvDetails: map[int64]*tmdb.Details{
			2: {ID: 2, Name: "Mulan", Popularity: 10},
		},
	}
	r := reconcile.New(fake, nil)

	identity, swapped, err := r.VerifyCrossType(context.Background(), "Mulan (1998)", "1998", media.TypeMovie)
	if err != nil {
		t.Fatalf("VerifyCrossType returned error: %v", err)
	}
	if swapped {
		t.Fatal("unexpected swap")
	}
	if identity.TMDBID != 1 {
		t.Errorf("identity = %+v", identity)
	}
}

func TestDisambiguateFormatsAndCapsOptions(t *testing.T) {
	fake := &fakeSearcher{
		multiResults: []tmdb.Result{
			{ID: 1, Title: "Avatar", MediaType: "movie", ReleaseDate: "2009-12-18"},
			{ID: 2, Name: "Avatar: The Last Airbender", MediaType: "tv", FirstAirDate: "2005-02-21"},
			{ID: 3, Name: "Some Person", MediaType: "person"},
			{ID: 4, Title: "Avatar 2", MediaType: "movie", ReleaseDate: "2022-12-16"},
			{ID: 5, Title: "A", MediaType: "movie", ReleaseDate: "2010-01-01"},
			{ID: 6, Title: "B", MediaType: "movie", ReleaseDate: "2011-01-01"},
			{ID: 7, Title: "C", MediaType: "movie", ReleaseDate: "2012-01-01"},
		},
	}
	r := reconcile.New(fake, nil)

	options, err := r.Disambiguate(context.Background(), "Avatar")
	if err != nil {
		t.Fatalf("Disambiguate returned error: %v", err)
	}
	if len(options) != 5 {
		t.Fatalf("options = %v", options)
	}
	if options[0] != "Avatar (2009) - Movie" {
		t.Errorf("option 0 = %q", options[0])
	}
	if options[1] != "Avatar: The Last Airbender (2005) - TV Series" {
		t.Errorf("option 1 = %q", options[1])
	}
	for _, opt := range options {
		if strings.Contains(opt, "Some Person") {
			t.Errorf("person result leaked into options: %v", options)
		}
	}
}

func TestPostersPrefersYearMatch(t *testing.T) {
	fake := &fakeSearcher{
		movieResults: func(query string, year int) []tmdb.Result {
			if query != "Mulan" {
				t.Fatalf("query = %q, want cleaned title", query)
			}
			return []tmdb.Result{
				{ID: 1, Title: "Mulan", ReleaseDate: "2020-09-04", PosterPath: "/2020.jpg"},
				{ID: 2, Title: "Mulan", ReleaseDate: "1998-06-05", PosterPath: "/1998.jpg"},
			}
		},
	}
	r := reconcile.New(fake, nil)

	urls, err := r.Posters(context.Background(), "2. Mulan (1998) - Movie", media.TypeUnknown)
	if err != nil {
		t.Fatalf("Posters returned error: %v", err)
	}
	if len(urls) != 1 || !strings.HasSuffix(urls[0], "/1998.jpg") {
		t.Fatalf("urls = %v", urls)
	}
}

func TestPostersFallsBackToFirstArtwork(t *testing.T) {
	fake := &fakeSearcher{
		multiResults: []tmdb.Result{
			{ID: 1, Title: "Something", MediaType: "movie"},
			{ID: 2, Title: "Something Else", MediaType: "movie", PosterPath: "/else.jpg"},
		},
	}
	r := reconcile.New(fake, nil)

	urls, err := r.Posters(context.Background(), "Something", media.TypeUnknown)
	if err != nil {
		t.Fatalf("Posters returned error: %v", err)
	}
	if len(urls) != 1 || !strings.HasSuffix(urls[0], "/else.jpg") {
		t.Fatalf("urls = %v", urls)
	}
}
