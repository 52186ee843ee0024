package titleparse_test

import (
	"testing"

	"screener/internal/media"
	"screener/internal/titleparse"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		wantT string
		wantY string
		wantK media.Type
		wantC string
	}{
		{
			name:  "movie with year",
			raw:   "Mulan (1998) - Movie",
			wantT: "Mulan",
			wantY: "1998",
			wantK: media.TypeMovie,
		},
		{
			name:  "same title different year",
			raw:   "Mulan (2020) - Movie",
			wantT: "Mulan",
			wantY: "2020",
			wantK: media.TypeMovie,
		},
		{
			name:  "embedded hyphen survives",
			raw:   "Spider-Man (2002) - Movie",
			wantT: "Spider-Man",
			wantY: "2002",
			wantK: media.TypeMovie,
		},
		{
			name:  "ordinal bullet stripped",
			raw:   "1. The Penguin (2024) - TV Series - Starring Colin Farrell",
			wantT: "The Penguin",
			wantY: "2024",
			wantK: media.TypeTV,
			wantC: "Starring Colin Farrell",
		},
		{
			name:  "last year parenthetical wins",
			raw:   "Avatar (franchise) (2009)",
			wantT: "Avatar (franchise)",
			wantY: "2009",
			wantK: media.TypeUnknown,
		},
		{
			name:  "bare title",
			raw:   "Euphoria",
			wantT: "Euphoria",
			wantK: media.TypeUnknown,
		},
		{
			name:  "context carried through",
			raw:   "Benjamin (2018) - Movie - A family calls in an intervention for a drug addicted teen",
			wantT: "Benjamin",
			wantY: "2018",
			wantK: media.TypeMovie,
			wantC: "A family calls in an intervention for a drug addicted teen",
		},
		{
			name:  "unicode dash separator",
			raw:   "The Wire (2002) – TV Series",
			wantT: "The Wire",
			wantY: "2002",
			wantK: media.TypeTV,
		},
		{
			name:  "empty input",
			raw:   "   ",
			wantT: "",
			wantK: media.TypeUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := titleparse.Parse(tc.raw)
			if got.Title != tc.wantT {
				t.Errorf("Title = %q, want %q", got.Title, tc.wantT)
			}
			if got.Year != tc.wantY {
				t.Errorf("Year = %q, want %q", got.Year, tc.wantY)
			}
			if got.Type != tc.wantK {
				t.Errorf("Type = %q, want %q", got.Type, tc.wantK)
			}
			if got.Context != tc.wantC {
				t.Errorf("Context = %q, want %q", got.Context, tc.wantC)
			}
		})
	}
}

func TestParseDistinguishesYears(t *testing.T) {
	a := titleparse.Parse("Mulan (1998) - Movie")
	b := titleparse.Parse("Mulan (2020) - Movie")
	if a.Title != b.Title {
		t.Fatalf("expected identical titles, got %q and %q", a.Title, b.Title)
	}
	if a.Year == b.Year {
		t.Fatal("expected years to differ so downstream lookups can disambiguate")
	}
}

func TestCleanDisplay(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"3. Spider-Man (2002) - Movie - Dir. Sam Raimi", "Spider-Man (2002) - Movie"},
		{"**The Penguin (2024) - TV Series - Colin Farrell**", "The Penguin (2024) - TV Series"},
		{"Benjamin (2018) - Drama - A filmmaker struggles", "Benjamin (2018) - Drama"},
		{"Euphoria", "Euphoria"},
	}
	for _, tc := range cases {
		if got := titleparse.CleanDisplay(tc.raw); got != tc.want {
			t.Errorf("CleanDisplay(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestStripOrdinal(t *testing.T) {
	cases := map[string]string{
		"1. Title":  "Title",
		"2) Title":  "Title",
		"- Title":   "Title",
		"* Title":   "Title",
		"Spiderifi": "Spiderifi",
	}
	for in, want := range cases {
		if got := titleparse.StripOrdinal(in); got != want {
			t.Errorf("StripOrdinal(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTitleFromSlug(t *testing.T) {
	cases := map[string]string{
		"https://www.rottentomatoes.com/m/the_big_sick": "The Big Sick",
		"https://www.imdb.com/title/tt0133093/":         "",
		"https://www.rottentomatoes.com/tv/the-wire":    "The Wire",
		"https://www.imdb.com/":                         "",
	}
	for in, want := range cases {
		if got := titleparse.TitleFromSlug(in); got != want {
			t.Errorf("TitleFromSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLinkDetection(t *testing.T) {
	if !titleparse.IsLink("https://www.imdb.com/title/tt0903747/") {
		t.Error("expected IMDb link to be detected")
	}
	if titleparse.IsLink("Breaking Bad") {
		t.Error("plain title misdetected as link")
	}
	if !titleparse.LooksLikeURL("http://x") {
		t.Error("expected http input to look like a URL")
	}
}
