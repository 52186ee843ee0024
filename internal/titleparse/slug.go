package titleparse

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleFromSlug derives a human-readable title from a media database URL,
// e.g. "https://www.rottentomatoes.com/m/the_big_sick" -> "The Big Sick".
// It is a last-resort fallback when link metadata resolution fails.
func TitleFromSlug(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	slug := ""
	for i := len(segments) - 1; i >= 0; i-- {
		segment := segments[i]
		// IMDb title ids (tt0123456) carry no words worth recovering.
		if segment == "" || strings.HasPrefix(segment, "tt") && isDigits(segment[2:]) {
			continue
		}
		switch segment {
		case "m", "tv", "title", "movie":
			continue
		}
		slug = segment
		break
	}
	if slug == "" {
		return ""
	}

	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range slug {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return ""
	}
	return cases.Title(language.Und).String(title)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
