package titleparse

import (
	"regexp"
	"strings"

	"screener/internal/media"
)

// Parsed is the structured form of a raw query string.
type Parsed struct {
	Title   string
	Year    string
	Type    media.Type
	Context string
}

const separator = " - "

var (
	ordinalPattern  = regexp.MustCompile(`^(\d+[.)]|-|\*)\s*`)
	yearPattern     = regexp.MustCompile(`\((\d{4})\)`)
	movieMarker     = regexp.MustCompile(`(?i)\s[-–—]\sMovie\b`)
	tvMarker        = regexp.MustCompile(`(?i)\s[-–—]\sTV Series\b`)
	dashSeparator   = regexp.MustCompile(`\s+[-–—]\s+`)
	markdownCleaner = strings.NewReplacer("**", "", "###", "", "##", "", "#", "", "`", "")
)

// Parse splits a raw query into title, year, type, and free-text context.
// Only " - " (space-dash-space) acts as a separator; embedded hyphens such as
// "Spider-Man" stay intact. When several year parentheticals exist, the last
// one wins. Parse never fails; an empty Title marks the input unparsable.
func Parse(raw string) Parsed {
	parsed := Parsed{Type: DetectType(raw)}

	working := dashSeparator.ReplaceAllString(strings.TrimSpace(raw), separator)
	if working == "" {
		return parsed
	}

	parts := strings.Split(working, separator)
	candidate := StripOrdinal(strings.TrimSpace(parts[0]))
	if len(parts) > 1 {
		// Type markers are consumed by DetectType; only real descriptions
		// remain as context.
		var rest []string
		for _, part := range parts[1:] {
			trimmed := strings.TrimSpace(part)
			if strings.EqualFold(trimmed, string(media.TypeMovie)) || strings.EqualFold(trimmed, string(media.TypeTV)) {
				continue
			}
			if trimmed != "" {
				rest = append(rest, trimmed)
			}
		}
		parsed.Context = strings.Join(rest, " ")
	}

	candidate, parsed.Year = extractYear(candidate)
	parsed.Title = strings.TrimSpace(candidate)
	return parsed
}

// DetectType reports an explicit " - Movie" / " - TV Series" marker, if any.
func DetectType(raw string) media.Type {
	switch {
	case tvMarker.MatchString(raw):
		return media.TypeTV
	case movieMarker.MatchString(raw):
		return media.TypeMovie
	default:
		return media.TypeUnknown
	}
}

// StripOrdinal removes a leading list marker such as "1. ", "- ", or "* ".
func StripOrdinal(s string) string {
	return strings.TrimSpace(ordinalPattern.ReplaceAllString(s, ""))
}

// CleanMarkdown drops emphasis and heading characters from a display string.
func CleanMarkdown(s string) string {
	return strings.TrimSpace(markdownCleaner.Replace(s))
}

// extractYear removes the winning 4-digit parenthetical and returns it.
func extractYear(candidate string) (string, string) {
	matches := yearPattern.FindAllStringSubmatchIndex(candidate, -1)
	if len(matches) == 0 {
		return candidate, ""
	}
	last := matches[len(matches)-1]
	year := candidate[last[2]:last[3]]
	cleaned := strings.TrimSpace(candidate[:last[0]] + candidate[last[1]:])
	return cleaned, year
}

// CleanDisplay reduces a clicked option line to "Title (Year) - Type" form so
// the search box shows something re-searchable. Trailing descriptions are cut;
// the type marker is kept because it steers the next resolution.
func CleanDisplay(option string) string {
	display := StripOrdinal(CleanMarkdown(option))

	if loc := movieMarker.FindStringIndex(display); loc != nil {
		return strings.TrimSpace(display[:loc[0]]) + " - Movie"
	}
	if loc := tvMarker.FindStringIndex(display); loc != nil {
		return strings.TrimSpace(display[:loc[0]]) + " - TV Series"
	}

	parts := dashSeparator.Split(display, -1)
	if len(parts) > 2 {
		return strings.TrimSpace(parts[0]) + " - " + strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(display)
}

// MinQueryLength is the shortest accepted non-URL query.
const MinQueryLength = 3

// IsLink reports whether the input points at a supported media database page.
func IsLink(raw string) bool {
	return strings.Contains(raw, "imdb.com/") || strings.Contains(raw, "rottentomatoes.com/")
}

// LooksLikeURL reports whether the input is URL-shaped at all; such inputs
// are exempt from the minimum query length.
func LooksLikeURL(raw string) bool {
	return strings.Contains(raw, "http")
}
