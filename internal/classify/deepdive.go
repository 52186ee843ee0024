package classify

import (
	"regexp"
	"strconv"
	"strings"

	"screener/internal/media"
	"screener/internal/scoring"
)

// DeepDive is the parsed per-season breakdown produced by the detailed
// analysis prompt.
type DeepDive struct {
	// Explanation is the narrative portion with the season and episode
	// sections stripped.
	Explanation  string
	SeasonScores []media.SeasonScore
	EpisodeFlags []string
	// Raw keeps the full response for caching.
	Raw string
}

var (
	seasonEntryPattern  = regexp.MustCompile(`(?i)Season\s+(\d+):\s*(\d+(?:\.\d+)?)`)
	episodeFlagsPattern = regexp.MustCompile(`(?is)EPISODE FLAGS:(.*)`)
	seasonDataPattern   = regexp.MustCompile(`(?s)SEASON DATA:.*`)
)

// ParseDeepDive extracts season scores and red-flag episodes from a
// detailed analysis response.
func ParseDeepDive(text string) DeepDive {
	dive := DeepDive{Raw: text}

	for _, match := range seasonEntryPattern.FindAllStringSubmatch(text, -1) {
		num, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			continue
		}
		dive.SeasonScores = append(dive.SeasonScores, media.SeasonScore{Season: num, Score: score})
	}
	dive.SeasonScores = scoring.NormalizeSeasons(dive.SeasonScores)

	if flags := episodeFlagsPattern.FindStringSubmatch(text); flags != nil {
		for _, line := range strings.Split(strings.TrimSpace(flags[1]), "\n") {
			trimmed := strings.TrimSpace(line)
			if !strings.HasPrefix(trimmed, "-") {
				continue
			}
			dive.EpisodeFlags = append(dive.EpisodeFlags, strings.TrimSpace(strings.TrimPrefix(trimmed, "-")))
		}
	}

	cleaned := episodeFlagsPattern.ReplaceAllString(text, "")
	cleaned = seasonDataPattern.ReplaceAllString(cleaned, "")
	dive.Explanation = strings.TrimSpace(cleaned)

	return dive
}
