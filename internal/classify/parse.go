package classify

import (
	"regexp"
	"strconv"
	"strings"

	"screener/internal/media"
	"screener/internal/scoring"
)

// Analysis is one parsed oracle verdict for a uniquely identified title.
type Analysis struct {
	Title             string
	Type              media.Type
	Year              string
	ContentRating     string
	IMDb              *float64
	IMDbID            string
	RottenTomatoes    string
	RottenTomatoesURL string
	Metacritic        *int
	MetacriticURL     string
	ATP               float64
	Rationale         string
	SeasonScores      []media.SeasonScore

	// Blocked marks the degraded record produced when safety filters
	// refused even the softened request.
	Blocked bool
}

// Outcome is the parsed shape of an oracle response: either a list of
// disambiguation options or a single analysis.
type Outcome struct {
	Ambiguous bool
	Options   []string
	Analysis  *Analysis
}

const defaultMaxOptions = 15

var (
	optionLabelPattern  = regexp.MustCompile(`(?i)^(Title|Type|Year|ATP|Rationale|Content Rating|IMDb|Rotten Tomatoes|Metacritic|Season Scores|EPISODE FLAGS|Analysis|Step|Note):`)
	optionHeaderPattern = regexp.MustCompile(`(?i)^(Matches|Franchise|Collection|Video Game|Here are|The following)`)
	optionBulletPattern = regexp.MustCompile(`^(\d+[.)]|-|\*)\s*`)

	titlePattern          = regexp.MustCompile(`(?i)(?:Title|Movie|Show|Name)(?:\*\*|):?\s*(.+)`)
	typePattern           = regexp.MustCompile(`(?i)(?:Type)(?:\*\*|):?\s*(.+)`)
	yearPattern           = regexp.MustCompile(`(?i)(?:Year)(?:\*\*|):?\s*(.+)`)
	ratingPattern         = regexp.MustCompile(`(?i)(?:Content Rating|Rated|Rating)(?:\*\*|):?\s*(.+)`)
	imdbPattern           = regexp.MustCompile(`(?i)(?:IMDb)(?:\*\*|):?\s*([\d.]+)`)
	imdbIDPattern         = regexp.MustCompile(`(?i)(?:IMDb ID)(?:\*\*|):?\s*(tt\d+)`)
	rtPattern             = regexp.MustCompile(`(?i)(?:Rotten Tomatoes|RT)(?:\*\*|):?\s*(\d+%?)`)
	rtURLPattern          = regexp.MustCompile(`(?i)(?:Rotten Tomatoes URL)(?:\*\*|):?\s*(https?://\S+)`)
	metacriticPattern     = regexp.MustCompile(`(?i)(?:Metacritic)(?:\*\*|):?\s*(\d+)`)
	metacriticURLPattern  = regexp.MustCompile(`(?i)(?:Metacritic URL)(?:\*\*|):?\s*(https?://\S+)`)
	atpPattern            = regexp.MustCompile(`(?i)(?:ATP|TPS|Thematic Density|Thematic Density Index|Score)(?:\*\*|):?\s*(\d+(?:\.\d+)?)`)
	seasonLinePattern     = regexp.MustCompile(`(?i)(?:Season Scores)(?:\*\*|):?\s*(.+)`)
	rationalePattern      = regexp.MustCompile(`(?is)(?:Rationale)(?:\*\*|):?\s*(.+)`)
	conversationalPattern = regexp.MustCompile(`(?i)^"([^"]+)"\s+(?:is|was|takes|features)`)
	parentheticalPattern  = regexp.MustCompile(`\s*\(.*?\)`)
	nonDigitPattern       = regexp.MustCompile(`\D`)
)

// ParseAnalysis interprets a raw oracle response. A response containing the
// ambiguity sentinel yields the option list; otherwise the key-value fields
// are extracted. Returns nil when the text fits neither shape.
func ParseAnalysis(text string, maxOptions int) *Outcome {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if maxOptions <= 0 {
		maxOptions = defaultMaxOptions
	}

	if strings.Contains(text, ambiguousSentinel) {
		return &Outcome{Ambiguous: true, Options: parseOptions(text, maxOptions)}
	}

	titleMatch := titlePattern.FindStringSubmatch(text)
	atpMatch := atpPattern.FindStringSubmatch(text)
	rationaleMatch := rationalePattern.FindStringSubmatch(text)
	if titleMatch == nil || atpMatch == nil || rationaleMatch == nil {
		return nil
	}

	title := strings.TrimSpace(titleMatch[1])
	title = strings.ReplaceAll(title, "**", "")
	// Unwrap conversational spillover like `"Pose" is a drama ...` before
	// stripping quotes.
	if conv := conversationalPattern.FindStringSubmatch(title); conv != nil {
		title = conv[1]
	}
	title = strings.ReplaceAll(title, `"`, "")
	// Overly long titles are almost always hallucinated sentences.
	if len(title) > 60 {
		return nil
	}

	atp, err := strconv.ParseFloat(atpMatch[1], 64)
	if err != nil {
		return nil
	}

	analysis := &Analysis{
		Title:         title,
		Type:          media.TypeUnknown,
		ContentRating: "N/A",
		ATP:           media.ClampATP(atp),
		Rationale:     strings.TrimSpace(rationaleMatch[1]),
	}

	if m := typePattern.FindStringSubmatch(text); m != nil {
		analysis.Type = media.NormalizeType(m[1])
	}
	if m := yearPattern.FindStringSubmatch(text); m != nil {
		analysis.Year = strings.TrimSpace(m[1])
	}
	if m := ratingPattern.FindStringSubmatch(text); m != nil {
		analysis.ContentRating = strings.TrimSpace(parentheticalPattern.ReplaceAllString(m[1], ""))
	}
	if m := imdbPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			analysis.IMDb = &v
		}
	}
	if m := imdbIDPattern.FindStringSubmatch(text); m != nil {
		analysis.IMDbID = strings.TrimSpace(m[1])
	}
	analysis.RottenTomatoes = "N/A"
	if m := rtPattern.FindStringSubmatch(text); m != nil {
		analysis.RottenTomatoes = strings.TrimSpace(m[1])
	}
	if m := rtURLPattern.FindStringSubmatch(text); m != nil {
		analysis.RottenTomatoesURL = strings.TrimSpace(m[1])
	}
	if m := metacriticPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			analysis.Metacritic = &v
		}
	}
	if m := metacriticURLPattern.FindStringSubmatch(text); m != nil {
		analysis.MetacriticURL = strings.TrimSpace(m[1])
	}

	if m := seasonLinePattern.FindStringSubmatch(text); m != nil {
		if seasons := parseSeasonPairs(m[1]); len(seasons) > 0 {
			analysis.SeasonScores = scoring.NormalizeSeasons(seasons)
			analysis.ATP = scoring.WeightedATP(analysis.SeasonScores)
		}
	}

	return &Outcome{Analysis: analysis}
}

func parseOptions(text string, maxOptions int) []string {
	var options []string
	found := false
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, ambiguousSentinel) {
			found = true
			continue
		}
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "STEP 2") || strings.Contains(upper, "ANALYSIS") || strings.Contains(upper, "OUTPUT FORMAT") {
			break
		}
		if !found {
			continue
		}

		clean := strings.TrimSpace(line)
		if len(clean) <= 3 ||
			optionLabelPattern.MatchString(clean) ||
			optionHeaderPattern.MatchString(clean) ||
			strings.Contains(clean, "Franchise:") ||
			strings.Contains(clean, " - Video Game") {
			continue
		}
		options = append(options, strings.TrimSpace(optionBulletPattern.ReplaceAllString(clean, "")))
	}

	filtered := options[:0]
	for _, opt := range options {
		lowered := strings.ToLower(opt)
		if strings.HasPrefix(lowered, "the analysis") || strings.HasPrefix(lowered, "note:") {
			continue
		}
		filtered = append(filtered, opt)
	}
	if len(filtered) > maxOptions {
		filtered = filtered[:maxOptions]
	}
	return filtered
}

// parseSeasonPairs reads "S1:2, S2:4" style listings. Malformed pairs are
// skipped rather than failing the whole line.
func parseSeasonPairs(text string) []media.SeasonScore {
	var seasons []media.SeasonScore
	for _, pair := range strings.Split(text, ",") {
		parts := strings.Split(strings.TrimSpace(pair), ":")
		if len(parts) != 2 {
			continue
		}
		digits := nonDigitPattern.ReplaceAllString(parts[0], "")
		num, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(strings.Trim(parts[1], "[] ")), 64)
		if err != nil {
			continue
		}
		seasons = append(seasons, media.SeasonScore{Season: num, Score: score})
	}
	return seasons
}

// BlockedAnalysis is the degraded record recorded when safety filters block
// both the original and the softened request.
func BlockedAnalysis() *Analysis {
	zero := 0.0
	return &Analysis{
		Title:         "Content Analysis Blocked",
		Type:          media.TypeUnknown,
		ContentRating: "N/A",
		IMDb:          &zero,
		ATP:           0,
		Rationale:     "Safety filters blocked the analysis of this content. This often occurs when analyzing all-ages content for mature themes. Low presence is assumed.",
		Blocked:       true,
	}
}
