// Package scoring aggregates per-season thematic scores into one index.
package scoring

import (
	"math"
	"sort"

	"screener/internal/media"
)

// Weight tiers: the more extreme the peak season, the harder it pulls the
// aggregate toward itself. A one-off high-intensity season matters more than
// a one-off mild one.
const (
	weightCentral  = 0.8 // max >= 9: theme is the premise of at least one season
	weightHigh     = 0.5 // max >= 7
	weightIncident = 0.2
)

// WeightedATP collapses season scores into a single 0-10 index using a
// max-biased convex combination of the mean and the peak, rounded to one
// decimal place. An empty slice scores zero.
func WeightedATP(seasons []media.SeasonScore) float64 {
	if len(seasons) == 0 {
		return 0
	}

	total := 0.0
	max := seasons[0].Score
	for _, s := range seasons {
		total += s.Score
		if s.Score > max {
			max = s.Score
		}
	}
	avg := total / float64(len(seasons))

	weight := weightIncident
	switch {
	case max >= 9:
		weight = weightCentral
	case max >= 7:
		weight = weightHigh
	}

	score := avg + (max-avg)*weight
	return media.ClampATP(math.Round(score*10) / 10)
}

// NormalizeSeasons sorts season scores ascending by season number and drops
// duplicate season entries, keeping the last reported value for each season.
func NormalizeSeasons(seasons []media.SeasonScore) []media.SeasonScore {
	if len(seasons) == 0 {
		return nil
	}
	latest := make(map[int]float64, len(seasons))
	for _, s := range seasons {
		latest[s.Season] = s.Score
	}
	out := make([]media.SeasonScore, 0, len(latest))
	for season, score := range latest {
		out = append(out, media.SeasonScore{Season: season, Score: score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out
}
