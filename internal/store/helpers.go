package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"

	"screener/internal/media"
)

const recordColumns = "id, title, media_type, year, content_rating, imdb_rating, imdb_id, rotten_tomatoes, rotten_tomatoes_url, metacritic, metacritic_url, atp, rationale, season_scores_json, episode_flags_json, deep_analysis, airing_status, last_air_date, next_episode_json, total_seasons, total_episodes, popularity, poster_urls_json, votes_up, votes_down, has_new_episodes"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*media.Record, error) {
	var (
		id             string
		title          string
		mediaType      string
		year           sql.NullString
		contentRating  sql.NullString
		imdbRating     sql.NullFloat64
		imdbID         sql.NullString
		rottenTomatoes sql.NullString
		rottenURL      sql.NullString
		metacritic     sql.NullInt64
		metacriticURL  sql.NullString
		atp            float64
		rationale      sql.NullString
		seasonScores   sql.NullString
		episodeFlags   sql.NullString
		deepAnalysis   sql.NullString
		airingStatus   sql.NullString
		lastAirDate    sql.NullString
		nextEpisode    sql.NullString
		totalSeasons   int
		totalEpisodes  int
		popularity     float64
		posters        sql.NullString
		votesUp        int
		votesDown      int
		hasNewEpisodes sql.NullInt64
	)

	if err := scanner.Scan(
		&id,
		&title,
		&mediaType,
		&year,
		&contentRating,
		&imdbRating,
		&imdbID,
		&rottenTomatoes,
		&rottenURL,
		&metacritic,
		&metacriticURL,
		&atp,
		&rationale,
		&seasonScores,
		&episodeFlags,
		&deepAnalysis,
		&airingStatus,
		&lastAirDate,
		&nextEpisode,
		&totalSeasons,
		&totalEpisodes,
		&popularity,
		&posters,
		&votesUp,
		&votesDown,
		&hasNewEpisodes,
	); err != nil {
		return nil, err
	}

	rec := &media.Record{
		ID:                id,
		Title:             title,
		Type:              media.Type(mediaType),
		Year:              year.String,
		ContentRating:     contentRating.String,
		IMDbID:            imdbID.String,
		RottenTomatoes:    rottenTomatoes.String,
		RottenTomatoesURL: rottenURL.String,
		MetacriticURL:     metacriticURL.String,
		ATP:               atp,
		Rationale:         rationale.String,
		DeepAnalysis:      deepAnalysis.String,
		Status:            airingStatus.String,
		LastAirDate:       lastAirDate.String,
		TotalSeasons:      totalSeasons,
		TotalEpisodes:     totalEpisodes,
		Popularity:        popularity,
		VotesUp:           votesUp,
		VotesDown:         votesDown,
	}
	if imdbRating.Valid {
		value := imdbRating.Float64
		rec.IMDb = &value
	}
	if metacritic.Valid {
		value := int(metacritic.Int64)
		rec.Metacritic = &value
	}
	if hasNewEpisodes.Valid {
		rec.HasNewEpisodes = hasNewEpisodes.Int64 != 0
	}

	if err := unmarshalJSONColumn(seasonScores, &rec.SeasonScores); err != nil {
		return nil, fmt.Errorf("decode season scores: %w", err)
	}
	if err := unmarshalJSONColumn(episodeFlags, &rec.EpisodeFlags); err != nil {
		return nil, fmt.Errorf("decode episode flags: %w", err)
	}
	if err := unmarshalJSONColumn(posters, &rec.PosterURLs); err != nil {
		return nil, fmt.Errorf("decode posters: %w", err)
	}
	if nextEpisode.Valid && nextEpisode.String != "" {
		var next media.NextEpisode
		if err := json.Unmarshal([]byte(nextEpisode.String), &next); err != nil {
			return nil, fmt.Errorf("decode next episode: %w", err)
		}
		rec.NextEpisode = &next
	}

	return rec, nil
}

func marshalJSONColumn(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func unmarshalJSONColumn(column sql.NullString, target any) error {
	if !column.Valid || column.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(column.String), target)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
