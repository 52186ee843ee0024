package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"screener/internal/media"
)

// Create inserts a new record and assigns it an identifier.
func (s *Store) Create(ctx context.Context, rec *media.Record) (*media.Record, error) {
	if rec == nil {
		return nil, errors.New("record is nil")
	}
	if rec.Title == "" {
		return nil, errors.New("record title is required")
	}

	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	seasonScores, err := marshalJSONColumn(rec.SeasonScores)
	if err != nil {
		return nil, fmt.Errorf("marshal season scores: %w", err)
	}
	episodeFlags, err := marshalJSONColumn(rec.EpisodeFlags)
	if err != nil {
		return nil, fmt.Errorf("marshal episode flags: %w", err)
	}
	nextEpisode, err := marshalJSONColumn(rec.NextEpisode)
	if err != nil {
		return nil, fmt.Errorf("marshal next episode: %w", err)
	}
	posters, err := marshalJSONColumn(rec.PosterURLs)
	if err != nil {
		return nil, fmt.Errorf("marshal posters: %w", err)
	}

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO media_records (
            id, title, media_type, year, content_rating,
            imdb_rating, imdb_id, rotten_tomatoes, rotten_tomatoes_url,
            metacritic, metacritic_url, atp, rationale,
            season_scores_json, episode_flags_json, deep_analysis,
            airing_status, last_air_date, next_episode_json,
            total_seasons, total_episodes, popularity, poster_urls_json,
            votes_up, votes_down, has_new_episodes, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		rec.Title,
		string(rec.Type),
		nullableString(rec.Year),
		nullableString(rec.ContentRating),
		rec.IMDb,
		nullableString(rec.IMDbID),
		nullableString(rec.RottenTomatoes),
		nullableString(rec.RottenTomatoesURL),
		rec.Metacritic,
		nullableString(rec.MetacriticURL),
		rec.ATP,
		nullableString(rec.Rationale),
		seasonScores,
		episodeFlags,
		nullableString(rec.DeepAnalysis),
		nullableString(rec.Status),
		nullableString(rec.LastAirDate),
		nextEpisode,
		rec.TotalSeasons,
		rec.TotalEpisodes,
		rec.Popularity,
		posters,
		rec.VotesUp,
		rec.VotesDown,
		boolToInt(rec.HasNewEpisodes),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a record by identifier.
func (s *Store) GetByID(ctx context.Context, id string) (*media.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM media_records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// FindByTitle returns the first record whose title matches, ignoring case.
func (s *Store) FindByTitle(ctx context.Context, title string) (*media.Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM media_records WHERE title = ? COLLATE NOCASE ORDER BY created_at LIMIT 1`,
		title,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by title: %w", err)
	}
	return rec, nil
}

// Update persists changes to an existing record.
func (s *Store) Update(ctx context.Context, rec *media.Record) error {
	if rec == nil {
		return errors.New("record is nil")
	}
	if rec.ID == "" {
		return errors.New("record ID is required")
	}

	seasonScores, err := marshalJSONColumn(rec.SeasonScores)
	if err != nil {
		return fmt.Errorf("marshal season scores: %w", err)
	}
	episodeFlags, err := marshalJSONColumn(rec.EpisodeFlags)
	if err != nil {
		return fmt.Errorf("marshal episode flags: %w", err)
	}
	nextEpisode, err := marshalJSONColumn(rec.NextEpisode)
	if err != nil {
		return fmt.Errorf("marshal next episode: %w", err)
	}
	posters, err := marshalJSONColumn(rec.PosterURLs)
	if err != nil {
		return fmt.Errorf("marshal posters: %w", err)
	}

	res, err := s.execWithRetry(
		ctx,
		`UPDATE media_records SET
            title = ?, media_type = ?, year = ?, content_rating = ?,
            imdb_rating = ?, imdb_id = ?, rotten_tomatoes = ?, rotten_tomatoes_url = ?,
            metacritic = ?, metacritic_url = ?, atp = ?, rationale = ?,
            season_scores_json = ?, episode_flags_json = ?, deep_analysis = ?,
            airing_status = ?, last_air_date = ?, next_episode_json = ?,
            total_seasons = ?, total_episodes = ?, popularity = ?, poster_urls_json = ?,
            votes_up = ?, votes_down = ?, has_new_episodes = ?, updated_at = ?
        WHERE id = ?`,
		rec.Title,
		string(rec.Type),
		nullableString(rec.Year),
		nullableString(rec.ContentRating),
		rec.IMDb,
		nullableString(rec.IMDbID),
		nullableString(rec.RottenTomatoes),
		nullableString(rec.RottenTomatoesURL),
		rec.Metacritic,
		nullableString(rec.MetacriticURL),
		rec.ATP,
		nullableString(rec.Rationale),
		seasonScores,
		episodeFlags,
		nullableString(rec.DeepAnalysis),
		nullableString(rec.Status),
		nullableString(rec.LastAirDate),
		nextEpisode,
		rec.TotalSeasons,
		rec.TotalEpisodes,
		rec.Popularity,
		posters,
		rec.VotesUp,
		rec.VotesDown,
		boolToInt(rec.HasNewEpisodes),
		time.Now().UTC().Format(time.RFC3339Nano),
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("record %s not found", rec.ID)
	}
	return nil
}

// Delete removes a record. It reports whether a row was deleted.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM media_records WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// List returns all cached records ordered by insertion time.
func (s *Store) List(ctx context.Context) ([]*media.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM media_records ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*media.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Clear removes every cached record and returns the number deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM media_records`)
	if err != nil {
		return 0, fmt.Errorf("clear records: %w", err)
	}
	return res.RowsAffected()
}

// IncrementVote bumps the up or down vote counter for a record.
func (s *Store) IncrementVote(ctx context.Context, id string, up bool) error {
	column := "votes_down"
	if up {
		column = "votes_up"
	}
	return s.execWithoutResultRetry(
		ctx,
		`UPDATE media_records SET `+column+` = `+column+` + 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
}

// SaveDeepDive stores the per-season breakdown produced by a deep analysis.
func (s *Store) SaveDeepDive(ctx context.Context, id, analysis string, seasons []media.SeasonScore, flags []string) error {
	seasonScores, err := marshalJSONColumn(seasons)
	if err != nil {
		return fmt.Errorf("marshal season scores: %w", err)
	}
	episodeFlags, err := marshalJSONColumn(flags)
	if err != nil {
		return fmt.Errorf("marshal episode flags: %w", err)
	}
	return s.execWithoutResultRetry(
		ctx,
		`UPDATE media_records SET deep_analysis = ?, season_scores_json = ?, episode_flags_json = ?, updated_at = ? WHERE id = ?`,
		nullableString(analysis),
		seasonScores,
		episodeFlags,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
}

// SetPosters replaces the artwork URLs attached to a record.
func (s *Store) SetPosters(ctx context.Context, id string, urls []string) error {
	posters, err := marshalJSONColumn(urls)
	if err != nil {
		return fmt.Errorf("marshal posters: %w", err)
	}
	return s.execWithoutResultRetry(
		ctx,
		`UPDATE media_records SET poster_urls_json = ?, updated_at = ? WHERE id = ?`,
		posters,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
}

// AiringUpdate captures the broadcast fields refreshed from the metadata database.
type AiringUpdate struct {
	Status         string
	LastAirDate    string
	NextEpisode    *media.NextEpisode
	TotalSeasons   int
	TotalEpisodes  int
	HasNewEpisodes bool
}

// UpdateAiring refreshes the broadcast status columns for a series record.
func (s *Store) UpdateAiring(ctx context.Context, id string, update AiringUpdate) error {
	nextEpisode, err := marshalJSONColumn(update.NextEpisode)
	if err != nil {
		return fmt.Errorf("marshal next episode: %w", err)
	}
	return s.execWithoutResultRetry(
		ctx,
		`UPDATE media_records SET
            airing_status = ?, last_air_date = ?, next_episode_json = ?,
            total_seasons = ?, total_episodes = ?, has_new_episodes = ?, updated_at = ?
        WHERE id = ?`,
		nullableString(update.Status),
		nullableString(update.LastAirDate),
		nextEpisode,
		update.TotalSeasons,
		update.TotalEpisodes,
		boolToInt(update.HasNewEpisodes),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
}
