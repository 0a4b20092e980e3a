package store

import (
	"context"
	"database/sql"
)

// AddSongToHistory always appends; no deduplication and no cap at write time.
func (s *Store) AddSongToHistory(ctx context.Context, songID int64) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO play_history (song_id) VALUES (?)`, songID)
	return err
}

// GetPlayHistory returns the most recent plays first, capped at limit.
// Callers that pass limit <= 0 get the default cap of 100.
func (s *Store) GetPlayHistory(ctx context.Context, limit int) ([]*HistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT s.id, s.title, s.artist_name_string, s.genre_string, s.duration, s.path, s.cover_image_path, s.created_at,
	       ph.played_at
	FROM songs s
	INNER JOIN play_history ph ON s.id = ph.song_id
	ORDER BY ph.played_at DESC, ph.id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var artist, genre, cover sql.NullString
		err := rows.Scan(&e.ID, &e.Title, &artist, &genre, &e.Duration, &e.Path, &cover, &e.CreatedAt,
			&e.PlayedAt)
		if err != nil {
			return nil, err
		}
		e.Artist = artist.String
		e.Genre = genre.String
		e.CoverPath = cover.String
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// ClearPlayHistory deletes all history rows unconditionally.
func (s *Store) ClearPlayHistory(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM play_history`)
	return err
}
