package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const songColumns = `id, title, artist_name_string, genre_string, duration, path, cover_image_path, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (*Song, error) {
	var song Song
	var artist, genre, cover sql.NullString
	err := row.Scan(&song.ID, &song.Title, &artist, &genre,
		&song.Duration, &song.Path, &cover, &song.CreatedAt)
	if err != nil {
		return nil, err
	}
	song.Artist = artist.String
	song.Genre = genre.String
	song.CoverPath = cover.String
	return &song, nil
}

func scanSongs(rows *sql.Rows) ([]*Song, error) {
	defer rows.Close()

	var songs []*Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// InsertSong inserts a song, idempotently by path: if a song with the same
// path already exists its id is returned and the row is left untouched. The
// bool reports whether a new row was created.
func (s *Store) InsertSong(ctx context.Context, song *Song) (int64, bool, error) {
	if strings.TrimSpace(song.Title) == "" {
		return 0, false, fmt.Errorf("song title must not be empty: %w", ErrValidation)
	}
	if strings.TrimSpace(song.Path) == "" {
		return 0, false, fmt.Errorf("song path must not be empty: %w", ErrValidation)
	}

	query := `
	INSERT INTO songs (title, artist_name_string, genre_string, duration, path, cover_image_path)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO NOTHING;
	`
	res, err := s.db.ExecContext(ctx, query,
		song.Title, song.Artist, song.Genre, song.Duration, song.Path, song.CoverPath)
	if err != nil {
		return 0, false, err
	}
	created, err := res.RowsAffected()
	if err != nil {
		return 0, false, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `SELECT id FROM songs WHERE path = ?`, song.Path).Scan(&id)
	if err != nil {
		return 0, false, err
	}
	return id, created > 0, nil
}

func (s *Store) GetSong(ctx context.Context, id int64) (*Song, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = ?`, id)
	song, err := scanSong(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return song, err
}

func (s *Store) GetAllSongs(ctx context.Context) ([]*Song, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+songColumns+` FROM songs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return scanSongs(rows)
}

// UpdateSong applies a partial update. It reports false without touching the
// row when no recognized field is set.
func (s *Store) UpdateSong(ctx context.Context, id int64, upd SongUpdate) (bool, error) {
	var fields []string
	var values []any

	if upd.Title != nil {
		fields = append(fields, "title = ?")
		values = append(values, *upd.Title)
	}
	if upd.Artist != nil {
		fields = append(fields, "artist_name_string = ?")
		values = append(values, *upd.Artist)
	}
	if upd.Genre != nil {
		fields = append(fields, "genre_string = ?")
		values = append(values, *upd.Genre)
	}
	if upd.CoverPath != nil {
		fields = append(fields, "cover_image_path = ?")
		values = append(values, *upd.CoverPath)
	}

	if len(fields) == 0 {
		return false, nil
	}

	values = append(values, id)
	query := `UPDATE songs SET ` + strings.Join(fields, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateSongDuration records the duration reported by the audio engine once
// the file has actually been decoded.
func (s *Store) UpdateSongDuration(ctx context.Context, id int64, seconds int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE songs SET duration = ? WHERE id = ?`, seconds, id)
	return err
}

// DeleteSong removes the song row; link and history rows go with it via
// cascade.
func (s *Store) DeleteSong(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	return err
}

// SearchSongs matches the query as a case-insensitive substring of the title
// or the raw artist string. An empty query matches everything; treating it as
// "no filter" is the caller's call.
func (s *Store) SearchSongs(ctx context.Context, query string) ([]*Song, error) {
	term := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+songColumns+` FROM songs
		 WHERE title LIKE ? OR artist_name_string LIKE ?
		 ORDER BY title`, term, term)
	if err != nil {
		return nil, err
	}
	return scanSongs(rows)
}
