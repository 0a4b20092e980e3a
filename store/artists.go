package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func scanArtist(row rowScanner) (*Artist, error) {
	var a Artist
	var cover sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &cover, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.CoverPath = cover.String
	return &a, nil
}

// CreateArtist resolves a name to an artist id, inserting if absent. The
// existing id is returned on a name conflict.
func (s *Store) CreateArtist(ctx context.Context, name, coverPath string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("artist name must not be empty: %w", ErrValidation)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO artists (name, cover_image_path) VALUES (?, ?)`, name, coverPath)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `SELECT id FROM artists WHERE name = ?`, name).Scan(&id)
	return id, err
}

func (s *Store) GetArtist(ctx context.Context, id int64) (*Artist, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, cover_image_path, created_at FROM artists WHERE id = ?`, id)
	a, err := scanArtist(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return a, err
}

func (s *Store) GetAllArtists(ctx context.Context) ([]*Artist, error) {
	return s.queryArtists(ctx,
		`SELECT id, name, cover_image_path, created_at FROM artists ORDER BY name`)
}

func (s *Store) SearchArtists(ctx context.Context, query string) ([]*Artist, error) {
	return s.queryArtists(ctx,
		`SELECT id, name, cover_image_path, created_at FROM artists WHERE name LIKE ? ORDER BY name`,
		"%"+query+"%")
}

func (s *Store) queryArtists(ctx context.Context, query string, args ...any) ([]*Artist, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []*Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

func (s *Store) UpdateArtist(ctx context.Context, id int64, upd NameUpdate) (bool, error) {
	return s.updateNamed(ctx, "artists", id, upd)
}

func (s *Store) DeleteArtist(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
	return err
}

func (s *Store) GetSongsByArtist(ctx context.Context, artistID int64) ([]*Song, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT s.id, s.title, s.artist_name_string, s.genre_string, s.duration, s.path, s.cover_image_path, s.created_at
	FROM songs s
	INNER JOIN song_artists sa ON s.id = sa.song_id
	WHERE sa.artist_id = ?
	ORDER BY s.title`, artistID)
	if err != nil {
		return nil, err
	}
	return scanSongs(rows)
}

func (s *Store) GetArtistsBySong(ctx context.Context, songID int64) ([]*Artist, error) {
	return s.queryArtists(ctx, `
	SELECT a.id, a.name, a.cover_image_path, a.created_at
	FROM artists a
	INNER JOIN song_artists sa ON a.id = sa.artist_id
	WHERE sa.song_id = ?`, songID)
}

// LinkSongArtist is idempotent; linking the same pair twice is a no-op.
func (s *Store) LinkSongArtist(ctx context.Context, songID, artistID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO song_artists (song_id, artist_id) VALUES (?, ?)`, songID, artistID)
	return err
}

func (s *Store) UnlinkSongArtist(ctx context.Context, songID, artistID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM song_artists WHERE song_id = ? AND artist_id = ?`, songID, artistID)
	return err
}

// updateNamed applies a partial name/cover update to one of the named-entity
// tables. Reports false when no field is set.
func (s *Store) updateNamed(ctx context.Context, table string, id int64, upd NameUpdate) (bool, error) {
	var fields []string
	var values []any

	if upd.Name != nil {
		fields = append(fields, "name = ?")
		values = append(values, *upd.Name)
	}
	if upd.CoverPath != nil {
		fields = append(fields, "cover_image_path = ?")
		values = append(values, *upd.CoverPath)
	}

	if len(fields) == 0 {
		return false, nil
	}

	values = append(values, id)
	query := `UPDATE ` + table + ` SET ` + strings.Join(fields, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		return false, err
	}
	return true, nil
}
