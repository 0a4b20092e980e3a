package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func scanGenre(row rowScanner) (*Genre, error) {
	var g Genre
	var cover sql.NullString
	if err := row.Scan(&g.ID, &g.Name, &cover, &g.CreatedAt); err != nil {
		return nil, err
	}
	g.CoverPath = cover.String
	return &g, nil
}

// CreateGenre resolves a name to a genre id, inserting if absent.
func (s *Store) CreateGenre(ctx context.Context, name, coverPath string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("genre name must not be empty: %w", ErrValidation)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO genres (name, cover_image_path) VALUES (?, ?)`, name, coverPath)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `SELECT id FROM genres WHERE name = ?`, name).Scan(&id)
	return id, err
}

func (s *Store) GetGenre(ctx context.Context, id int64) (*Genre, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, cover_image_path, created_at FROM genres WHERE id = ?`, id)
	g, err := scanGenre(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return g, err
}

func (s *Store) GetAllGenres(ctx context.Context) ([]*Genre, error) {
	return s.queryGenres(ctx,
		`SELECT id, name, cover_image_path, created_at FROM genres ORDER BY name`)
}

func (s *Store) SearchGenres(ctx context.Context, query string) ([]*Genre, error) {
	return s.queryGenres(ctx,
		`SELECT id, name, cover_image_path, created_at FROM genres WHERE name LIKE ? ORDER BY name`,
		"%"+query+"%")
}

func (s *Store) queryGenres(ctx context.Context, query string, args ...any) ([]*Genre, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []*Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (s *Store) UpdateGenre(ctx context.Context, id int64, upd NameUpdate) (bool, error) {
	return s.updateNamed(ctx, "genres", id, upd)
}

func (s *Store) DeleteGenre(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	return err
}

func (s *Store) GetSongsByGenre(ctx context.Context, genreID int64) ([]*Song, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT s.id, s.title, s.artist_name_string, s.genre_string, s.duration, s.path, s.cover_image_path, s.created_at
	FROM songs s
	INNER JOIN song_genres sg ON s.id = sg.song_id
	WHERE sg.genre_id = ?
	ORDER BY s.title`, genreID)
	if err != nil {
		return nil, err
	}
	return scanSongs(rows)
}

func (s *Store) GetGenresBySong(ctx context.Context, songID int64) ([]*Genre, error) {
	return s.queryGenres(ctx, `
	SELECT g.id, g.name, g.cover_image_path, g.created_at
	FROM genres g
	INNER JOIN song_genres sg ON g.id = sg.genre_id
	WHERE sg.song_id = ?`, songID)
}

func (s *Store) LinkSongGenre(ctx context.Context, songID, genreID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO song_genres (song_id, genre_id) VALUES (?, ?)`, songID, genreID)
	return err
}

func (s *Store) UnlinkSongGenre(ctx context.Context, songID, genreID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM song_genres WHERE song_id = ? AND genre_id = ?`, songID, genreID)
	return err
}
