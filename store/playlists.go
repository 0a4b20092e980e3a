package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func scanPlaylist(row rowScanner) (*Playlist, error) {
	var p Playlist
	var cover sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &cover, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.CoverPath = cover.String
	return &p, nil
}

func (s *Store) CreatePlaylist(ctx context.Context, name, coverPath string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("playlist name must not be empty: %w", ErrValidation)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO playlists (name, cover_image_path) VALUES (?, ?)`, name, coverPath)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetPlaylist(ctx context.Context, id int64) (*Playlist, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, cover_image_path, created_at FROM playlists WHERE id = ?`, id)
	p, err := scanPlaylist(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *Store) GetAllPlaylists(ctx context.Context) ([]*Playlist, error) {
	return s.queryPlaylists(ctx,
		`SELECT id, name, cover_image_path, created_at FROM playlists ORDER BY created_at DESC`)
}

func (s *Store) SearchPlaylists(ctx context.Context, query string) ([]*Playlist, error) {
	return s.queryPlaylists(ctx,
		`SELECT id, name, cover_image_path, created_at FROM playlists WHERE name LIKE ? ORDER BY name`,
		"%"+query+"%")
}

func (s *Store) queryPlaylists(ctx context.Context, query string, args ...any) ([]*Playlist, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []*Playlist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

func (s *Store) UpdatePlaylist(ctx context.Context, id int64, upd NameUpdate) (bool, error) {
	return s.updateNamed(ctx, "playlists", id, upd)
}

func (s *Store) DeletePlaylist(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	return err
}

// AddSongToPlaylist links them in the join table. Re-adding the same song
// replaces its position: last write wins.
func (s *Store) AddSongToPlaylist(ctx context.Context, songID, playlistID int64, position int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO song_playlists (song_id, playlist_id, position) VALUES (?, ?, ?)`,
		songID, playlistID, position)
	return err
}

func (s *Store) RemoveSongFromPlaylist(ctx context.Context, songID, playlistID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM song_playlists WHERE song_id = ? AND playlist_id = ?`, songID, playlistID)
	return err
}

// GetSongsByPlaylist returns the playlist's songs ordered by position.
// Positions may have gaps; they are never renumbered on removal.
func (s *Store) GetSongsByPlaylist(ctx context.Context, playlistID int64) ([]*PlaylistEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT s.id, s.title, s.artist_name_string, s.genre_string, s.duration, s.path, s.cover_image_path, s.created_at,
	       sp.position, sp.added_at
	FROM songs s
	INNER JOIN song_playlists sp ON s.id = sp.song_id
	WHERE sp.playlist_id = ?
	ORDER BY sp.position`, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*PlaylistEntry
	for rows.Next() {
		var e PlaylistEntry
		var artist, genre, cover sql.NullString
		err := rows.Scan(&e.ID, &e.Title, &artist, &genre, &e.Duration, &e.Path, &cover, &e.CreatedAt,
			&e.Position, &e.AddedAt)
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
