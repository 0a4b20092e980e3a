package store

import (
	"time"
)

// Song is the master record for a track on disk.
type Song struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`

	// Artist is the raw artist string from the file tags; it may name
	// several artists. Normalized artists hang off song_artists.
	Artist string `json:"artist_name_string"`

	// Genre is the legacy free-text genre, superseded by genre links.
	Genre string `json:"genre_string"`

	Duration  int64     `json:"duration"` // seconds, 0 = unknown until loaded
	Path      string    `json:"path"`
	CoverPath string    `json:"cover_image_path"`
	CreatedAt time.Time `json:"created_at"`
}

type Artist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CoverPath string    `json:"cover_image_path"`
	CreatedAt time.Time `json:"created_at"`
}

type Genre struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CoverPath string    `json:"cover_image_path"`
	CreatedAt time.Time `json:"created_at"`
}

type Playlist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CoverPath string    `json:"cover_image_path"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaylistEntry is a song joined with its position inside one playlist.
type PlaylistEntry struct {
	Song
	Position int       `json:"position"`
	AddedAt  time.Time `json:"added_at"`
}

// HistoryEntry is a song joined with the time it was played.
type HistoryEntry struct {
	Song
	PlayedAt time.Time `json:"played_at"`
}

// SongUpdate carries a partial update; nil fields are left untouched.
type SongUpdate struct {
	Title     *string `json:"title"`
	Artist    *string `json:"artist_name_string"`
	Genre     *string `json:"genre_string"`
	CoverPath *string `json:"cover_image_path"`
}

// NameUpdate is a partial update for artists, genres and playlists.
type NameUpdate struct {
	Name      *string `json:"name"`
	CoverPath *string `json:"cover_image_path"`
}
