package store

import "log"

// defaultGenres are guaranteed present after first initialization.
var defaultGenres = []string{
	"Rock",
	"Pop",
	"Jazz",
	"Classical",
	"Hip Hop",
	"Electronic",
	"Country",
	"R&B",
}

func (s *Store) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS songs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        title TEXT NOT NULL,

        -- Free text as found in the file tags. May name several artists
        -- ("Alice & Bob feat. Carol"); normalized rows live in artists +
        -- song_artists.
        artist_name_string TEXT,
        genre_string TEXT,

        duration INTEGER DEFAULT 0,    -- seconds, 0 until first load
        path TEXT NOT NULL UNIQUE,
        cover_image_path TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS artists (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL UNIQUE,
        cover_image_path TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS genres (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL UNIQUE,
        cover_image_path TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS playlists (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        cover_image_path TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    -- Song <-> Artist link
    CREATE TABLE IF NOT EXISTS song_artists (
        song_id INTEGER NOT NULL,
        artist_id INTEGER NOT NULL,
        PRIMARY KEY (song_id, artist_id),
        FOREIGN KEY(song_id) REFERENCES songs(id) ON DELETE CASCADE,
        FOREIGN KEY(artist_id) REFERENCES artists(id) ON DELETE CASCADE
    );

    -- Song <-> Genre link
    CREATE TABLE IF NOT EXISTS song_genres (
        song_id INTEGER NOT NULL,
        genre_id INTEGER NOT NULL,
        PRIMARY KEY (song_id, genre_id),
        FOREIGN KEY(song_id) REFERENCES songs(id) ON DELETE CASCADE,
        FOREIGN KEY(genre_id) REFERENCES genres(id) ON DELETE CASCADE
    );

    -- Playlist entries. Re-adding the same song replaces its position;
    -- positions are not renumbered on delete, gaps are fine.
    CREATE TABLE IF NOT EXISTS song_playlists (
        song_id INTEGER NOT NULL,
        playlist_id INTEGER NOT NULL,
        position INTEGER DEFAULT 0,
        added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (song_id, playlist_id),
        FOREIGN KEY(song_id) REFERENCES songs(id) ON DELETE CASCADE,
        FOREIGN KEY(playlist_id) REFERENCES playlists(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS play_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        song_id INTEGER NOT NULL,
        played_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY(song_id) REFERENCES songs(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS settings (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );
    `

	_, err := s.db.Exec(query)
	if err != nil {
		log.Printf("ERROR: Database migration failed: %v", err)
		return err
	}

	return s.seedGenres()
}

// seedGenres inserts the default genre set, idempotently.
func (s *Store) seedGenres() error {
	for _, name := range defaultGenres {
		if _, err := s.db.Exec(`INSERT OR IGNORE INTO genres (name, cover_image_path) VALUES (?, '')`, name); err != nil {
			log.Printf("ERROR: seeding genre %q: %v", name, err)
			return err
		}
	}
	return nil
}
