package store

import (
	"context"
	"log"
	"strconv"
)

// Setting keys as stored in the settings table. Values are text; the typed
// Settings record is the only place that parses or serializes them.
const (
	settingTheme      = "theme"          // "dark" / "light"
	settingLayout     = "layout"         // "list" / "grid"
	settingShuffle    = "shuffleMode"    // "true" / "false"
	settingRepeat     = "repeatMode"     // "off" / "all" / "one"
	settingLastPlayed = "lastPlayedSong" // song id as decimal text
)

// Settings is the typed view over the key-value settings table.
type Settings struct {
	Theme            string `json:"theme"`
	Layout           string `json:"layout"`
	Shuffle          bool   `json:"shuffle"`
	RepeatMode       string `json:"repeat_mode"`
	LastPlayedSongID int64  `json:"last_played_song_id"` // 0 = never played
}

// DefaultSettings match the values a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		Theme:      "dark",
		Layout:     "list",
		Shuffle:    false,
		RepeatMode: "off",
	}
}

// LoadSettings reads every recognized key once. Unknown keys are ignored and
// malformed values fall back to defaults rather than failing the load.
func (s *Store) LoadSettings(ctx context.Context) (Settings, error) {
	out := DefaultSettings()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return out, err
		}

		switch key {
		case settingTheme:
			if value == "dark" || value == "light" {
				out.Theme = value
			}
		case settingLayout:
			if value == "list" || value == "grid" {
				out.Layout = value
			}
		case settingShuffle:
			out.Shuffle = value == "true"
		case settingRepeat:
			if value == "off" || value == "all" || value == "one" {
				out.RepeatMode = value
			}
		case settingLastPlayed:
			id, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				log.Printf("WARN: ignoring malformed %s setting %q", settingLastPlayed, value)
				continue
			}
			out.LastPlayedSongID = id
		}
	}
	return out, rows.Err()
}

func (s *Store) setSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

func (s *Store) SaveTheme(ctx context.Context, theme string) error {
	return s.setSetting(ctx, settingTheme, theme)
}

func (s *Store) SaveLayout(ctx context.Context, layout string) error {
	return s.setSetting(ctx, settingLayout, layout)
}

func (s *Store) SaveShuffle(ctx context.Context, shuffle bool) error {
	return s.setSetting(ctx, settingShuffle, strconv.FormatBool(shuffle))
}

func (s *Store) SaveRepeatMode(ctx context.Context, mode string) error {
	return s.setSetting(ctx, settingRepeat, mode)
}

func (s *Store) SaveLastPlayed(ctx context.Context, songID int64) error {
	return s.setSetting(ctx, settingLastPlayed, strconv.FormatInt(songID, 10))
}
