package library

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"

	"tunebox/backend/store"
)

// WriteSongTags persists a song's edited metadata back into the file's ID3
// tag. Only mp3 files carry ID3; other formats are left alone. The database
// row stays the source of truth, so a read-only file is not an error for the
// caller to act on.
func WriteSongTags(song *store.Song) error {
	if strings.ToLower(filepath.Ext(song.Path)) != ".mp3" {
		return nil
	}

	t, err := id3v2.Open(song.Path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer t.Close()

	t.SetTitle(song.Title)
	t.SetArtist(song.Artist)
	if song.Genre != "" {
		t.SetGenre(song.Genre)
	}

	return t.Save()
}
