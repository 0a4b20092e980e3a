// Package library derives normalized artists from free-text tag strings and
// keeps the song catalog in sync with the files on disk.
package library

import (
	"context"
	"regexp"
	"strings"

	"tunebox/backend/store"
)

// artistSeparators splits a raw artist string into individual names.
// "featuring" must come before "feat"/"ft" in the alternation or the longer
// token is split mid-word.
var artistSeparators = regexp.MustCompile(`(?i)featuring|feat\.?|ft\.?|[&,]`)

// SplitArtistNames breaks a free-text artist string into individual artist
// names. Empty pieces and the literal "unknown artist" are dropped; a string
// of nothing but separators yields an empty slice, which is not an error.
func SplitArtistNames(artistString string) []string {
	if strings.TrimSpace(artistString) == "" {
		return nil
	}

	var names []string
	for _, piece := range artistSeparators.Split(artistString, -1) {
		name := strings.TrimSpace(piece)
		if name == "" || strings.EqualFold(name, "unknown artist") {
			continue
		}
		names = append(names, name)
	}
	return names
}

// LinkSongArtists resolves every artist named in artistString and links each
// to the song. Both creation and linking are insert-if-absent, so re-running
// on the same song and string is a no-op beyond the first run.
func LinkSongArtists(ctx context.Context, st *store.Store, songID int64, artistString string) ([]int64, error) {
	var ids []int64
	for _, name := range SplitArtistNames(artistString) {
		artistID, err := st.CreateArtist(ctx, name, "")
		if err != nil {
			return ids, err
		}
		if err := st.LinkSongArtist(ctx, songID, artistID); err != nil {
			return ids, err
		}
		ids = append(ids, artistID)
	}
	return ids, nil
}

// SyncResult reports what a bulk artist backfill touched.
type SyncResult struct {
	SongsLinked    int `json:"songs_linked"`
	ArtistsCreated int `json:"artists_created"`
}

// SyncAllArtists runs the linker over every song with a non-empty artist
// string. Intended as a one-time backfill, not a steady-state operation.
func SyncAllArtists(ctx context.Context, st *store.Store) (SyncResult, error) {
	var result SyncResult

	songs, err := st.GetAllSongs(ctx)
	if err != nil {
		return result, err
	}

	for _, song := range songs {
		if strings.TrimSpace(song.Artist) == "" {
			continue
		}
		ids, err := LinkSongArtists(ctx, st, song.ID, song.Artist)
		if err != nil {
			return result, err
		}
		if len(ids) > 0 {
			result.ArtistsCreated += len(ids)
			result.SongsLinked++
		}
	}
	return result, nil
}

// PrimaryArtistName returns the first artist named in the string, for
// display. It is a derivation, never stored.
func PrimaryArtistName(artistString string) string {
	pieces := artistSeparators.Split(artistString, -1)
	if len(pieces) > 0 {
		if name := strings.TrimSpace(pieces[0]); name != "" {
			return name
		}
	}
	return "Unknown Artist"
}

var (
	featVariants = regexp.MustCompile(`(?i)featuring|feat\.?|ft\.?`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// FormatArtistString canonicalizes the feat./ft./featuring variants for
// display.
func FormatArtistString(artistString string) string {
	if strings.TrimSpace(artistString) == "" {
		return "Unknown Artist"
	}
	out := featVariants.ReplaceAllString(artistString, "feat.")
	return strings.TrimSpace(multiSpace.ReplaceAllString(out, " "))
}
