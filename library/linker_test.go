package library

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"tunebox/backend/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSplitArtistNames(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Alice & Bob feat. Carol", []string{"Alice", "Bob", "Carol"}},
		{"Alice, Bob", []string{"Alice", "Bob"}},
		{"Alice ft. Bob", []string{"Alice", "Bob"}},
		{"Alice featuring Bob", []string{"Alice", "Bob"}},
		{"Alice FEAT Bob", []string{"Alice", "Bob"}},
		{"Solo", []string{"Solo"}},
		{"Unknown Artist", nil},
		{"unknown artist & Alice", []string{"Alice"}},
		{"& , &", nil},
		{"", nil},
		{"   ", nil},
	}

	for _, tt := range tests {
		got := SplitArtistNames(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitArtistNames(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLinkSongArtistsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	songID, _, err := s.InsertSong(ctx, &store.Song{
		Title:  "Collab",
		Artist: "Alice & Bob feat. Carol",
		Path:   "/music/collab.mp3",
	})
	if err != nil {
		t.Fatalf("failed to insert song: %v", err)
	}

	ids, err := LinkSongArtists(ctx, s, songID, "Alice & Bob feat. Carol")
	if err != nil {
		t.Fatalf("first link pass failed: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 artists, got %d", len(ids))
	}

	// Second pass must not create duplicate artists or links
	if _, err := LinkSongArtists(ctx, s, songID, "Alice & Bob feat. Carol"); err != nil {
		t.Fatalf("second link pass failed: %v", err)
	}

	artists, err := s.GetArtistsBySong(ctx, songID)
	if err != nil {
		t.Fatalf("failed to get linked artists: %v", err)
	}
	if len(artists) != 3 {
		t.Errorf("expected 3 linked artists after re-run, got %d", len(artists))
	}

	all, _ := s.GetAllArtists(ctx)
	if len(all) != 3 {
		t.Errorf("expected 3 artist rows total, got %d", len(all))
	}
}

func TestLinkSongArtistsSeparatorsOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	songID, _, err := s.InsertSong(ctx, &store.Song{Title: "X", Artist: "& ,", Path: "/music/x.mp3"})
	if err != nil {
		t.Fatalf("failed to insert song: %v", err)
	}

	ids, err := LinkSongArtists(ctx, s, songID, "& ,")
	if err != nil {
		t.Fatalf("separators-only input must not error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected zero artists, got %d", len(ids))
	}
}

func TestSyncAllArtists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustInsert := func(title, artist, path string) {
		t.Helper()
		if _, _, err := s.InsertSong(ctx, &store.Song{Title: title, Artist: artist, Path: path}); err != nil {
			t.Fatalf("failed to insert %q: %v", title, err)
		}
	}
	mustInsert("One", "Alice & Bob", "/m/1.mp3")
	mustInsert("Two", "Carol", "/m/2.mp3")
	mustInsert("Three", "", "/m/3.mp3")
	mustInsert("Four", "Unknown Artist", "/m/4.mp3")

	result, err := SyncAllArtists(ctx, s)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.SongsLinked != 2 {
		t.Errorf("expected 2 songs linked, got %d", result.SongsLinked)
	}
	if result.ArtistsCreated != 3 {
		t.Errorf("expected 3 artist links, got %d", result.ArtistsCreated)
	}
}

func TestPrimaryArtistName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alice & Bob", "Alice"},
		{"Alice feat. Bob", "Alice"},
		{"Solo", "Solo"},
		{"", "Unknown Artist"},
		{"   ", "Unknown Artist"},
	}

	for _, tt := range tests {
		if got := PrimaryArtistName(tt.input); got != tt.want {
			t.Errorf("PrimaryArtistName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatArtistString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Alice ft. Bob", "Alice feat. Bob"},
		{"Alice featuring Bob", "Alice feat. Bob"},
		{"Alice   feat.   Bob", "Alice feat. Bob"},
		{"", "Unknown Artist"},
	}

	for _, tt := range tests {
		if got := FormatArtistString(tt.input); got != tt.want {
			t.Errorf("FormatArtistString(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
