package httpd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"tunebox/backend/library"
	"tunebox/backend/player"
	"tunebox/backend/store"
)

// stubEngine plays nothing; handlers only care about the state transitions.
type stubEngine struct{ position float64 }

func (e *stubEngine) Open(path string) error             { return nil }
func (e *stubEngine) Play(onComplete func(success bool)) {}
func (e *stubEngine) Pause()                             {}
func (e *stubEngine) Resume()                            {}
func (e *stubEngine) Stop()                              {}
func (e *stubEngine) SetPosition(seconds float64) error  { e.position = seconds; return nil }
func (e *stubEngine) Position() float64                  { return e.position }
func (e *stubEngine) Duration() float64                  { return 240 }
func (e *stubEngine) Release()                           {}

func newTestServer(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	sess := player.NewSession(st, func() player.Engine { return &stubEngine{} })
	t.Cleanup(sess.Close)

	return NewRouter(st, sess, library.NewScanner(st, nil)), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(into); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
}

func TestCreateSongLinksArtists(t *testing.T) {
	h, _ := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/songs", map[string]any{
		"title":              "Duet",
		"artist_name_string": "Alice & Bob",
		"path":               "/music/duet.mp3",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		ID      int64 `json:"id"`
		Created bool  `json:"created"`
	}
	decodeBody(t, w, &created)
	if !created.Created {
		t.Error("expected created true on first insert")
	}

	// Same path resolves to the existing row
	w = doJSON(t, h, http.MethodPost, "/songs", map[string]any{
		"title": "Duet Again",
		"path":  "/music/duet.mp3",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate path, got %d", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/songs/%d/artists", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var artists []store.Artist
	decodeBody(t, w, &artists)
	if len(artists) != 2 {
		t.Errorf("expected 2 linked artists, got %d", len(artists))
	}
}

func TestCreateSongValidation(t *testing.T) {
	h, _ := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/songs", map[string]any{"title": "No Path"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing path, got %d", w.Code)
	}
}

func TestGetSongNotFound(t *testing.T) {
	h, _ := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/songs/9999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/songs/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed ID, got %d", w.Code)
	}
}

func TestSearchAcrossEntities(t *testing.T) {
	h, _ := newTestServer(t)

	doJSON(t, h, http.MethodPost, "/songs", map[string]any{
		"title": "Night Drive", "artist_name_string": "Nocturne", "path": "/m/nd.mp3",
	})
	doJSON(t, h, http.MethodPost, "/playlists", map[string]any{"name": "Night Mix"})

	w := doJSON(t, h, http.MethodGet, "/search?q=night", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var results struct {
		Songs     []store.Song     `json:"songs"`
		Playlists []store.Playlist `json:"playlists"`
	}
	decodeBody(t, w, &results)
	if len(results.Songs) != 1 {
		t.Errorf("expected 1 song match, got %d", len(results.Songs))
	}
	if len(results.Playlists) != 1 {
		t.Errorf("expected 1 playlist match, got %d", len(results.Playlists))
	}
}

func TestPlaylistSongFlow(t *testing.T) {
	h, _ := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/songs", map[string]any{"title": "A", "path": "/m/a.mp3"})
	var song struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, w, &song)

	w = doJSON(t, h, http.MethodPost, "/playlists", map[string]any{"name": "Faves"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating playlist, got %d", w.Code)
	}
	var playlist struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, w, &playlist)

	w = doJSON(t, h, http.MethodPost, fmt.Sprintf("/playlists/%d/songs", playlist.ID),
		map[string]any{"song_id": song.ID, "position": 1})
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 adding song, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/playlists/%d/songs", playlist.ID), nil)
	var entries []store.PlaylistEntry
	decodeBody(t, w, &entries)
	if len(entries) != 1 || entries[0].ID != song.ID {
		t.Fatalf("expected the added song in the playlist, got %+v", entries)
	}

	w = doJSON(t, h, http.MethodDelete,
		fmt.Sprintf("/playlists/%d/songs/%d", playlist.ID, song.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 removing song, got %d", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/playlists/%d/songs", playlist.ID), nil)
	entries = nil
	decodeBody(t, w, &entries)
	if len(entries) != 0 {
		t.Errorf("expected empty playlist after removal, got %d entries", len(entries))
	}
}

func TestSettingsPatchAndGet(t *testing.T) {
	h, _ := newTestServer(t)

	w := doJSON(t, h, http.MethodPatch, "/settings", map[string]any{"theme": "light", "layout": "grid"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodPatch, "/settings", map[string]any{"theme": "purple"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid theme, got %d", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/settings", nil)
	var settings store.Settings
	decodeBody(t, w, &settings)
	if settings.Theme != "light" || settings.Layout != "grid" {
		t.Errorf("settings round-trip failed: %+v", settings)
	}
}

func TestPlayerPlayAndStatus(t *testing.T) {
	h, _ := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/player", nil)
	var status player.Status
	decodeBody(t, w, &status)
	if status.State != "idle" {
		t.Errorf("expected idle before playback, got %s", status.State)
	}

	w = doJSON(t, h, http.MethodPost, "/songs", map[string]any{"title": "A", "path": "/m/a.mp3"})
	var song struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, w, &song)

	w = doJSON(t, h, http.MethodPost, "/player/play",
		map[string]any{"song_id": song.ID, "queue": []int64{song.ID}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	decodeBody(t, w, &status)
	if status.State != "playing" || status.Track == nil || status.Track.ID != song.ID {
		t.Errorf("unexpected status after play: %+v", status)
	}

	w = doJSON(t, h, http.MethodPost, "/player/play", map[string]any{"song_id": int64(9999)})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 playing unknown song, got %d", w.Code)
	}
}

func TestPlayerRepeatValidation(t *testing.T) {
	h, _ := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/player/repeat", map[string]any{"mode": "all"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var status player.Status
	decodeBody(t, w, &status)
	if status.Repeat != player.RepeatAll {
		t.Errorf("expected repeat all, got %s", status.Repeat)
	}

	w = doJSON(t, h, http.MethodPost, "/player/repeat", map[string]any{"mode": "sometimes"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad mode, got %d", w.Code)
	}
}

func TestPlayerSeekWithoutTrack(t *testing.T) {
	h, _ := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/player/seek", map[string]any{"position": 10.0})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 seeking with no track, got %d", w.Code)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	h, st := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/songs", map[string]any{"title": "A", "path": "/m/a.mp3"})
	var song struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, w, &song)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	_ = st.AddSongToHistory(req.Context(), song.ID)
	_ = st.AddSongToHistory(req.Context(), song.ID)

	w = doJSON(t, h, http.MethodGet, "/history?limit=1", nil)
	var entries []store.HistoryEntry
	decodeBody(t, w, &entries)
	if len(entries) != 1 {
		t.Errorf("expected limit to cap history at 1, got %d", len(entries))
	}

	w = doJSON(t, h, http.MethodDelete, "/history", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 clearing history, got %d", w.Code)
	}

	w = doJSON(t, h, http.MethodGet, "/history", nil)
	entries = nil
	decodeBody(t, w, &entries)
	if len(entries) != 0 {
		t.Errorf("expected empty history after clear, got %d", len(entries))
	}
}

func TestScanUnknownJob(t *testing.T) {
	h, _ := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/scan/no-such-job", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown scan job, got %d", w.Code)
	}
}
