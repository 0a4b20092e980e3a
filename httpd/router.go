package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tunebox/backend/library"
	"tunebox/backend/player"
	"tunebox/backend/store"
)

func NewRouter(st *store.Store, sess *player.Session, scanner *library.Scanner) http.Handler {
	srv := &Server{
		Store:   st,
		Session: sess,
		Scanner: scanner,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/songs", func(r chi.Router) {
		r.Get("/", srv.getSongs())
		r.Post("/", srv.createSong())
		r.Get("/{songID}", srv.getSong())
		r.Patch("/{songID}", srv.updateSong())
		r.Delete("/{songID}", srv.deleteSong())
		r.Get("/{songID}/artists", srv.getSongArtists())
		r.Get("/{songID}/genres", srv.getSongGenres())
	})

	r.Route("/artists", func(r chi.Router) {
		r.Get("/", srv.getArtists())
		r.Post("/", srv.createArtist())
		r.Get("/{artistID}", srv.getArtist())
		r.Patch("/{artistID}", srv.updateArtist())
		r.Delete("/{artistID}", srv.deleteArtist())
		r.Get("/{artistID}/songs", srv.getArtistSongs())
	})

	r.Route("/genres", func(r chi.Router) {
		r.Get("/", srv.getGenres())
		r.Post("/", srv.createGenre())
		r.Get("/{genreID}", srv.getGenre())
		r.Patch("/{genreID}", srv.updateGenre())
		r.Delete("/{genreID}", srv.deleteGenre())
		r.Get("/{genreID}/songs", srv.getGenreSongs())
	})

	r.Route("/playlists", func(r chi.Router) {
		r.Get("/", srv.getPlaylists())
		r.Post("/", srv.createPlaylist())
		r.Get("/{playlistID}", srv.getPlaylist())
		r.Patch("/{playlistID}", srv.updatePlaylist())
		r.Delete("/{playlistID}", srv.deletePlaylist())
		r.Get("/{playlistID}/songs", srv.getPlaylistSongs())
		r.Post("/{playlistID}/songs", srv.addPlaylistSong())
		r.Delete("/{playlistID}/songs/{songID}", srv.removePlaylistSong())
	})

	r.Get("/search", srv.search())

	r.Get("/history", srv.getHistory())
	r.Delete("/history", srv.clearHistory())

	r.Get("/settings", srv.getSettings())
	r.Patch("/settings", srv.updateSettings())

	r.Route("/player", func(r chi.Router) {
		r.Get("/", srv.playerStatus())
		r.Post("/play", srv.playerPlay())
		r.Post("/play-shuffled", srv.playerPlayShuffled())
		r.Post("/pause", srv.playerPause())
		r.Post("/resume", srv.playerResume())
		r.Post("/toggle", srv.playerToggle())
		r.Post("/next", srv.playerNext())
		r.Post("/previous", srv.playerPrevious())
		r.Post("/seek", srv.playerSeek())
		r.Post("/shuffle", srv.playerSetShuffle())
		r.Post("/repeat", srv.playerSetRepeat())
	})

	r.Post("/scan", srv.startScan())
	r.Get("/scan/{jobID}", srv.getScanJob())
	r.Post("/library/sync-artists", srv.syncArtists())

	return r
}
