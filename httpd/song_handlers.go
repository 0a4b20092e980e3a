package httpd

import (
	"encoding/json"
	"log"
	"net/http"

	"tunebox/backend/library"
	"tunebox/backend/store"
)

func (s *Server) getSongs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		songs, err := s.Store.GetAllSongs(r.Context())
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, songs)
	}
}

func (s *Server) createSong() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var song store.Song
		if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		id, created, err := s.Store.InsertSong(r.Context(), &song)
		if err != nil {
			respondWithError(w, err)
			return
		}

		// Inserts resolving to an existing path are success, not conflict.
		code := http.StatusOK
		if created {
			code = http.StatusCreated
			if _, err := library.LinkSongArtists(r.Context(), s.Store, id, song.Artist); err != nil {
				log.Printf("WARN: linking artists for song %d: %v", id, err)
			}
		}
		respondWithJSON(w, code, map[string]any{"id": id, "created": created})
	}
}

func (s *Server) getSong() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "songID")
		if err != nil {
			http.Error(w, "invalid song ID", http.StatusBadRequest)
			return
		}

		song, err := s.Store.GetSong(r.Context(), id)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, song)
	}
}

func (s *Server) updateSong() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "songID")
		if err != nil {
			http.Error(w, "invalid song ID", http.StatusBadRequest)
			return
		}

		var upd store.SongUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		changed, err := s.Store.UpdateSong(r.Context(), id, upd)
		if err != nil {
			respondWithError(w, err)
			return
		}

		if changed {
			// Best effort: mirror the edit into the file's ID3 tag.
			if song, err := s.Store.GetSong(r.Context(), id); err == nil {
				if err := library.WriteSongTags(song); err != nil {
					log.Printf("WARN: writing tags to %s: %v", song.Path, err)
				}
			}
		}
		respondWithJSON(w, http.StatusOK, map[string]bool{"updated": changed})
	}
}

func (s *Server) deleteSong() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "songID")
		if err != nil {
			http.Error(w, "invalid song ID", http.StatusBadRequest)
			return
		}

		if err := s.Store.DeleteSong(r.Context(), id); err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) getSongArtists() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "songID")
		if err != nil {
			http.Error(w, "invalid song ID", http.StatusBadRequest)
			return
		}

		artists, err := s.Store.GetArtistsBySong(r.Context(), id)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, artists)
	}
}

func (s *Server) getSongGenres() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "songID")
		if err != nil {
			http.Error(w, "invalid song ID", http.StatusBadRequest)
			return
		}

		genres, err := s.Store.GetGenresBySong(r.Context(), id)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, genres)
	}
}

// search covers songs by title or raw artist string, plus name matches on
// the other entity types. Empty query matches everything.
func (s *Server) search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")

		songs, err := s.Store.SearchSongs(r.Context(), q)
		if err != nil {
			respondWithError(w, err)
			return
		}
		artists, err := s.Store.SearchArtists(r.Context(), q)
		if err != nil {
			respondWithError(w, err)
			return
		}
		genres, err := s.Store.SearchGenres(r.Context(), q)
		if err != nil {
			respondWithError(w, err)
			return
		}
		playlists, err := s.Store.SearchPlaylists(r.Context(), q)
		if err != nil {
			respondWithError(w, err)
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]any{
			"songs":     songs,
			"artists":   artists,
			"genres":    genres,
			"playlists": playlists,
		})
	}
}
