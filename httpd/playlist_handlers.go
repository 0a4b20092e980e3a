package httpd

import (
	"encoding/json"
	"net/http"

	"tunebox/backend/store"
)

func (s *Server) getPlaylists() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playlists, err := s.Store.GetAllPlaylists(r.Context())
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, playlists)
	}
}

func (s *Server) createPlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createNamedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		id, err := s.Store.CreatePlaylist(r.Context(), req.Name, req.CoverPath)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, map[string]int64{"id": id})
	}
}

func (s *Server) getPlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "playlistID")
		if err != nil {
			http.Error(w, "invalid playlist ID", http.StatusBadRequest)
			return
		}

		playlist, err := s.Store.GetPlaylist(r.Context(), id)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, playlist)
	}
}

func (s *Server) updatePlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "playlistID")
		if err != nil {
			http.Error(w, "invalid playlist ID", http.StatusBadRequest)
			return
		}

		var upd store.NameUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		changed, err := s.Store.UpdatePlaylist(r.Context(), id, upd)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]bool{"updated": changed})
	}
}

func (s *Server) deletePlaylist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "playlistID")
		if err != nil {
			http.Error(w, "invalid playlist ID", http.StatusBadRequest)
			return
		}

		if err := s.Store.DeletePlaylist(r.Context(), id); err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) getPlaylistSongs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "playlistID")
		if err != nil {
			http.Error(w, "invalid playlist ID", http.StatusBadRequest)
			return
		}

		entries, err := s.Store.GetSongsByPlaylist(r.Context(), id)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) addPlaylistSong() http.HandlerFunc {
	type request struct {
		SongID   int64 `json:"song_id"`
		Position int   `json:"position"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "playlistID")
		if err != nil {
			http.Error(w, "invalid playlist ID", http.StatusBadRequest)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		if err := s.Store.AddSongToPlaylist(r.Context(), req.SongID, id, req.Position); err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) removePlaylistSong() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playlistID, err := urlID(r, "playlistID")
		if err != nil {
			http.Error(w, "invalid playlist ID", http.StatusBadRequest)
			return
		}
		songID, err := urlID(r, "songID")
		if err != nil {
			http.Error(w, "invalid song ID", http.StatusBadRequest)
			return
		}

		if err := s.Store.RemoveSongFromPlaylist(r.Context(), songID, playlistID); err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
