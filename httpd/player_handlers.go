package httpd

import (
	"encoding/json"
	"log"
	"net/http"

	"tunebox/backend/player"
	"tunebox/backend/store"
)

func (s *Server) playerStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, s.Session.Status())
	}
}

// resolveQueue turns a list of song ids into songs, dropping unknown ids.
func (s *Server) resolveQueue(r *http.Request, ids []int64) []store.Song {
	var queue []store.Song
	for _, id := range ids {
		song, err := s.Store.GetSong(r.Context(), id)
		if err != nil {
			log.Printf("WARN: queue references unknown song %d", id)
			continue
		}
		queue = append(queue, *song)
	}
	return queue
}

func (s *Server) playerPlay() http.HandlerFunc {
	type request struct {
		SongID int64   `json:"song_id"`
		Queue  []int64 `json:"queue"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		song, err := s.Store.GetSong(r.Context(), req.SongID)
		if err != nil {
			respondWithError(w, err)
			return
		}

		queue := s.resolveQueue(r, req.Queue)
		if err := s.Session.PlaySong(*song, queue); err != nil {
			// Engine load failure is a distinct, surfaced condition.
			respondWithJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		respondWithJSON(w, http.StatusOK, s.Session.Status())
	}
}

func (s *Server) playerPlayShuffled() http.HandlerFunc {
	type request struct {
		Queue []int64 `json:"queue"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var queue []store.Song
		if len(req.Queue) > 0 {
			queue = s.resolveQueue(r, req.Queue)
		} else {
			songs, err := s.Store.GetAllSongs(r.Context())
			if err != nil {
				respondWithError(w, err)
				return
			}
			for _, song := range songs {
				queue = append(queue, *song)
			}
		}

		if err := s.Session.PlayShuffled(queue); err != nil {
			respondWithJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		respondWithJSON(w, http.StatusOK, s.Session.Status())
	}
}

func (s *Server) playerPause() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Session.Pause()
		respondWithJSON(w, http.StatusOK, s.Session.Status())
	}
}

func (s *Server) playerResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Session.Resume()
		respondWithJSON(w, http.StatusOK, s.Session.Status())
	}
}

func (s *Server) playerToggle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Session.TogglePlayPause()
		respondWithJSON(w, http.StatusOK, s.Session.Status())
	}
}

func (s *Server) playerNext() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Session.SkipToNext(); err != nil {
			respondWithJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		respondWithJSON(w, http.StatusOK, s.Session.Status())
	}
}

func (s *Server) playerPrevious() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Session.SkipToPrevious(); err != nil {
			respondWithJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		respondWithJSON(w, http.StatusOK, s.Session.Status())
	}
}

func (s *Server) playerSeek() http.HandlerFunc {
	type request struct {
		Position float64 `json:"position"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		if err := s.Session.SeekTo(req.Position); err != nil {
			respondWithJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		respondWithJSON(w, http.StatusOK, s.Session.Status())
	}
}

func (s *Server) playerSetShuffle() http.HandlerFunc {
	type request struct {
		Enabled bool `json:"enabled"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		s.Session.SetShuffle(req.Enabled)
		respondWithJSON(w, http.StatusOK, s.Session.Status())
	}
}

func (s *Server) playerSetRepeat() http.HandlerFunc {
	type request struct {
		Mode string `json:"mode"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		mode, err := player.ParseRepeatMode(req.Mode)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.Session.SetRepeatMode(mode)
		respondWithJSON(w, http.StatusOK, s.Session.Status())
	}
}
