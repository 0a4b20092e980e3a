package httpd

import (
	"encoding/json"
	"net/http"

	"tunebox/backend/store"
)

type createNamedRequest struct {
	Name      string `json:"name"`
	CoverPath string `json:"cover_image_path"`
}

// ---- Artists ----

func (s *Server) getArtists() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artists, err := s.Store.GetAllArtists(r.Context())
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, artists)
	}
}

func (s *Server) createArtist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createNamedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		id, err := s.Store.CreateArtist(r.Context(), req.Name, req.CoverPath)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]int64{"id": id})
	}
}

func (s *Server) getArtist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "artistID")
		if err != nil {
			http.Error(w, "invalid artist ID", http.StatusBadRequest)
			return
		}

		artist, err := s.Store.GetArtist(r.Context(), id)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, artist)
	}
}

func (s *Server) updateArtist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "artistID")
		if err != nil {
			http.Error(w, "invalid artist ID", http.StatusBadRequest)
			return
		}

		var upd store.NameUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		changed, err := s.Store.UpdateArtist(r.Context(), id, upd)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]bool{"updated": changed})
	}
}

func (s *Server) deleteArtist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "artistID")
		if err != nil {
			http.Error(w, "invalid artist ID", http.StatusBadRequest)
			return
		}

		if err := s.Store.DeleteArtist(r.Context(), id); err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) getArtistSongs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "artistID")
		if err != nil {
			http.Error(w, "invalid artist ID", http.StatusBadRequest)
			return
		}

		songs, err := s.Store.GetSongsByArtist(r.Context(), id)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, songs)
	}
}

// ---- Genres ----

func (s *Server) getGenres() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genres, err := s.Store.GetAllGenres(r.Context())
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, genres)
	}
}

func (s *Server) createGenre() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createNamedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		id, err := s.Store.CreateGenre(r.Context(), req.Name, req.CoverPath)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]int64{"id": id})
	}
}

func (s *Server) getGenre() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "genreID")
		if err != nil {
			http.Error(w, "invalid genre ID", http.StatusBadRequest)
			return
		}

		genre, err := s.Store.GetGenre(r.Context(), id)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, genre)
	}
}

func (s *Server) updateGenre() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "genreID")
		if err != nil {
			http.Error(w, "invalid genre ID", http.StatusBadRequest)
			return
		}

		var upd store.NameUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		changed, err := s.Store.UpdateGenre(r.Context(), id, upd)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]bool{"updated": changed})
	}
}

func (s *Server) deleteGenre() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "genreID")
		if err != nil {
			http.Error(w, "invalid genre ID", http.StatusBadRequest)
			return
		}

		if err := s.Store.DeleteGenre(r.Context(), id); err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) getGenreSongs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "genreID")
		if err != nil {
			http.Error(w, "invalid genre ID", http.StatusBadRequest)
			return
		}

		songs, err := s.Store.GetSongsByGenre(r.Context(), id)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, songs)
	}
}
