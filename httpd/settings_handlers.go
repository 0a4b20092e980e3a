package httpd

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func (s *Server) getHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		entries, err := s.Store.GetPlayHistory(r.Context(), limit)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) clearHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Store.ClearPlayHistory(r.Context()); err != nil {
			respondWithError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) getSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := s.Store.LoadSettings(r.Context())
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, settings)
	}
}

func (s *Server) updateSettings() http.HandlerFunc {
	type request struct {
		Theme  *string `json:"theme"`
		Layout *string `json:"layout"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		if req.Theme != nil {
			if *req.Theme != "dark" && *req.Theme != "light" {
				http.Error(w, "theme must be dark or light", http.StatusBadRequest)
				return
			}
			if err := s.Store.SaveTheme(r.Context(), *req.Theme); err != nil {
				respondWithError(w, err)
				return
			}
		}
		if req.Layout != nil {
			if *req.Layout != "list" && *req.Layout != "grid" {
				http.Error(w, "layout must be list or grid", http.StatusBadRequest)
				return
			}
			if err := s.Store.SaveLayout(r.Context(), *req.Layout); err != nil {
				respondWithError(w, err)
				return
			}
		}

		settings, err := s.Store.LoadSettings(r.Context())
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, settings)
	}
}
