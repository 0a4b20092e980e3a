package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tunebox/backend/library"
)

func (s *Server) startScan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := s.Scanner.Start()
		respondWithJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
	}
}

func (s *Server) getScanJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := s.Scanner.Job(chi.URLParam(r, "jobID"))
		if !ok {
			http.Error(w, "unknown scan job", http.StatusNotFound)
			return
		}
		respondWithJSON(w, http.StatusOK, job)
	}
}

// syncArtists is the one-time backfill that derives artist rows and links
// from every song's raw artist string.
func (s *Server) syncArtists() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := library.SyncAllArtists(r.Context(), s.Store)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, result)
	}
}
