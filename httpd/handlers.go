package httpd

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tunebox/backend/library"
	"tunebox/backend/player"
	"tunebox/backend/store"
)

type Server struct {
	Store   *store.Store
	Session *player.Session
	Scanner *library.Scanner
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ERROR: Failed to encode JSON response: %v", err)
	}
}

// respondWithError keeps empty results and store failures distinguishable:
// handlers return real status codes instead of silently empty bodies.
func respondWithError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	}
	respondWithJSON(w, code, map[string]string{"error": err.Error()})
}

func urlID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
