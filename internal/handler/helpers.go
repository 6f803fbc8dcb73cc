package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/fintrack/internal/middleware"
	"github.com/dukerupert/fintrack/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// owner returns the authenticated user, writing a 401 if absent.
func owner(w http.ResponseWriter, r *http.Request) *model.User {
	u := middleware.UserFrom(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "missing user identity")
	}
	return u
}
