package middleware

import (
	"context"
	"net/http"

	"github.com/dukerupert/fintrack/internal/model"
	"github.com/dukerupert/fintrack/internal/store"
)

// UserIDHeader carries the caller's identity. The API trusts the reverse
// proxy in front of it to authenticate and set this header.
const UserIDHeader = "X-User-ID"

type contextKey string

const userKey contextKey = "user"

// RequireUser resolves the X-User-ID header against the user store and
// rejects requests with a missing or unknown identity.
func RequireUser(users *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(UserIDHeader)
			if id == "" {
				http.Error(w, "missing user identity", http.StatusUnauthorized)
				return
			}

			user, err := users.GetByID(id)
			if err != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			if user == nil {
				http.Error(w, "unknown user", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom returns the authenticated user, or nil outside RequireUser.
func UserFrom(ctx context.Context) *model.User {
	u, _ := ctx.Value(userKey).(*model.User)
	return u
}
