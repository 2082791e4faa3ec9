package handler

import (
	"net/http"
	"strings"

	"packlist-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

func urlParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

func queryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// currentUser writes a 401 when the request carries no authenticated user.
func currentUser(w http.ResponseWriter, r *http.Request) (middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return middleware.User{}, false
	}
	return user, true
}
