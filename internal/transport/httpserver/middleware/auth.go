package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"packlist-go/internal/auth"
	"packlist-go/internal/config"
	"packlist-go/pkg/logger"
)

type Auth struct {
	tokens   TokenVerifier
	users    UserEnsurer
	skipAuth bool
	mockUser User
	log      logger.Logger
}

type contextKey int

const (
	userIDKey contextKey = iota
	userKey
)

type User struct {
	ID    string
	Email string
	Name  string
}

type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// UserEnsurer creates the account row for the dev mock user.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, userID, email, name string) error
}

func NewAuth(cfg config.AuthConfig, tokens TokenVerifier, users UserEnsurer, log logger.Logger) *Auth {
	return &Auth{
		tokens:   tokens,
		users:    users,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.TrimSpace(cfg.MockUserEmail),
			Name:  strings.TrimSpace(cfg.MockUserName),
		},
		log: log,
	}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			user := a.mockUser
			if user.ID == "" {
				a.log.Error("auth: mock user id not configured")
				writeError(w, http.StatusInternalServerError, "auth not configured")
				return
			}
			if a.users != nil {
				if err := a.users.EnsureUser(r.Context(), user.ID, user.Email, user.Name); err != nil {
					a.log.InternalError("auth: ensure mock user failed", err, "user_id", user.ID)
				}
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
			return
		}

		if a.tokens == nil {
			a.log.Error("auth: token verifier not configured")
			writeError(w, http.StatusInternalServerError, "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		identity, err := a.tokens.Verify(token)
		if err != nil {
			a.log.Debug("auth: token rejected", "err", err)
			unauthorized(w)
			return
		}

		user := User{
			ID:    identity.UserID,
			Email: identity.Email,
			Name:  identity.Name,
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, userIDKey, user.ID)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
