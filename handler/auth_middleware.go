package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"vidtube-api/common"
	"vidtube-api/model"
	"vidtube-api/repository"
	"vidtube-api/service"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	UserKey   contextKey = "user"
)

// AuthMiddleware authenticates a caller from the accessToken cookie or the
// Authorization header, re-reads the account (secret fields excluded) and
// attaches it to the request context. It never mutates state and holds no
// per-request state of its own, so it is safe for concurrent requests.
type AuthMiddleware struct {
	auth     *service.AuthService
	userRepo repository.IUserRepository
}

func NewAuthMiddleware(auth *service.AuthService, userRepo repository.IUserRepository) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, userRepo: userRepo}
}

func (m *AuthMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			common.NewUnauthorizedError("Unauthorized request", nil).Send(w)
			return
		}

		claims, err := m.auth.ParseAccessToken(tokenString)
		if err != nil {
			common.NewInvalidTokenError(err).Send(w)
			return
		}

		// Every request re-reads the account so a deleted user is rejected
		// immediately. The wire message stays identical to the bad-signature
		// case to avoid account enumeration.
		user, err := m.userRepo.GetPublicUserByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				common.NewInvalidTokenError(err).Send(w)
				return
			}
			common.NewInternalError("Failed to load account", err).Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
		ctx = context.WithValue(ctx, UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken pulls the access token from the cookie first, then from the
// Authorization header.
func bearerToken(r *http.Request) string {
	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return ""
	}
	return headerParts[1]
}

// userFromContext returns the authenticated account attached by the
// middleware.
func userFromContext(r *http.Request) (*model.User, bool) {
	user, ok := r.Context().Value(UserKey).(*model.User)
	return user, ok
}
