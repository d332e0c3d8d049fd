package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charitymap/charitymap-api/internal/domain"
	"github.com/charitymap/charitymap-api/internal/http/response"
	"github.com/charitymap/charitymap-api/internal/repo/postgres"
	"github.com/charitymap/charitymap-api/pkg/auth"
	"github.com/charitymap/charitymap-api/pkg/logger"
)

type ctxKey string

const ctxUser ctxKey = "user"

// Authenticator is the authorization gate: it turns a bearer credential
// into a resolved user in the request context. Handlers downstream never
// parse credentials themselves.
type Authenticator struct {
	users  postgres.UsersRepo
	secret string
}

func NewAuthenticator(users postgres.UsersRepo, secret string) *Authenticator {
	return &Authenticator{users: users, secret: secret}
}

// RequireAuth admits any request carrying a valid session credential for
// an existing user.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			response.WriteError(w, http.StatusUnauthorized, "Token is missing", response.CodeUnauthorized)
			return
		}

		claims, err := auth.Parse(strings.TrimPrefix(authz, "Bearer "), a.secret)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				response.WriteError(w, http.StatusUnauthorized, "Token has expired", response.CodeExpiredToken)
				return
			}
			response.WriteError(w, http.StatusUnauthorized, "Invalid token", response.CodeInvalidToken)
			return
		}

		// The signature can be fine while the subject is gone.
		user, err := a.users.FindByID(r.Context(), claims.Sub)
		if err != nil {
			response.InternalError(w, "Failed to resolve user")
			return
		}
		if user == nil {
			response.WriteError(w, http.StatusUnauthorized, "User not found", response.CodeUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUser, user)
		ctx = context.WithValue(ctx, logger.UserIDKey, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin admits only users carrying the admin capability. It must
// run after RequireAuth.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			response.WriteError(w, http.StatusUnauthorized, "Token is missing", response.CodeUnauthorized)
			return
		}
		if !user.IsAdmin {
			response.WriteError(w, http.StatusForbidden, "Admin access required", response.CodeForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the identity resolved by RequireAuth, or nil.
func CurrentUser(r *http.Request) *domain.User {
	v := r.Context().Value(ctxUser)
	if v == nil {
		return nil
	}
	return v.(*domain.User)
}
