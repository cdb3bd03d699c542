package middleware

import (
	"context"
	"net/http"
	"strings"

	"crowdguard/backend/internal/platform/httpx"
	userdomain "crowdguard/backend/internal/user/domain"
)

// TokenValidator checks a bearer token and returns its subject and email claim.
type TokenValidator interface {
	ValidateAccess(token string) (userID, email string, err error)
}

// IdentityResolver turns validated claims into a user row, provisioning
// just-in-time when the subject is unknown but the email claim is present.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID, email string) (*userdomain.User, error)
}

// Auth returns middleware that authenticates requests with a bearer token and
// stores the resolved identity on the context.
func Auth(tokens TokenValidator, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized: No Token Provided")
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")

			userID, email, err := tokens.ValidateAccess(token)
			if err != nil {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized: invalid token")
				return
			}

			u, err := resolver.Resolve(r.Context(), userID, email)
			if err != nil {
				httpx.Error(w, http.StatusInternalServerError, "Could not resolve user")
				return
			}
			if u == nil {
				httpx.Error(w, http.StatusUnauthorized, "Unauthorized: invalid user")
				return
			}

			ctx := WithIdentity(r.Context(), u.ID, u.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
