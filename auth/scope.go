package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// ScopeList is the token's scope claim. Providers emit it either as a
// JSON array or as one space-delimited string; both decode to the same
// list.
type ScopeList []string

func (s *ScopeList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*s = strings.Fields(joined)
	return nil
}

// Claims is the slice of the decoded token payload this service reads.
type Claims struct {
	Scope ScopeList `json:"scope"`
}

// Validate is intentionally lenient: a missing scope claim must fail
// the scope gate as an authorization error, not token validation.
func (c *Claims) Validate(ctx context.Context) error {
	return nil
}

func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scope {
		if s == scope {
			return true
		}
	}
	return false
}

// RequireScope gates mutating routes on a permission string carried in
// the validated token's scope claim. It runs after the token gate, so
// claims are always in the request context by the time it looks.
func RequireScope(scope string, log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				writeStatus(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			custom, ok := claims.CustomClaims.(*Claims)
			if !ok || !custom.HasScope(scope) {
				log.Warn().Str("method", r.Method).Str("scope", scope).Msg("required scope missing")
				writeStatus(w, http.StatusForbidden, "insufficient scope")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
