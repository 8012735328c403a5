package jwt

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/authgate/pkg/httpjson"
)

// Middleware requires a valid "Authorization: Bearer <token>" header and
// stores its claims in the request context. Requests without one get
// 401 {"message":"Unauthorized"}.
func Middleware(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				_ = httpjson.WriteError(w, httpjson.ErrUnauthorized)
				return
			}
			claims, err := s.Parse(token)
			if err != nil {
				_ = httpjson.WriteError(w, httpjson.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
