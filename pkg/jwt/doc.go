// Package jwt issues and verifies HS256 access tokens for the auth API.
//
// Tokens are built with github.com/golang-jwt/jwt/v5 and carry the user id as
// subject, an issuer and issued/not-before/expiry times. Parsing rejects any
// algorithm other than HS256 and maps library failures onto this package's
// sentinel errors.
//
//	svc, err := jwt.New(jwt.Config{Secret: os.Getenv("JWT_SECRET"), TTL: 24 * time.Hour})
//	token, err := svc.Issue(user.ID)
//
//	r.With(jwt.Middleware(svc)).Get("/me", func(w http.ResponseWriter, r *http.Request) {
//		userID := jwt.SubjectFromContext(r.Context())
//	})
package jwt
