package environment

import (
	"context"
	"strings"
)

// Environment represents application environment.
type Environment string

const (
	// Development for development environment.
	Development Environment = "development"
	// Production for production environment.
	Production Environment = "production"
	// Staging for staging environment.
	Staging Environment = "staging"
)

// Normalize folds case and maps the short aliases "dev", "stage" and "prod"
// onto the canonical names. Unknown values are returned lowercased.
func (e Environment) Normalize() Environment {
	v := Environment(strings.ToLower(strings.TrimSpace(string(e))))
	switch v {
	case "prod":
		return Production
	case "stage":
		return Staging
	case "dev":
		return Development
	}
	return v
}

// IsProduction reports whether e is a production-like environment.
// Production-like environments hide error details and never serve files from disk.
func (e Environment) IsProduction() bool {
	return e.Normalize() == Production
}

type contextKey struct{}

// WithContext adds environment to context
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves environment from context
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

// IsProduction checks if the environment from context is production
func IsProduction(ctx context.Context) bool {
	return FromContext(ctx).IsProduction()
}

// IsDevelopment checks if the environment from context is development
func IsDevelopment(ctx context.Context) bool {
	return FromContext(ctx).Normalize() == Development
}
