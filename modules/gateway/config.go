package gateway

import (
	"strings"

	"github.com/dmitrymomot/authgate/pkg/environment"
)

// Config holds gateway settings read from the environment.
type Config struct {
	AppEnv       string `env:"APP_ENV" envDefault:"development"`          // AppEnv selects verbose errors and the fallback strategy.
	ServiceName  string `env:"SERVICE_NAME" envDefault:"authgate"`        // ServiceName tags every log line.
	ClientURL    string `env:"CLIENT_URL" envDefault:"*"`                 // ClientURL is the allowed CORS origin, comma separated.
	StaticDir    string `env:"STATIC_DIR" envDefault:"client/dist"`       // StaticDir is the frontend build served outside production.
	ErrorLogPath string `env:"ERROR_LOG_PATH" envDefault:"/tmp/error.log"` // ErrorLogPath receives the last unhandled error.
	Version      string `env:"VERSION" envDefault:"1.0.0"`
	MaxBodySize  int64  `env:"MAX_BODY_SIZE" envDefault:"52428800"` // 50MB

	// TrustedIPHeaders are the proxy headers client addresses are read from.
	TrustedIPHeaders []string `env:"TRUSTED_IP_HEADERS" envDefault:"X-Forwarded-For,X-Real-IP"`
}

// Environment returns the normalized environment.
func (c Config) Environment() environment.Environment {
	env := environment.Environment(c.AppEnv).Normalize()
	if env == "" {
		return environment.Development
	}
	return env
}

// Origins splits ClientURL into the CORS allow list.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.ClientURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// PresenceVars are the configuration inputs reported by /api/health as
// "set" or "not set", one per input. EMAIL_PASS stands for the email
// credentials: it is the Postmark server token, EMAIL_USER is only the sender
// address.
var PresenceVars = []string{
	"MONGODB_URI",
	"PORT",
	"CLIENT_URL",
	"JWT_SECRET",
	"EMAIL_PASS",
	"APP_ENV",
}

// Endpoints lists the public API, as described by the production fallback.
var Endpoints = []string{
	"GET /",
	"GET /api/test",
	"GET /api/health",
	"POST /api/auth/register",
	"POST /api/auth/login",
	"GET /api/auth/me",
	"PUT /api/auth/profile",
}
