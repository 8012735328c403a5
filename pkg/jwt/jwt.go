package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the registered claims of an access token. Subject is the user id.
type Claims struct {
	gojwt.RegisteredClaims
}

// Service issues and verifies HS256 access tokens.
type Service struct {
	key    []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service. An empty secret is rejected.
func New(cfg Config, opts ...Option) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSigningKey
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	s := &Service{
		key:    []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates a signed token for the subject.
func (s *Service) Issue(subject string) (string, error) {
	if subject == "" {
		return "", ErrMissingSubject
	}
	now := s.now()
	claims := Claims{gojwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(s.ttl)),
	}}

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Parse verifies the token signature, algorithm, issuer and time bounds.
func (s *Service) Parse(token string) (Claims, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	var c Claims
	_, err := gojwt.ParseWithClaims(token, &c, s.keyFunc, opts...)
	if err != nil {
		return Claims{}, classify(err)
	}
	if c.Subject == "" {
		return Claims{}, ErrMissingSubject
	}
	return c, nil
}

func (s *Service) keyFunc(t *gojwt.Token) (any, error) {
	// Algorithm confusion guard.
	if t.Method != gojwt.SigningMethodHS256 {
		return nil, ErrUnexpectedSigningMethod
	}
	return s.key, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrUnexpectedSigningMethod):
		return ErrUnexpectedSigningMethod
	case errors.Is(err, gojwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
}
