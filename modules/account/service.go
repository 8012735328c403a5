package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/authgate/pkg/email"
	"github.com/dmitrymomot/authgate/pkg/jwt"
	"github.com/dmitrymomot/authgate/pkg/logger"
)

const minPasswordLength = 6

// TokenIssuer issues access tokens for a user id.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// Session is returned by Register and Login.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service implements registration, login and profile management.
type Service struct {
	storage    Storage
	tokens     TokenIssuer
	mailer     email.Sender
	log        *slog.Logger
	bcryptCost int
	now        func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithMailer enables the welcome email.
func WithMailer(m email.Sender) Option {
	return func(s *Service) { s.mailer = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBcryptCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// NewService creates a Service.
func NewService(storage Storage, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		storage:    storage,
		tokens:     tokens,
		log:        logger.Discard(),
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and returns a session for it. A welcome email is
// sent when a mailer is configured; its failure is logged only.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	addr := normalizeEmail(in.Email)

	switch {
	case name == "":
		return nil, errNameRequired
	case !validEmail(addr):
		return nil, errInvalidEmail
	case len(in.Password) < minPasswordLength:
		return nil, errWeakPassword
	}

	if _, err := s.storage.GetUserByEmail(ctx, addr); err == nil {
		return nil, errEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	u := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        addr,
		PasswordHash: string(hash),
		ProfileImage: in.ProfileImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.storage.CreateUser(ctx, u); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, errEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", logger.UserID(u.ID), logger.Component("account"))
	s.sendWelcome(ctx, u)

	return s.session(u)
}

// Login verifies credentials. Unknown emails and wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	u, err := s.storage.GetUserByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, errInvalidCredentials
	}

	s.log.InfoContext(ctx, "user logged in", logger.UserID(u.ID), logger.Component("account"))
	return s.session(u)
}

// Profile returns the user by id.
func (s *Service) Profile(ctx context.Context, id string) (*User, error) {
	u, err := s.storage.GetUserByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, errUserGone
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields of upd.
func (s *Service) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	if upd.Name != nil {
		n := strings.TrimSpace(*upd.Name)
		if n == "" {
			return nil, errNameRequired
		}
		upd.Name = &n
	}

	u, err := s.storage.UpdateProfile(ctx, id, upd, s.now().UTC())
	if errors.Is(err, ErrUserNotFound) {
		return nil, errUserGone
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (s *Service) session(u *User) (*Session, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, User: u}, nil
}

func (s *Service) sendWelcome(ctx context.Context, u *User) {
	if s.mailer == nil {
		return
	}
	msg, err := email.Welcome(u.Name, u.Email)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.log.WarnContext(ctx, "welcome email not sent",
			logger.Error(err),
			logger.UserID(u.ID),
			logger.Component("account"),
		)
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

var _ TokenIssuer = (*jwt.Service)(nil)
