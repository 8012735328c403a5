package email

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

// Sender delivers email messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is one outbound email.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks the recipient, subject and body.
func (m Message) Validate() error {
	if _, err := mail.ParseAddress(m.To); err != nil {
		return fmt.Errorf("%w: recipient: %w", ErrInvalidMessage, err)
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	if strings.TrimSpace(m.BodyHTML) == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidMessage)
	}
	return nil
}

// New returns a Postmark sender when a server token is configured and a
// DevSender writing to cfg.DevDir otherwise.
func New(cfg Config) (Sender, error) {
	if cfg.ServerToken == "" {
		return NewDevSender(cfg.DevDir), nil
	}
	return NewPostmarkSender(cfg)
}
