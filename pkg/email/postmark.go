package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/mrz1836/postmark"
)

type postmarkSender struct {
	client  *postmark.Client
	from    string
	replyTo string
}

// NewPostmarkSender creates a sender backed by Postmark's transactional API.
func NewPostmarkSender(cfg Config) (Sender, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: server token is required", ErrInvalidConfig)
	}
	if _, err := mail.ParseAddress(cfg.Sender); err != nil {
		return nil, fmt.Errorf("%w: sender must be a valid email address", ErrInvalidConfig)
	}
	if cfg.ReplyTo != "" {
		if _, err := mail.ParseAddress(cfg.ReplyTo); err != nil {
			return nil, fmt.Errorf("%w: reply-to must be a valid email address", ErrInvalidConfig)
		}
	}
	return &postmarkSender{
		client:  postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		from:    cfg.Sender,
		replyTo: cfg.ReplyTo,
	}, nil
}

func (s *postmarkSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.from,
		ReplyTo:    s.replyTo,
		To:         msg.To,
		Subject:    msg.Subject,
		Tag:        msg.Tag,
		HTMLBody:   msg.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}
