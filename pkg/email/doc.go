// Package email sends transactional mail.
//
// Production deployments use Postmark (github.com/mrz1836/postmark) with the
// server token from EMAIL_PASS and the sender address from EMAIL_USER.
// Without a token, New returns a DevSender that writes every message to disk
// so local registration flows can be inspected without a mail provider.
//
//	sender, err := email.New(cfg)
//	msg, _ := email.Welcome(user.Name, user.Email)
//	if err := sender.Send(ctx, msg); err != nil {
//		log.WarnContext(ctx, "welcome email not sent", logger.Error(err))
//	}
package email
