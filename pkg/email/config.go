package email

// Config holds email settings. Without a server token the gateway writes
// messages to DevDir instead of sending them.
type Config struct {
	Sender       string `env:"EMAIL_USER"`
	ServerToken  string `env:"EMAIL_PASS"`
	AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	ReplyTo      string `env:"EMAIL_REPLY_TO"`
	DevDir       string `env:"EMAIL_DEV_DIR" envDefault:"tmp/emails"`
}
