package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Mailer delivers password-reset tokens to users. It is the only
// outbound-mail boundary of the server.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, token string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr     string // host:port
	from     string
	resetURL string // base URL the token is appended to
	auth     smtp.Auth
}

// NewSMTPMailer creates a mailer for the given relay. Auth may be nil
// for relays that accept unauthenticated senders.
func NewSMTPMailer(addr, from, resetURL string, auth smtp.Auth) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from, resetURL: resetURL, auth: auth}
}

// SendPasswordReset mails a reset link containing the token.
func (m *SMTPMailer) SendPasswordReset(_ context.Context, to, token string) error {
	body := fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: Reset your password\r\n\r\n"+
			"Use the link below to reset your password. It expires in one hour.\r\n\r\n%s/%s\r\n",
		to, m.from, m.resetURL, token,
	)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogMailer writes reset tokens to the log instead of sending mail.
// Used in development when no SMTP relay is configured.
type LogMailer struct {
	log *zerolog.Logger
}

// NewLogMailer creates a log-only mailer.
func NewLogMailer(logger *zerolog.Logger) *LogMailer {
	return &LogMailer{log: logger}
}

// SendPasswordReset logs the token.
func (m *LogMailer) SendPasswordReset(_ context.Context, to, token string) error {
	m.log.Info().Str("to", to).Str("token", token).Msg("password reset requested (no smtp relay configured)")
	return nil
}
