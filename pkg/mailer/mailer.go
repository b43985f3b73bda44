// Package mailer sends transactional notification emails. Delivery is best
// effort: call sites log failures and move on.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/farm2fork/farm2fork-backend/pkg/config"
)

// Sender delivers a single plain-text email.
type Sender interface {
	Send(ctx context.Context, to string, subject string, body string) error
}

// New returns an SMTP-backed sender, or a no-op sender when SMTP is not
// configured (local development, tests).
func New(cfg config.SMTPConfig) Sender {
	if !cfg.Enabled() {
		return noopSender{}
	}
	return &smtpSender{cfg: cfg}
}

type smtpSender struct {
	cfg config.SMTPConfig
}

func (s *smtpSender) Send(ctx context.Context, to string, subject string, body string) error {
	if to == "" {
		return fmt.Errorf("recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.DefaultFrom)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", sanitizeHeader(subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.DefaultFrom, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// sanitizeHeader strips CRLF so a caller-supplied subject cannot inject
// additional headers.
func sanitizeHeader(v string) string {
	v = strings.ReplaceAll(v, "\r", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	return strings.TrimSpace(v)
}

type noopSender struct{}

func (noopSender) Send(context.Context, string, string, string) error { return nil }
