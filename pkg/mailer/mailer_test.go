package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/farm2fork/farm2fork-backend/pkg/config"
)

func TestNew_NoopWhenUnconfigured(t *testing.T) {
	s := New(config.SMTPConfig{})
	_, ok := s.(noopSender)
	require.True(t, ok)
	require.NoError(t, s.Send(context.Background(), "buyer@example.com", "hi", "body"))
}

func TestNew_SMTPWhenConfigured(t *testing.T) {
	s := New(config.SMTPConfig{Host: "smtp.example.com", Port: 587, DefaultFrom: "no-reply@farm2fork.test"})
	_, ok := s.(*smtpSender)
	require.True(t, ok)
}

func TestSMTPSender_RequiresRecipient(t *testing.T) {
	s := &smtpSender{cfg: config.SMTPConfig{Host: "smtp.example.com", Port: 587}}
	err := s.Send(context.Background(), "", "subject", "body")
	require.Error(t, err)
}

func TestSMTPSender_RespectsContext(t *testing.T) {
	s := &smtpSender{cfg: config.SMTPConfig{Host: "smtp.example.com", Port: 587}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Send(ctx, "buyer@example.com", "subject", "body")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSanitizeHeader(t *testing.T) {
	require.Equal(t, "a b c", sanitizeHeader("a\r\nb\nc"))
}
