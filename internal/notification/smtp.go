package notification

import (
	"context"
	"fmt"
	"io"

	domain "github.com/engel-trans/service-checkout/internal/domain/notification"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPSender delivers email over SMTP. Port 465 uses implicit TLS.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewSMTPSender creates an SMTPSender. Without a user and password the
// sender reports itself as not configured and never dials.
func NewSMTPSender(host string, port int, user, password, from string, logger *zap.Logger) *SMTPSender {
	var dialer *gomail.Dialer
	if host != "" && user != "" && password != "" {
		dialer = gomail.NewDialer(host, port, user, password)
	}
	if from == "" {
		from = user
	}
	return &SMTPSender{dialer: dialer, from: from, logger: logger}
}

// Configured reports whether SMTP credentials are present.
func (s *SMTPSender) Configured() bool { return s.dialer != nil }

// Send builds the MIME message and delivers it. The SMTP session itself does
// not observe ctx; Send returns early when ctx is done.
func (s *SMTPSender) Send(ctx context.Context, email domain.Email) error {
	if !s.Configured() {
		return fmt.Errorf("smtp credentials are not configured")
	}
	if len(email.To) == 0 {
		return fmt.Errorf("email %s has no recipient", email.Kind)
	}
	msg := s.buildMessage(email)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send failed: %w", err)
		}
		s.logger.Info("email sent",
			zap.String("kind", string(email.Kind)),
			zap.Strings("to", email.To),
			zap.Int("attachments", len(email.Attachments)),
		)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send aborted: %w", ctx.Err())
	}
}

func (s *SMTPSender) buildMessage(email domain.Email) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email.To...)
	if len(email.CC) > 0 {
		m.SetHeader("Cc", email.CC...)
	}
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/plain", email.TextBody)
	if email.HTMLBody != "" {
		m.AddAlternative("text/html", email.HTMLBody)
	}
	for _, a := range email.Attachments {
		data := a.Data
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m
}
