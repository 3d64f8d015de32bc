// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is a single outbound message. TextBody is the plain-text
// alternative for clients that do not render HTML.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // display form, e.g. "CampusFind <noreply@campusfind.example>"
}

// Mailer sends email over SMTP. When constructed without a host it runs
// disabled: Send logs and returns nil so local development works without
// an SMTP server.
type Mailer struct {
	cfg     Config
	enabled bool
	log     *zap.Logger
}

// New constructs a Mailer. The mailer is disabled when Host is empty.
func New(cfg Config, log *zap.Logger) *Mailer {
	m := &Mailer{cfg: cfg, enabled: cfg.Host != "", log: log}
	if !m.enabled && log != nil {
		log.Warn("mailer disabled: no SMTP host configured")
	}
	return m
}

// Enabled reports whether the mailer will actually deliver messages.
func (m *Mailer) Enabled() bool { return m.enabled }

// Send delivers one email. The context is consulted before dialing;
// net/smtp itself does not support cancellation mid-send.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	if !m.enabled {
		if m.log != nil {
			m.log.Info("mailer disabled, dropping email",
				zap.String("to", e.To),
				zap.String("subject", e.Subject))
		}
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := buildMessage(m.cfg.From, e)
	if err := smtp.SendMail(addr, auth, envelopeFrom(m.cfg.From), []string{e.To}, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", e.To, err)
	}

	if m.log != nil {
		m.log.Info("email sent",
			zap.String("to", e.To),
			zap.String("subject", e.Subject))
	}
	return nil
}

// buildMessage assembles a multipart/alternative message with text and
// HTML parts.
func buildMessage(from string, e Email) []byte {
	const boundary = "campusfind-alt-boundary"

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + e.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", e.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n")
	b.WriteString("\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(e.TextBody)
	b.WriteString("\r\n")

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(e.HTMLBody)
	b.WriteString("\r\n")

	b.WriteString("--" + boundary + "--\r\n")
	return []byte(b.String())
}

// envelopeFrom extracts the bare address from a display-form From
// header ("Name <addr>" or just "addr").
func envelopeFrom(from string) string {
	if i := strings.Index(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			return from[i+1 : i+j]
		}
	}
	return from
}
