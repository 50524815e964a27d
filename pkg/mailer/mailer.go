package mailer

import (
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/ds-interno/solicitudes-api/pkg/config"
)

// Notifier is the outbound mail capability consumed by services.
type Notifier interface {
	Send(to []string, subject, htmlBody string) error
}

// SMTPMailer delivers HTML mail through a plain SMTP transport.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// New builds an SMTPMailer from configuration.
func New(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one HTML message to the given recipients. Recipients may
// arrive as individual addresses or as comma-joined lists; both are accepted.
func (m *SMTPMailer) Send(to []string, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", splitRecipients(to)...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

func splitRecipients(to []string) []string {
	out := make([]string, 0, len(to))
	for _, addr := range to {
		for _, part := range strings.Split(addr, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
