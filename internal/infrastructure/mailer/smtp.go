package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"github.com/clinicore/emr-system/internal/core/ports"
)

// Config captures the settings for the outbound mail relay.
type Config struct {
	Host string
	Port string
	From string
}

// SMTPMailer sends plain-text mail through an unauthenticated relay. The
// dispatcher retries nothing: clinic relays are local and a failed
// confirmation mail is only logged.
type SMTPMailer struct {
	addr string
	from string
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		addr: net.JoinHostPort(cfg.Host, cfg.Port),
		from: cfg.From,
	}
}

// Send delivers one message. The context is accepted for interface symmetry;
// net/smtp does not support cancellation mid-session.
func (m *SMTPMailer) Send(_ context.Context, msg ports.MailMessage) error {
	body := fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		msg.To, m.from, msg.Subject, msg.Body)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{msg.To}, []byte(body)); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
