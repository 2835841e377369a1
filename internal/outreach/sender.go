package outreach

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rotisserie/eris"
)

// Sender delivers one email. Implementations connect per message so a dead
// connection never poisons a batch.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPConfig holds the credentials for the STARTTLS sender.
type SMTPConfig struct {
	Host       string
	Port       int
	Address    string
	Password   string
	SenderName string
}

// smtpSender sends mail over SMTP with STARTTLS, one connection per message.
type smtpSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates a Sender backed by net/smtp.
func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.cfg.SenderName, s.cfg.Address)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))

	auth := smtp.PlainAuth("", s.cfg.Address, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.Address, []string{to}, []byte(msg.String())); err != nil {
		return eris.Wrap(err, "outreach: send mail")
	}
	return nil
}
