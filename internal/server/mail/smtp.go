package mail

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
)

// SMTPConfig holds relay settings. Port defaults to 587.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// smtpSendMail is a seam for tests.
var smtpSendMail = smtp.SendMail

// SMTPTransport relays a plain-text rendering of the message over SMTP
// with PLAIN auth.
type SMTPTransport struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp: host and sender are required")
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}

	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}

	return &SMTPTransport{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		auth: auth,
		from: cfg.From,
	}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	body := []byte("From: " + t.from + "\r\n" +
		"To: " + msg.To + "\r\n" +
		"Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" + msg.PlainText())

	// net/smtp has no context support; honour cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := smtpSendMail(t.addr, t.auth, t.from, []string{msg.To}, body); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}
