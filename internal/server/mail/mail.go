// Package mail delivers templated notification emails through a pluggable
// transport (Mailgun, Amazon SES, SMTP, or the process log).
package mail

import (
	"context"
	"strings"
)

// Var is one template substitution pair.
type Var struct {
	Key   string
	Value string
}

// Message is a templated email. Vars keep their order so transports that
// render them positionally stay deterministic.
type Message struct {
	To       string
	Subject  string
	Template string
	Vars     []Var
}

// Lookup returns the value of the first var named key.
func (m Message) Lookup(key string) (string, bool) {
	for _, v := range m.Vars {
		if v.Key == key {
			return v.Value, true
		}
	}
	return "", false
}

// PlainText renders the message for transports without server-side
// templates: one "key: value" line per var.
func (m Message) PlainText() string {
	var b strings.Builder
	b.WriteString(m.Subject)
	b.WriteString("\r\n\r\n")
	for _, v := range m.Vars {
		b.WriteString(v.Key)
		b.WriteString(": ")
		b.WriteString(v.Value)
		b.WriteString("\r\n")
	}
	return b.String()
}

// Transport hands a message to a delivery backend.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, msg Message) error

func (f TransportFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

const (
	VerifyEmailSubject  = "Подтвердите адрес эл. почты"
	VerifyEmailTemplate = "verify-email"
)

// VerificationMessage builds the email carrying a verification code.
func VerificationMessage(email, code string) Message {
	return Message{
		To:       email,
		Subject:  VerifyEmailSubject,
		Template: VerifyEmailTemplate,
		Vars: []Var{
			{Key: "code", Value: code},
			{Key: "email", Value: email},
		},
	}
}
