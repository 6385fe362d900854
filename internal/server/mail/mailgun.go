package mail

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunConfig holds the Mailgun account settings.
type MailgunConfig struct {
	Domain  string
	APIKey  string
	From    string // defaults to "Eatery <mailgun@<domain>>"
	APIBase string // optional, e.g. mailgun.APIBaseEU
}

// MailgunTransport sends stored-template messages through the Mailgun API.
// Vars are passed as "v:" variables.
type MailgunTransport struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgunTransport(cfg MailgunConfig) (*MailgunTransport, error) {
	if cfg.Domain == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("mailgun: domain and api key are required")
	}

	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.APIBase != "" {
		mg.SetAPIBase(cfg.APIBase)
	}

	from := cfg.From
	if from == "" {
		from = fmt.Sprintf("Eatery <mailgun@%s>", cfg.Domain)
	}

	return &MailgunTransport{mg: mg, from: from}, nil
}

func (t *MailgunTransport) Send(ctx context.Context, msg Message) error {
	m := t.mg.NewMessage(t.from, msg.Subject, "", msg.To)
	m.SetTemplate(msg.Template)
	for _, v := range msg.Vars {
		if err := m.AddVariable(v.Key, v.Value); err != nil {
			return fmt.Errorf("mailgun: variable %s: %w", v.Key, err)
		}
	}

	if _, _, err := t.mg.Send(ctx, m); err != nil {
		return fmt.Errorf("mailgun: %w", err)
	}
	return nil
}
