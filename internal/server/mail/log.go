package mail

import (
	"context"

	"github.com/dmitrijs2005/eatery/internal/logging"
)

// LogTransport writes messages to the log instead of delivering them.
// Meant for local development, where the code is read from the log.
type LogTransport struct {
	logger logging.Logger
}

func NewLogTransport(logger logging.Logger) *LogTransport {
	return &LogTransport{logger: logger.With("transport", "log")}
}

func (t *LogTransport) Send(ctx context.Context, msg Message) error {
	args := []any{"to", msg.To, "subject", msg.Subject, "template", msg.Template}
	for _, v := range msg.Vars {
		args = append(args, "v:"+v.Key, v.Value)
	}
	t.logger.Info(ctx, "email", args...)
	return nil
}
