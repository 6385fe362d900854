package mail

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/eatery/internal/common"
	"github.com/dmitrijs2005/eatery/internal/logging"
)

// DefaultSendTimeout bounds a single delivery attempt.
const DefaultSendTimeout = 15 * time.Second

// Sender dispatches notifications in the background. Callers never wait for
// delivery and never see its errors; failures are logged.
type Sender struct {
	transport  Transport
	logger     logging.Logger
	timeout    time.Duration
	overrideTo string

	wg sync.WaitGroup
}

type SenderOption func(*Sender)

// WithTimeout sets the per-message delivery timeout.
func WithTimeout(d time.Duration) SenderOption {
	return func(s *Sender) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithOverrideRecipient redirects every message to addr, e.g. the single
// authorized recipient of a Mailgun sandbox domain.
func WithOverrideRecipient(addr string) SenderOption {
	return func(s *Sender) { s.overrideTo = addr }
}

func NewSender(t Transport, logger logging.Logger, opts ...SenderOption) *Sender {
	s := &Sender{
		transport: t,
		logger:    logger.With("module", "mail"),
		timeout:   DefaultSendTimeout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SendVerificationEmail queues the verification email for email.
func (s *Sender) SendVerificationEmail(email, code string) {
	s.Send(VerificationMessage(email, code))
}

// Send delivers msg on its own goroutine with a context detached from any
// request, so a finished RPC does not cancel delivery.
func (s *Sender) Send(msg Message) {
	if s.overrideTo != "" {
		msg.To = s.overrideTo
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error(context.Background(), "mail transport panicked", "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.transport.Send(ctx, msg); err != nil {
			s.logger.Error(ctx, "failed to send email",
				"template", msg.Template, "to", common.MaskEmail(msg.To), "error", err)
			return
		}
		s.logger.Debug(ctx, "email sent", "template", msg.Template, "to", common.MaskEmail(msg.To))
	}()
}

// Wait blocks until every queued message has been attempted.
func (s *Sender) Wait() {
	s.wg.Wait()
}
