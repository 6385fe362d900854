// Package events publishes account domain events to a Redis stream so
// other services of the platform can react to sign-ups and verifications.
package events

import (
	"context"
	"time"
)

// Event types
const (
	UserCreated      = "user.created"
	UserEmailChanged = "user.email_changed"
	UserVerified     = "user.verified"
)

// UserEventsStream is the stream all account events go to.
const UserEventsStream = "user.events"

// Event is the envelope written to the stream.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserCreatedEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type UserEmailChangedEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type UserVerifiedEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Publisher emits events. Publishing is best effort: failures are logged
// by the implementation and never reach the caller.
type Publisher interface {
	Publish(ctx context.Context, eventType string, data any)
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) {}
