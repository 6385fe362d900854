package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/eatery/internal/logging"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	args   []*redis.XAddArgs
	err    error
	ctxErr error
}

func (f *fakeStream) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.args = append(f.args, a)
	f.ctxErr = ctx.Err()
	return redis.NewStringResult("1-0", f.err)
}

type errLogger struct {
	logging.Logger
	errors []string
}

func (l *errLogger) Error(_ context.Context, msg string, _ ...any) { l.errors = append(l.errors, msg) }
func (l *errLogger) With(...any) logging.Logger                    { return l }

func TestRedisPublisher_Publish(t *testing.T) {
	f := &fakeStream{}
	p := NewRedisPublisher(f, UserEventsStream, 1000, logging.Nop())
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return ts }

	p.Publish(context.Background(), UserCreated, UserCreatedEvent{UserID: "u1", Email: "a@b.c", Role: "client"})

	require.Len(t, f.args, 1)
	a := f.args[0]
	assert.Equal(t, "user.events", a.Stream)
	assert.Equal(t, int64(1000), a.MaxLen)
	assert.True(t, a.Approx)

	values := a.Values.(map[string]any)
	assert.Equal(t, "user.created", values["type"])

	var got struct {
		Type      string           `json:"type"`
		Timestamp time.Time        `json:"timestamp"`
		Data      UserCreatedEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(values["event"].([]byte), &got))
	assert.Equal(t, "user.created", got.Type)
	assert.True(t, ts.Equal(got.Timestamp))
	assert.Equal(t, UserCreatedEvent{UserID: "u1", Email: "a@b.c", Role: "client"}, got.Data)
}

func TestRedisPublisher_CanceledCallerContext(t *testing.T) {
	f := &fakeStream{}
	p := NewRedisPublisher(f, UserEventsStream, 0, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Publish(ctx, UserVerified, UserVerifiedEvent{UserID: "u1"})

	require.Len(t, f.args, 1)
	assert.NoError(t, f.ctxErr, "publish must not inherit the caller's cancellation")
	assert.Zero(t, f.args[0].MaxLen)
}

func TestRedisPublisher_ErrorIsLogged(t *testing.T) {
	f := &fakeStream{err: errors.New("READONLY")}
	l := &errLogger{}
	p := NewRedisPublisher(f, UserEventsStream, 0, l)

	p.Publish(context.Background(), UserEmailChanged, UserEmailChangedEvent{UserID: "u1"})

	assert.Equal(t, []string{"failed to publish event"}, l.errors)
}

func TestRedisPublisher_MarshalError(t *testing.T) {
	f := &fakeStream{}
	l := &errLogger{}
	p := NewRedisPublisher(f, UserEventsStream, 0, l)

	p.Publish(context.Background(), UserCreated, make(chan int))

	assert.Empty(t, f.args)
	assert.Len(t, l.errors, 1)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NotPanics(t, func() { p.Publish(context.Background(), UserCreated, nil) })
}
