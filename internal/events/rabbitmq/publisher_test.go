package rabbitmq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msg = msg
	return f.err
}

func TestPublish_DefaultExchange(t *testing.T) {
	ch := &fakeChannel{}
	p := NewPublisher(ch)

	require.NoError(t, p.Publish(context.Background(), "point_changed", map[string]int{"amount": 5}))

	assert.Empty(t, ch.exchange)
	assert.Equal(t, "point_changed", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.JSONEq(t, `{"amount":5}`, string(ch.msg.Body))
}

func TestPublish_ChannelError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}

	err := NewPublisher(ch).Publish(context.Background(), "point_changed", 1)
	assert.EqualError(t, err, "channel closed")
}
