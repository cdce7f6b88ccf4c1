package nats

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
)

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subj string, data []byte) error
}

func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name("point-ledger"))
}

// Publisher sends events to the subject prefix+topic.
type Publisher struct {
	conn   Conn
	prefix string
}

func NewPublisher(conn Conn, prefix string) *Publisher {
	return &Publisher{conn: conn, prefix: prefix}
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.prefix+topic, data)
}
