package events

import (
	"fmt"

	"github.com/sheikh-saqib/point-ledger/internal/config"
	"github.com/sheikh-saqib/point-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/point-ledger/internal/events/nats"
	"github.com/sheikh-saqib/point-ledger/internal/events/rabbitmq"
	interfaces "github.com/sheikh-saqib/point-ledger/internal/interfaces"
	modelevents "github.com/sheikh-saqib/point-ledger/internal/models/events"
	"github.com/sirupsen/logrus"
)

// NewPublisher builds the publisher selected by cfg.Driver. The "none" driver
// yields a nil publisher. The returned cleanup is never nil.
func NewPublisher(cfg config.EventsConfig, log *logrus.Logger) (interfaces.EventPublisher, func(), error) {
	noop := func() {}

	switch cfg.Driver {
	case "", "none":
		log.Info("event publishing disabled")
		return nil, noop, nil

	case "kafka":
		p := kafka.NewPublisher(cfg.KafkaBrokers)
		log.WithField("brokers", cfg.KafkaBrokers).Info("publishing point events to Kafka")
		return p, func() { closeLogged(log, "kafka writer", p.Close) }, nil

	case "nats":
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.WithField("url", cfg.NatsURL).Info("publishing point events to NATS")
		return nats.NewPublisher(nc, cfg.NatsPrefix), nc.Close, nil

	case "rabbitmq":
		client, err := rabbitmq.NewClient(cfg.RabbitMQ.URL())
		if err != nil {
			return nil, noop, err
		}
		if err := client.DeclareQueue(modelevents.PointChangedTopic); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("failed to declare queue: %w", err)
		}
		log.WithField("host", cfg.RabbitMQ.Host).Info("publishing point events to RabbitMQ")
		return rabbitmq.NewPublisher(client.Channel()), func() { closeLogged(log, "rabbitmq client", client.Close) }, nil

	default:
		return nil, noop, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

func closeLogged(log *logrus.Logger, what string, closeFn func() error) {
	if err := closeFn(); err != nil {
		log.WithError(err).Warnf("failed to close %s", what)
	}
}
