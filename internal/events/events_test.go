package events

import (
	"io"
	"testing"

	"github.com/sheikh-saqib/point-ledger/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNewPublisher_None(t *testing.T) {
	for _, driver := range []string{"", "none"} {
		pub, cleanup, err := NewPublisher(config.EventsConfig{Driver: driver}, quietLogger())
		require.NoError(t, err)
		assert.Nil(t, pub)
		require.NotNil(t, cleanup)
		cleanup()
	}
}

func TestNewPublisher_Kafka(t *testing.T) {
	pub, cleanup, err := NewPublisher(config.EventsConfig{Driver: "kafka", KafkaBrokers: []string{"localhost:9092"}}, quietLogger())
	require.NoError(t, err)
	assert.NotNil(t, pub)
	cleanup()
}

func TestNewPublisher_UnknownDriver(t *testing.T) {
	_, cleanup, err := NewPublisher(config.EventsConfig{Driver: "carrier-pigeon"}, quietLogger())
	assert.Error(t, err)
	assert.NotNil(t, cleanup)
}
