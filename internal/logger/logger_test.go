package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("chatty").GetLevel())
}

func TestNew_WritesJSON(t *testing.T) {
	log := New("info")
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.WithField("account_id", 7).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, float64(7), entry["account_id"])
	assert.Contains(t, entry, "time")
}
