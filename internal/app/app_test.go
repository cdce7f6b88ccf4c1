package app

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer runs until Stop is called, or fails at once when startErr is set.
type fakeServer struct {
	startErr error
	stopped  chan struct{}
	stops    atomic.Int32
}

func newFakeServer(startErr error) *fakeServer {
	return &fakeServer{startErr: startErr, stopped: make(chan struct{})}
}

func (f *fakeServer) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stopped
	return nil
}

func (f *fakeServer) Stop(ctx context.Context) error {
	if f.stops.Add(1) == 1 {
		close(f.stopped)
	}
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRun_StopsServersOnCancel(t *testing.T) {
	a, b := newFakeServer(nil), newFakeServer(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- New([]Server{a, b}, time.Second, quietLogger()).Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, int32(1), a.stops.Load())
	assert.Equal(t, int32(1), b.stops.Load())
}

func TestRun_ServerFailureStopsOthers(t *testing.T) {
	boom := errors.New("listen failed")
	healthy := newFakeServer(nil)

	err := New([]Server{healthy, newFakeServer(boom)}, time.Second, quietLogger()).Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), healthy.stops.Load())
}
