package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Server is a long-running component started and stopped by App.
type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type App struct {
	servers         []Server
	shutdownTimeout time.Duration
	log             *logrus.Logger
}

func New(servers []Server, shutdownTimeout time.Duration, log *logrus.Logger) *App {
	return &App{servers: servers, shutdownTimeout: shutdownTimeout, log: log}
}

// Run starts every server and blocks until ctx is cancelled or one of them
// fails, then stops them all.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range a.servers {
		g.Go(func() error {
			return srv.Start(gctx)
		})
	}

	<-gctx.Done()
	a.log.Info("shutting down servers")

	stopCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	for _, srv := range a.servers {
		if err := srv.Stop(stopCtx); err != nil {
			a.log.WithError(err).Warn("server did not stop cleanly")
		}
	}

	return g.Wait()
}
