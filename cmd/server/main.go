package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sheikh-saqib/point-ledger/internal/app"
	"github.com/sheikh-saqib/point-ledger/internal/config"
	"github.com/sheikh-saqib/point-ledger/internal/events"
	"github.com/sheikh-saqib/point-ledger/internal/ledger"
	"github.com/sheikh-saqib/point-ledger/internal/logger"
	"github.com/sheikh-saqib/point-ledger/internal/storage"
	transportHTTP "github.com/sheikh-saqib/point-ledger/internal/transport/http"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	log := logger.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open point stores")
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.WithError(err).Warn("failed to close point stores")
		}
	}()

	publisher, closePublisher, err := events.NewPublisher(cfg.Events, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize event publisher")
	}
	defer closePublisher()

	pointLedger := ledger.NewLedger(stores.Balances, stores.Histories, ledger.NewAccountLocks(), ledger.Options{
		Publisher:   publisher,
		Logger:      log,
		LockTimeout: cfg.Ledger.LockTimeout,
	})

	servers := []app.Server{
		transportHTTP.NewServer(cfg.HTTPAddr(), pointLedger, log),
	}

	if err := app.New(servers, cfg.Server.ShutdownTimeout, log).Run(ctx); err != nil {
		log.WithError(err).Error("server stopped unexpectedly")
		return
	}
	log.Info("graceful shutdown complete")
}
