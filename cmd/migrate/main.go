package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sheikh-saqib/point-ledger/internal/config"
	"github.com/sheikh-saqib/point-ledger/internal/logger"
	"github.com/sheikh-saqib/point-ledger/internal/storage/postgres"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		fmt.Println("Error: migration command is required")
		fmt.Println("Usage: migrate [command] [args]")
		fmt.Println("Commands: up, down, status, redo")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	command := args[0]
	log.WithField("command", command).Info("starting migration")

	if err := postgres.RunMigrations(ctx, cfg.Database.DSN(), command, args[1:]...); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	log.Info("migration finished successfully")
}
