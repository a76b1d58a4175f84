// Package main starts the tournament editor daemon.
//
// This process owns the HTTP API, the SQLite store and the update notice
// bus so edits from any client are persisted and broadcast consistently.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/courtsidehq/courtside/internal/cmd/tournamentd"
)

func main() {
	cfg, err := tournamentd.ParseConfig()
	if err != nil {
		log.Fatalf("parse config: %v", err)
	}
	log.SetPrefix("[TOURNAMENTD] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tournamentd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
