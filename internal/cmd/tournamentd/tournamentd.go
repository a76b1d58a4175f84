// Package tournamentd wires the tournament daemon: configuration, storage,
// tracing, the notice bus and the HTTP server.
package tournamentd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/courtsidehq/courtside/internal/platform/config"
	"github.com/courtsidehq/courtside/internal/platform/otel"
	"github.com/courtsidehq/courtside/internal/server"
	"github.com/courtsidehq/courtside/internal/storage/sqlite"
	"github.com/courtsidehq/courtside/internal/tournament/event"
)

const serviceName = "courtside-tournamentd"

// Config holds the daemon configuration.
type Config struct {
	HTTPAddr string `env:"COURTSIDE_ADDR" envDefault:":8080"`
	DBPath   string `env:"COURTSIDE_DB_PATH" envDefault:"courtside.db"`

	ShutdownTimeout time.Duration `env:"COURTSIDE_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseConfig loads the daemon configuration from the environment.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the daemon and blocks until the context is cancelled or the
// server fails.
func Run(ctx context.Context, cfg Config) error {
	shutdownTracing, err := otel.Setup(ctx, serviceName)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	bus := event.NewBus()
	notices, cancelNotices := bus.Subscribe(64)
	defer cancelNotices()
	go logNotices(notices)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: server.New(store, bus).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// logNotices drains the bus subscription so saves never block on a full
// buffer, surfacing each update in the daemon log.
func logNotices(notices <-chan event.Notice) {
	for notice := range notices {
		log.Printf("event %s id=%s version=%d tournament=%s",
			notice.Type, notice.ID, notice.Version, notice.TournamentID)
	}
}
