package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type uSession interface {
	Start(ctx context.Context) (entity.SessionSnapshot, error)
	SubmitHumanMove(ctx context.Context, row, col int) (entity.SessionSnapshot, error)
	Snapshot() entity.SessionSnapshot
}

// NewRouter - wires the HTTP routes.
func NewRouter(logger *slog.Logger, session uSession) http.Handler {
	ping := NewPingHandler()
	sessions := NewSessionHandler(logger, session)

	r := chi.NewRouter()
	r.Get("/ping", ping.PingHandler)
	r.Route("/session", func(r chi.Router) {
		r.Post("/", sessions.Start)
		r.Get("/", sessions.Snapshot)
		r.Post("/moves", sessions.SubmitMove)
	})

	return r
}

// Start - serves the handler until ctx is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
