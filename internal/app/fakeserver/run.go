package fakeserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Apurer/petstore-contract-tests/internal/clients/http/petstore"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/fixtures"
	platformobservability "github.com/Apurer/petstore-contract-tests/internal/platform/observability"
	"github.com/Apurer/petstore-contract-tests/internal/platform/petstorefake"
)

const serviceName = "petstore-fake"

// Run boots the fake petstore with observability wired and blocks until ctx
// is cancelled.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	server, err := NewServer(cfg, logger)
	if err != nil {
		return err
	}
	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("fake petstore listening",
			slog.String("addr", addr),
			slog.String("base_path", server.BasePath()),
			slog.Duration("delete_lag", cfg.DeleteLag),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("fake petstore exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("fake petstore shutting down")
		return httpServer.Shutdown(shutdownCtx)
	}
}

// NewServer builds the fake and seeds it with the existing-pet fixture so a
// suite run against it starts from the same state as the public deployment.
func NewServer(cfg Config, logger *slog.Logger) (*petstorefake.Server, error) {
	server := petstorefake.New(
		petstorefake.WithBasePath(cfg.BasePath),
		petstorefake.WithDeleteLag(cfg.DeleteLag),
		petstorefake.WithLogger(logger),
		petstorefake.WithServiceName(serviceName),
	)
	if cfg.SeedDisabled {
		return server, nil
	}
	set, err := fixtures.LoadDir(cfg.FixturesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}
	server.Seed(petstore.Pet{
		ID:        set.ExistingPet.ID,
		Name:      set.ExistingPet.Name,
		PhotoURLs: []string{},
		Tags:      []petstore.Tag{},
		Status:    "available",
	})
	return server, nil
}
