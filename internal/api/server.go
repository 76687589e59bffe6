package api

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/j-n-f/payment-engine/log"
)

const shutdownTimeout = 10 * time.Second

// NewApp builds the fiber application with all routes registered.
func NewApp(logger log.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		// Transaction logs can be large; the default 4MB body limit is
		// too small for realistic replays.
		BodyLimit: 64 * 1024 * 1024,
	})

	handler := NewHandler(logger)

	app.Get("/health", handler.Health)
	app.Post("/v1/replay", handler.Replay)

	return app
}

// Serve runs the HTTP server on address until SIGINT/SIGTERM, then shuts
// down gracefully.
func Serve(logger log.Logger, address string) error {
	if logger == nil {
		logger = log.NewNop()
	}

	app := NewApp(logger)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- app.Listen(address)
	}()

	logger.Log(context.Background(), log.LevelInfo, "http server started",
		log.String("address", address),
	)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}

		return nil
	case sig := <-shutdown:
		logger.Log(context.Background(), log.LevelInfo, "shutdown signal received",
			log.String("signal", sig.String()),
		)

		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		return nil
	}
}
