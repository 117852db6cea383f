// @title			Caption The Moment API
// @version		1.0
// @description	Caption game: hosts create rooms and upload images, players submit captions.
// @BasePath		/api/v1

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/capmoment/captionroom/internal/config"
	"github.com/capmoment/captionroom/internal/database"
	"github.com/capmoment/captionroom/internal/handler"
	"github.com/capmoment/captionroom/internal/logger"
	"github.com/capmoment/captionroom/internal/middleware"
	"github.com/capmoment/captionroom/internal/repository"
	"github.com/capmoment/captionroom/internal/service"
	"github.com/capmoment/captionroom/internal/storage"
)

func main() {
	app := &cli.App{
		Name:  "captionroom",
		Usage: "Caption game server: rooms, images, captions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Value:   config.DefaultDataDir,
				Usage:   "Root directory for image storage",
				EnvVars: []string{"DATA_DIR"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.BoolFlag{
						Name:    "cors-enabled",
						Usage:   "Answer cross-origin requests",
						EnvVars: []string{"CORS_ENABLED"},
					},
				},
				Action: runServe,
			},
			{
				Name:  "purge-trash",
				Usage: "Permanently delete trashed images past the retention window",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Value: 7 * 24 * time.Hour,
						Usage: "Retention window for trashed images",
					},
				},
				Action: runPurgeTrash,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	// Resolve the full runtime configuration up front; a bad port is a
	// startup error, not a bind surprise.
	cfg, err := config.Resolve(
		c.String("port"),
		c.Bool("cors-enabled"),
		c.String("data-dir"),
		c.String("database-url"),
	)
	if err != nil {
		return fmt.Errorf("resolve configuration: %w", err)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open image store: %w", err)
	}

	h := handler.New(db.Pool(), store)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           middleware.CORS(cfg.CORSEnabled)(mux),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server",
			"port", cfg.Port,
			"headless", cfg.Headless,
			"cors_enabled", cfg.CORSEnabled,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runPurgeTrash(c *cli.Context) error {
	ctx := c.Context

	db, err := database.New(ctx, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := storage.New(c.String("data-dir"))
	if err != nil {
		return fmt.Errorf("failed to open image store: %w", err)
	}

	imageRepo := repository.NewImageRepository(db.Pool())
	captionRepo := repository.NewCaptionRepository(db.Pool())
	images := service.NewImageService(db.Pool(), imageRepo, captionRepo, store)

	purged, err := images.PurgeTrash(ctx, c.Duration("older-than"))
	if err != nil {
		return fmt.Errorf("failed to purge trash: %w", err)
	}

	slog.Info("purge complete", "purged", purged)
	return nil
}
