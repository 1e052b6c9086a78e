package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gamerules/internal/api"
	"github.com/masmgr/gamerules/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd returns the serve command.
func ServeCmd() *cli.Command {
	flags := append(ruleSourceFlags(),
		&cli.StringFlag{
			Name:  "addr",
			Usage: "Listen address",
		},
		&cli.StringSliceFlag{
			Name:  "allow-origin",
			Usage: "CORS allowed origin (can be specified multiple times)",
		},
		&cli.IntFlag{
			Name:  "rate-limit",
			Usage: "Requests per window and client IP on rule endpoints (0 disables)",
		},
	)

	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the filter engine over an HTTP JSON API",
		Flags:  flags,
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	table, source, err := loadRuleTable(c.Context, c, cfg)
	if err != nil {
		return err
	}

	handler := api.NewHandler(table, source, Version)
	router := api.NewRouter(handler, api.MiddlewareConfig{
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		RateLimitRequests: cfg.Server.RateLimit,
		RateLimitWindow:   time.Duration(cfg.Server.RateLimitWindow),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", cfg.Server.Addr).
			Str("source", source).
			Int("rules", table.Len()).
			Msg("serving rules")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
