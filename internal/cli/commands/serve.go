package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orderdesk/orderdesk/internal/config"
	"github.com/orderdesk/orderdesk/internal/credential"
	"github.com/orderdesk/orderdesk/internal/database"
	"github.com/orderdesk/orderdesk/internal/logger"
	"github.com/orderdesk/orderdesk/internal/models"
	"github.com/orderdesk/orderdesk/internal/orders"
	"github.com/orderdesk/orderdesk/internal/server"
)

// NewServeCmd creates the serve command
func NewServeCmd(version string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Initialize logger
			logger.Init(cfg.Logging.Level, cfg.Logging.Format)

			creds, err := credential.New(cfg.Credential)
			if err != nil {
				return err
			}
			env := newEnvironment(cfg, logger.GetLogger(), creds, cmd.OutOrStdout())

			if addr == "" {
				addr = cfg.Server.ListenAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, env, addr, version)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (or set ORDERDESK_LISTEN_ADDR)")

	return cmd
}

func runServe(ctx context.Context, env *environment, addr, version string) error {
	db, err := database.Open(env.cfg.Database.URL, env.logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close(db)

	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	srv, err := server.New(env.sessions, orders.NewService(env.api, db, env.logger), env.logger, server.Options{
		CORSOrigins: env.cfg.Server.CORSOrigins,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	env.logger.Info().
		Str("version", version).
		Str("api", env.cfg.API.BaseURL).
		Str("credential_backend", env.cfg.Credential.Backend).
		Msg("Starting orderdesk...")

	return srv.Start(ctx, addr)
}
