package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/orderdesk/orderdesk/internal/client"
	"github.com/orderdesk/orderdesk/internal/config"
	"github.com/orderdesk/orderdesk/internal/credential"
	"github.com/orderdesk/orderdesk/internal/logger"
	"github.com/orderdesk/orderdesk/internal/session"
)

// environment bundles what a command talks to.
// Tests build one directly with an in-memory credential store.
type environment struct {
	cfg      *config.Config
	logger   zerolog.Logger
	creds    credential.Store
	api      *client.Client
	sessions *session.Store
	out      io.Writer
}

func newEnvironment(cfg *config.Config, log zerolog.Logger, creds credential.Store, out io.Writer) *environment {
	api := client.New(cfg.API.BaseURL)
	return &environment{
		cfg:      cfg,
		logger:   log,
		creds:    creds,
		api:      api,
		sessions: session.NewStore(api, creds, log),
		out:      out,
	}
}

// loadEnvironment reads the configuration and opens the credential backend.
// Log lines go to stderr so they don't mix with command output.
func loadEnvironment(out io.Writer) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	creds, err := credential.New(cfg.Credential)
	if err != nil {
		return nil, err
	}

	return newEnvironment(cfg, log, creds, out), nil
}

// envOrFlag returns the flag value, falling back to the environment variable
func envOrFlag(flag, key string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(key)
}

// printIdentity reports who the store is signed in as
func printIdentity(out io.Writer, snapshot session.Session) {
	if snapshot.Identity == nil {
		return
	}
	fmt.Fprintf(out, "  User: %s\n", snapshot.Identity.Email)
	if snapshot.IsAdmin() {
		fmt.Fprintln(out, "  Role: Admin")
	}
}
