package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orderdesk/orderdesk/internal/client"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the order backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return runLogin(cmd.Context(), env, terminalPrompter{}, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set ORDERDESK_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set ORDERDESK_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, env *environment, prompt prompter, email, password string) error {
	// Check for environment variables (useful for scripts)
	email = envOrFlag(email, "ORDERDESK_EMAIL")
	password = envOrFlag(password, "ORDERDESK_PASSWORD")

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or ORDERDESK_EMAIL env var)")
	}

	if password == "" {
		var err error
		password, err = prompt.Password("Password")
		if errors.Is(err, ErrNonInteractive) {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or ORDERDESK_PASSWORD env var)")
		}
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(env.out, "Logging in to %s...\n", env.cfg.API.BaseURL)

	if err := env.sessions.Login(ctx, email, password); err != nil {
		return fmt.Errorf("login failed: %s", client.Message(err, err.Error()))
	}

	fmt.Fprintln(env.out, "✓ Login successful!")
	printIdentity(env.out, env.sessions.Snapshot())
	return nil
}
