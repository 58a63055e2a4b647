package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/orderdesk/orderdesk/internal/client"
	"github.com/orderdesk/orderdesk/internal/session"
)

var roles = []string{string(session.RoleUser), string(session.RoleAdmin)}

type registerOptions struct {
	name     string
	lastname string
	email    string
	password string
	role     string
}

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var opts registerOptions

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the order backend and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return runRegister(cmd.Context(), env, terminalPrompter{}, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "First name")
	cmd.Flags().StringVar(&opts.lastname, "lastname", "", "Last name")
	cmd.Flags().StringVar(&opts.email, "email", "", "Email address (or set ORDERDESK_EMAIL)")
	cmd.Flags().StringVar(&opts.password, "password", "", "Password (or set ORDERDESK_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&opts.role, "role", "", "Account role: user or admin (will prompt if not provided)")

	return cmd
}

func runRegister(ctx context.Context, env *environment, prompt prompter, opts registerOptions) error {
	opts.email = envOrFlag(opts.email, "ORDERDESK_EMAIL")
	opts.password = envOrFlag(opts.password, "ORDERDESK_PASSWORD")

	if opts.name == "" || opts.lastname == "" || opts.email == "" {
		return fmt.Errorf("--name, --lastname and --email are required")
	}

	var err error
	if opts.role == "" {
		opts.role, err = prompt.Select("Account role", roles)
		if errors.Is(err, ErrNonInteractive) {
			return fmt.Errorf("role is required in non-interactive mode (use --role user|admin)")
		}
		if err != nil {
			return err
		}
	}
	if !slices.Contains(roles, opts.role) {
		return fmt.Errorf("invalid role %q, must be one of: user, admin", opts.role)
	}

	if opts.password == "" {
		opts.password, err = prompt.Password("Password")
		if errors.Is(err, ErrNonInteractive) {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or ORDERDESK_PASSWORD env var)")
		}
		if err != nil {
			return err
		}
	}

	err = env.sessions.Register(ctx, client.RegisterRequest{
		Name:     opts.name,
		Lastname: opts.lastname,
		Email:    opts.email,
		Password: opts.password,
		Role:     opts.role,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %s", client.Message(err, err.Error()))
	}

	fmt.Fprintln(env.out, "✓ Registration successful!")
	printIdentity(env.out, env.sessions.Snapshot())
	return nil
}
