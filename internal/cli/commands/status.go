package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orderdesk/orderdesk/internal/credential"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a credential is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			runStatus(env)
			return nil
		},
	}
}

// runStatus reports what a fresh process sees at startup. Only the bearer
// credential is stored, so the identity behind it is unknown until the next
// sign-in.
func runStatus(env *environment) {
	env.sessions.Initialize()

	fmt.Fprintf(env.out, "API:        %s\n", env.cfg.API.BaseURL)
	if file, ok := env.creds.(*credential.FileStore); ok {
		fmt.Fprintf(env.out, "Credential: file backend (%s)\n", file.Path())
	} else {
		fmt.Fprintf(env.out, "Credential: %s backend\n", env.cfg.Credential.Backend)
	}

	if !env.sessions.CredentialPresent() {
		fmt.Fprintln(env.out, "Status:     not signed in (run 'orderdesk login')")
		return
	}
	fmt.Fprintln(env.out, "Status:     credential present, identity unknown until next sign-in")
}
