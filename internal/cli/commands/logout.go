package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			runLogout(env)
			return nil
		},
	}
}

func runLogout(env *environment) {
	env.sessions.Logout()
	fmt.Fprintln(env.out, "✓ Logged out")
}
