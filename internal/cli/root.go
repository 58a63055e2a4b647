package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orderdesk/orderdesk/internal/cli/commands"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the orderdesk command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orderdesk",
		Short: "orderdesk - local order entry dashboard",
		Long: `orderdesk serves an authenticated dashboard for entering orders
into a remote order backend.

Sign in from the terminal with 'orderdesk login' or through the dashboard,
then start it with 'orderdesk serve'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "orderdesk version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewServeCmd(version))
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewStatusCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
