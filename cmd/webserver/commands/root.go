// Package commands defines the webserver CLI.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the webserver CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "webserver",
		Short:         "Provision a public web server into an existing network",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Deploy())
	cmd.AddCommand(Outputs())
	cmd.AddCommand(Version())

	return cmd
}
