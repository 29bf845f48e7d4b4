package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enginehub/squirrelid/internal/build"
)

// NewVersionCommand returns the command to get the squirrelid version
func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Return the squirrelid version",
		Long:  "Return the squirrelid version.",
		RunE:  version,
		Args:  cobra.NoArgs,
	}

	return cmd
}

// print out the built version
func version(cmd *cobra.Command, _ []string) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "squirrelid version %s date %s commit %s\n", build.Version, build.Date, build.Commit)
	return err
}
