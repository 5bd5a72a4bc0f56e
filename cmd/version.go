package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  string
	BuiltAt string
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of keepdisk",
		Long:  `All software has versions. This is keepdisk's`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "keepdisk, version %s (commit %s), built at %s\n", Version, Commit, BuiltAt)
		},
	}
}
