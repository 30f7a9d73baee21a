package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/nova"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nova",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nova version %s\n", strings.TrimSpace(nova.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
