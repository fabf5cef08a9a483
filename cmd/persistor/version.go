package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/persistor"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of persistor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "persistor version %s\n", strings.TrimSpace(persistor.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
