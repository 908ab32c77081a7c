package main

import (
	"fmt"

	"github.com/goldi-lab/gift"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gift",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gift version %s\n", gift.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
