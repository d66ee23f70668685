package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/keep"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of keep",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("keep version %s\n", strings.TrimSpace(keep.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
