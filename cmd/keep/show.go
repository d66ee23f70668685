package main

import (
	"context"
	"os"

	"github.com/aretw0/keep"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to show note", func(ctx context.Context, app *keep.App) error {
			n, err := findNote(app, args[0])
			if err != nil {
				return err
			}
			printNote(os.Stdout, app, n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
