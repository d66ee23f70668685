package main

import (
	"context"
	"fmt"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/core"
	"github.com/spf13/cobra"
)

var pinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Pin or unpin a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to pin note", func(ctx context.Context, app *keep.App) error {
			n, err := findNote(app, args[0])
			if err != nil {
				return err
			}
			updated, err := app.Notes.TogglePin(ctx, n.ID)
			if err != nil || updated == nil {
				return err
			}
			fmt.Printf("Note '%s' pinned: %t\n", n.ID, updated.Pinned)
			return nil
		})
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive or unarchive a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to archive note", func(ctx context.Context, app *keep.App) error {
			n, err := findNote(app, args[0])
			if err != nil {
				return err
			}
			updated, err := app.Notes.ToggleArchive(ctx, n.ID)
			if err != nil || updated == nil {
				return err
			}
			fmt.Printf("Note '%s' archived: %t\n", n.ID, updated.Archived)
			return nil
		})
	},
}

var colorCmd = &cobra.Command{
	Use:   "color <id> <color>",
	Short: "Set the background color of a note",
	Long:  fmt.Sprintf("Set the background color of a note. Colors: %v", core.Palette),
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		color, err := core.ParseColor(args[1])
		if err != nil {
			fatal("Invalid color", err)
		}
		withApp(cmd, "Failed to set color", func(ctx context.Context, app *keep.App) error {
			n, err := findNote(app, args[0])
			if err != nil {
				return err
			}
			if _, err := app.Notes.SetColor(ctx, n.ID, color); err != nil {
				return err
			}
			fmt.Printf("Note '%s' is now %s.\n", n.ID, color)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(colorCmd)
}
