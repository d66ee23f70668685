package main

import (
	"context"
	"fmt"

	"github.com/aretw0/keep"
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Move a note to the trash, or destroy it when already there",
	Long: `Delete a note. A note outside the trash is moved into it.
A note already in the trash is removed permanently, locally and on the remote.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to delete note", func(ctx context.Context, app *keep.App) error {
			n, err := findNote(app, args[0])
			if err != nil {
				return err
			}
			destroyed, err := app.Notes.HardDelete(ctx, n.ID)
			if err != nil {
				return err
			}
			if destroyed {
				fmt.Printf("Note '%s' deleted permanently.\n", n.ID)
			} else {
				fmt.Printf("Note '%s' moved to trash.\n", n.ID)
			}
			return nil
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a note from the trash",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to restore note", func(ctx context.Context, app *keep.App) error {
			n, err := findNote(app, args[0])
			if err != nil {
				return err
			}
			if _, err := app.Notes.Restore(ctx, n.ID); err != nil {
				return err
			}
			fmt.Printf("Note '%s' restored.\n", n.ID)
			return nil
		})
	},
}

var emptyTrashCmd = &cobra.Command{
	Use:   "empty-trash",
	Short: "Permanently delete every note in the trash",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to empty trash", func(ctx context.Context, app *keep.App) error {
			n, err := app.Notes.EmptyTrash(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%d notes deleted permanently.\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(emptyTrashCmd)
}
