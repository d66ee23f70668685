package main

import (
	"context"
	"fmt"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/core"
	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage labels",
}

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List labels with their note counts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to list labels", func(ctx context.Context, app *keep.App) error {
			all := app.Notes.Notes()
			for _, l := range app.Notes.Labels() {
				count := 0
				for _, n := range all {
					if !n.InTrash && n.HasLabel(l.ID) {
						count++
					}
				}
				fmt.Printf("%s  %s (%d)\n", l.ID, l.Name, count)
			}
			return nil
		})
	},
}

var labelCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a label",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to create label", func(ctx context.Context, app *keep.App) error {
			l, err := app.Notes.CreateLabel(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(l.ID)
			return nil
		})
	},
}

var labelRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a label",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to rename label", func(ctx context.Context, app *keep.App) error {
			l, ok := app.Notes.LabelByName(args[0])
			if !ok {
				return fmt.Errorf("%w: label %q", core.ErrNotFound, args[0])
			}
			if _, err := app.Notes.RenameLabel(ctx, l.ID, args[1]); err != nil {
				return err
			}
			fmt.Printf("Label '%s' renamed to '%s'.\n", l.Name, args[1])
			return nil
		})
	},
}

var labelDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a label and remove it from every note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to delete label", func(ctx context.Context, app *keep.App) error {
			l, ok := app.Notes.LabelByName(args[0])
			if !ok {
				return fmt.Errorf("%w: label %q", core.ErrNotFound, args[0])
			}
			pruned, err := app.Notes.DeleteLabel(ctx, l.ID)
			if err != nil {
				return err
			}
			fmt.Printf("Label '%s' deleted (%d notes updated).\n", l.Name, pruned)
			return nil
		})
	},
}

var labelSetCmd = &cobra.Command{
	Use:   "set <id> [name...]",
	Short: "Replace the labels of a note",
	Long:  `Replace the labels of a note. Missing labels are created; no names clears the labels.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to set labels", func(ctx context.Context, app *keep.App) error {
			n, err := findNote(app, args[0])
			if err != nil {
				return err
			}
			ids, err := labelIDs(ctx, app, args[1:], true)
			if err != nil {
				return err
			}
			if _, err := app.Notes.SetLabels(ctx, n.ID, ids); err != nil {
				return err
			}
			fmt.Printf("Note '%s' has %d labels.\n", n.ID, len(ids))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(labelCmd)
	labelCmd.AddCommand(labelListCmd, labelCreateCmd, labelRenameCmd, labelDeleteCmd, labelSetCmd)
}
