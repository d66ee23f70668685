package main

import (
	"context"
	"fmt"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/core"
	"github.com/spf13/cobra"
)

var (
	addContent string
	addColor   string
	addLabels  []string
	addPin     bool
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a note",
	Long: `Create a note from a title and/or content. A note with neither is not created.
Labels given with --label are created when they do not exist yet.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var title string
		if len(args) == 1 {
			title = args[0]
		}
		content, err := readContent(addContent)
		if err != nil {
			fatal("Failed to read content", err)
		}
		color, err := core.ParseColor(addColor)
		if err != nil {
			fatal("Invalid color", err)
		}

		withApp(cmd, "Failed to add note", func(ctx context.Context, app *keep.App) error {
			n, err := app.Notes.Create(ctx, title, content, color)
			if err != nil {
				return err
			}
			if n == nil {
				fmt.Println("Nothing to save: title and content are empty.")
				return nil
			}
			if len(addLabels) > 0 {
				ids, err := labelIDs(ctx, app, addLabels, true)
				if err != nil {
					return err
				}
				if _, err := app.Notes.SetLabels(ctx, n.ID, ids); err != nil {
					return err
				}
			}
			if addPin {
				if _, err := app.Notes.TogglePin(ctx, n.ID); err != nil {
					return err
				}
			}
			fmt.Println(n.ID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "Note content (\"-\" reads stdin)")
	addCmd.Flags().StringVar(&addColor, "color", "", "Background color")
	addCmd.Flags().StringSliceVarP(&addLabels, "label", "l", nil, "Label names")
	addCmd.Flags().BoolVar(&addPin, "pin", false, "Pin the note")
}
