package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/notes"
	"github.com/spf13/cobra"
)

var (
	editTitle         string
	editContent       string
	editReminder      string
	editClearReminder bool
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit the title, content or reminder of a note",
	Long: `Edit a note. Only the flags given are applied; an unchanged value is not a change
and does not move the note to the top.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		content, err := readContent(editContent)
		if err != nil {
			fatal("Failed to read content", err)
		}
		var reminder *core.Timestamp
		if editReminder != "" {
			ts, err := parseReminder(editReminder)
			if err != nil {
				fatal("Invalid reminder", err)
			}
			reminder = &ts
		}

		withApp(cmd, "Failed to edit note", func(ctx context.Context, app *keep.App) error {
			n, err := findNote(app, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				if _, err := app.Notes.SetField(ctx, n.ID, notes.FieldTitle, editTitle); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("content") {
				if _, err := app.Notes.SetField(ctx, n.ID, notes.FieldContent, content); err != nil {
					return err
				}
			}
			if reminder != nil || editClearReminder {
				if _, err := app.Notes.SetReminder(ctx, n.ID, reminder); err != nil {
					return err
				}
			}
			fmt.Printf("Note '%s' saved.\n", n.ID)
			return nil
		})
	},
}

// parseReminder accepts the snapshot layouts plus local "2006-01-02 15:04".
func parseReminder(s string) (core.Timestamp, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return core.NewTimestamp(t), nil
	}
	return core.ParseTimestamp(s)
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editContent, "content", "c", "", "New content (\"-\" reads stdin)")
	editCmd.Flags().StringVar(&editReminder, "reminder", "", "Reminder time (\"2006-01-02 15:04\" local, or RFC 3339)")
	editCmd.Flags().BoolVar(&editClearReminder, "clear-reminder", false, "Remove the reminder")
}
