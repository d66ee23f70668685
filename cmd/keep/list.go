package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/pager"
	"github.com/spf13/cobra"
)

var (
	listJSON  bool
	listView  string
	listLabel string
	listMore  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes of a view",
	Long: `List the notes of a view (notes, archive, reminders, trash), pinned first.
Large collections are shown a page at a time; --more loads further pages.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		view, err := core.ParseView(listView)
		if err != nil {
			fatal("Invalid view", err)
		}

		withApp(cmd, "Failed to list notes", func(ctx context.Context, app *keep.App) error {
			f := core.Filter{View: view}
			if listLabel != "" {
				ids, err := labelIDs(ctx, app, []string{listLabel}, false)
				if err != nil {
					return err
				}
				if len(ids) > 0 {
					f.Label = ids[0]
				}
			}
			pinned, others := core.Select(app.Notes.Notes(), f)

			if listJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(append(pinned, others...))
			}

			v := &pager.View{}
			r := pager.New(v,
				pager.WithInitial(app.Config.PageInitial),
				pager.WithStep(app.Config.PageStep),
			)
			r.Render(pinned, others)
			for range listMore {
				if !r.LoadMore() {
					break
				}
			}
			return v.Fprint(os.Stdout, summary(app))
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search titles and content",
	Long:  `Case-insensitive search over note titles and content. Trashed notes are excluded.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to search", func(ctx context.Context, app *keep.App) error {
			line := summary(app)
			found := core.Search(app.Notes.Notes(), args[0])
			for _, n := range found {
				fmt.Println(line(n))
			}
			if len(found) == 0 {
				fmt.Println("No notes found.")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listView, "view", "notes", "View: notes, archive, reminders, trash")
	listCmd.Flags().StringVarP(&listLabel, "label", "l", "", "Filter by label name")
	listCmd.Flags().IntVar(&listMore, "more", 0, "Number of extra pages to load")
}
