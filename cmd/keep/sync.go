package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/core"
	"github.com/spf13/cobra"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push every label and note to the remote",
	Long: `Push the label document and every note to the configured repository, then
the bundle document. Notes that fail are reported and skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Sync failed", func(ctx context.Context, app *keep.App) error {
			fmt.Println("Syncing...")
			res, err := app.SyncAll(ctx)
			if errors.Is(err, core.ErrNotConfigured) {
				fmt.Println("Tip: configure a remote first ('keep remote set --repo owner/name --token ...').")
				return err
			}
			if res != nil {
				fmt.Printf("Pushed %d notes, %d unchanged, %d failed.\n", res.Notes, res.Unchanged, len(res.Failed))
			}
			if errors.Is(err, core.ErrRemoteAuth) {
				fmt.Fprintln(os.Stderr, "Tip: check that the token is valid and can write to the repository.")
			}
			return err
		})
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Load every label and note from the remote",
	Long: `Load labels and notes from the configured repository into the local store.
Remote records overwrite local ones with the same id; local-only records stay.`,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Pull failed", func(ctx context.Context, app *keep.App) error {
			res, err := app.LoadAll(ctx)
			if err != nil {
				return err
			}
			source := "note files"
			if res.Bundle {
				source = "bundle"
			}
			fmt.Printf("Loaded %d labels and %d notes from %s.\n", res.Labels, res.Notes, source)
			for _, p := range res.Failed {
				fmt.Fprintf(os.Stderr, "skipped unreadable %s\n", p)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(pullCmd)
}
