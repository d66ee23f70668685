package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/transfer"
	"github.com/spf13/cobra"
)

var (
	exportCompact bool
	convertDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write every note and label as one JSON document",
	Long:  `Write the snapshot document {"notes": [...], "labels": [...]} to file, or stdout.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Export failed", func(ctx context.Context, app *keep.App) error {
			var w io.Writer = os.Stdout
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return app.Export(w, !exportCompact)
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a snapshot document",
	Long: `Import a snapshot document written by export ("-" reads stdin). Records
overwrite local ones with the same id. The whole document is validated first.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Import failed", func(ctx context.Context, app *keep.App) error {
			var r io.Reader = os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			res, err := app.Import(ctx, r)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d labels and %d notes in %d chunks.\n", res.Labels, res.Notes, res.Chunks)
			return nil
		})
	},
}

var takeoutCmd = &cobra.Command{
	Use:   "takeout <dir>",
	Short: "Import a Google Keep Takeout folder",
	Long: `Convert the *.json notes of an extracted Google Keep Takeout folder and import them.
Attached images are copied into the media folder and pushed when a remote is configured.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fsys := os.DirFS(args[0])
		conv, err := transfer.ConvertTakeout(fsys, time.Now())
		if err != nil {
			fatal("Conversion failed", err)
		}
		importConversion(cmd, fsys, conv)
	},
}

var markdownCmd = &cobra.Command{
	Use:   "markdown <dir>",
	Short: "Import a folder of <label>/<title>.md notes",
	Long: `Convert a tree of markdown files, one label per top level folder, and import it.
Files under <label>/media are copied into the media folder and pushed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fsys := os.DirFS(args[0])
		conv, err := transfer.ConvertMarkdownDir(fsys, time.Now(), time.Local)
		if err != nil {
			fatal("Conversion failed", err)
		}
		importConversion(cmd, fsys, conv)
	},
}

func importConversion(cmd *cobra.Command, fsys fs.FS, conv *transfer.Conversion) {
	for _, name := range conv.Skipped {
		fmt.Fprintf(os.Stderr, "skipped unreadable %s\n", name)
	}
	if convertDryRun {
		fmt.Printf("Would import %d labels, %d notes and %d media files.\n", len(conv.Labels), len(conv.Notes), len(conv.Media))
		return
	}

	withApp(cmd, "Import failed", func(ctx context.Context, app *keep.App) error {
		res, err := app.ImportSnapshot(ctx, conv.Snapshot)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d labels and %d notes.\n", res.Labels, res.Notes)
		if len(conv.Media) == 0 {
			return nil
		}
		stored, err := app.ImportMedia(ctx, fsys, conv.Media)
		fmt.Printf("Stored %d of %d media files.\n", stored, len(conv.Media))
		return err
	})
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd, takeoutCmd, markdownCmd)
	exportCmd.Flags().BoolVar(&exportCompact, "compact", false, "Write without indentation")
	takeoutCmd.Flags().BoolVar(&convertDryRun, "dry-run", false, "Only report what would be imported")
	markdownCmd.Flags().BoolVar(&convertDryRun, "dry-run", false, "Only report what would be imported")
}
