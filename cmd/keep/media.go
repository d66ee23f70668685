package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/mirror"
	"github.com/spf13/cobra"
)

var watchSettle time.Duration

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage images attached to notes",
}

var mediaConnectCmd = &cobra.Command{
	Use:   "connect <folder>",
	Short: "Connect a local folder that keeps a copy of every image",
	Long: `Connect a local folder. Images are stored in its media/ subfolder, which is
created when missing. Pick the parent folder, not media/ itself.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to connect folder", func(ctx context.Context, app *keep.App) error {
			m, err := app.ConnectFolder(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Media folder connected: %s\n", filepath.Join(m.Root(), mirror.MediaDir))
			return nil
		})
	},
}

var mediaAddCmd = &cobra.Command{
	Use:   "add <id> <file>",
	Short: "Attach an image to a note",
	Long: `Store an image in the media folder and on the remote, then append a reference
to the note content.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[1])
		if err != nil {
			fatal("Failed to read image", err)
		}
		withApp(cmd, "Failed to attach image", func(ctx context.Context, app *keep.App) error {
			n, err := findNote(app, args[0])
			if err != nil {
				return err
			}
			at, err := app.AttachMedia(ctx, n.ID, filepath.Base(args[1]), data)
			if err != nil {
				return err
			}
			if !at.Stored() {
				fmt.Fprintln(os.Stderr, "Warning: the image was not stored. Connect a folder ('keep media connect') or configure a remote.")
			}
			fmt.Printf("Attached %s to '%s' (local: %t, synced: %t).\n", at.Name, n.ID, at.Local != "", at.Synced)
			return nil
		})
	},
}

var mediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List images in the connected folder",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to list media", func(ctx context.Context, app *keep.App) error {
			m, err := app.Mirror(ctx)
			if err != nil {
				return err
			}
			if m == nil {
				fmt.Println("No media folder connected.")
				return nil
			}
			names, err := m.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		})
	},
}

var mediaWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Push images dropped into the connected folder until interrupted",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Watch failed", func(ctx context.Context, app *keep.App) error {
			sup, err := app.SuperviseMedia(ctx, watchSettle)
			if err != nil {
				return err
			}
			if err := sup.Start(ctx); err != nil {
				return err
			}
			fmt.Println("Watching for new media. Press Ctrl+C to stop.")
			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return sup.Stop(stopCtx)
		})
	},
}

func init() {
	rootCmd.AddCommand(mediaCmd)
	mediaCmd.AddCommand(mediaConnectCmd, mediaAddCmd, mediaListCmd, mediaWatchCmd)
	mediaWatchCmd.Flags().DurationVar(&watchSettle, "settle", mirror.DefaultSettle, "Quiet time before a file is pushed")
}
