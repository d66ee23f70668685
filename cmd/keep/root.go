package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/aretw0/keep"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dataDir string
	adapter string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "keep",
	Short: "Local-first notes mirrored to a GitHub repository",
	Long: `Keep stores notes and labels in a local database and mirrors every
change to a GitHub repository as one JSON file per note.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", "", "Data directory (default: $KEEP_DIR, nearest keep.yaml, or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter (sqlite, memory)")
}

func openApp(ctx context.Context) *keep.App {
	dir, err := keep.ResolveDir(dataDir)
	if err != nil {
		fatal("Failed to resolve data directory", err)
	}

	opts := []keep.Option{keep.WithLogger(slog.Default())}
	if adapter != "" {
		opts = append(opts, keep.WithAdapter(adapter))
	}
	app, err := keep.Open(ctx, dir, opts...)
	if err != nil {
		fatal("Failed to open notes", err)
	}
	return app
}

// withApp runs fn against an opened app and closes it afterwards, so
// pending pushes are fired before the process exits.
func withApp(cmd *cobra.Command, msg string, fn func(ctx context.Context, app *keep.App) error) {
	ctx := cmd.Context()
	app := openApp(ctx)
	err := fn(ctx, app)
	if cerr := app.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fatal(msg, err)
	}
}
