package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/internal/platform"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a data directory",
	Long: `Create the data directory with a default keep.yaml and an empty database.
Without an argument the current directory is used.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := dataDir
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				fatal("Failed to get CWD", err)
			}
			dir = cwd
		}

		cfgPath := filepath.Join(dir, platform.ConfigFile)
		if _, err := os.Stat(cfgPath); errors.Is(err, fs.ErrNotExist) {
			cfg := keep.DefaultConfig()
			if adapter != "" {
				cfg.Adapter = adapter
			}
			if err := cfg.Validate(); err != nil {
				fatal("Invalid configuration", err)
			}
			if err := platform.SaveConfig(dir, cfg); err != nil {
				fatal("Failed to write config", err)
			}
		}

		dataDir = dir
		withApp(cmd, "Failed to initialize", func(ctx context.Context, app *keep.App) error {
			fmt.Println("Initialized keep data directory in", app.Dir())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
