package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/internal/platform"
	"github.com/spf13/cobra"
)

var (
	remoteToken string
	remoteRepo  string
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Configure the GitHub repository notes are mirrored to",
}

var remoteSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the GitHub token and repository",
	Long: `Store the credential and the repository ("owner/name" or a github.com URL).
The token may also be given with $` + platform.TokenEnv + `, which always takes precedence.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		token := remoteToken
		if token == "" {
			token = os.Getenv(platform.TokenEnv)
		}
		withApp(cmd, "Failed to configure remote", func(ctx context.Context, app *keep.App) error {
			repo, err := app.ConfigureRemote(ctx, token, remoteRepo)
			if err != nil {
				return err
			}
			fmt.Printf("Remote set to %s.\n", repo)
			return nil
		})
	},
}

var remoteShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured repository",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to read remote", func(ctx context.Context, app *keep.App) error {
			repo, configured, err := app.RemoteRepo(ctx)
			if err != nil {
				return err
			}
			switch {
			case repo == "":
				fmt.Println("No remote configured.")
			case !configured:
				fmt.Printf("%s (no token)\n", repo)
			default:
				fmt.Println(repo)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(remoteCmd)
	remoteCmd.AddCommand(remoteSetCmd, remoteShowCmd)
	remoteSetCmd.Flags().StringVar(&remoteToken, "token", "", "GitHub token with contents write access")
	remoteSetCmd.Flags().StringVar(&remoteRepo, "repo", "", "Repository (owner/name)")
	remoteSetCmd.MarkFlagRequired("repo")
}
