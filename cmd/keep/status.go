package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aretw0/introspection"
	"github.com/aretw0/keep"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the internal state of the store and the sync engine",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withApp(cmd, "Failed to read status", func(ctx context.Context, app *keep.App) error {
			components := []introspection.Introspectable{app}
			if m, err := app.Mirror(ctx); err == nil && m != nil {
				components = append(components, m)
			}

			state := make(map[string]any, len(components))
			for _, c := range components {
				name := "component"
				if comp, ok := c.(introspection.Component); ok {
					name = comp.ComponentType()
				}
				state[name] = c.State()
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(state)
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
