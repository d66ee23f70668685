package keep

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/keep/internal/platform"
	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/remote"
)

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/aretw0/keep.Version=...".
var Version = "dev"

// --- Types ---

// App is an opened data directory.
type App = platform.App

// Config is the keep.yaml configuration.
type Config = platform.Config

// Option configures Open.
type Option = platform.Option

// --- Options ---

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore injects a custom Local Store.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithRemote injects a custom remote repository.
func WithRemote(repo remote.Repository) Option {
	return platform.WithRemote(repo)
}

// WithConfig skips keep.yaml and uses cfg.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// WithAdapter selects the storage adapter by name ("sqlite" or "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithDebounce sets the incremental push window.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithGlobalDebounce shares one debounce window across all entities.
func WithGlobalDebounce(global bool) Option {
	return platform.WithGlobalDebounce(global)
}

// WithBundle enables or disables the bundle document on bulk push.
func WithBundle(enabled bool) Option {
	return platform.WithBundle(enabled)
}

// WithAPIURL points the GitHub client at another API endpoint.
func WithAPIURL(u string) Option {
	return platform.WithAPIURL(u)
}

// WithHTTPClient sets the base HTTP client of the GitHub remote.
func WithHTTPClient(hc *http.Client) Option {
	return platform.WithHTTPClient(hc)
}

// WithForceTemp forces the data directory into the temporary sandbox.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the dev sandbox for `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithMustExist refuses to create a missing data directory.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// --- Factory ---

// Open builds an app over the data directory dir.
func Open(ctx context.Context, dir string, opts ...Option) (*App, error) {
	return platform.Open(ctx, dir, opts...)
}

// --- Safety & Utils ---

// DefaultConfig returns the configuration used when no keep.yaml exists.
func DefaultConfig() Config {
	return platform.DefaultConfig()
}

// ResolveDir picks the data directory from an explicit path, $KEEP_DIR,
// the nearest root above the working directory, or the per-user default.
func ResolveDir(explicit string) (string, error) {
	return platform.ResolveDir(explicit)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot recursively looks upwards for a data directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
