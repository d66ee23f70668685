package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/remote"
)

// options holds the internal configuration for a keep app.
type options struct {
	store      core.Store
	remote     remote.Repository
	logger     *slog.Logger
	config     *Config
	overrides  []func(*Config)
	httpClient *http.Client
	clock      func() time.Time
	forceTemp  bool
	devSafety  bool
	mustExist  bool
}

// Option defines a functional option for configuring keep.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger:    nil,
		devSafety: true,
	}
}

func (o *options) override(fn func(*Config)) {
	o.overrides = append(o.overrides, fn)
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore injects a Local Store. The adapter setting is ignored.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithRemote injects the remote repository used by the sync engine instead
// of building a GitHub client from the stored credentials.
func WithRemote(repo remote.Repository) Option {
	return func(o *options) {
		o.remote = repo
	}
}

// WithConfig uses cfg as is and skips reading keep.yaml.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = &cfg
	}
}

// WithAdapter selects the storage adapter by name ("sqlite" or "memory").
func WithAdapter(name string) Option {
	return func(o *options) {
		o.override(func(c *Config) { c.Adapter = name })
	}
}

// WithDebounce sets the incremental push window.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.override(func(c *Config) { c.Debounce = d })
	}
}

// WithGlobalDebounce shares one debounce window across all entities.
func WithGlobalDebounce(global bool) Option {
	return func(o *options) {
		o.override(func(c *Config) { c.PerNoteDebounce = !global })
	}
}

// WithBundle enables or disables the bundle document on bulk push.
func WithBundle(enabled bool) Option {
	return func(o *options) {
		o.override(func(c *Config) { c.Bundle = enabled })
	}
}

// WithAPIURL points the GitHub client at another API endpoint.
func WithAPIURL(u string) Option {
	return func(o *options) {
		o.override(func(c *Config) { c.APIURL = u })
	}
}

// WithImportChunk sets the number of notes written per import chunk.
func WithImportChunk(n int) Option {
	return func(o *options) {
		o.override(func(c *Config) { c.ImportChunk = n })
	}
}

// WithImportYield sets the pause between import chunks.
func WithImportYield(d time.Duration) Option {
	return func(o *options) {
		o.override(func(c *Config) { c.ImportYield = d })
	}
}

// WithHTTPClient sets the base HTTP client of the GitHub remote.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithClock replaces the time source used for timestamps and media names.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithForceTemp forces the data directory into the temporary sandbox.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the dev sandbox. When enabled (default), runs via
// `go run` or `go test` are re-rooted into a temporary directory.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithMustExist refuses to create a missing data directory.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}
