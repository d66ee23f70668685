package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/pager"
	"github.com/aretw0/keep/pkg/reposync"
	"github.com/aretw0/keep/pkg/transfer"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the optional configuration file inside the data directory.
const ConfigFile = "keep.yaml"

// TokenEnv overrides the stored remote credential when set.
const TokenEnv = "KEEP_GITHUB_TOKEN"

// Adapter names accepted by WithAdapter and the adapter key.
const (
	AdapterSQLite = "sqlite"
	AdapterMemory = "memory"
)

// Config is the file-level configuration of a data directory.
type Config struct {
	Adapter         string        `yaml:"adapter"`
	Debounce        time.Duration `yaml:"debounce"`
	PerNoteDebounce bool          `yaml:"per_note_debounce"`
	ImportChunk     int           `yaml:"import_chunk"`
	ImportYield     time.Duration `yaml:"import_yield"`
	PageInitial     int           `yaml:"page_initial"`
	PageStep        int           `yaml:"page_step"`
	Bundle          bool          `yaml:"bundle"`
	APIURL          string        `yaml:"api_url,omitempty"`
	LogLevel        string        `yaml:"log_level,omitempty"`

	// Token comes from the environment only and is never written back.
	Token string `yaml:"-"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Adapter:         AdapterSQLite,
		Debounce:        reposync.DefaultDebounce,
		PerNoteDebounce: true,
		ImportChunk:     transfer.DefaultChunkSize,
		ImportYield:     transfer.DefaultYield,
		PageInitial:     pager.DefaultInitial,
		PageStep:        pager.DefaultStep,
		Bundle:          true,
	}
}

// LoadConfig reads keep.yaml from dir on top of the defaults. A missing
// file is not an error.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %s: %v", core.ErrValidation, ConfigFile, err)
		}
	}

	if tok := strings.TrimSpace(os.Getenv(TokenEnv)); tok != "" {
		cfg.Token = tok
	}
	return cfg, cfg.Validate()
}

// SaveConfig writes cfg to dir/keep.yaml.
func SaveConfig(dir string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return os.WriteFile(filepath.Join(dir, ConfigFile), data, 0644)
}

// Validate rejects unknown adapters and negative sizes.
func (c Config) Validate() error {
	switch c.Adapter {
	case AdapterSQLite, AdapterMemory:
	default:
		return fmt.Errorf("%w: unknown adapter %q", core.ErrValidation, c.Adapter)
	}
	if c.Debounce < 0 || c.ImportYield < 0 {
		return fmt.Errorf("%w: durations must not be negative", core.ErrValidation)
	}
	if c.ImportChunk < 0 || c.PageInitial < 0 || c.PageStep < 0 {
		return fmt.Errorf("%w: sizes must not be negative", core.ErrValidation)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses log_level. Empty means Info.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log_level: %v", core.ErrValidation, err)
	}
	return lvl, nil
}
