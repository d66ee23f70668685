// Package mirror keeps a copy of note media in a local folder.
//
// The connected folder is a project root; files go to its media
// subdirectory so the layout matches the remote repository. Every use is
// preceded by an access check, because the folder can disappear or lose
// write permission between uses.
package mirror

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/keep/pkg/core"
)

// MediaDir is the subdirectory media files are written to.
const MediaDir = "media"

// DefaultPattern selects the files treated as media.
const DefaultPattern = "*.{png,jpg,jpeg,gif,webp,svg,bmp,heic}"

// ErrAccess is returned when the folder cannot be used.
var ErrAccess = errors.New("media folder not accessible")

// Option configures a Mirror.
type Option func(*Mirror)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mirror) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithPattern sets the doublestar pattern deciding which file names are media.
func WithPattern(p string) Option {
	return func(m *Mirror) {
		if doublestar.ValidatePattern(p) {
			m.pattern = p
		}
	}
}

// Mirror is a connected media folder.
type Mirror struct {
	root    string
	media   string
	pattern string
	logger  *slog.Logger
}

// Open connects root. Picking the media folder itself is refused: the
// parent must be chosen so media/ can be created inside it.
func Open(root string, opts ...Option) (*Mirror, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty media folder path", core.ErrValidation)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrValidation, err)
	}
	if filepath.Base(abs) == MediaDir {
		return nil, fmt.Errorf("%w: choose the folder that contains %q, not %q itself", core.ErrValidation, MediaDir, MediaDir)
	}

	m := &Mirror{
		root:    abs,
		media:   filepath.Join(abs, MediaDir),
		pattern: DefaultPattern,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := os.MkdirAll(m.media, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccess, err)
	}
	return m, m.Check()
}

// Root is the connected folder.
func (m *Mirror) Root() string { return m.root }

// MediaPath is the absolute path of a media file.
func (m *Mirror) MediaPath(name string) string {
	return filepath.Join(m.media, filepath.Base(name))
}

// Check verifies the media folder exists and is writable.
func (m *Mirror) Check() error {
	info, err := os.Stat(m.media)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAccess, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrAccess, m.media)
	}
	probe, err := os.CreateTemp(m.media, TempFilePrefix+"probe-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAccess, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// IsMedia reports whether a base name matches the media pattern.
func (m *Mirror) IsMedia(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return false
	}
	ok, _ := doublestar.Match(m.pattern, strings.ToLower(base))
	return ok
}

// Save writes a media file after an access check.
func (m *Mirror) Save(name string, data []byte) (string, error) {
	if err := m.Check(); err != nil {
		return "", err
	}
	target := m.MediaPath(name)
	if err := writeFileAtomic(target, data, 0644); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	m.logger.Debug("media saved locally", "path", target, "bytes", len(data))
	return target, nil
}

// Read returns a stored media file.
func (m *Mirror) Read(name string) ([]byte, error) {
	if err := m.Check(); err != nil {
		return nil, err
	}
	return os.ReadFile(m.MediaPath(name))
}

// List returns the names of the stored media files.
func (m *Mirror) List() ([]string, error) {
	if err := m.Check(); err != nil {
		return nil, err
	}
	matches, err := doublestar.Glob(os.DirFS(m.media), m.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return matches, nil
}

// MirrorState exposes internal state for observability.
type MirrorState struct {
	Root    string `json:"root"`
	Pattern string `json:"pattern"`
	Healthy bool   `json:"healthy"`
}

// State implements introspection.Introspectable.
func (m *Mirror) State() any {
	return MirrorState{Root: m.root, Pattern: m.pattern, Healthy: m.Check() == nil}
}

// ComponentType implements introspection.Component.
func (m *Mirror) ComponentType() string { return "media-mirror" }

var _ introspection.Introspectable = (*Mirror)(nil)
var _ introspection.Component = (*Mirror)(nil)
