package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/keep/pkg/adapters/sqlite"
)

// DirEnv names the data directory when no --dir flag is given.
const DirEnv = "KEEP_DIR"

// ErrNoRoot is returned by FindRoot when no data directory is found.
var ErrNoRoot = errors.New("root not found")

// FindRoot looks upwards from startDir for a data directory.
// Indicators are the keep.yaml config file or the keep.db database.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFile) || hasFile(dir, sqlite.DefaultFile) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w from %s", ErrNoRoot, abs)
}

// DefaultDir is the per-user data directory used when nothing else applies.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "keep"), nil
}

// ResolveDir picks the data directory: an explicit path first, then
// $KEEP_DIR, then the nearest root above the working directory, and
// finally DefaultDir.
func ResolveDir(explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit, nil
	}
	if env := strings.TrimSpace(os.Getenv(DirEnv)); env != "" {
		return env, nil
	}
	if wd, err := os.Getwd(); err == nil {
		if root, err := FindRoot(wd); err == nil {
			return root, nil
		}
	}
	return DefaultDir()
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
