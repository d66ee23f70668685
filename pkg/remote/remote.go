// Package remote talks to the git-hosted repository notes are mirrored to.
//
// The protocol is file based: every item lives at one path and carries a
// content hash (the blob SHA) that must be presented to replace or delete it.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aretw0/keep/pkg/core"
)

// File is the content and revision of one remote path.
type File struct {
	Path    string
	SHA     string
	Content []byte
}

// Entry is one item of a directory listing.
type Entry struct {
	Name string
	Path string
	SHA  string
	Type string // "file" or "dir"
}

// Repository is the remote file store.
//
// Get and List return core.ErrNotFound for absent paths. Write with an
// empty sha creates the file; a non-empty sha must match the current
// revision or the call fails with core.ErrRemoteConflict.
type Repository interface {
	Get(ctx context.Context, path string) (*File, error)
	Write(ctx context.Context, path string, content []byte, sha, message string) (string, error)
	Delete(ctx context.Context, path, sha, message string) error
	List(ctx context.Context, dir string) ([]Entry, error)
}

// Error is a failed remote call.
type Error struct {
	Op      string
	Path    string
	Status  int // HTTP status, 0 for transport failures
	Message string
	Err     error // transport error, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "remote %s %s", e.Op, e.Path)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": %d %s", e.Status, http.StatusText(e.Status))
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the failure class sentinel and the transport error.
func (e *Error) Unwrap() []error {
	kind := classify(e.Status)
	if e.Err != nil {
		return []error{kind, e.Err}
	}
	return []error{kind}
}

func classify(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrRemoteAuth
	case status == http.StatusNotFound:
		return core.ErrNotFound
	case status == http.StatusConflict || status == http.StatusUnprocessableEntity || status == http.StatusPreconditionFailed:
		return core.ErrRemoteConflict
	}
	return core.ErrRemoteUnavailable
}

// NormalizeRepo accepts "owner/name" or any URL containing "github.com/"
// and returns "owner/name".
func NormalizeRepo(s string) (string, error) {
	repo := strings.TrimSpace(s)
	if i := strings.Index(repo, "github.com/"); i >= 0 {
		repo = repo[i+len("github.com/"):]
	}
	repo = strings.TrimSuffix(repo, "/")
	repo = strings.TrimSuffix(repo, ".git")

	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("%w: repository must be owner/name, got %q", core.ErrValidation, s)
	}
	return repo, nil
}

// IsNotFound reports an absent remote path.
func IsNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}
