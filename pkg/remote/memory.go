package remote

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"
	"sync"
)

// Memory is an in-process Repository with the same revision rules as the
// GitHub contents API. Revisions are git blob hashes.
type Memory struct {
	mu     sync.Mutex
	files  map[string][]byte
	fail   func(op, path string) error
	writes int
	reads  int
}

// NewMemory returns an empty repository.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// BlobSHA returns the git blob hash of content.
func BlobSHA(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

// FailWith installs a hook consulted before every call. A non-nil result
// is returned instead of performing the call.
func (m *Memory) FailWith(fn func(op, path string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fn
}

// Seed stores content at p without any revision check.
func (m *Memory) Seed(p string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p] = slices.Clone(content)
}

// Paths lists every stored path, sorted.
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Content returns the stored bytes at p.
func (m *Memory) Content(p string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[p]
	return slices.Clone(data), ok
}

// Stats returns the number of successful reads and writes.
func (m *Memory) Stats() (reads, writes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads, m.writes
}

func (m *Memory) check(op, p string) error {
	if m.fail == nil {
		return nil
	}
	return m.fail(op, p)
}

func (m *Memory) Get(_ context.Context, p string) (*File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("get", p); err != nil {
		return nil, err
	}
	data, ok := m.files[p]
	if !ok {
		return nil, &Error{Op: "get", Path: p, Status: http.StatusNotFound, Message: "Not Found"}
	}
	m.reads++
	return &File{Path: p, SHA: BlobSHA(data), Content: slices.Clone(data)}, nil
}

func (m *Memory) Write(_ context.Context, p string, content []byte, sha, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("write", p); err != nil {
		return "", err
	}
	current, exists := m.files[p]
	switch {
	case exists && sha == "":
		return "", &Error{Op: "write", Path: p, Status: http.StatusUnprocessableEntity, Message: `"sha" wasn't supplied`}
	case exists && sha != BlobSHA(current):
		return "", &Error{Op: "write", Path: p, Status: http.StatusConflict, Message: fmt.Sprintf("%s does not match %s", p, sha)}
	case !exists && sha != "":
		return "", &Error{Op: "write", Path: p, Status: http.StatusConflict, Message: fmt.Sprintf("%s does not exist", p)}
	}
	m.files[p] = slices.Clone(content)
	m.writes++
	return BlobSHA(content), nil
}

func (m *Memory) Delete(_ context.Context, p, sha, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("delete", p); err != nil {
		return err
	}
	current, exists := m.files[p]
	if !exists {
		return &Error{Op: "delete", Path: p, Status: http.StatusNotFound, Message: "Not Found"}
	}
	if sha != BlobSHA(current) {
		return &Error{Op: "delete", Path: p, Status: http.StatusConflict, Message: fmt.Sprintf("%s does not match %s", p, sha)}
	}
	delete(m.files, p)
	m.writes++
	return nil
}

func (m *Memory) List(_ context.Context, dir string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("list", dir); err != nil {
		return nil, err
	}
	prefix := strings.TrimSuffix(dir, "/") + "/"
	seen := map[string]bool{}
	var out []Entry
	for p, data := range m.files {
		rest, ok := strings.CutPrefix(p, prefix)
		if !ok {
			continue
		}
		if sub, _, nested := strings.Cut(rest, "/"); nested {
			if !seen[sub] {
				seen[sub] = true
				out = append(out, Entry{Name: sub, Path: prefix + sub, Type: "dir"})
			}
			continue
		}
		out = append(out, Entry{Name: path.Base(p), Path: p, SHA: BlobSHA(data), Type: "file"})
	}
	if len(out) == 0 {
		return nil, &Error{Op: "list", Path: dir, Status: http.StatusNotFound, Message: "Not Found"}
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Path, b.Path) })
	m.reads++
	return out, nil
}

var _ Repository = (*Memory)(nil)
