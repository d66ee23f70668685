package reposync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/remote"
)

// Remote layout.
const (
	NotesDir   = "data/notes"
	LabelsPath = "data/labels.json"
	BundlePath = "data/bundle.json"
	MediaDir   = "media"
)

// NotePath is the remote path of a note.
func NotePath(id string) string {
	return path.Join(NotesDir, id+".json")
}

// MediaPath is the remote path of a media file.
func MediaPath(filename string) string {
	return path.Join(MediaDir, path.Base(filename))
}

// Kind maps one family of items onto remote files.
type Kind[T any] struct {
	Path    func(T) string
	Encode  func(T) ([]byte, error)
	Message func(T) string
}

// Media is a binary file destined for the media folder.
type Media struct {
	Name string
	Data []byte
}

var (
	noteKind = Kind[core.Note]{
		Path:   func(n core.Note) string { return NotePath(n.ID) },
		Encode: func(n core.Note) ([]byte, error) { return encodeJSON(n.Clone(), true) },
		Message: func(n core.Note) string {
			if n.Title != "" {
				return "Update note: " + n.Title
			}
			return "Update note: " + n.ID
		},
	}

	labelsKind = Kind[[]core.Label]{
		Path: func([]core.Label) string { return LabelsPath },
		Encode: func(ls []core.Label) ([]byte, error) {
			if ls == nil {
				ls = []core.Label{}
			}
			return encodeJSON(ls, true)
		},
		Message: func(ls []core.Label) string { return fmt.Sprintf("Update labels (%d)", len(ls)) },
	}

	bundleKind = Kind[core.Snapshot]{
		Path:    func(core.Snapshot) string { return BundlePath },
		Encode:  func(s core.Snapshot) ([]byte, error) { return encodeJSON(s, false) },
		Message: func(s core.Snapshot) string { return fmt.Sprintf("Update bundle: %d notes", len(s.Notes)) },
	}

	mediaKind = Kind[Media]{
		Path:    func(m Media) string { return MediaPath(m.Name) },
		Encode:  func(m Media) ([]byte, error) { return m.Data, nil },
		Message: func(m Media) string { return "Upload media: " + m.Name },
	}
)

// encodeJSON writes UTF-8 JSON without HTML escaping, so markdown stays readable on the remote.
func encodeJSON(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// outcome of a single push.
type outcome int

const (
	written outcome = iota
	unchanged
)

// push runs the write protocol for one item: read the current revision,
// then write presenting it. A stale revision surfaces as
// core.ErrRemoteConflict and is not retried. Content identical to the
// remote revision is not rewritten.
func push[T any](ctx context.Context, repo remote.Repository, k Kind[T], v T) (outcome, error) {
	p := k.Path(v)
	content, err := k.Encode(v)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", p, err)
	}

	var sha string
	current, err := repo.Get(ctx, p)
	switch {
	case err == nil:
		sha = current.SHA
		if sha == remote.BlobSHA(content) {
			return unchanged, nil
		}
	case remote.IsNotFound(err):
	default:
		return 0, err
	}

	if _, err := repo.Write(ctx, p, content, sha, k.Message(v)); err != nil {
		return 0, err
	}
	return written, nil
}

// remove deletes p at its current revision. An absent path is not an error.
func remove(ctx context.Context, repo remote.Repository, p, message string) error {
	current, err := repo.Get(ctx, p)
	if remote.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return repo.Delete(ctx, p, current.SHA, message)
}
