package reposync

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/remote"
	"github.com/aretw0/keep/pkg/typed"
)

// LoadAll writes the remote state into the Local Store. The bundle document
// is tried first; without it the label document and every file under the
// notes directory are fetched one by one. Every record is stored with Put,
// so the remote wins over local copies. Remote and store failures stop the
// load; records already written stay. Undecodable note files are skipped
// and reported in Result.Failed.
//
// The caller must reload any in-memory snapshot afterwards.
func (e *Engine) LoadAll(ctx context.Context, cols typed.Collections) (*Result, error) {
	repo, err := e.conn.Repository(ctx)
	if err != nil {
		return nil, err
	}

	snap, fromBundle, err := e.fetchBundle(ctx, repo)
	if err != nil {
		return nil, err
	}
	res := &Result{Bundle: fromBundle}
	if !fromBundle {
		if snap, err = e.fetchFiles(ctx, repo, res); err != nil {
			return res, err
		}
	}

	for _, l := range snap.Labels {
		if err := core.CheckID(l.ID); err != nil {
			e.logger.Warn("skipping remote label", "error", err)
			continue
		}
		if err := cols.Labels.Put(ctx, l); err != nil {
			return res, fmt.Errorf("store label %s: %w", l.ID, err)
		}
		res.Labels++
	}
	for _, n := range snap.Notes {
		if err := core.CheckID(n.ID); err != nil {
			e.logger.Warn("skipping remote note", "error", err)
			res.Failed = append(res.Failed, n.ID)
			continue
		}
		if err := cols.Notes.Put(ctx, n.Clone()); err != nil {
			return res, fmt.Errorf("store note %s: %w", n.ID, err)
		}
		res.Notes++
	}

	e.logger.Info("load complete", "bundle", fromBundle, "labels", res.Labels, "notes", res.Notes, "skipped", len(res.Failed))
	return res, nil
}

func (e *Engine) fetchBundle(ctx context.Context, repo remote.Repository) (core.Snapshot, bool, error) {
	f, err := repo.Get(ctx, BundlePath)
	if remote.IsNotFound(err) {
		return core.Snapshot{}, false, nil
	}
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("fetch bundle: %w", err)
	}
	var snap core.Snapshot
	if err := json.Unmarshal(f.Content, &snap); err != nil {
		e.logger.Warn("bundle unreadable, falling back to per-file load", "error", err)
		return core.Snapshot{}, false, nil
	}
	return snap, true, nil
}

func (e *Engine) fetchFiles(ctx context.Context, repo remote.Repository, res *Result) (core.Snapshot, error) {
	var snap core.Snapshot

	f, err := repo.Get(ctx, LabelsPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(f.Content, &snap.Labels); err != nil {
			return snap, fmt.Errorf("%w: %s: %v", core.ErrValidation, LabelsPath, err)
		}
	case !remote.IsNotFound(err):
		return snap, fmt.Errorf("fetch labels: %w", err)
	}

	entries, err := repo.List(ctx, NotesDir)
	if remote.IsNotFound(err) {
		return snap, nil
	}
	if err != nil {
		return snap, fmt.Errorf("list notes: %w", err)
	}

	for _, entry := range entries {
		if entry.Type != "file" || !strings.HasSuffix(entry.Name, ".json") {
			continue
		}
		f, err := repo.Get(ctx, entry.Path)
		if err != nil {
			return snap, fmt.Errorf("fetch %s: %w", entry.Path, err)
		}
		var n core.Note
		if err := json.Unmarshal(f.Content, &n); err != nil || n.ID == "" {
			e.logger.Warn("skipping unreadable note file", "path", entry.Path, "error", err)
			res.Failed = append(res.Failed, strings.TrimSuffix(entry.Name, ".json"))
			continue
		}
		snap.Notes = append(snap.Notes, n)
	}
	return snap, nil
}
