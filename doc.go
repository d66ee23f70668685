// Package keep is the composition root of a local-first notes store.
//
// Notes and labels live in a Local Store (SQLite by default) and are
// mirrored to a remote repository: every edit schedules a debounced push
// of that one record, and a bulk push/pull moves the whole collection.
//
// Features:
//
//   - **Local first**: every operation completes against the Local Store; the remote is best effort.
//   - **Incremental sync**: one JSON file per note under data/notes/, labels in data/labels.json.
//   - **Bulk transfer**: snapshot export/import in chunks, Google Keep Takeout and markdown folder conversion.
//   - **Media**: images stored under media/, optionally mirrored into a local folder that is watched for new files.
//   - **Pluggable**: the store (`core.Store`) and the remote (`remote.Repository`) are interfaces.
//
// Usage:
//
//	app, err := keep.Open(ctx, dir, keep.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//
//	n, err := app.Notes.Create(ctx, "Groceries", "milk, eggs", core.ColorYellow)
package keep
