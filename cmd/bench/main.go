package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/pager"
	"github.com/aretw0/keep/pkg/remote"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to generate")
	keepDir := flag.Bool("keep", false, "Keep the benchmark data directory after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "keep_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keepDir {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d notes...\n", *count)
	snap := generate(*count)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()
	repo := remote.NewMemory()

	app, err := keep.Open(ctx, benchDir, keep.WithLogger(logger), keep.WithRemote(repo))
	if err != nil {
		panic(err)
	}

	start := time.Now()
	res, err := app.ImportSnapshot(ctx, snap)
	if err != nil {
		panic(err)
	}
	importTime := time.Since(start)
	fmt.Printf("Import: %v (Notes: %d, Chunks: %d)\n", importTime, res.Notes, res.Chunks)

	start = time.Now()
	if _, err := app.SyncAll(ctx); err != nil {
		panic(err)
	}
	syncTime := time.Since(start)
	if err := app.Close(); err != nil {
		panic(err)
	}

	// Re-open to measure a cold load the way a new CLI run sees it.
	start = time.Now()
	app2, err := keep.Open(ctx, benchDir, keep.WithLogger(logger), keep.WithRemote(repo))
	if err != nil {
		panic(err)
	}
	defer app2.Close()
	openTime := time.Since(start)

	start = time.Now()
	v := &pager.View{}
	pinned, others := core.Select(app2.Notes.Notes(), core.Filter{View: core.ViewNotes})
	pager.New(v).Render(pinned, others)
	renderTime := time.Since(start)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes):\n", *count)
	fmt.Printf("  Import:     %v\n", importTime)
	fmt.Printf("  Sync all:   %v\n", syncTime)
	fmt.Printf("  Cold open:  %v\n", openTime)
	fmt.Printf("  First page: %v (shown %d, remaining %d)\n", renderTime, len(v.Notes), v.Remaining)
	fmt.Printf("--------------------------------------------------\n")
}

func generate(n int) core.Snapshot {
	labels := []core.Label{
		{ID: uuid.NewString(), Name: "benchmark"},
		{ID: uuid.NewString(), Name: "test"},
	}
	now := time.Now()
	notes := make([]core.Note, n)
	for i := range notes {
		ts := core.NewTimestamp(now.Add(-time.Duration(i) * time.Minute))
		notes[i] = core.Note{
			ID:        uuid.NewString(),
			Title:     fmt.Sprintf("Note %d", i),
			Content:   fmt.Sprintf("# Benchmark Note %d\nThis is a test note.", i),
			Color:     core.Palette[i%len(core.Palette)],
			Labels:    []string{labels[i%len(labels)].ID},
			Pinned:    i%50 == 0,
			CreatedAt: ts,
			UpdatedAt: ts,
		}
	}
	return core.Snapshot{Notes: notes, Labels: labels}
}
