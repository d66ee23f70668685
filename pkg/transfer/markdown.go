package transfer

import (
	"bufio"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/aretw0/keep/pkg/core"
)

var metaLine = regexp.MustCompile(`^- (\w+): (.*)$`)

// ConvertMarkdownDir reads a tree of <label>/<title>.md files. Every top
// level folder becomes one label. A file may start with "# " heading lines
// and "- key: value" lines for created, updated, archived and trashed;
// the rest is the note content. Files under <label>/media are reported as
// media. Dates are read as "2006-01-02 15:04:05 -0700" or, without an
// offset, in loc.
func ConvertMarkdownDir(fsys fs.FS, now time.Time, loc *time.Location) (*Conversion, error) {
	if loc == nil {
		loc = time.Local
	}
	files, err := doublestar.Glob(fsys, "*/*.md")
	if err != nil {
		return nil, fmt.Errorf("scan markdown: %w", err)
	}
	media, err := doublestar.Glob(fsys, "*/media/*")
	if err != nil {
		return nil, fmt.Errorf("scan media: %w", err)
	}

	conv := &Conversion{Media: media}
	var lab labeler
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil || !utf8.Valid(data) {
			conv.Skipped = append(conv.Skipped, name)
			continue
		}
		text := strings.TrimPrefix(string(data), "\ufeff")
		if strings.TrimSpace(text) == "" {
			continue
		}

		folder := path.Dir(name)
		n := parseMarkdownNote(text, now, loc)
		n.ID = uuid.NewString()
		n.Title = strings.TrimSuffix(path.Base(name), ".md")
		n.Labels = []string{lab.id(folder)}
		conv.Notes = append(conv.Notes, n)
	}
	conv.Labels = lab.labels
	if conv.Labels == nil {
		conv.Labels = []core.Label{}
	}
	return conv, nil
}

func parseMarkdownNote(text string, now time.Time, loc *time.Location) core.Note {
	n := core.Note{
		Color:     core.ColorDefault,
		CreatedAt: core.NewTimestamp(now),
		UpdatedAt: core.NewTimestamp(now),
	}

	var body []string
	inMeta := true
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for sc.Scan() {
		line := sc.Text()
		if !inMeta {
			body = append(body, line)
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(line, "# ") {
			continue
		}
		m := metaLine.FindStringSubmatch(trimmed)
		if m == nil {
			inMeta = false
			body = append(body, line)
			continue
		}
		switch key, val := m[1], m[2]; key {
		case "created":
			if ts, ok := parseMetaTime(val, loc); ok {
				n.CreatedAt = ts
			}
		case "updated":
			if ts, ok := parseMetaTime(val, loc); ok {
				n.UpdatedAt = ts
			}
		case "archived":
			n.Archived = strings.Contains(strings.ToLower(val), "true")
		case "trashed":
			n.InTrash = strings.Contains(strings.ToLower(val), "true")
		}
	}
	n.Content = strings.TrimSpace(strings.Join(body, "\n"))
	return n
}

func parseMetaTime(val string, loc *time.Location) (core.Timestamp, bool) {
	val = strings.TrimSpace(val)
	if t, err := time.Parse("2006-01-02 15:04:05 -0700", val); err == nil {
		return core.NewTimestamp(t), true
	}
	if before, _, ok := strings.Cut(val, " +"); ok {
		val = before
	}
	if t, err := time.ParseInLocation(time.DateTime, val, loc); err == nil {
		return core.NewTimestamp(t), true
	}
	return core.Timestamp{}, false
}
