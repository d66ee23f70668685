package transfer

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/aretw0/keep/pkg/core"
)

// Conversion is a snapshot built from a foreign export, plus the media
// files (paths inside the source fs) the notes refer to.
type Conversion struct {
	core.Snapshot
	Media   []string
	Skipped []string // source files that could not be read
}

// takeoutNote mirrors the fields of a Google Keep Takeout note file.
type takeoutNote struct {
	Title       string `json:"title"`
	TextContent string `json:"textContent"`
	ListContent []struct {
		Text      string `json:"text"`
		IsChecked bool   `json:"isChecked"`
	} `json:"listContent"`
	Attachments []struct {
		FilePath string `json:"filePath"`
		MimeType string `json:"mimetype"`
	} `json:"attachments"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Color                   string `json:"color"`
	IsPinned                bool   `json:"isPinned"`
	IsArchived              bool   `json:"isArchived"`
	IsTrashed               bool   `json:"isTrashed"`
	CreatedTimestampUsec    int64  `json:"createdTimestampUsec"`
	UserEditedTimestampUsec int64  `json:"userEditedTimestampUsec"`
}

var takeoutColors = map[string]core.Color{
	"DEFAULT":  core.ColorDefault,
	"RED":      core.ColorRed,
	"ORANGE":   core.ColorOrange,
	"YELLOW":   core.ColorYellow,
	"GREEN":    core.ColorGreen,
	"TEAL":     core.ColorTeal,
	"BLUE":     core.ColorBlue,
	"CERULEAN": core.ColorCerulean,
	"PURPLE":   core.ColorPurple,
	"PINK":     core.ColorPink,
	"BROWN":    core.ColorBrown,
	"GRAY":     core.ColorGray,
}

// labeler hands out one generated id per label name.
type labeler struct {
	ids    map[string]string
	labels []core.Label
}

func (l *labeler) id(name string) string {
	if l.ids == nil {
		l.ids = make(map[string]string)
	}
	if id, ok := l.ids[name]; ok {
		return id
	}
	id := uuid.NewString()
	l.ids[name] = id
	l.labels = append(l.labels, core.Label{ID: id, Name: name})
	return id
}

// ConvertTakeout reads every note file at the root of a Takeout "Keep"
// folder. Check lists become "[x] " / "[ ] " lines, attachments that exist
// in fsys become media image lines in front of the text. Missing
// timestamps take now.
func ConvertTakeout(fsys fs.FS, now time.Time) (*Conversion, error) {
	files, err := doublestar.Glob(fsys, "*.json")
	if err != nil {
		return nil, fmt.Errorf("scan takeout: %w", err)
	}

	conv := &Conversion{}
	var lab labeler
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			conv.Skipped = append(conv.Skipped, name)
			continue
		}
		var src takeoutNote
		if err := json.Unmarshal(data, &src); err != nil {
			conv.Skipped = append(conv.Skipped, name)
			continue
		}
		conv.Notes = append(conv.Notes, conv.takeoutNote(fsys, src, &lab, now))
	}
	conv.Labels = lab.labels
	if conv.Labels == nil {
		conv.Labels = []core.Label{}
	}
	return conv, nil
}

func (conv *Conversion) takeoutNote(fsys fs.FS, src takeoutNote, lab *labeler, now time.Time) core.Note {
	content := src.TextContent
	if len(src.ListContent) > 0 {
		lines := make([]string, 0, len(src.ListContent))
		for _, item := range src.ListContent {
			box := "[ ]"
			if item.IsChecked {
				box = "[x]"
			}
			lines = append(lines, box+" "+item.Text)
		}
		content = strings.Join(lines, "\n")
	}

	var images []string
	for _, att := range src.Attachments {
		if att.FilePath == "" {
			continue
		}
		if _, err := fs.Stat(fsys, att.FilePath); err != nil {
			continue
		}
		conv.Media = append(conv.Media, att.FilePath)
		images = append(images, "![image](media/"+path.Base(att.FilePath)+")")
	}
	if len(images) > 0 {
		content = strings.Join(images, "\n") + "\n\n" + content
	}

	labels := make([]string, 0, len(src.Labels))
	for _, l := range src.Labels {
		labels = append(labels, lab.id(l.Name))
	}

	color, ok := takeoutColors[strings.ToUpper(src.Color)]
	if !ok {
		color = core.ColorDefault
	}

	return core.Note{
		ID:        uuid.NewString(),
		Title:     src.Title,
		Content:   strings.TrimSpace(content),
		Color:     color,
		Labels:    labels,
		Pinned:    src.IsPinned,
		Archived:  src.IsArchived,
		InTrash:   src.IsTrashed,
		CreatedAt: usec(src.CreatedTimestampUsec, now),
		UpdatedAt: usec(src.UserEditedTimestampUsec, now),
	}
}

func usec(v int64, fallback time.Time) core.Timestamp {
	if v == 0 {
		return core.NewTimestamp(fallback)
	}
	return core.NewTimestamp(time.UnixMicro(v))
}
