package notes_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/keep/pkg/notes"
)

func TestMediaRefs(t *testing.T) {
	content := "intro\n\n![cat](media/media_1.png)\n\n![remote](https://example.com/x.png)\n\n![](data:image/png;base64,AAAA)\n"
	assert.Equal(t,
		[]string{"media/media_1.png", "data:image/png;base64,AAAA"},
		notes.MediaRefs(content))
}

func TestContentLength(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"plain", "hello", 5},
		{"multibyte", "안녕하세요", 5},
		{"media path", "a ![cat](media/media_1.png) b", len("a ![img] b")},
		{"inline data", "![x](data:image/png;base64," + strings.Repeat("A", 5000) + ")", len("![img]")},
		{"external image counts fully", "![x](https://e.com/i.png)", len("![x](https://e.com/i.png)")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notes.ContentLength(tt.content))
		})
	}
}

func TestParseField(t *testing.T) {
	f, err := notes.ParseField("Title")
	assert.NoError(t, err)
	assert.Equal(t, notes.FieldTitle, f)

	_, err = notes.ParseField("pinned")
	assert.Error(t, err)
}
