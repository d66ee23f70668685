package notes

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	// MaxContentLength is the soft cap on note content, media references excluded.
	MaxContentLength = 40000

	// WarnLength is where editors start warning about the cap.
	WarnLength = 38000

	// MediaDir is the relative folder embedded media files live in.
	MediaDir = "media/"

	mediaPlaceholder = "![img]"
)

var parser = goldmark.DefaultParser()

// mediaImage is an image node pointing at embedded or media-folder data,
// together with the length of its markdown source.
type mediaImage struct {
	dest   string
	source int
}

func isMedia(dest []byte) bool {
	return bytes.HasPrefix(dest, []byte("data:image/")) || bytes.HasPrefix(dest, []byte(MediaDir))
}

func mediaImages(content string) []mediaImage {
	src := []byte(content)
	doc := parser.Parse(text.NewReader(src))

	var out []mediaImage
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		img, ok := n.(*ast.Image)
		if !entering || !ok || !isMedia(img.Destination) {
			return ast.WalkContinue, nil
		}
		out = append(out, mediaImage{
			dest:   string(img.Destination),
			source: imageSourceLen(img, src),
		})
		return ast.WalkSkipChildren, nil
	})
	return out
}

// imageSourceLen rebuilds the ![alt](dest) length in characters.
func imageSourceLen(img *ast.Image, src []byte) int {
	var alt strings.Builder
	_ = ast.Walk(img, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			alt.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return len("![](") + utf8.RuneCountInString(alt.String()) + utf8.RuneCount(img.Destination) + len(")")
}

// MediaRefs lists the destinations of images that point at inline data or
// at the media folder, in document order.
func MediaRefs(content string) []string {
	imgs := mediaImages(content)
	refs := make([]string, 0, len(imgs))
	for _, img := range imgs {
		refs = append(refs, img.dest)
	}
	return refs
}

// ContentLength counts characters with every media image collapsed to a
// short placeholder, so inline base64 data does not eat the cap.
func ContentLength(content string) int {
	total := utf8.RuneCountInString(content)
	for _, img := range mediaImages(content) {
		total += len(mediaPlaceholder) - img.source
	}
	return max(total, 0)
}
