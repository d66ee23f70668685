package reposync

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/keep/pkg/core"
)

// MediaFromDataURL decodes a data URL ("data:image/png;base64,....") or
// bare base64 text into bytes.
func MediaFromDataURL(s string) ([]byte, error) {
	payload := s
	if _, after, ok := strings.Cut(s, ","); ok {
		payload = after
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: media is not base64: %v", core.ErrValidation, err)
	}
	return data, nil
}

// MediaName builds the stored name of an uploaded file: media_<unix millis>.<ext>.
// The extension comes from original and defaults to png.
func MediaName(original string, at time.Time) string {
	ext := strings.TrimPrefix(filepath.Ext(original), ".")
	if ext == "" {
		ext = "png"
	}
	return "media_" + strconv.FormatInt(at.UnixMilli(), 10) + "." + strings.ToLower(ext)
}

// MediaRef is the markdown that embeds a stored media file in a note.
func MediaRef(name string) string {
	return "![image](" + MediaDir + "/" + name + ")"
}
