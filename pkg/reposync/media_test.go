package reposync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/remote"
	"github.com/aretw0/keep/pkg/reposync"
)

func TestMediaFromDataURL(t *testing.T) {
	data, err := reposync.MediaFromDataURL("data:image/png;base64,iVBORw==")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, data)

	data, err = reposync.MediaFromDataURL("iVBORw==")
	require.NoError(t, err)
	assert.Len(t, data, 4)

	_, err = reposync.MediaFromDataURL("data:image/png;base64,***")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestMediaName(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "media_1700000000123.jpg", reposync.MediaName("Photo.JPG", at))
	assert.Equal(t, "media_1700000000123.png", reposync.MediaName("clipboard", at))
	assert.Equal(t, "![image](media/a.png)", reposync.MediaRef("a.png"))
}

func TestPushMedia(t *testing.T) {
	repo := remote.NewMemory()
	e := newEngine(t, repo)

	p, err := e.PushMedia(context.Background(), "media_1.png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "media/media_1.png", p)

	data, ok := repo.Content("media/media_1.png")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, data)
}
