package registration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoto(t *testing.T) {
	photo := NewPhoto("me.png", pngHeader)
	assert.Equal(t, "me.png", photo.Filename)
	assert.Equal(t, "image/png", photo.ContentType)
	assert.Equal(t, int64(len(pngHeader)), photo.Size)

	doc := NewPhoto("cv.txt", []byte("hello world"))
	assert.NotContains(t, doc.ContentType, "image/")
}

func TestLoadPhoto(t *testing.T) {
	dir := t.TempDir()

	small := filepath.Join(dir, "small.png")
	require.NoError(t, os.WriteFile(small, pngHeader, 0o600))

	big := filepath.Join(dir, "big.png")
	data := make([]byte, MaxPhotoSize+1)
	copy(data, pngHeader)
	require.NoError(t, os.WriteFile(big, data, 0o600))

	t.Run("small", func(t *testing.T) {
		photo, err := LoadPhoto(small)
		require.NoError(t, err)
		assert.Equal(t, "small.png", photo.Filename)
		assert.Equal(t, "image/png", photo.ContentType)
		assert.Equal(t, pngHeader, photo.Data)
	})
	t.Run("too large is not read", func(t *testing.T) {
		photo, err := LoadPhoto(big)
		require.NoError(t, err)
		assert.Equal(t, int64(MaxPhotoSize+1), photo.Size)
		assert.Nil(t, photo.Data)
	})
	t.Run("missing", func(t *testing.T) {
		_, err := LoadPhoto(filepath.Join(dir, "nope.png"))
		assert.Error(t, err)
	})
	t.Run("directory", func(t *testing.T) {
		_, err := LoadPhoto(dir)
		assert.Error(t, err)
	})
}
