package service

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64Image(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4E, 0x47}
	encoded := base64.StdEncoding.EncodeToString(raw)

	data, ext, err := DecodeBase64Image("data:image/png;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, ".png", ext)

	data, ext, err = DecodeBase64Image("data:image/jpeg;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, ".jpg", ext)

	// bare base64 without a data URI prefix is treated as PNG
	data, ext, err = DecodeBase64Image(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, ".png", ext)

	_, _, err = DecodeBase64Image("data:image/png;base64,!!!not-base64!!!")
	assert.Error(t, err)
}

func TestLocalImageStore(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalImageStore(dir)

	url, err := store.Save(context.Background(), "photo.png", []byte("fake-image"))
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/images/photo.png", url)

	saved, err := os.ReadFile(filepath.Join(dir, "recipes", "images", "photo.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-image"), saved)
}
