package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenExistingAlbum(t *testing.T) {
	dir := t.TempDir()
	album, err := openExistingAlbum(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, album.Dir())

	file := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(file, []byte("jpeg"), 0644))
	_, err = openExistingAlbum(file)
	assert.Error(t, err)
}

func TestPruneRefusesMissingAlbum(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "albun")
	albumDir = missing
	t.Cleanup(func() { albumDir = "" })

	err := prune(context.Background(), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoDirExists(t, missing)
}
