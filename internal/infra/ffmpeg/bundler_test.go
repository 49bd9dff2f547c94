package ffmpeg

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleRoundTrip(t *testing.T) {
	dir := t.TempDir()

	paths := []string{
		filepath.Join(dir, "annot_frame_0001.jpg"),
		filepath.Join(dir, "results.json"),
	}
	require.NoError(t, os.WriteFile(paths[0], []byte("jpeg bytes"), 0644))
	require.NoError(t, os.WriteFile(paths[1], []byte(`{"ok":true}`), 0644))

	outputPath := filepath.Join(dir, "analysis.zip")
	b := NewBundler()
	require.NoError(t, b.Bundle(context.Background(), paths, outputPath))

	r, err := zip.OpenReader(outputPath)
	require.NoError(t, err)
	defer r.Close()

	names := map[string][]byte{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		names[f.Name] = data
	}

	// Entries are flattened to base names.
	require.Len(t, names, 2)
	assert.Equal(t, []byte("jpeg bytes"), names["annot_frame_0001.jpg"])
	assert.Equal(t, []byte(`{"ok":true}`), names["results.json"])
}

func TestBundleMissingFile(t *testing.T) {
	dir := t.TempDir()

	b := NewBundler()
	err := b.Bundle(context.Background(), []string{filepath.Join(dir, "missing.jpg")}, filepath.Join(dir, "out.zip"))
	assert.Error(t, err)
}

func TestBundleCancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBundler()
	err := b.Bundle(ctx, []string{path}, filepath.Join(dir, "out.zip"))
	assert.ErrorIs(t, err, context.Canceled)
}
