package coretools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halim/orin/pkg/tool"
)

func TestRegisterCoreTools(t *testing.T) {
	registry := tool.NewRegistry()
	require.NoError(t, RegisterCoreTools(registry, Options{WorkspaceRoot: t.TempDir()}))

	assert.Equal(t, []string{"file_creation", "file_read", "web_fetch"}, registry.ListNames())
}

func TestFileCreation_WritesFile(t *testing.T) {
	root := t.TempDir()
	fc := newFileCreation(Options{WorkspaceRoot: root})

	result := fc.Execute(context.Background(), map[string]any{
		"filename": "reports/summary.md",
		"content":  "hello world",
	})

	require.True(t, result.Success, "error: %s", result.Error)
	path, ok := result.Output.(string)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "reports", "summary.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	assert.Equal(t, "summary.md", result.Metadata["filename"])
	assert.Equal(t, int64(11), result.Metadata["size_bytes"])
	assert.Equal(t, "utf-8", result.Metadata["encoding"])
}

func TestFileCreation_RefusesOverwriteByDefault(t *testing.T) {
	root := t.TempDir()
	fc := newFileCreation(Options{WorkspaceRoot: root})

	first := fc.Execute(context.Background(), map[string]any{
		"filename": "a.txt", "content": "one",
	})
	require.True(t, first.Success)

	second := fc.Execute(context.Background(), map[string]any{
		"filename": "a.txt", "content": "two",
	})
	require.False(t, second.Success)
	assert.Contains(t, second.Error, "already exists")

	third := fc.Execute(context.Background(), map[string]any{
		"filename": "a.txt", "content": "two", "overwrite": true,
	})
	require.True(t, third.Success)

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestFileCreation_MissingInputs(t *testing.T) {
	fc := newFileCreation(Options{WorkspaceRoot: t.TempDir()})

	result := fc.Execute(context.Background(), map[string]any{"filename": "a.txt"})
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "content")
}

func TestFileCreation_EmptyFilename(t *testing.T) {
	fc := newFileCreation(Options{WorkspaceRoot: t.TempDir()})

	result := fc.Execute(context.Background(), map[string]any{
		"filename": "   ", "content": "x",
	})
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "'filename' must not be empty")
}

func TestFileCreation_ConfinedToWorkspace(t *testing.T) {
	fc := newFileCreation(Options{WorkspaceRoot: t.TempDir()})

	result := fc.Execute(context.Background(), map[string]any{
		"filename": "../escape.txt", "content": "x",
	})
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "escapes the workspace root")
}

func TestFileRead(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "note.txt"), []byte("contents"), 0o644))

	fr := newFileRead(Options{WorkspaceRoot: root})
	result := fr.Execute(context.Background(), map[string]any{"filename": "note.txt"})

	require.True(t, result.Success)
	assert.Equal(t, "contents", result.Output)
	assert.Equal(t, false, result.Metadata["truncated"])
}

func TestFileRead_TruncatesLargeFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.txt"), make([]byte, 64), 0o644))

	fr := newFileRead(Options{WorkspaceRoot: root, MaxReadBytes: 16})
	result := fr.Execute(context.Background(), map[string]any{"filename": "big.txt"})

	require.True(t, result.Success)
	assert.Len(t, result.Output, 16)
	assert.Equal(t, true, result.Metadata["truncated"])
}

func TestFileRead_MissingFile(t *testing.T) {
	fr := newFileRead(Options{WorkspaceRoot: t.TempDir()})

	result := fr.Execute(context.Background(), map[string]any{"filename": "nope.txt"})
	require.False(t, result.Success)
	assert.Contains(t, result.Error, "Failed to read file")
}

func TestWebFetch_RejectsBadURLs(t *testing.T) {
	wf := newWebFetch(Options{})

	for _, raw := range []string{"", "not a url", "ftp://example.com/x", "/relative"} {
		result := wf.Execute(context.Background(), map[string]any{"url": raw})
		require.False(t, result.Success, "url: %q", raw)
	}
}

func TestResolvePath(t *testing.T) {
	root := t.TempDir()

	path, err := resolvePath(root, "sub/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sub", "file.txt"), path)

	_, err = resolvePath(root, "../../outside")
	assert.Error(t, err)

	// Absolute paths inside the root are accepted.
	path, err = resolvePath(root, filepath.Join(root, "inside.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "inside.txt"), path)
}
