package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/researchagent/store"
)

func TestRunAssignsDefaultIDs(t *testing.T) {
	ctx := context.Background()
	coll := store.NewMemoryCollection("docs", nil)

	summary, err := Run(ctx, coll, []Document{
		{Content: "first", Metadata: map[string]any{"filename": "a.txt"}},
		{Content: "second"},
		{ID: "explicit", Content: "third"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Ingested)

	got, err := coll.Get(ctx, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc_0_a.txt", "doc_1", "explicit"}, got.IDs)
}

func TestRunOverwritesExistingIDs(t *testing.T) {
	ctx := context.Background()
	coll := store.NewMemoryCollection("docs", nil)

	_, err := Run(ctx, coll, []Document{{ID: "d1", Content: "original"}})
	require.NoError(t, err)
	_, err = Run(ctx, coll, []Document{{ID: "d1", Content: "replaced"}})
	require.NoError(t, err)

	count, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "re-ingesting the same ID must not duplicate")

	got, err := coll.Get(ctx, []string{"d1"})
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "replaced", got.Documents[0])
}

func TestRunDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("plain notes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.md"), []byte("# Guide\n\nSome *markdown* text."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.bin"), []byte{0x01}, 0o644))

	ctx := context.Background()
	coll := store.NewMemoryCollection("docs", nil)

	summary, err := RunDirectory(ctx, coll, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Ingested)

	got, err := coll.Get(ctx, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc_0_guide.md", "doc_1_notes.txt"}, got.IDs)
}

func TestLoadFilePlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", doc.Content)
	assert.Equal(t, "notes.txt", doc.Metadata["source"])
	assert.Equal(t, "notes.txt", doc.Metadata["filename"])
	assert.Equal(t, ".txt", doc.Metadata["extension"])
}

func TestLoadFileMarkdownStripsFormatting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nSome **bold** text."), 0o644))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "Title")
	assert.Contains(t, doc.Content, "Some bold text.")
	assert.NotContains(t, doc.Content, "#")
	assert.NotContains(t, doc.Content, "**")
}

func TestLoadFileHTMLStripsMarkupAndScripts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	content := `<html><body><h1>Heading</h1><p>Body text.</p><script>alert("x")</script></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "Heading")
	assert.Contains(t, doc.Content, "Body text.")
	assert.NotContains(t, doc.Content, "alert")
	assert.NotContains(t, doc.Content, "<p>")
}

func TestLoadDirectoryMissing(t *testing.T) {
	_, err := LoadDirectory("/does/not/exist")
	assert.Error(t, err)
}
