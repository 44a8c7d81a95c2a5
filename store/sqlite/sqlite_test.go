package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/researchagent/store"
)

func TestOpenMissingCollection(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(Options{Dir: dir, Collection: "missing"})

	var notFound *store.CollectionNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Name)
	assert.Equal(t, dir, notFound.Path)
}

func TestOpenUnregisteredCollection(t *testing.T) {
	dir := t.TempDir()

	// Create the database with one collection, then open another.
	created, err := OpenOrCreate(Options{Dir: dir, Collection: "docs"})
	require.NoError(t, err)
	require.NoError(t, created.Close())

	_, err = Open(Options{Dir: dir, Collection: "other"})
	var notFound *store.CollectionNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUpsertQueryRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	coll, err := OpenOrCreate(Options{Dir: dir, Collection: "docs"})
	require.NoError(t, err)
	defer coll.Close()

	err = coll.Upsert(ctx,
		[]string{"a", "b", "c"},
		[]string{"alpha document", "beta document", "gamma document"},
		[]map[string]any{{"source": "a.txt"}, {"source": "b.txt"}, nil},
	)
	require.NoError(t, err)

	count, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	result, err := coll.Query(ctx, []string{"alpha"}, 2)
	require.NoError(t, err)
	require.Len(t, result.Documents, 1)
	assert.Len(t, result.Documents[0], 2)
	assert.Len(t, result.Metadatas[0], 2)
}

func TestUpsertOverwritesExistingID(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	coll, err := OpenOrCreate(Options{Dir: dir, Collection: "docs"})
	require.NoError(t, err)
	defer coll.Close()

	require.NoError(t, coll.Upsert(ctx, []string{"a"}, []string{"original"}, nil))
	require.NoError(t, coll.Upsert(ctx, []string{"a"}, []string{"replaced"}, nil))

	count, err := coll.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := coll.Get(ctx, []string{"a"})
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "replaced", got.Documents[0])
}

func TestPersistenceAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	coll, err := OpenOrCreate(Options{Dir: dir, Collection: "docs"})
	require.NoError(t, err)
	require.NoError(t, coll.Upsert(ctx, []string{"a"}, []string{"persisted"}, []map[string]any{{"source": "a.txt"}}))
	require.NoError(t, coll.Close())

	reopened, err := Open(Options{Dir: dir, Collection: "docs"})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := reopened.Get(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"persisted"}, got.Documents)
	assert.Equal(t, "a.txt", got.Metadatas[0]["source"])
}

func TestCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := OpenOrCreate(Options{Dir: dir, Collection: "first"})
	require.NoError(t, err)
	defer first.Close()
	second, err := OpenOrCreate(Options{Dir: dir, Collection: "second"})
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, first.Upsert(ctx, []string{"a"}, []string{"in first"}, nil))

	count, err := second.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
