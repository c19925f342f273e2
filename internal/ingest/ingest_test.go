package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickcecere/semstore/internal/store"
	"github.com/nickcecere/semstore/internal/vector"
)

func setupPipeline(t *testing.T, opts Options) (*Pipeline, *store.SQLiteStore) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := store.NewSQLiteStore(dbPath, store.Options{Dimensions: 4})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return New(st, opts), st
}

func TestIngest(t *testing.T) {
	p, st := setupPipeline(t, Options{})
	ctx := context.Background()

	res, err := p.Ingest(ctx, []Document{
		{Content: "hello", Embedding: []float32{1, 0, 0, 0}},
		{Content: "world", Embedding: []float32{0, 1, 0, 0}},
	})
	require.NoError(t, err)
	require.Len(t, res.IDs, 2)
	assert.Zero(t, res.Skipped)

	rec, err := st.Get(ctx, res.IDs[0])
	require.NoError(t, err)
	assert.Equal(t, "hello", rec.Content)
	assert.NotEmpty(t, HashContent("hello"))
}

func TestIngestEmptyContentRejected(t *testing.T) {
	p, st := setupPipeline(t, Options{})
	ctx := context.Background()

	_, err := p.Ingest(ctx, []Document{
		{Content: "ok", Embedding: []float32{1, 0, 0, 0}},
		{Content: "", Embedding: []float32{0, 1, 0, 0}},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Index)
	assert.Equal(t, "content", verr.Field)

	// Whole batch rejected, nothing ingested
	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIngestEmptyContentAllowed(t *testing.T) {
	p, _ := setupPipeline(t, Options{AllowEmptyContent: true})

	res, err := p.Ingest(context.Background(), []Document{
		{Content: "", Embedding: []float32{1, 0, 0, 0}},
	})
	require.NoError(t, err)
	assert.Len(t, res.IDs, 1)
}

func TestIngestDimensionMismatch(t *testing.T) {
	p, st := setupPipeline(t, Options{})
	ctx := context.Background()

	// A 3-length embedding into a store expecting 4
	_, err := p.Ingest(ctx, []Document{
		{Content: "ok", Embedding: []float32{1, 0, 0, 0}},
		{Content: "short", Embedding: []float32{1, 0, 0}},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Index)
	assert.Equal(t, "embedding", verr.Field)
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)

	// Store unchanged
	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIngestDegenerateEmbedding(t *testing.T) {
	p, _ := setupPipeline(t, Options{})

	_, err := p.Ingest(context.Background(), []Document{
		{Content: "zero", Embedding: []float32{0, 0, 0, 0}},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, vector.ErrDegenerateVector)
}

func TestIngestSkipDuplicates(t *testing.T) {
	p, st := setupPipeline(t, Options{SkipDuplicates: true})
	ctx := context.Background()

	res, err := p.Ingest(ctx, []Document{
		{Content: "same", Embedding: []float32{1, 0, 0, 0}},
		{Content: "same", Embedding: []float32{1, 0, 0, 0}},
		{Content: "other", Embedding: []float32{0, 1, 0, 0}},
	})
	require.NoError(t, err)
	assert.Len(t, res.IDs, 2)
	assert.Equal(t, 1, res.Skipped)

	// Re-ingesting the same content skips everything
	res, err = p.Ingest(ctx, []Document{
		{Content: "same", Embedding: []float32{1, 0, 0, 0}},
	})
	require.NoError(t, err)
	assert.Empty(t, res.IDs)
	assert.Equal(t, 1, res.Skipped)

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIngestDuplicatesAllowedByDefault(t *testing.T) {
	p, _ := setupPipeline(t, Options{})

	res, err := p.Ingest(context.Background(), []Document{
		{Content: "same", Embedding: []float32{1, 0, 0, 0}},
		{Content: "same", Embedding: []float32{1, 0, 0, 0}},
	})
	require.NoError(t, err)
	assert.Len(t, res.IDs, 2)
	assert.Zero(t, res.Skipped)
}

func TestIngestEmptyBatch(t *testing.T) {
	p, _ := setupPipeline(t, Options{})

	res, err := p.Ingest(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.IDs)
}

func TestHashContentStable(t *testing.T) {
	h1 := HashContent("hello")
	h2 := HashContent("hello")
	h3 := HashContent("Hello")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Contains(t, h1, "xxh64:")
}
