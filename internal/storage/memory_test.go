package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "codeberg.org/lumina/server/internal/errors"
)

func TestMemoryStoreCreateDocumentAssignsIDs(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()

	a, err := s.CreateDocument(ctx, "a.txt", "alice", "t1")
	require.NoError(t, err)
	b, err := s.CreateDocument(ctx, "a.txt", "alice", "t1")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, s.Documents(), 2)

	found, err := s.DocumentByTaskID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)

	_, err = s.DocumentByTaskID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryStoreEnforcesForeignKey(t *testing.T) {
	s := NewMemoryStore(2)

	err := s.InsertChunks(context.Background(), []Chunk{{DocumentID: 42, Content: "x", Embedding: []float32{0, 1}}})
	assert.ErrorIs(t, err, apperrors.ErrStore)
	assert.True(t, apperrors.IsPermanent(err))
}

func TestMemoryStoreEnforcesDimension(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	doc, err := s.CreateDocument(ctx, "a.txt", "alice", "t1")
	require.NoError(t, err)

	err = s.InsertChunks(ctx, []Chunk{
		{DocumentID: doc.ID, Seq: 0, Content: "ok", Embedding: []float32{0, 0, 1}},
		{DocumentID: doc.ID, Seq: 1, Content: "bad", Embedding: []float32{0, 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrDimensionMismatch)
	assert.True(t, apperrors.IsPermanent(err))

	count, err := s.CountChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "batch must be all or nothing")
}

func TestMemoryStoreSearchIsTenantScopedAndOrdered(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()

	alice, _ := s.CreateDocument(ctx, "alice.txt", "alice", "t1")
	bob, _ := s.CreateDocument(ctx, "bob.txt", "bob", "t2")

	require.NoError(t, s.InsertChunks(ctx, []Chunk{
		{DocumentID: alice.ID, Seq: 0, Content: "far", Embedding: []float32{10, 10}},
		{DocumentID: alice.ID, Seq: 1, Content: "near", Embedding: []float32{1, 0}},
		{DocumentID: alice.ID, Seq: 2, Content: "middle", Embedding: []float32{3, 0}},
		{DocumentID: bob.ID, Seq: 0, Content: "bob exact", Embedding: []float32{1, 1}},
	}))

	results, err := s.SearchChunks(ctx, []float32{1, 1}, "alice", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].Content)
	assert.Equal(t, "middle", results[1].Content)
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)

	for _, r := range results {
		assert.Equal(t, "alice.txt", r.Filename)
	}

	none, err := s.SearchChunks(ctx, []float32{1, 1}, "carol", 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStoreChunksForOrdersBySeq(t *testing.T) {
	s := NewMemoryStore(1)
	ctx := context.Background()

	doc, _ := s.CreateDocument(ctx, "a.txt", "alice", "t1")
	require.NoError(t, s.InsertChunks(ctx, []Chunk{
		{DocumentID: doc.ID, Seq: 1, Content: "b", Embedding: []float32{0}},
		{DocumentID: doc.ID, Seq: 0, Content: "a", Embedding: []float32{0}},
	}))

	chunks := s.ChunksFor(doc.ID)
	require.Len(t, chunks, 2)
	assert.Equal(t, "a", chunks[0].Content)
	assert.Equal(t, "b", chunks[1].Content)
}

func TestMemoryStoreListDocumentsPages(t *testing.T) {
	s := NewMemoryStore(1)
	ctx := context.Background()

	first, _ := s.CreateDocument(ctx, "1.txt", "alice", "t1")
	_, _ = s.CreateDocument(ctx, "other.txt", "bob", "t2")
	_, _ = s.CreateDocument(ctx, "2.txt", "alice", "t3")
	_, _ = s.CreateDocument(ctx, "3.txt", "alice", "t4")

	require.NoError(t, s.InsertChunks(ctx, []Chunk{
		{DocumentID: first.ID, Seq: 0, Content: "a", Embedding: []float32{0}},
		{DocumentID: first.ID, Seq: 1, Content: "b", Embedding: []float32{0}},
	}))

	page, total, err := s.ListDocuments(ctx, "alice", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "3.txt", page[0].Filename)
	assert.Equal(t, "2.txt", page[1].Filename)

	page, _, err = s.ListDocuments(ctx, "alice", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "1.txt", page[0].Filename)
	assert.Equal(t, 2, page[0].Chunks)

	page, total, err = s.ListDocuments(ctx, "carol", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, page)
	assert.Empty(t, page)
}

func TestMemoryStoreLifecycle(t *testing.T) {
	var s Store = NewMemoryStore(4)
	ctx := context.Background()

	require.NoError(t, s.InitSchema(ctx))
	require.NoError(t, s.Ping(ctx))
	assert.Equal(t, 4, s.Dimension())
	s.Close()

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, s.Ping(cancelled))
}
