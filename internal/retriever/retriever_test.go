package retriever

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/lumina/server/internal/answer"
	"codeberg.org/lumina/server/internal/embedder"
	apperrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/ingestion"
	"codeberg.org/lumina/server/internal/storage"
)

const dim = 384

type fakeSearcher struct {
	results []storage.SearchResult
	err     error
	limit   int
	userID  string
}

func (f *fakeSearcher) SearchChunks(_ context.Context, _ []float32, userID string, limit int) ([]storage.SearchResult, error) {
	f.userID = userID
	f.limit = limit

	if f.err != nil {
		return nil, f.err
	}

	if len(f.results) > limit {
		return f.results[:limit], nil
	}

	return f.results, nil
}

type recordingGenerator struct {
	query   string
	context string
}

func (g *recordingGenerator) Generate(_ context.Context, query, retrieved string) (string, error) {
	g.query = query
	g.context = retrieved

	return "generated", nil
}

type slowGenerator struct{}

func (slowGenerator) Generate(ctx context.Context, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func hashing() embedder.Embedder {
	return embedder.Checked(embedder.NewHashingEmbedder(dim), 0)
}

func TestBuildContext(t *testing.T) {
	got := buildContext([]storage.SearchResult{
		{Filename: "a.txt", Content: "alpha"},
		{Filename: "b.txt", Content: "beta"},
	})

	want := "Source (a.txt): alpha\n\nSource (b.txt): beta"
	if got != want {
		t.Errorf("buildContext() = %q, want %q", got, want)
	}
}

func TestUniqueSourcesKeepsFirstSeenOrder(t *testing.T) {
	got := uniqueSources([]storage.SearchResult{
		{Filename: "b.txt"},
		{Filename: "a.txt"},
		{Filename: "b.txt"},
		{Filename: "c.txt"},
		{Filename: "a.txt"},
	})

	assert.Equal(t, []string{"b.txt", "a.txt", "c.txt"}, got)
}

func TestQueryWithoutResults(t *testing.T) {
	gen := &recordingGenerator{}
	s := NewService(hashing(), &fakeSearcher{}, gen)

	resp, err := s.Query(context.Background(), Request{Query: "anything", UserID: "nobody"})
	require.NoError(t, err)

	assert.Equal(t, NoResultsAnswer, resp.Answer)
	assert.NotNil(t, resp.Sources)
	assert.Empty(t, resp.Sources)
	assert.Empty(t, gen.query, "generator is not consulted without context")
}

func TestQueryAssemblesContextAndSources(t *testing.T) {
	searcher := &fakeSearcher{results: []storage.SearchResult{
		{Filename: "a.txt", Content: "one"},
		{Filename: "a.txt", Content: "two"},
		{Filename: "b.txt", Content: "three"},
	}}
	gen := &recordingGenerator{}
	s := NewService(hashing(), searcher, gen)

	resp, err := s.Query(context.Background(), Request{Query: "numbers", UserID: "alice"})
	require.NoError(t, err)

	assert.Equal(t, "generated", resp.Answer)
	assert.Equal(t, []string{"a.txt", "b.txt"}, resp.Sources)
	assert.Equal(t, "numbers", gen.query)
	assert.Equal(t, "Source (a.txt): one\n\nSource (a.txt): two\n\nSource (b.txt): three", gen.context)
	assert.Equal(t, "alice", searcher.userID)
	assert.Equal(t, DefaultLimit, searcher.limit)
}

func TestQueryLimit(t *testing.T) {
	searcher := &fakeSearcher{}

	s := NewService(hashing(), searcher, nil, WithLimit(5))
	_, err := s.Query(context.Background(), Request{Query: "q", UserID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 5, searcher.limit)

	_, err = s.Query(context.Background(), Request{Query: "q", UserID: "alice", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, searcher.limit)
}

func TestQuerySurfacesStoreErrors(t *testing.T) {
	s := NewService(hashing(), &fakeSearcher{err: apperrors.Store("search chunks", errors.New("conn refused"))}, nil)

	_, err := s.Query(context.Background(), Request{Query: "q", UserID: "alice"})
	assert.ErrorIs(t, err, apperrors.ErrStore)
}

func TestQueryTimeout(t *testing.T) {
	searcher := &fakeSearcher{results: []storage.SearchResult{{Filename: "a.txt", Content: "x"}}}
	s := NewService(hashing(), searcher, slowGenerator{}, WithTimeout(20*time.Millisecond))

	_, err := s.Query(context.Background(), Request{Query: "q", UserID: "alice"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func ingest(t *testing.T, p *ingestion.Pipeline, taskID, userID, name, content string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := p.Process(context.Background(), ingestion.Task{
		TaskID:       taskID,
		FilePath:     path,
		UserID:       userID,
		OriginalName: name,
	})
	require.NoError(t, err)
}

func TestIngestThenQuery(t *testing.T) {
	store := storage.NewMemoryStore(dim)
	emb := hashing()
	p := ingestion.NewPipeline(store, emb)

	ingest(t, p, "t1", "alice", "greeting.txt", strings.Repeat("hello world", 50))

	s := NewService(emb, store, answer.Passthrough{})

	resp, err := s.Query(context.Background(), Request{Query: "hello world", UserID: "alice"})
	require.NoError(t, err)

	assert.Equal(t, []string{"greeting.txt"}, resp.Sources)
	assert.Contains(t, resp.Answer, "Source (greeting.txt): hello world")
}

func TestQueryNeverCrossesTenants(t *testing.T) {
	store := storage.NewMemoryStore(dim)
	emb := hashing()
	p := ingestion.NewPipeline(store, emb)

	ingest(t, p, "t1", "alice", "alice-secret.txt", "the launch code is swordfish")
	ingest(t, p, "t2", "bob", "bob-notes.txt", "groceries: milk, eggs, bread")

	s := NewService(emb, store, nil)

	resp, err := s.Query(context.Background(), Request{Query: "what is the launch code", UserID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob-notes.txt"}, resp.Sources)
	assert.NotContains(t, resp.Answer, "swordfish")

	resp, err = s.Query(context.Background(), Request{Query: "launch code", UserID: "carol"})
	require.NoError(t, err)
	assert.Equal(t, NoResultsAnswer, resp.Answer)
	assert.Empty(t, resp.Sources)
}

func TestQueryRanksNearestChunkFirst(t *testing.T) {
	store := storage.NewMemoryStore(dim)
	emb := hashing()
	p := ingestion.NewPipeline(store, emb)

	ingest(t, p, "t1", "alice", "garden.txt", "tomatoes need full sun and regular watering")
	ingest(t, p, "t2", "alice", "database.txt", "postgres stores vectors with the pgvector extension")

	s := NewService(emb, store, nil, WithLimit(1))

	resp, err := s.Query(context.Background(), Request{Query: "pgvector postgres vectors", UserID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, []string{"database.txt"}, resp.Sources)
}
