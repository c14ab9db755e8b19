package storage

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	apperrors "codeberg.org/lumina/server/internal/errors"
)

// MemoryStore is an in-process store with the same observable behaviour as
// Client: foreign keys, column width and tenant filtering are all enforced.
// The server runs on it when DATABASE_URL is memory://, and tests use it in
// place of Postgres.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	nextDoc   int64
	nextChunk int64
	documents []Document
	chunks    []Chunk
}

func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{dimension: dimension}
}

func (m *MemoryStore) Close() {}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) Dimension() int {
	return m.dimension
}

func (m *MemoryStore) InitSchema(context.Context) error {
	return nil
}

func (m *MemoryStore) CreateDocument(ctx context.Context, filename, userID, taskID string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Store("create document", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextDoc++
	doc := Document{
		ID:        m.nextDoc,
		Filename:  filename,
		UserID:    userID,
		TaskID:    taskID,
		CreatedAt: time.Now().UTC(),
	}
	m.documents = append(m.documents, doc)

	return &doc, nil
}

func (m *MemoryStore) DocumentByTaskID(_ context.Context, taskID string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range slices.Backward(m.documents) {
		if doc.TaskID == taskID {
			return &doc, nil
		}
	}

	return nil, fmt.Errorf("document for task %s: %w", taskID, apperrors.ErrNotFound)
}

func (m *MemoryStore) ListDocuments(_ context.Context, userID string, limit, offset int) ([]DocumentSummary, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[int64]int)
	for _, chunk := range m.chunks {
		counts[chunk.DocumentID]++
	}

	var owned []DocumentSummary
	for _, doc := range slices.Backward(m.documents) {
		if doc.UserID == userID {
			owned = append(owned, DocumentSummary{Document: doc, Chunks: counts[doc.ID]})
		}
	}

	total := len(owned)
	page := []DocumentSummary{}

	if offset < total {
		end := min(total, offset+limit)
		page = append(page, owned[offset:end]...)
	}

	return page, total, nil
}

// Documents returns a copy of every stored document in creation order.
func (m *MemoryStore) Documents() []Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.documents)
}

func (m *MemoryStore) InsertChunks(ctx context.Context, chunks []Chunk) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Store("insert chunks", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, chunk := range chunks {
		if len(chunk.Embedding) != m.dimension {
			return apperrors.Store("insert chunks", fmt.Errorf("%w: chunk %d has %d values, column holds %d",
				apperrors.ErrDimensionMismatch, chunk.Seq, len(chunk.Embedding), m.dimension))
		}

		if !m.hasDocument(chunk.DocumentID) {
			return apperrors.Permanent("insert chunks",
				fmt.Errorf("%w: document %d does not exist", apperrors.ErrStore, chunk.DocumentID))
		}
	}

	for _, chunk := range chunks {
		m.nextChunk++
		chunk.ID = m.nextChunk
		chunk.Embedding = slices.Clone(chunk.Embedding)
		m.chunks = append(m.chunks, chunk)
	}

	return nil
}

func (m *MemoryStore) SearchChunks(ctx context.Context, embedding []float32, userID string, limit int) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Store("search chunks", err)
	}

	if len(embedding) != m.dimension {
		return nil, apperrors.Store("search chunks", fmt.Errorf("%w: query has %d values, column holds %d",
			apperrors.ErrDimensionMismatch, len(embedding), m.dimension))
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	owners := make(map[int64]Document)
	for _, doc := range m.documents {
		if doc.UserID == userID {
			owners[doc.ID] = doc
		}
	}

	var results []SearchResult

	for _, chunk := range m.chunks {
		doc, ok := owners[chunk.DocumentID]
		if !ok {
			continue
		}

		results = append(results, SearchResult{
			ChunkID:    chunk.ID,
			DocumentID: chunk.DocumentID,
			Seq:        chunk.Seq,
			Content:    chunk.Content,
			Filename:   doc.Filename,
			Distance:   l2Distance(embedding, chunk.Embedding),
		})
	}

	slices.SortStableFunc(results, func(a, b SearchResult) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func (m *MemoryStore) CountChunks(_ context.Context, documentID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, chunk := range m.chunks {
		if chunk.DocumentID == documentID {
			count++
		}
	}

	return count, nil
}

// ChunksFor returns the chunks of one document ordered by seq.
func (m *MemoryStore) ChunksFor(documentID int64) []Chunk {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Chunk
	for _, chunk := range m.chunks {
		if chunk.DocumentID == documentID {
			out = append(out, chunk)
		}
	}

	slices.SortFunc(out, func(a, b Chunk) int { return cmp.Compare(a.Seq, b.Seq) })

	return out
}

func (m *MemoryStore) hasDocument(id int64) bool {
	for _, doc := range m.documents {
		if doc.ID == id {
			return true
		}
	}

	return false
}

func l2Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}

	return math.Sqrt(sum)
}
