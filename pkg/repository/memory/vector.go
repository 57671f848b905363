package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
)

// VectorIndex is an in-memory VectorIndex for development and tests.
// Similarity is cosine, matching the production index metric.
type VectorIndex struct {
	mu      sync.RWMutex
	records map[types.MemoryID]*model.VectorRecord
}

var _ interfaces.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates an empty in-memory vector index
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		records: make(map[types.MemoryID]*model.VectorRecord),
	}
}

func copyRecord(rec *model.VectorRecord, includeValues bool) model.VectorRecord {
	copied := *rec
	if includeValues && rec.Embedding != nil {
		copied.Embedding = make([]float32, len(rec.Embedding))
		copy(copied.Embedding, rec.Embedding)
	} else {
		copied.Embedding = nil
	}
	return copied
}

func (x *VectorIndex) Upsert(ctx context.Context, rec *model.VectorRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	stored := copyRecord(rec, true)
	x.records[rec.ID] = &stored
	return nil
}

func (x *VectorIndex) Query(ctx context.Context, userID types.UserID, vector []float32, topK int, includeValues bool) ([]*model.VectorMatch, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	matches := make([]*model.VectorMatch, 0)
	for _, rec := range x.records {
		if rec.UserID != userID {
			continue
		}
		matches = append(matches, &model.VectorMatch{
			Record: copyRecord(rec, includeValues),
			Score:  cosine(vector, rec.Embedding),
		})
	}

	// Descending score; ties broken by ID so results are deterministic
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Record.ID < matches[j].Record.ID
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func (x *VectorIndex) Delete(ctx context.Context, id types.MemoryID) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	delete(x.records, id)
	return nil
}

func (x *VectorIndex) Close() error {
	return nil
}

// Len returns the number of stored records
func (x *VectorIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.records)
}

func cosine(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
