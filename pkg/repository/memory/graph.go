package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/memora-app/memora/pkg/domain/interfaces"
	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
)

// GraphStore is an in-memory GraphStore for development and tests. It
// mirrors the graph semantics: saves merge by ID, searches are scoped to
// one user and ordered by event date.
type GraphStore struct {
	mu       sync.RWMutex
	memories map[types.MemoryID]*model.Memory
}

var _ interfaces.GraphStore = (*GraphStore)(nil)

// NewGraphStore creates an empty in-memory graph store
func NewGraphStore() *GraphStore {
	return &GraphStore{
		memories: make(map[types.MemoryID]*model.Memory),
	}
}

func (g *GraphStore) SaveMemory(ctx context.Context, m *model.Memory) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.memories[m.ID] = m.Clone()
	return nil
}

func (g *GraphStore) SearchMemories(ctx context.Context, q interfaces.GraphQuery) ([]*model.Memory, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	tagFilter := make(map[string]bool, len(q.TagNames))
	for _, name := range q.TagNames {
		tagFilter[name] = true
	}

	var out []*model.Memory
	for _, m := range g.memories {
		if m.UserID != q.UserID {
			continue
		}
		if !q.Range.Contains(m.Date) {
			continue
		}
		if len(tagFilter) > 0 && !hasAnyTag(m, tagFilter) {
			continue
		}
		out = append(out, m.Clone())
	}

	sortByDate(out, false)
	return out, nil
}

func (g *GraphStore) Timeline(ctx context.Context, userID types.UserID, start, end time.Time) ([]*model.Memory, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r := model.DateRange{Start: &start, End: &end}
	var out []*model.Memory
	for _, m := range g.memories {
		if m.UserID != userID {
			continue
		}
		if !r.Contains(m.Date) {
			continue
		}
		out = append(out, m.Clone())
	}

	sortByDate(out, true)
	return out, nil
}

func (g *GraphStore) Close(ctx context.Context) error {
	return nil
}

// Len returns the number of stored memories
func (g *GraphStore) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.memories)
}

func hasAnyTag(m *model.Memory, names map[string]bool) bool {
	for _, t := range m.Tags {
		if names[t.Name] {
			return true
		}
	}
	return false
}

func sortByDate(memories []*model.Memory, ascending bool) {
	sort.Slice(memories, func(i, j int) bool {
		a, b := memories[i], memories[j]
		if !a.Date.Equal(b.Date) {
			if ascending {
				return a.Date.Before(b.Date)
			}
			return a.Date.After(b.Date)
		}
		return a.ID < b.ID
	})
}
